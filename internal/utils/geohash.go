package utils

import (
	"math"

	"github.com/mmcloughlin/geohash"
	"github.com/piresc/ridetracker/internal/pkg/models"
)

// CounterpartCellPrecision is the geohash length used for the counterpart's cell (~150m)
const CounterpartCellPrecision uint = 7

// EncodeLocation converts a location to a geohash string
func EncodeLocation(location models.Location, precision uint) string {
	return geohash.EncodeWithPrecision(location.Latitude, location.Longitude, precision)
}

// CalculateDistance calculates the distance between two points in kilometers using the Haversine formula
func CalculateDistance(point1, point2 models.GeoPoint) float64 {
	const earthRadius = 6371.0

	lat1 := point1.Latitude * math.Pi / 180.0
	lon1 := point1.Longitude * math.Pi / 180.0
	lat2 := point2.Latitude * math.Pi / 180.0
	lon2 := point2.Longitude * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// RouteLength sums the haversine length of a decoded route in kilometers
func RouteLength(route []models.GeoPoint) float64 {
	var total float64
	for i := 1; i < len(route); i++ {
		total += CalculateDistance(route[i-1], route[i])
	}
	return total
}
