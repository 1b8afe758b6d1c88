package utils

import (
	"github.com/twpayne/go-polyline"

	"github.com/piresc/ridetracker/internal/pkg/models"
)

// DecodePolyline decodes an encoded polyline (precision 1e5) into an ordered
// list of points. Empty or malformed input yields an empty slice.
func DecodePolyline(encoded string) []models.GeoPoint {
	points := []models.GeoPoint{}
	if encoded == "" {
		return points
	}

	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil || len(rest) > 0 {
		return points
	}
	for _, c := range coords {
		if len(c) != 2 {
			return []models.GeoPoint{}
		}
		points = append(points, models.GeoPoint{Latitude: c[0], Longitude: c[1]})
	}
	return points
}

// EncodePolyline is the inverse of DecodePolyline
func EncodePolyline(points []models.GeoPoint) string {
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, []float64{p.Latitude, p.Longitude})
	}
	return string(polyline.EncodeCoords(coords))
}
