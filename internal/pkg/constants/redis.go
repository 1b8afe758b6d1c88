package constants

// Redis key formats
const (
	KeyActiveRide = "ridetracker:active:%s" // Format: ridetracker:active:{user_id}
)

// Redis hash fields of the active ride pointer
const (
	FieldRideID    = "ride_id"
	FieldRole      = "role"
	FieldStatus    = "status"
	FieldUpdatedAt = "updated_at"
)
