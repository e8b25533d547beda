package geo

import "math"

// EarthRadiusKm is the mean earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometres between two
// coordinates.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// ErrorCode is a geolocation failure reported by the device.
type ErrorCode string

const (
	PermissionDenied    ErrorCode = "PERMISSION_DENIED"
	PositionUnavailable ErrorCode = "POSITION_UNAVAILABLE"
	Timeout             ErrorCode = "TIMEOUT"
)

// ErrorMessage maps a geolocation failure code to the message shown to the
// user. Each code gets a distinct message, all are recoverable by retrying.
func ErrorMessage(code ErrorCode) string {
	switch code {
	case PermissionDenied:
		return "Location permission was denied. Please allow location access and try again."
	case PositionUnavailable:
		return "We could not determine your location. Please check your connection and try again."
	case Timeout:
		return "Locating you took too long. Please try again."
	}
	return "Something went wrong while fetching your location. Please try again."
}
