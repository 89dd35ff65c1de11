package domain

// LiveFix is a single ephemeral GPS reading for a ride. The live store keeps
// only the most recent one per ride (last-write-wins), so a fix is "current
// location", never a trustworthy path segment.
type LiveFix struct {
	Lat        float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng        float64 `json:"lng" validate:"gte=-180,lte=180"`
	CustomerID string  `json:"customerId" validate:"required"`
	Timestamp  int64   `json:"timestamp" validate:"gt=0"`
}
