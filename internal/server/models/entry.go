package models

import "time"

// Entry is one diary document owned by UserID. Timestamp is the author's
// moment in unix milliseconds; UpdatedAt is bookkeeping only.
type Entry struct {
	ID           string
	UserID       string
	Title        string
	Content      string
	Timestamp    int64
	Latitude     *float64
	Longitude    *float64
	Weather      string
	Temperature  *float64
	LocationName string
	UpdatedAt    time.Time
}
