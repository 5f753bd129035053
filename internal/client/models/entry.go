// Package models defines the diary types shared by the client packages.
package models

import (
	"strings"
	"time"
)

// Location is a WGS84 coordinate pair.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Entry is one persisted diary entry. ID is assigned by the store and
// never changed by the client.
type Entry struct {
	ID           string
	Title        string
	Content      string
	Timestamp    time.Time
	Location     *Location
	Weather      string
	Temperature  *float64
	LocationName string
}

func (e Entry) HasLocation() bool {
	return e.Location != nil
}

// Matches reports whether the entry passes the search filter. A blank query
// matches everything; otherwise the trimmed query must be a case-insensitive
// substring of the title or the content.
func (e Entry) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Content), q)
}

// FilterEntries returns the entries matching query, keeping their order.
// A blank query returns entries unchanged.
func FilterEntries(entries []Entry, query string) []Entry {
	if strings.TrimSpace(query) == "" {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Matches(query) {
			out = append(out, e)
		}
	}
	return out
}

// Float returns a pointer to f, handy for Temperature literals.
func Float(f float64) *float64 {
	return &f
}

// SampleEntries are the demo entries a fresh in-memory store is seeded with.
func SampleEntries(now time.Time) []Entry {
	return []Entry{
		{
			Title:        "Sunset Walk",
			Content:      "Walked along the river while the sun went down.",
			Timestamp:    now.Add(-2 * time.Hour),
			Location:     &Location{Latitude: 32.032, Longitude: 118.821},
			Weather:      "Sunny",
			Temperature:  Float(24),
			LocationName: "Qinhuai Riverside",
		},
		{
			Title:        "Rainy Cafe",
			Content:      "Hid from the rain with a book and a latte.",
			Timestamp:    now.Add(-26 * time.Hour),
			Weather:      "Rainy",
			Temperature:  Float(18),
			LocationName: "Local Coffee Shop",
		},
	}
}
