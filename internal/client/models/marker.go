package models

// Marker is a map pin for an entry with a location.
type Marker struct {
	EntryID  string
	Title    string
	Location Location
}

// MarkersFor returns one marker per entry that has coordinates.
func MarkersFor(entries []Entry) []Marker {
	markers := make([]Marker, 0, len(entries))
	for _, e := range entries {
		if e.Location == nil {
			continue
		}
		markers = append(markers, Marker{EntryID: e.ID, Title: e.Title, Location: *e.Location})
	}
	return markers
}
