package models

import "strings"

// Draft is the editable, not yet saved form of an entry. An empty EditingID
// means the draft creates a new entry.
type Draft struct {
	EditingID    string
	Title        string
	Content      string
	Location     *Location
	Weather      string
	Temperature  *float64
	LocationName string
}

// IsBlank is true when neither title nor content has visible text.
func (d Draft) IsBlank() bool {
	return strings.TrimSpace(d.Title) == "" && strings.TrimSpace(d.Content) == ""
}

// DraftFromEntry seeds a draft for editing e.
func DraftFromEntry(e Entry) Draft {
	d := Draft{
		EditingID:    e.ID,
		Title:        e.Title,
		Content:      e.Content,
		Weather:      e.Weather,
		LocationName: e.LocationName,
	}
	if e.Location != nil {
		loc := *e.Location
		d.Location = &loc
	}
	if e.Temperature != nil {
		d.Temperature = Float(*e.Temperature)
	}
	return d
}

// EditorState is what the entry editor exposes to the presentation layer.
type EditorState struct {
	Draft    Draft
	IsSaving bool
	Error    string
}

// ListState is what the entry list exposes. Visible is derived from All and
// Query.
type ListState struct {
	All       []Entry
	Visible   []Entry
	Query     string
	Error     string
	Observing bool
}
