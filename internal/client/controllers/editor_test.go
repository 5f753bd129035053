package controllers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/client/geo"
	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/dmitrijs2005/mymoment/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSaveEvent(t *testing.T, e *EntryEditor) {
	t.Helper()
	select {
	case r := <-e.Saved():
		t.Fatalf("unexpected save event %+v", r)
	default:
	}
}

func TestEntryEditor_BlankDraftRejected(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
	}{
		{"empty", "", ""},
		{"whitespace", "  ", "\n\t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &fakeWriter{}
			e := NewEntryEditor(w, logging.NewNop())
			e.StartNew()
			e.SetTitle(tt.title)
			e.SetContent(tt.content)

			err := e.Save(context.Background())

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "empty", verr.Reason)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Equal(t, "title or content cannot be empty", e.State().Error)
			assert.False(t, e.State().IsSaving)
			assert.Zero(t, w.calls())
			noSaveEvent(t, e)
		})
	}
}

func TestEntryEditor_CreateResetsDraft(t *testing.T) {
	w := &fakeWriter{}
	e := NewEntryEditor(w, logging.NewNop())
	e.StartNew()
	e.SetTitle("Trip")

	require.NoError(t, e.Save(context.Background()))

	require.Len(t, w.creates, 1)
	assert.Equal(t, "Trip", w.creates[0].Title)
	assert.Empty(t, w.creates[0].Content)
	assert.Equal(t, models.EditorState{}, e.State())

	select {
	case r := <-e.Saved():
		assert.Equal(t, SaveResult{ID: "new-id", Created: true}, r)
	default:
		t.Fatal("no save event")
	}
	noSaveEvent(t, e)
}

func TestEntryEditor_EditUpdatesByID(t *testing.T) {
	w := &fakeWriter{}
	e := NewEntryEditor(w, logging.NewNop())
	src := models.Entry{
		ID:        "e1",
		Title:     "Old",
		Content:   "text",
		Timestamp: time.UnixMilli(100),
		Location:  &models.Location{Latitude: 1, Longitude: 2},
	}
	e.StartEdit(src)
	e.SetTitle("New")
	e.SetWeather("Cloudy", models.Float(12))
	e.SetLocationName("Park")

	require.NoError(t, e.Save(context.Background()))

	want := models.Draft{
		EditingID:    "e1",
		Title:        "New",
		Content:      "text",
		Location:     &models.Location{Latitude: 1, Longitude: 2},
		Weather:      "Cloudy",
		Temperature:  models.Float(12),
		LocationName: "Park",
	}
	if diff := cmp.Diff(want, w.updates["e1"]); diff != "" {
		t.Errorf("update mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, w.creates)
	assert.Equal(t, SaveResult{ID: "e1", Created: false}, <-e.Saved())
	assert.Equal(t, "Old", src.Title)
}

func TestEntryEditor_SaveWhileSavingIsNoop(t *testing.T) {
	w := &fakeWriter{started: make(chan struct{}), block: make(chan struct{})}
	e := NewEntryEditor(w, logging.NewNop())
	e.SetTitle("Trip")

	errc := make(chan error, 1)
	go func() { errc <- e.Save(context.Background()) }()
	<-w.started

	assert.True(t, e.State().IsSaving)
	assert.NoError(t, e.Save(context.Background()))

	close(w.block)
	require.NoError(t, <-errc)
	assert.Equal(t, 1, w.calls())
	assert.False(t, e.State().IsSaving)
}

func TestEntryEditor_FailureKeepsDraft(t *testing.T) {
	boom := errors.New("quota exceeded")
	w := &fakeWriter{err: boom}
	e := NewEntryEditor(w, logging.NewNop())
	e.SetTitle("Trip")
	e.SetContent("Beach")

	err := e.Save(context.Background())

	require.ErrorIs(t, err, boom)
	st := e.State()
	assert.Equal(t, "Trip", st.Draft.Title)
	assert.Equal(t, "Beach", st.Draft.Content)
	assert.Equal(t, "quota exceeded", st.Error)
	assert.False(t, st.IsSaving)
	noSaveEvent(t, e)

	w.err = nil
	require.NoError(t, e.Save(context.Background()))
	assert.Empty(t, e.State().Error)
}

func TestEntryEditor_NotAuthenticatedPassesThrough(t *testing.T) {
	w := &fakeWriter{err: common.ErrNotAuthenticated}
	e := NewEntryEditor(w, logging.NewNop())
	e.SetContent("hello")

	assert.ErrorIs(t, e.Save(context.Background()), common.ErrNotAuthenticated)
	assert.NotEmpty(t, e.State().Error)
}

func TestEntryEditor_Locate(t *testing.T) {
	here := &models.Location{Latitude: 32.032, Longitude: 118.821}
	tests := []struct {
		name     string
		opts     []EditorOption
		wantErr  string
		wantLoc  *models.Location
		wantName string
	}{
		{
			name:     "fix with address",
			opts:     []EditorOption{WithLocator(geo.StaticLocator{Location: here}), WithGeocoder(fakeGeocoder{addr: "Qinhuai Riverside"})},
			wantLoc:  here,
			wantName: "Qinhuai Riverside",
		},
		{
			name:    "address lookup fails",
			opts:    []EditorOption{WithLocator(geo.StaticLocator{Location: here}), WithGeocoder(fakeGeocoder{err: errors.New("quota")})},
			wantLoc: here,
		},
		{
			name:    "no fix",
			opts:    []EditorOption{WithLocator(geo.StaticLocator{})},
			wantErr: "Unable to get location",
		},
		{
			name:    "locator error",
			opts:    []EditorOption{WithLocator(geo.StaticLocator{Err: errors.New("permission denied")})},
			wantErr: "Location failed: permission denied",
		},
		{
			name:    "no locator",
			wantErr: "Unable to get location",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEntryEditor(&fakeWriter{}, logging.NewNop(), tt.opts...)
			e.SetTitle("Trip")

			err := e.Locate(context.Background())

			st := e.State()
			assert.Equal(t, tt.wantErr, st.Error)
			assert.Equal(t, tt.wantErr != "", err != nil)
			assert.Equal(t, tt.wantLoc, st.Draft.Location)
			assert.Equal(t, tt.wantName, st.Draft.LocationName)
			assert.Equal(t, "Trip", st.Draft.Title)
		})
	}
}

func TestEntryEditor_SettersDoNotTouchStore(t *testing.T) {
	w := &fakeWriter{}
	e := NewEntryEditor(w, logging.NewNop())

	var seen []models.EditorState
	cancel := e.Subscribe(func(st models.EditorState) { seen = append(seen, st) })
	defer cancel()

	e.SetTitle("a")
	e.SetLocation(&models.Location{Latitude: 5})
	e.SetLocation(nil)
	e.SetWeather("Sunny", nil)

	assert.Zero(t, w.calls())
	require.Len(t, seen, 5)
	assert.Nil(t, seen[4].Draft.Location)
	assert.Equal(t, "Sunny", seen[4].Draft.Weather)
}
