package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mymoment/internal/client/geo"
	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/dmitrijs2005/mymoment/internal/logging"
	"github.com/dmitrijs2005/mymoment/internal/observable"
)

const (
	msgEmptyDraft  = "title or content cannot be empty"
	msgNoLocation  = "Unable to get location"
	msgLocationErr = "Location failed: %v"
)

// Writer is the part of the entry store the editor saves through.
type Writer interface {
	Create(ctx context.Context, d models.Draft) (string, error)
	Update(ctx context.Context, id string, d models.Draft) error
}

// ValidationError rejects a draft before it reaches the store.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "empty" {
		return msgEmptyDraft
	}
	return "invalid draft: " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return common.ErrValidation
}

// SaveResult is emitted once per successful save.
type SaveResult struct {
	ID      string
	Created bool
}

type EditorOption func(*EntryEditor)

func WithLocator(l geo.Locator) EditorOption {
	return func(e *EntryEditor) { e.locator = l }
}

func WithGeocoder(g geo.Geocoder) EditorOption {
	return func(e *EntryEditor) { e.geocoder = g }
}

type EntryEditor struct {
	store    Writer
	locator  geo.Locator
	geocoder geo.Geocoder
	logger   logging.Logger
	state    *observable.Value[models.EditorState]
	saved    *observable.Event[SaveResult]

	// mu makes read-check-write on state atomic
	mu sync.Mutex
}

func NewEntryEditor(w Writer, logger logging.Logger, opts ...EditorOption) *EntryEditor {
	e := &EntryEditor{
		store:  w,
		logger: logger.With("module", "entry_editor"),
		state:  observable.NewValue(models.EditorState{}),
		saved:  observable.NewEvent[SaveResult](8),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *EntryEditor) update(fn func(*models.EditorState)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Update(func(st models.EditorState) models.EditorState {
		fn(&st)
		return st
	})
}

// StartNew begins a blank draft.
func (e *EntryEditor) StartNew() {
	e.update(func(st *models.EditorState) {
		st.Draft = models.Draft{}
		st.Error = ""
	})
}

// StartEdit seeds the draft from an existing entry.
func (e *EntryEditor) StartEdit(entry models.Entry) {
	e.update(func(st *models.EditorState) {
		st.Draft = models.DraftFromEntry(entry)
		st.Error = ""
	})
}

func (e *EntryEditor) SetTitle(s string) {
	e.update(func(st *models.EditorState) { st.Draft.Title = s })
}

func (e *EntryEditor) SetContent(s string) {
	e.update(func(st *models.EditorState) { st.Draft.Content = s })
}

// SetLocation tags the draft with loc; nil removes the tag.
func (e *EntryEditor) SetLocation(loc *models.Location) {
	e.update(func(st *models.EditorState) {
		if loc == nil {
			st.Draft.Location = nil
			return
		}
		l := *loc
		st.Draft.Location = &l
	})
}

func (e *EntryEditor) SetLocationName(name string) {
	e.update(func(st *models.EditorState) { st.Draft.LocationName = name })
}

func (e *EntryEditor) SetWeather(weather string, temperature *float64) {
	e.update(func(st *models.EditorState) {
		st.Draft.Weather = weather
		st.Draft.Temperature = nil
		if temperature != nil {
			st.Draft.Temperature = models.Float(*temperature)
		}
	})
}

// begin moves the editor into the saving state and returns the draft to
// save. ok is false when a save is already running.
func (e *EntryEditor) begin() (models.Draft, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state.Get()
	if st.IsSaving {
		return models.Draft{}, false, nil
	}
	if st.Draft.IsBlank() {
		verr := &ValidationError{Reason: "empty"}
		e.state.Update(func(st models.EditorState) models.EditorState {
			st.Error = verr.Error()
			return st
		})
		return models.Draft{}, false, verr
	}
	e.state.Update(func(st models.EditorState) models.EditorState {
		st.IsSaving = true
		st.Error = ""
		return st
	})
	return st.Draft, true, nil
}

// Save writes the draft: a create when it has no EditingID, an update
// otherwise. Calling Save while a save is running does nothing.
func (e *EntryEditor) Save(ctx context.Context) error {
	draft, ok, err := e.begin()
	if !ok {
		return err
	}

	res := SaveResult{ID: draft.EditingID, Created: draft.EditingID == ""}
	if res.Created {
		res.ID, err = e.store.Create(ctx, draft)
	} else {
		err = e.store.Update(ctx, draft.EditingID, draft)
	}

	if err != nil {
		e.logger.Warn(ctx, "save failed", "editing_id", draft.EditingID, "error", err)
		e.update(func(st *models.EditorState) {
			st.IsSaving = false
			st.Error = err.Error()
		})
		return err
	}

	e.update(func(st *models.EditorState) {
		*st = models.EditorState{}
	})
	if !e.saved.Emit(res) {
		e.logger.Warn(ctx, "saved event dropped", "id", res.ID)
	}
	e.logger.Debug(ctx, "entry saved", "id", res.ID, "created", res.Created)
	return nil
}

// Locate fills the draft's location from the locator and, when a geocoder
// is set, its location name. A failed address lookup keeps the coordinate.
func (e *EntryEditor) Locate(ctx context.Context) error {
	if e.locator == nil {
		e.update(func(st *models.EditorState) { st.Error = msgNoLocation })
		return geo.ErrNoFix
	}

	loc, err := e.locator.Locate(ctx)
	if err != nil {
		msg := fmt.Sprintf(msgLocationErr, err)
		if errors.Is(err, geo.ErrNoFix) {
			msg = msgNoLocation
		}
		e.update(func(st *models.EditorState) { st.Error = msg })
		return err
	}

	name := ""
	if e.geocoder != nil {
		name, err = e.geocoder.ReverseGeocode(ctx, loc)
		if err != nil {
			e.logger.Warn(ctx, "reverse geocode failed", "error", err)
			name = ""
		}
	}

	e.update(func(st *models.EditorState) {
		st.Draft.Location = &loc
		if name != "" {
			st.Draft.LocationName = name
		}
		st.Error = ""
	})
	return nil
}

func (e *EntryEditor) State() models.EditorState {
	return e.state.Get()
}

func (e *EntryEditor) Subscribe(fn func(models.EditorState)) func() {
	return e.state.Subscribe(fn)
}

// Saved delivers one SaveResult per successful save.
func (e *EntryEditor) Saved() <-chan SaveResult {
	return e.saved.C()
}
