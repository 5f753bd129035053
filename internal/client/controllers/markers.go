package controllers

import (
	"slices"

	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/observable"
)

// MapView keeps map markers in step with an entry list.
type MapView struct {
	markers *observable.Value[[]models.Marker]
	cancel  func()
}

func NewMapView(list *EntryList) *MapView {
	m := &MapView{markers: observable.NewValue([]models.Marker{})}
	m.cancel = list.Subscribe(func(st models.ListState) {
		next := models.MarkersFor(st.All)
		m.markers.Change(func(cur []models.Marker) ([]models.Marker, bool) {
			return next, !slices.Equal(cur, next)
		})
	})
	return m
}

func (m *MapView) Markers() []models.Marker {
	return m.markers.Get()
}

func (m *MapView) Subscribe(fn func([]models.Marker)) func() {
	return m.markers.Subscribe(fn)
}

func (m *MapView) Close() {
	m.cancel()
}
