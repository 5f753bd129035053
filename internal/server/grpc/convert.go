package grpc

import (
	"github.com/dmitrijs2005/mymoment/internal/rpc"
	"github.com/dmitrijs2005/mymoment/internal/server/models"
)

func fromWire(id string, e rpc.Entry) *models.Entry {
	m := &models.Entry{
		ID:           id,
		Title:        e.Title,
		Content:      e.Content,
		Timestamp:    e.Timestamp,
		Weather:      e.Weather,
		LocationName: e.LocationName,
	}
	if e.Temperature != nil {
		t := *e.Temperature
		m.Temperature = &t
	}
	if e.Location != nil {
		lat, lon := e.Location.Latitude, e.Location.Longitude
		m.Latitude, m.Longitude = &lat, &lon
	}
	return m
}

func toWire(m *models.Entry) rpc.Entry {
	e := rpc.Entry{
		ID:           m.ID,
		Title:        m.Title,
		Content:      m.Content,
		Timestamp:    m.Timestamp,
		Weather:      m.Weather,
		Temperature:  m.Temperature,
		LocationName: m.LocationName,
	}
	if m.Latitude != nil && m.Longitude != nil {
		e.Location = &rpc.Location{Latitude: *m.Latitude, Longitude: *m.Longitude}
	}
	return e
}

func toSnapshot(list []*models.Entry) *rpc.EntriesSnapshot {
	snap := &rpc.EntriesSnapshot{Entries: make([]rpc.Entry, 0, len(list))}
	for _, m := range list {
		snap.Entries = append(snap.Entries, toWire(m))
	}
	return snap
}
