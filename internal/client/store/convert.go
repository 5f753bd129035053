package store

import (
	"time"

	"github.com/dmitrijs2005/mymoment/internal/client/docstore"
	"github.com/dmitrijs2005/mymoment/internal/client/models"
)

func toDocument(d models.Draft, ts time.Time) docstore.Document {
	doc := docstore.Document{
		Title:        d.Title,
		Content:      d.Content,
		Timestamp:    ts.UnixMilli(),
		Weather:      d.Weather,
		LocationName: d.LocationName,
	}
	if d.Location != nil {
		loc := *d.Location
		doc.Location = &loc
	}
	if d.Temperature != nil {
		doc.Temperature = models.Float(*d.Temperature)
	}
	return doc
}

func toEntry(doc docstore.Document) models.Entry {
	return models.Entry{
		ID:           doc.ID,
		Title:        doc.Title,
		Content:      doc.Content,
		Timestamp:    time.UnixMilli(doc.Timestamp),
		Location:     doc.Location,
		Weather:      doc.Weather,
		Temperature:  doc.Temperature,
		LocationName: doc.LocationName,
	}
}
