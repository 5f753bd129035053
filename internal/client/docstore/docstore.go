// Package docstore holds the document-store backends behind the entry store
// adapter. Every backend keeps one collection of documents per user and
// pushes a full, ordered snapshot to its listeners after each change.
package docstore

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/mymoment/internal/client/models"
)

// Document is the stored form of a diary entry. ID is not part of the
// document body; it is the key the store assigned.
type Document struct {
	ID           string           `json:"-"`
	Title        string           `json:"title"`
	Content      string           `json:"content"`
	Timestamp    int64            `json:"timestamp"`
	Location     *models.Location `json:"location,omitempty"`
	Weather      string           `json:"weather,omitempty"`
	Temperature  *float64         `json:"temperature,omitempty"`
	LocationName string           `json:"locationName,omitempty"`
}

// Store is a per-user document collection with a live snapshot feed.
type Store interface {
	Add(ctx context.Context, userID string, doc Document) (string, error)
	// Update replaces the body of an existing document. common.ErrNotFound
	// when absent.
	Update(ctx context.Context, userID, id string, doc Document) error
	// Delete removes a document. common.ErrNotFound when absent.
	Delete(ctx context.Context, userID, id string) error
	// Listen delivers the current snapshot, then a new one after every
	// change, until the listener is removed or ctx is done.
	Listen(ctx context.Context, userID string, onSnapshot func([]Document), onError func(error)) (Listener, error)
}

type Listener interface {
	Remove()
}

// SortDocuments orders docs newest first; equal timestamps go by ID.
func SortDocuments(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Timestamp != docs[j].Timestamp {
			return docs[i].Timestamp > docs[j].Timestamp
		}
		return docs[i].ID < docs[j].ID
	})
}

// clone copies d including the values behind its pointers.
func (d Document) clone() Document {
	if d.Location != nil {
		loc := *d.Location
		d.Location = &loc
	}
	if d.Temperature != nil {
		t := *d.Temperature
		d.Temperature = &t
	}
	return d
}

func cloneDocuments(docs []Document) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = d.clone()
	}
	return out
}

// SampleDocuments converts the demo entries into documents.
func SampleDocuments(entries []models.Entry) []Document {
	docs := make([]Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, Document{
			Title:        e.Title,
			Content:      e.Content,
			Timestamp:    e.Timestamp.UnixMilli(),
			Location:     e.Location,
			Weather:      e.Weather,
			Temperature:  e.Temperature,
			LocationName: e.LocationName,
		})
	}
	return docs
}
