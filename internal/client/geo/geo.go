// Package geo provides the single-shot location fix and reverse geocoding
// used by the entry editor.
package geo

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mymoment/internal/client/models"
)

// ErrNoFix means the locator ran but has no position to report.
var ErrNoFix = errors.New("no location fix")

// Locator returns the device's current position.
type Locator interface {
	Locate(ctx context.Context) (models.Location, error)
}

// Geocoder turns a coordinate into a human readable address.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, loc models.Location) (string, error)
}

// StaticLocator reports a fixed position. A nil Location yields ErrNoFix.
type StaticLocator struct {
	Location *models.Location
	Err      error
}

func (s StaticLocator) Locate(ctx context.Context) (models.Location, error) {
	if err := ctx.Err(); err != nil {
		return models.Location{}, err
	}
	if s.Err != nil {
		return models.Location{}, s.Err
	}
	if s.Location == nil {
		return models.Location{}, ErrNoFix
	}
	return *s.Location, nil
}
