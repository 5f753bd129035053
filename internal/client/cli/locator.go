package cli

import (
	"bufio"
	"context"
	"io"

	"github.com/dmitrijs2005/mymoment/internal/client/geo"
	"github.com/dmitrijs2005/mymoment/internal/client/models"
)

// promptLocator asks the user for the coordinate a terminal cannot sense.
type promptLocator struct {
	reader *bufio.Reader
	out    io.Writer
}

func (p promptLocator) Locate(ctx context.Context) (models.Location, error) {
	if err := ctx.Err(); err != nil {
		return models.Location{}, err
	}
	s, err := getSimpleText(p.reader, "Location as lat,lon (empty to skip)", p.out)
	if err != nil {
		return models.Location{}, err
	}
	if s == "" {
		return models.Location{}, geo.ErrNoFix
	}
	return parseLocation(s)
}
