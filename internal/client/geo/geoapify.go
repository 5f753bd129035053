package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/logging"
	"github.com/dmitrijs2005/mymoment/internal/netx"
	"github.com/patrickmn/go-cache"
)

const (
	DefaultGeoapifyURL = "https://api.geoapify.com/v1/geocode/reverse"

	cacheTTL     = 24 * time.Hour
	cacheCleanup = time.Hour
)

type geoapifyResponse struct {
	Features []struct {
		Properties struct {
			Formatted string `json:"formatted"`
		} `json:"properties"`
	} `json:"features"`
}

// Geoapify is a reverse geocoder over the Geoapify HTTP API. Addresses are
// cached per coordinate rounded to four decimals.
type Geoapify struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cache   *cache.Cache
	logger  logging.Logger
}

type GeoapifyOption func(*Geoapify)

func WithBaseURL(u string) GeoapifyOption {
	return func(g *Geoapify) { g.baseURL = u }
}

func WithHTTPClient(c *http.Client) GeoapifyOption {
	return func(g *Geoapify) { g.client = c }
}

func NewGeoapify(apiKey string, logger logging.Logger, opts ...GeoapifyOption) *Geoapify {
	g := &Geoapify{
		baseURL: DefaultGeoapifyURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   cache.New(cacheTTL, cacheCleanup),
		logger:  logger.With("module", "geoapify"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func cacheKey(loc models.Location) string {
	return strconv.FormatFloat(loc.Latitude, 'f', 4, 64) + "," + strconv.FormatFloat(loc.Longitude, 'f', 4, 64)
}

func (g *Geoapify) ReverseGeocode(ctx context.Context, loc models.Location) (string, error) {
	key := cacheKey(loc)
	if v, ok := g.cache.Get(key); ok {
		return v.(string), nil
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	q.Set("apiKey", g.apiKey)

	var resp geoapifyResponse
	if err := netx.GetJSON(ctx, g.client, g.baseURL+"?"+q.Encode(), &resp); err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	if len(resp.Features) == 0 || resp.Features[0].Properties.Formatted == "" {
		return "", fmt.Errorf("reverse geocode %s: %w", key, ErrNoFix)
	}

	addr := resp.Features[0].Properties.Formatted
	g.cache.SetDefault(key, addr)
	g.logger.Debug(ctx, "address resolved", "coord", key)
	return addr, nil
}
