// Package preferences keeps the app-level display settings in the metadata
// repository and exposes them as an observable value.
package preferences

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/dmitrijs2005/mymoment/internal/observable"
)

const (
	keyDarkMode  = "pref:dark_mode"
	keyLargeFont = "pref:large_font"
	keyLoggedIn  = "pref:is_logged_in"
	keyCardColor = "pref:card_color"
)

type Store struct {
	repo  metadata.Repository
	state *observable.Value[models.Preferences]
}

// Open reads the stored preferences, falling back to the defaults for
// missing or unparsable keys.
func Open(ctx context.Context, repo metadata.Repository) (*Store, error) {
	all, err := repo.List(ctx, "pref:")
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	p := models.DefaultPreferences()
	p.DarkMode = parseBool(all[keyDarkMode], p.DarkMode)
	p.LargeFont = parseBool(all[keyLargeFont], p.LargeFont)
	p.LoggedIn = parseBool(all[keyLoggedIn], p.LoggedIn)
	if raw, ok := all[keyCardColor]; ok {
		if c, err := strconv.ParseUint(string(raw), 10, 32); err == nil && models.IsPaletteColor(uint32(c)) {
			p.CardColor = uint32(c)
		}
	}

	return &Store{repo: repo, state: observable.NewValue(p)}, nil
}

func parseBool(raw []byte, fallback bool) bool {
	if raw == nil {
		return fallback
	}
	v, err := strconv.ParseBool(string(raw))
	if err != nil {
		return fallback
	}
	return v
}

func (s *Store) Get() models.Preferences {
	return s.state.Get()
}

func (s *Store) Subscribe(fn func(models.Preferences)) func() {
	return s.state.Subscribe(fn)
}

// put persists one key and, only when that succeeded, publishes the change.
func (s *Store) put(ctx context.Context, key, value string, apply func(*models.Preferences)) error {
	if err := s.repo.Set(ctx, key, []byte(value)); err != nil {
		return err
	}
	s.state.Update(func(p models.Preferences) models.Preferences {
		apply(&p)
		return p
	})
	return nil
}

func (s *Store) SetDarkMode(ctx context.Context, on bool) error {
	return s.put(ctx, keyDarkMode, strconv.FormatBool(on), func(p *models.Preferences) { p.DarkMode = on })
}

func (s *Store) SetLargeFont(ctx context.Context, on bool) error {
	return s.put(ctx, keyLargeFont, strconv.FormatBool(on), func(p *models.Preferences) { p.LargeFont = on })
}

func (s *Store) SetLoggedIn(ctx context.Context, on bool) error {
	return s.put(ctx, keyLoggedIn, strconv.FormatBool(on), func(p *models.Preferences) { p.LoggedIn = on })
}

// SetCardColor accepts palette colors only.
func (s *Store) SetCardColor(ctx context.Context, color uint32) error {
	if !models.IsPaletteColor(color) {
		return fmt.Errorf("%w: card color %#08x is not in the palette", common.ErrValidation, color)
	}
	return s.put(ctx, keyCardColor, strconv.FormatUint(uint64(color), 10), func(p *models.Preferences) { p.CardColor = color })
}
