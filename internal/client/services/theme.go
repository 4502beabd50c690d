package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/docshelf/internal/client/models"
	"github.com/dmitrijs2005/docshelf/internal/client/storage"
	"github.com/dmitrijs2005/docshelf/internal/common"
	"github.com/dmitrijs2005/docshelf/internal/logging"
)

// ThemeService holds the colour scheme preference.
type ThemeService interface {
	Load(ctx context.Context) models.Theme
	Toggle(ctx context.Context) models.Theme
	Current() models.Theme
}

type themeService struct {
	store  storage.Store
	logger logging.Logger

	mu    sync.Mutex
	theme models.Theme
}

func NewThemeService(store storage.Store, logger logging.Logger) ThemeService {
	return &themeService{
		store:  store,
		logger: logger.With("component", "theme"),
		theme:  models.ThemeLight,
	}
}

// Load reads the stored theme. Unknown or unreadable values leave the light
// theme in place.
func (s *themeService) Load(ctx context.Context) models.Theme {
	v, ok, err := s.store.Get(ctx, common.ThemeKey)
	if err != nil {
		s.logger.Warn(ctx, "read theme", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t := models.Theme(v); ok && t.Valid() {
		s.theme = t
	}
	return s.theme
}

// Toggle switches the theme in memory, then persists it best effort.
func (s *themeService) Toggle(ctx context.Context) models.Theme {
	s.mu.Lock()
	s.theme = s.theme.Toggle()
	t := s.theme
	s.mu.Unlock()

	if err := s.store.Set(ctx, common.ThemeKey, string(t)); err != nil {
		s.logger.Error(ctx, "persist theme", "error", err)
	}
	return t
}

func (s *themeService) Current() models.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}
