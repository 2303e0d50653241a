package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pageza/recipe-finder/internal/view"
	"go.uber.org/zap"
)

// Searcher runs ingredient searches and feeds the results to the renderer
type Searcher struct {
	backend  Backend
	renderer *view.Renderer
	saves    *SaveToggler
	logger   *zap.Logger
}

// NewSearcher creates a Searcher
func NewSearcher(backend Backend, renderer *view.Renderer, saves *SaveToggler, logger *zap.Logger) *Searcher {
	return &Searcher{backend: backend, renderer: renderer, saves: saves, logger: logger}
}

// Search replaces the result area with the recipes matching query. A blank
// query does nothing; a failed request leaves the current results in place.
func (s *Searcher) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	recipes, err := s.backend.Search(ctx, query)
	if err != nil {
		s.logger.Error("error fetching recipes", zap.String("query", query), zap.Error(err))
		return fmt.Errorf("search %q: %w", query, err)
	}

	s.renderer.Render(query, recipes)
	s.logger.Info("search rendered", zap.String("query", query), zap.Int("results", len(recipes)))

	if err := s.saves.Refresh(ctx); err != nil {
		s.logger.Warn("saved state refresh after search failed", zap.Error(err))
	}
	return nil
}
