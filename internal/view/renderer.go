package view

import (
	"github.com/google/uuid"
	"github.com/pageza/recipe-finder/internal/click"
	"github.com/pageza/recipe-finder/internal/types"
	"go.uber.org/zap"
)

// Renderer builds card/detail pairs from search results into a Registry
type Renderer struct {
	reg      *Registry
	handlers Handlers
	clickOps []click.Option
	logger   *zap.Logger
}

// NewRenderer creates a renderer writing into reg. clickOpts configure the
// disambiguator bound to every card.
func NewRenderer(reg *Registry, handlers Handlers, logger *zap.Logger, clickOpts ...click.Option) *Renderer {
	return &Renderer{
		reg:      reg,
		handlers: handlers,
		clickOps: clickOpts,
		logger:   logger,
	}
}

// Render replaces the whole result area with recipes. An empty slice renders
// the empty-state placeholder for query. Every pair from the previous render
// is detached, along with the handlers bound to it.
func (r *Renderer) Render(query string, recipes []types.Recipe) uuid.UUID {
	gen := uuid.New()

	if len(recipes) == 0 {
		r.reg.replace(gen, nil, map[string]*Pair{}, &EmptyState{Query: query})
		r.logger.Debug("rendered empty state", zap.String("query", query))
		return gen
	}

	order := make([]string, 0, len(recipes))
	pairs := make(map[string]*Pair, len(recipes))
	for _, rec := range recipes {
		if _, dup := pairs[rec.ID]; dup {
			r.logger.Warn("dropping duplicate recipe id", zap.String("recipe_id", rec.ID))
			continue
		}
		pairs[rec.ID] = r.build(gen, rec)
		order = append(order, rec.ID)
	}

	r.reg.replace(gen, order, pairs, nil)
	r.logger.Debug("rendered results",
		zap.String("query", query),
		zap.Int("count", len(order)),
		zap.String("generation", gen.String()),
	)
	return gen
}

func (r *Renderer) build(gen uuid.UUID, rec types.Recipe) *Pair {
	p := &Pair{reg: r.reg, generation: gen}

	id := rec.ID
	openDetail := func() {
		if r.handlers.OpenDetail != nil {
			r.handlers.OpenDetail(id)
		}
	}

	p.Card = &Card{
		RecipeID: rec.ID,
		Label:    rec.Label,
		ImageURL: rec.ImageURL,
		Summary:  rec.IngredientLines.String(),
		URL:      rec.URL,
		pair:     p,
		clicks:   click.New(openDetail, r.clickOps...),
		handler:  r.handlers,
	}

	p.Detail = &Detail{
		RecipeID:     rec.ID,
		Label:        rec.Label,
		ImageURL:     rec.ImageURL,
		CuisineType:  rec.CuisineType.String(),
		MealType:     rec.MealType.String(),
		Calories:     rec.Calories,
		Ingredients:  append([]string(nil), rec.Ingredients...),
		HealthLabels: append([]string(nil), rec.HealthLabels...),
		URL:          rec.URL,
		pair:         p,
		handler:      r.handlers,
	}
	return p
}
