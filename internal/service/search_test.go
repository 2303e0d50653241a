package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/pageza/recipe-finder/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRendersMatchingRecipes(t *testing.T) {
	f := newFixture(t, defaultOptions())
	f.backend.AddRecipes(catalog()...)

	require.NoError(t, f.search.Search(context.Background(), "chicken"))

	assert.Equal(t, []string{"r1", "r2"}, f.reg.IDs())
	cards := f.reg.Cards()
	details := f.reg.Details()
	require.Len(t, cards, 2)
	require.Len(t, details, 2)
	for i := range cards {
		assert.Equal(t, cards[i].RecipeID, details[i].RecipeID)
		assert.False(t, cards[i].SaveControl().Saved)
	}
	assert.Equal(t, []string{"rice", "chicken breast"}, details[0].Ingredients)
	assert.Equal(t, []string{"Dairy-Free"}, details[0].HealthLabels)

	_, empty := f.reg.Empty()
	assert.False(t, empty)
}

func TestSearchWithoutResultsShowsPlaceholder(t *testing.T) {
	f := newFixture(t, defaultOptions())
	f.backend.AddRecipes(catalog()...)

	require.NoError(t, f.search.Search(context.Background(), "xyzzy"))

	assert.Zero(t, f.reg.Len())
	placeholder, ok := f.reg.Empty()
	require.True(t, ok)
	assert.Equal(t, `No results for "xyzzy"`, placeholder.Message())
}

func TestBlankSearchIsNoop(t *testing.T) {
	f := newFixture(t, defaultOptions())
	f.backend.AddRecipes(catalog()...)
	require.NoError(t, f.search.Search(context.Background(), "chicken"))
	gen := f.reg.Generation()

	require.NoError(t, f.search.Search(context.Background(), "   "))

	assert.Equal(t, 1, f.backend.TotalCalls())
	assert.Equal(t, gen, f.reg.Generation())
}

func TestSearchFailureKeepsPreviousResults(t *testing.T) {
	f := newFixture(t, defaultOptions())
	f.backend.AddRecipes(catalog()...)
	ctx := context.Background()
	require.NoError(t, f.search.Search(ctx, "chicken"))
	gen := f.reg.Generation()

	f.backend.FailNext("/search", http.StatusBadGateway)
	err := f.search.Search(ctx, "tomato")

	var statusErr *api.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
	assert.Equal(t, gen, f.reg.Generation())
	assert.Equal(t, []string{"r1", "r2"}, f.reg.IDs())
}

func TestResearchDetachesPreviousViews(t *testing.T) {
	f := newFixture(t, defaultOptions())
	f.backend.AddRecipes(catalog()...)
	ctx := context.Background()

	require.NoError(t, f.search.Search(ctx, "chicken"))
	old, ok := f.reg.Pair("r1")
	require.True(t, ok)

	require.NoError(t, f.search.Search(ctx, "tomato"))

	assert.Equal(t, []string{"r3"}, f.reg.IDs())
	assert.False(t, old.Card.Attached())
	assert.False(t, old.Detail.Attached())
	_, ok = f.reg.Pair("r1")
	assert.False(t, ok)
}

func TestSearchMarksSavedRecipesWhenLoggedIn(t *testing.T) {
	f := newFixture(t, defaultOptions())
	f.backend.AddUser("alice", "Alice", "password123")
	f.backend.AddRecipes(catalog()...)
	f.backend.SetSaved("alice", "r1")
	ctx := context.Background()
	require.NoError(t, f.auth.Login(ctx, "alice", "password123"))

	require.NoError(t, f.search.Search(ctx, "rice"))

	card, detail := savedStates(t, f.reg, "r1")
	assert.True(t, card)
	assert.True(t, detail)
	card, detail = savedStates(t, f.reg, "r2")
	assert.False(t, card)
	assert.False(t, detail)
}

func TestGotoNavigatesWithoutOpeningDetail(t *testing.T) {
	f := newFixture(t, defaultOptions())
	f.backend.AddRecipes(catalog()...)
	require.NoError(t, f.search.Search(context.Background(), "tomato"))

	pair, ok := f.reg.Pair("r3")
	require.True(t, ok)
	require.NoError(t, pair.Card.ActivateGoto())

	assert.Equal(t, []string{"https://example.com/r3"}, f.navigated)
}
