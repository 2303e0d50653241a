package service_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pageza/recipe-finder/internal/api"
	"github.com/pageza/recipe-finder/internal/service"
	"github.com/pageza/recipe-finder/internal/session"
	"github.com/pageza/recipe-finder/internal/testhelpers"
	"github.com/pageza/recipe-finder/internal/types"
	"github.com/pageza/recipe-finder/internal/view"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSurface remembers the last value pushed to every hook
type fakeSurface struct {
	mu sync.Mutex

	loginPresented int
	identity       string
	loggedIn       bool
	messages       map[service.Form]string
	dismissed      map[service.Form]int
	resets         map[service.Form]int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		messages:  make(map[service.Form]string),
		dismissed: make(map[service.Form]int),
		resets:    make(map[service.Form]int),
	}
}

func (f *fakeSurface) PresentLogin() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginPresented++
}

func (f *fakeSurface) DismissForm(form service.Form) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dismissed[form]++
}

func (f *fakeSurface) ResetForm(form service.Form) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets[form]++
}

func (f *fakeSurface) ShowFormMessage(form service.Form, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[form] = message
}

func (f *fakeSurface) SetIdentity(firstName string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identity = firstName
}

func (f *fakeSurface) SetAccountRegion(loggedIn bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn = loggedIn
}

func (f *fakeSurface) message(form service.Form) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[form]
}

type fixture struct {
	backend     *testhelpers.Backend
	client      *api.Client
	sessionPath string
	sess        *session.Session
	reg         *view.Registry
	renderer    *view.Renderer
	surface     *fakeSurface
	saves       *service.SaveToggler
	auth        *service.AuthFlow
	search      *service.Searcher
	navigated   []string
}

// newFixture wires every controller against the fake backend
func newFixture(t *testing.T, opts service.SaveOptions) *fixture {
	t.Helper()

	f := &fixture{
		backend:     testhelpers.NewBackend(t),
		sessionPath: filepath.Join(t.TempDir(), "session.yaml"),
		reg:         view.NewRegistry(),
		surface:     newFakeSurface(),
	}

	sess, err := session.Open(context.Background(), session.NewFileStore(f.sessionPath))
	require.NoError(t, err)
	f.sess = sess

	logger := zap.NewNop()
	client := api.NewClient(f.backend.URL(), 5*time.Second, logger)
	f.client = client

	f.saves = service.NewSaveToggler(sess, f.reg, client, f.surface, logger, opts)
	f.renderer = view.NewRenderer(f.reg, view.Handlers{
		OpenDetail: func(string) {},
		Save:       f.saves.Activate,
		Navigate:   func(url string) { f.navigated = append(f.navigated, url) },
	}, logger)
	f.auth = service.NewAuthFlow(sess, client, f.surface, f.saves, logger, false)
	f.search = service.NewSearcher(client, f.renderer, f.saves, logger)
	return f
}

func defaultOptions() service.SaveOptions {
	return service.SaveOptions{RollbackOnFailure: true, DedupeToggles: true}
}

func catalog() []types.Recipe {
	return []types.Recipe{
		{
			ID:              "r1",
			Label:           "Chicken Fried Rice",
			IngredientLines: "2 cups rice,1 chicken breast",
			Ingredients:     []string{"rice", "chicken breast"},
			HealthLabels:    []string{"Dairy-Free"},
			CuisineType:     "chinese",
			MealType:        "lunch/dinner",
			Calories:        640,
			URL:             "https://example.com/r1",
		},
		{
			ID:           "r2",
			Label:        "Chicken Congee",
			Ingredients:  []string{"rice", "chicken thigh", "ginger"},
			HealthLabels: []string{"Gluten-Free"},
			URL:          "https://example.com/r2",
		},
		{
			ID:          "r3",
			Label:       "Tomato Soup",
			Ingredients: []string{"tomato", "onion"},
			URL:         "https://example.com/r3",
		},
	}
}

// savedStates returns the card and detail saved flags of id
func savedStates(t *testing.T, reg *view.Registry, id string) (bool, bool) {
	t.Helper()
	card, detail, ok := reg.State(id)
	require.True(t, ok, "recipe %s is not rendered", id)
	return card.Saved, detail.Saved
}
