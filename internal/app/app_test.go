package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pageza/recipe-finder/config"
	"github.com/pageza/recipe-finder/internal/service"
	"github.com/pageza/recipe-finder/internal/testhelpers"
	"github.com/pageza/recipe-finder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubFrontend struct {
	mu       sync.Mutex
	opened   []string
	loggedIn bool
	identity string
}

func (s *stubFrontend) PresentLogin()                        {}
func (s *stubFrontend) DismissForm(service.Form)             {}
func (s *stubFrontend) ResetForm(service.Form)               {}
func (s *stubFrontend) ShowFormMessage(service.Form, string) {}
func (s *stubFrontend) Navigate(string)                      {}

func (s *stubFrontend) SetIdentity(name string) {
	s.identity = name
}

func (s *stubFrontend) SetAccountRegion(loggedIn bool) {
	s.loggedIn = loggedIn
}

func (s *stubFrontend) OpenDetail(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = append(s.opened, id)
}

func testConfig(t *testing.T, url, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		APIBaseURL:        url,
		HTTPTimeout:       5 * time.Second,
		SessionBackend:    backend,
		SessionPath:       filepath.Join(dir, "session.yaml"),
		SessionKey:        "test:session",
		SQLitePath:        filepath.Join(dir, "session.db"),
		RollbackOnFailure: true,
		DedupeToggles:     true,
		LogLevel:          "debug",
	}
}

func TestNewWiresSearchAndSave(t *testing.T) {
	backend := testhelpers.NewBackend(t)
	backend.AddUser("alice", "Alice", "password123")
	backend.AddRecipes(types.Recipe{ID: "r1", Label: "Omelette", Ingredients: []string{"egg"}, URL: "https://example.com/r1"})

	fe := &stubFrontend{}
	ctx := context.Background()
	a, err := New(ctx, testConfig(t, backend.URL(), config.SessionFile), zap.NewNop(), fe)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Auth.Login(ctx, "alice", "password123"))
	require.NoError(t, a.Search.Search(ctx, "egg"))

	pair, ok := a.Registry.Pair("r1")
	require.True(t, ok)
	require.NoError(t, pair.Card.ActivateSave(ctx))
	assert.Equal(t, []string{"r1"}, backend.Saved("alice"))
	assert.True(t, pair.Detail.SaveControl().Saved)
}

func TestNewWithSQLiteSessionSurvivesRestart(t *testing.T) {
	backend := testhelpers.NewBackend(t)
	backend.AddUser("alice", "Alice", "password123")
	cfg := testConfig(t, backend.URL(), config.SessionSQLite)
	ctx := context.Background()

	first, err := New(ctx, cfg, zap.NewNop(), &stubFrontend{})
	require.NoError(t, err)
	require.NoError(t, first.Auth.Login(ctx, "alice", "password123"))
	require.NoError(t, first.Close())

	fe := &stubFrontend{}
	second, err := New(ctx, cfg, zap.NewNop(), fe)
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, second.Auth.Restore(ctx))
	assert.True(t, second.Session.LoggedIn())
	assert.Equal(t, "Alice", fe.identity)
	assert.True(t, fe.loggedIn)
}

func TestNewRejectsUnknownSessionBackend(t *testing.T) {
	cfg := testConfig(t, "http://localhost:1", "etcd")

	_, err := New(context.Background(), cfg, zap.NewNop(), &stubFrontend{})
	require.Error(t, err)
}
