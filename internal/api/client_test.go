package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/recipe-finder/internal/testhelpers"
	"github.com/pageza/recipe-finder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*Client, *testhelpers.Backend) {
	backend := testhelpers.NewBackend(t)
	backend.AddRecipes(
		types.Recipe{ID: "r1", Label: "Chicken Rice", Ingredients: []string{"chicken thigh", "rice"}},
		types.Recipe{ID: "r2", Label: "Beef Rice", Ingredients: []string{"beef", "rice"}},
	)
	backend.AddUser("ana", "Ana", "correct-horse")
	return NewClient(backend.URL()+"/", 5*time.Second, zap.NewNop()), backend
}

func TestSearch(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	recipes, err := client.Search(ctx, "chicken, rice")
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "r1", recipes[0].ID)

	recipes, err = client.Search(ctx, "xyz-nonexistent")
	require.NoError(t, err)
	assert.NotNil(t, recipes)
	assert.Empty(t, recipes)
}

func TestSearchEncodesQuery(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("ingredients")
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	recipes, err := NewClient(srv.URL, time.Second, zap.NewNop()).Search(context.Background(), "mac & cheese")
	require.NoError(t, err)
	assert.Equal(t, "mac & cheese", got)
	assert.Empty(t, recipes)
}

func TestToggleAndSavedRecipes(t *testing.T) {
	client, backend := newTestClient(t)
	ctx := context.Background()

	resp, err := client.ToggleSave(ctx, "r1", "ana")
	require.NoError(t, err)
	assert.True(t, resp.OK())

	ids, err := client.SavedRecipes(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, ids)
	assert.Equal(t, []string{"r1"}, backend.Saved("ana"))

	resp, err = client.ToggleSave(ctx, "r1", "ana")
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Empty(t, backend.Saved("ana"))
}

func TestAuthCalls(t *testing.T) {
	client, backend := newTestClient(t)
	ctx := context.Background()

	resp, err := client.Login(ctx, types.LoginRequest{Username: "ana", Password: "wrong"})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, "Invalid username or password!", resp.Message)

	resp, err = client.Login(ctx, types.LoginRequest{Username: "ana", Password: "correct-horse"})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "Ana", resp.FirstName)
	assert.True(t, backend.LoggedIn("ana"))

	out, err := client.Logout(ctx, "ana")
	require.NoError(t, err)
	assert.True(t, out.OK())
	assert.False(t, backend.LoggedIn("ana"))

	resp, err = client.Signup(ctx, types.SignupRequest{FirstName: "Bo", LastName: "Li", Username: "bo", Password: "longenough"})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "bo", resp.Username)
}

func TestStatusErrors(t *testing.T) {
	client, backend := newTestClient(t)

	_, err := client.SavedRecipes(context.Background(), "nobody")
	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusNotFound, serr.Code)
	assert.Equal(t, "User not found", serr.Message)
	assert.True(t, serr.IsClientError())

	backend.FailNext("/search", http.StatusBadGateway)
	_, err = client.Search(context.Background(), "rice")
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusBadGateway, serr.Code)
	assert.Equal(t, "/search", serr.Path)
	assert.False(t, serr.IsClientError())
}

func TestMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, zap.NewNop()).Search(context.Background(), "rice")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second, zap.NewNop()).Logout(context.Background(), "ana")
	require.Error(t, err)
	var serr *StatusError
	assert.False(t, errors.As(err, &serr))
}

func TestRequestsCarryRequestID(t *testing.T) {
	client, backend := newTestClient(t)

	_, err := client.Search(context.Background(), "rice")
	require.NoError(t, err)

	id := backend.LastRequestID("/search")
	require.NotEmpty(t, id)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
}
