// Package api is the HTTP client for the recipe backend endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/recipe-finder/internal/types"
	"go.uber.org/zap"
)

// ErrDecode wraps malformed response bodies
var ErrDecode = errors.New("malformed response")

// StatusError is returned for non-2xx responses
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
}

// IsClientError reports whether the backend rejected the request itself
func (e *StatusError) IsClientError() bool {
	return e.Code >= 400 && e.Code < 500
}

// Client talks to the recipe backend
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a client for baseURL with the given transport timeout
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Search fetches recipes matching the ingredient query
func (c *Client) Search(ctx context.Context, query string) ([]types.Recipe, error) {
	path := "/search?" + url.Values{"ingredients": {query}}.Encode()

	var recipes []types.Recipe
	if err := c.do(ctx, http.MethodGet, path, nil, &recipes); err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []types.Recipe{}
	}
	return recipes, nil
}

// ToggleSave flips the saved flag of a recipe for username
func (c *Client) ToggleSave(ctx context.Context, recipeID, username string) (types.StatusResponse, error) {
	var resp types.StatusResponse
	err := c.do(ctx, http.MethodPost, "/toggle-save-recipe", types.ToggleSaveRequest{ID: recipeID, Username: username}, &resp)
	return resp, err
}

// SavedRecipes returns the ids of every recipe saved by username
func (c *Client) SavedRecipes(ctx context.Context, username string) ([]string, error) {
	var saved []types.SavedRecipe
	if err := c.do(ctx, http.MethodPost, "/get-saved-recipes", types.SavedRecipesRequest{Username: username}, &saved); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(saved))
	for _, s := range saved {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

// Login authenticates a user
func (c *Client) Login(ctx context.Context, req types.LoginRequest) (types.AuthResponse, error) {
	var resp types.AuthResponse
	err := c.do(ctx, http.MethodPost, "/login", req, &resp)
	return resp, err
}

// Signup creates an account
func (c *Client) Signup(ctx context.Context, req types.SignupRequest) (types.AuthResponse, error) {
	var resp types.AuthResponse
	err := c.do(ctx, http.MethodPost, "/signup", req, &resp)
	return resp, err
}

// Logout ends the server-side session of username
func (c *Client) Logout(ctx context.Context, username string) (types.StatusResponse, error) {
	var resp types.StatusResponse
	err := c.do(ctx, http.MethodPost, "/logout", types.LogoutRequest{Username: username}, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint(path), err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend call",
		zap.String("method", method),
		zap.String("path", endpoint(path)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID),
	)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: failed to read body: %w", method, endpoint(path), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := &StatusError{Method: method, Path: endpoint(path), Code: resp.StatusCode}
		var envelope types.StatusResponse
		if json.Unmarshal(data, &envelope) == nil {
			serr.Message = envelope.Message
		}
		return serr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, endpoint(path), ErrDecode, err)
	}
	return nil
}

// endpoint strips the query so search terms stay out of logs and errors
func endpoint(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
