// Package testhelpers provides an in-memory recipe backend served over
// httptest for client and controller tests.
package testhelpers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipe-finder/internal/middleware"
	"github.com/pageza/recipe-finder/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

type user struct {
	firstName    string
	lastName     string
	passwordHash []byte
}

// Backend is a fake of the recipe backend endpoints
type Backend struct {
	mu       sync.Mutex
	users    map[string]*user
	online   map[string]bool
	saved    map[string]map[string]bool
	catalog  []types.Recipe
	calls    map[string]int
	failures map[string]int
	holds    map[string]chan struct{}
	entered  map[string]chan struct{}
	ids      map[string]string

	server *httptest.Server
}

// NewBackend starts a fake backend that is shut down with the test
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &Backend{
		users:    make(map[string]*user),
		online:   make(map[string]bool),
		saved:    make(map[string]map[string]bool),
		calls:    make(map[string]int),
		failures: make(map[string]int),
		holds:    make(map[string]chan struct{}),
		entered:  make(map[string]chan struct{}),
		ids:      make(map[string]string),
	}
	b.server = httptest.NewServer(b.router(zaptest.NewLogger(t)))
	t.Cleanup(b.server.Close)
	return b
}

// URL is the base URL of the fake
func (b *Backend) URL() string {
	return b.server.URL
}

func (b *Backend) router(logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler(logger))
	r.Use(middleware.RequestID())
	r.Use(b.track())

	r.GET("/search", b.search)
	r.POST("/toggle-save-recipe", b.toggleSave)
	r.POST("/get-saved-recipes", b.savedRecipes)
	r.POST("/login", b.login)
	r.POST("/signup", b.signup)
	r.POST("/logout", b.logout)
	return r
}

// track counts calls, injects configured failures and holds requests
func (b *Backend) track() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		b.mu.Lock()
		b.calls[path]++
		b.ids[path] = c.GetString(middleware.RequestIDKey)
		status := b.failures[path]
		if status != 0 {
			delete(b.failures, path)
		}
		hold := b.holds[path]
		entered := b.entered[path]
		b.mu.Unlock()

		if entered != nil {
			select {
			case entered <- struct{}{}:
			default:
			}
		}
		if hold != nil {
			<-hold
		}
		if status != 0 {
			c.Status(status)
			_ = c.Error(errors.New(http.StatusText(status)))
			c.Abort()
			return
		}
		c.Next()
	}
}

// AddUser registers an account
func (b *Backend) AddUser(username, firstName, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[username] = &user{firstName: firstName, passwordHash: hash}
}

// AddRecipes appends recipes to the searchable catalog
func (b *Backend) AddRecipes(recipes ...types.Recipe) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalog = append(b.catalog, recipes...)
}

// SetSaved replaces the saved set of username
func (b *Backend) SetSaved(username string, ids ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	b.saved[username] = set
}

// Saved returns the sorted saved ids of username
func (b *Backend) Saved(username string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.saved[username]))
	for id := range b.saved[username] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// LoggedIn reports whether username has a server-side session
func (b *Backend) LoggedIn(username string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.online[username]
}

// Calls returns how many requests hit path
func (b *Backend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

// LastRequestID returns the request id of the latest call to path
func (b *Backend) LastRequestID(path string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ids[path]
}

// TotalCalls returns the number of requests served
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.calls {
		total += n
	}
	return total
}

// FailNext makes the next request to path answer with status
func (b *Backend) FailNext(path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[path] = status
}

// Hold blocks requests to path until release is called. The returned
// channel receives once per request that reached the hold.
func (b *Backend) Hold(path string) (entered <-chan struct{}, release func()) {
	gate := make(chan struct{})
	in := make(chan struct{}, 16)
	b.mu.Lock()
	b.holds[path] = gate
	b.entered[path] = in
	b.mu.Unlock()

	var once sync.Once
	return in, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.holds, path)
			delete(b.entered, path)
			b.mu.Unlock()
			close(gate)
		})
	}
}

func (b *Backend) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("ingredients"))
	if query == "" {
		c.JSON(http.StatusOK, []types.Recipe{})
		return
	}

	var terms []string
	for _, t := range strings.Split(query, ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			terms = append(terms, t)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	out := []types.Recipe{}
	for _, r := range b.catalog {
		if matches(r, terms) {
			out = append(out, r)
		}
	}
	c.JSON(http.StatusOK, out)
}

func matches(r types.Recipe, terms []string) bool {
	for _, term := range terms {
		found := false
		for _, ing := range r.Ingredients {
			if strings.Contains(strings.ToLower(ing), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (b *Backend) toggleSave(c *gin.Context) {
	var req types.ToggleSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.StatusResponse{Status: "error", Message: "Invalid request body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[req.Username]; !ok {
		c.JSON(http.StatusOK, types.StatusResponse{Status: "error", Message: "User not found"})
		return
	}
	set := b.saved[req.Username]
	if set == nil {
		set = make(map[string]bool)
		b.saved[req.Username] = set
	}
	if set[req.ID] {
		delete(set, req.ID)
		c.JSON(http.StatusOK, types.StatusResponse{Status: types.StatusSuccess, Message: "Recipe unsaved"})
		return
	}
	set[req.ID] = true
	c.JSON(http.StatusOK, types.StatusResponse{Status: types.StatusSuccess, Message: "Recipe saved"})
}

func (b *Backend) savedRecipes(c *gin.Context) {
	var req types.SavedRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.StatusResponse{Status: "error", Message: "Invalid request body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[req.Username]; !ok {
		c.Status(http.StatusNotFound)
		_ = c.Error(errors.New("User not found"))
		return
	}
	out := []types.SavedRecipe{}
	for id := range b.saved[req.Username] {
		out = append(out, types.SavedRecipe{ID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	c.JSON(http.StatusOK, out)
}

func (b *Backend) login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, types.StatusResponse{Status: "error", Message: "Fields cannot be empty!"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[req.Username]
	if !ok || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.Password)) != nil {
		c.JSON(http.StatusOK, types.StatusResponse{Status: "error", Message: "Invalid username or password!"})
		return
	}
	b.online[req.Username] = true
	c.JSON(http.StatusOK, gin.H{
		"status":    types.StatusSuccess,
		"username":  req.Username,
		"firstname": u.firstName,
		// the reference backend echoes the password; the client must ignore it
		"password": req.Password,
	})
}

func (b *Backend) signup(c *gin.Context) {
	var req types.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, types.StatusResponse{Status: "error", Message: "Fields cannot be empty!"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		_ = c.Error(err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.users[req.Username]; exists {
		c.JSON(http.StatusOK, types.StatusResponse{Status: "error", Message: "Username already exists!"})
		return
	}
	b.users[req.Username] = &user{firstName: req.FirstName, lastName: req.LastName, passwordHash: hash}
	b.online[req.Username] = true
	c.JSON(http.StatusOK, types.AuthResponse{
		StatusResponse: types.StatusResponse{Status: types.StatusSuccess},
		Username:       req.Username,
		FirstName:      req.FirstName,
	})
}

func (b *Backend) logout(c *gin.Context) {
	var req types.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.StatusResponse{Status: "error", Message: "Invalid request body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.online[req.Username] {
		c.JSON(http.StatusOK, types.StatusResponse{Status: "error", Message: "User is not logged in"})
		return
	}
	delete(b.online, req.Username)
	c.JSON(http.StatusOK, types.StatusResponse{Status: types.StatusSuccess, Message: "Logged out"})
}
