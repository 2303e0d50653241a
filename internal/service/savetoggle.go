package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pageza/recipe-finder/internal/session"
	"github.com/pageza/recipe-finder/internal/view"
	"go.uber.org/zap"
)

// SaveOptions tunes the save workflow
type SaveOptions struct {
	// RollbackOnFailure reverts the optimistic flip when the toggle request fails
	RollbackOnFailure bool
	// DedupeToggles drops activations for a recipe whose toggle is still pending
	DedupeToggles bool
}

// SaveToggler drives the optimistic save/unsave workflow for rendered recipes
type SaveToggler struct {
	session  session.Reader
	registry *view.Registry
	backend  Backend
	surface  Surface
	logger   *zap.Logger
	opts     SaveOptions

	mu       sync.Mutex
	inflight map[string]int
	touched  map[string]uint64
}

// NewSaveToggler creates a SaveToggler
func NewSaveToggler(sess session.Reader, reg *view.Registry, backend Backend, surface Surface, logger *zap.Logger, opts SaveOptions) *SaveToggler {
	return &SaveToggler{
		session:  sess,
		registry: reg,
		backend:  backend,
		surface:  surface,
		logger:   logger,
		opts:     opts,
		inflight: make(map[string]int),
		touched:  make(map[string]uint64),
	}
}

// Activate handles a click on a save control of recipeID. Logged-out users
// get the login entry point and nothing else happens. Logged-in users see
// both views flip immediately, then the toggle is sent to the server.
func (s *SaveToggler) Activate(ctx context.Context, recipeID string) error {
	if !s.session.LoggedIn() {
		s.surface.PresentLogin()
		return nil
	}

	if !s.begin(recipeID) {
		s.logger.Debug("dropping save toggle, request pending", zap.String("recipe_id", recipeID))
		return ErrToggleInFlight
	}
	defer s.end(recipeID)

	applied, gen, err := s.registry.Toggle(recipeID)
	if err != nil {
		return fmt.Errorf("toggle save %s: %w", recipeID, err)
	}

	username := s.session.Username()
	resp, err := s.backend.ToggleSave(ctx, recipeID, username)
	if err != nil {
		s.logger.Error("error saving recipe", zap.String("recipe_id", recipeID), zap.Error(err))
		s.rollback(recipeID, gen, applied)
		return fmt.Errorf("toggle save %s: %w", recipeID, err)
	}
	if !resp.OK() {
		s.logger.Warn("save toggle rejected",
			zap.String("recipe_id", recipeID),
			zap.String("message", resp.Message),
		)
		s.rollback(recipeID, gen, applied)
		return &ServerError{Op: "toggle-save-recipe", Message: resp.Message}
	}

	s.logger.Info("save toggled",
		zap.String("recipe_id", recipeID),
		zap.Bool("saved", applied),
		zap.String("message", resp.Message),
	)
	return nil
}

// Refresh pulls the user's saved set and makes every rendered pair match it.
// Pairs with a toggle in flight, or toggled since the fetch was sent, are
// left to that toggle. It is a no-op when logged out and safe to run
// concurrently with itself.
func (s *SaveToggler) Refresh(ctx context.Context) error {
	if !s.session.LoggedIn() {
		return nil
	}

	since := s.marks()
	ids, err := s.backend.SavedRecipes(ctx, s.session.Username())
	if err != nil {
		s.logger.Error("error fetching saved recipes", zap.Error(err))
		return fmt.Errorf("refresh saved recipes: %w", err)
	}

	saved := make(map[string]bool, len(ids))
	for _, id := range ids {
		saved[id] = true
	}
	skip := func(recipeID string) bool {
		return s.InFlight(recipeID) || s.touchedSince(recipeID, since)
	}
	changed := s.registry.Reconcile(saved, skip, true)
	s.logger.Debug("saved state refreshed", zap.Int("saved", len(ids)), zap.Int("changed", changed))
	return nil
}

// Reset shows every rendered pair as unsaved
func (s *SaveToggler) Reset() {
	s.registry.ResetSaved()
}

// InFlight reports whether a toggle for recipeID is pending
func (s *SaveToggler) InFlight(recipeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[recipeID] > 0
}

func (s *SaveToggler) begin(recipeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.DedupeToggles && s.inflight[recipeID] > 0 {
		return false
	}
	s.inflight[recipeID]++
	s.touched[recipeID]++
	return true
}

// marks snapshots the toggle counters so a later refresh can tell which
// recipes were toggled while its fetch was outstanding
func (s *SaveToggler) marks() map[string]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]uint64, len(s.touched))
	for id, n := range s.touched {
		out[id] = n
	}
	return out
}

func (s *SaveToggler) touchedSince(recipeID string, since map[string]uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched[recipeID] != since[recipeID]
}

func (s *SaveToggler) end(recipeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[recipeID] <= 1 {
		delete(s.inflight, recipeID)
		return
	}
	s.inflight[recipeID]--
}

func (s *SaveToggler) rollback(recipeID string, gen uuid.UUID, applied bool) {
	if !s.opts.RollbackOnFailure {
		return
	}
	if s.registry.Revert(recipeID, gen, applied) {
		s.logger.Info("reverted optimistic save toggle", zap.String("recipe_id", recipeID))
	}
}
