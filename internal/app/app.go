// Package app assembles the client: session cache, backend client, result
// registry and the controllers, bound to a front end.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/recipe-finder/config"
	"github.com/pageza/recipe-finder/internal/api"
	"github.com/pageza/recipe-finder/internal/database"
	"github.com/pageza/recipe-finder/internal/service"
	"github.com/pageza/recipe-finder/internal/session"
	"github.com/pageza/recipe-finder/internal/view"
	"go.uber.org/zap"
)

// Frontend is what a user interface must provide to host the client
type Frontend interface {
	service.Surface
	// OpenDetail shows the detail overlay of a rendered recipe
	OpenDetail(recipeID string)
	// Navigate opens an external recipe page
	Navigate(url string)
}

// App holds the wired components
type App struct {
	Session  *session.Session
	Registry *view.Registry
	Saves    *service.SaveToggler
	Auth     *service.AuthFlow
	Search   *service.Searcher

	logger  *zap.Logger
	closers []func() error
}

// New wires every component for cfg and restores the cached session onto fe
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, fe Frontend) (*App, error) {
	a := &App{logger: logger}

	store, closer, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closer)

	sess, err := session.Open(ctx, store)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Session = sess

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, logger.Named("api"))

	a.Registry = view.NewRegistry()
	a.Saves = service.NewSaveToggler(sess, a.Registry, client, fe, logger.Named("saves"), service.SaveOptions{
		RollbackOnFailure: cfg.RollbackOnFailure,
		DedupeToggles:     cfg.DedupeToggles,
	})
	renderer := view.NewRenderer(a.Registry, view.Handlers{
		OpenDetail: fe.OpenDetail,
		Save:       a.Saves.Activate,
		Navigate:   fe.Navigate,
	}, logger.Named("render"))
	a.Auth = service.NewAuthFlow(sess, client, fe, a.Saves, logger.Named("auth"), cfg.ValidateSession)
	a.Search = service.NewSearcher(client, renderer, a.Saves, logger.Named("search"))

	logger.Info("client ready",
		zap.String("backend", cfg.APIBaseURL),
		zap.String("session_backend", cfg.SessionBackend),
		zap.Bool("logged_in", sess.LoggedIn()),
	)
	return a, nil
}

// OpenStore builds the session store selected by cfg.SessionBackend. The
// returned func releases its connection.
func OpenStore(ctx context.Context, cfg *config.Config) (session.Store, func() error, error) {
	switch cfg.SessionBackend {
	case config.SessionFile:
		return session.NewFileStore(cfg.SessionPath), func() error { return nil }, nil
	case config.SessionRedis:
		client, err := database.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, cfg.SessionKey), client.Close, nil
	case config.SessionSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		return session.NewSQLStore(db, cfg.SessionKey), sqlDB.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

// Close releases the session store connections
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
