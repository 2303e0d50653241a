package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pageza/recipe-finder/internal/api"
	"github.com/pageza/recipe-finder/internal/session"
	"github.com/pageza/recipe-finder/internal/types"
	"go.uber.org/zap"
)

// MsgUnavailable is shown on a form when the backend cannot be reached
const MsgUnavailable = "Unable to reach the server, please try again."

// SignupForm carries the fields of the signup surface
type SignupForm struct {
	FirstName       string
	LastName        string
	Identifier      string
	Password        string
	ConfirmPassword string
}

// AuthFlow owns every mutation of the session cache
type AuthFlow struct {
	session  *session.Session
	backend  Backend
	surface  Surface
	saves    *SaveToggler
	logger   *zap.Logger
	validate bool
}

// NewAuthFlow creates an AuthFlow. When validate is set, Restore checks with the
// backend to confirm a cached login is still known to it.
func NewAuthFlow(sess *session.Session, backend Backend, surface Surface, saves *SaveToggler, logger *zap.Logger, validate bool) *AuthFlow {
	return &AuthFlow{
		session:  sess,
		backend:  backend,
		surface:  surface,
		saves:    saves,
		logger:   logger,
		validate: validate,
	}
}

// Login signs a user in and re-syncs the saved marks of the visible results
func (a *AuthFlow) Login(ctx context.Context, identifier, password string) error {
	a.surface.ShowFormMessage(FormLogin, "")

	if strings.TrimSpace(identifier) == "" || password == "" {
		return a.invalid(FormLogin, MsgEmptyFields)
	}

	resp, err := a.backend.Login(ctx, types.LoginRequest{Username: identifier, Password: password})
	if err != nil {
		a.logger.Error("login request failed", zap.String("username", identifier), zap.Error(err))
		a.surface.ShowFormMessage(FormLogin, failureMessage(err))
		return fmt.Errorf("login: %w", err)
	}

	return a.complete(ctx, FormLogin, "login", identifier, resp)
}

// Signup registers a new user, signing them in on success
func (a *AuthFlow) Signup(ctx context.Context, form SignupForm) error {
	a.surface.ShowFormMessage(FormSignup, "")

	if strings.TrimSpace(form.FirstName) == "" ||
		strings.TrimSpace(form.LastName) == "" ||
		strings.TrimSpace(form.Identifier) == "" ||
		form.Password == "" ||
		form.ConfirmPassword == "" {
		return a.invalid(FormSignup, MsgEmptyFields)
	}
	if form.Password != form.ConfirmPassword {
		return a.invalid(FormSignup, MsgPasswordMismatch)
	}
	if utf8.RuneCountInString(form.Password) < MinPasswordLength {
		return a.invalid(FormSignup, MsgPasswordTooShort)
	}

	resp, err := a.backend.Signup(ctx, types.SignupRequest{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Username:  form.Identifier,
		Password:  form.Password,
	})
	if err != nil {
		a.logger.Error("signup request failed", zap.String("username", form.Identifier), zap.Error(err))
		a.surface.ShowFormMessage(FormSignup, failureMessage(err))
		return fmt.Errorf("signup: %w", err)
	}

	return a.complete(ctx, FormSignup, "signup", form.Identifier, resp)
}

// Logout ends the session on the server and then locally. A failed request
// leaves the cache as it was.
func (a *AuthFlow) Logout(ctx context.Context) error {
	username := a.session.Username()

	resp, err := a.backend.Logout(ctx, username)
	if err != nil {
		a.logger.Error("logout request failed", zap.String("username", username), zap.Error(err))
		return fmt.Errorf("logout: %w", err)
	}
	if !resp.OK() {
		a.logger.Warn("logout rejected", zap.String("username", username), zap.String("message", resp.Message))
		return &ServerError{Op: "logout", Message: resp.Message}
	}

	if err := a.session.SignOut(ctx); err != nil {
		a.logger.Error("failed to clear session", zap.Error(err))
		return err
	}
	a.surface.SetIdentity("")
	a.surface.SetAccountRegion(false)
	a.saves.Reset()

	a.logger.Info("user logged out", zap.String("username", username))
	return nil
}

// Restore brings the account region in line with the cached session at startup
func (a *AuthFlow) Restore(ctx context.Context) error {
	state := a.session.Snapshot()
	if !state.LoggedIn {
		a.surface.SetIdentity("")
		a.surface.SetAccountRegion(false)
		return nil
	}

	if a.validate {
		if _, err := a.backend.SavedRecipes(ctx, state.Username); err != nil {
			var statusErr *api.StatusError
			if !errors.As(err, &statusErr) || !statusErr.IsClientError() {
				a.logger.Warn("could not validate cached session, keeping it", zap.Error(err))
			} else {
				a.logger.Info("cached session rejected by server, signing out",
					zap.String("username", state.Username),
					zap.Error(err),
				)
				if err := a.session.SignOut(ctx); err != nil {
					return err
				}
				a.surface.SetIdentity("")
				a.surface.SetAccountRegion(false)
				return nil
			}
		}
	}

	a.surface.SetIdentity(state.FirstName)
	a.surface.SetAccountRegion(true)
	a.logger.Debug("session restored", zap.String("username", state.Username))
	return nil
}

// Close clears a form's message and fields
func (a *AuthFlow) Close(form Form) {
	a.surface.ShowFormMessage(form, "")
	a.surface.ResetForm(form)
	a.surface.DismissForm(form)
}

// failureMessage picks what a form shows for a failed request. A rejection
// carrying the server's message shows that message.
func failureMessage(err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	return MsgUnavailable
}

func (a *AuthFlow) invalid(form Form, message string) error {
	a.surface.ShowFormMessage(form, message)
	return &ValidationError{Form: form, Message: message}
}

// complete applies a successful login or signup response
func (a *AuthFlow) complete(ctx context.Context, form Form, op, identifier string, resp types.AuthResponse) error {
	if !resp.OK() {
		a.logger.Info(op+" rejected", zap.String("username", identifier), zap.String("message", resp.Message))
		a.surface.ShowFormMessage(form, resp.Message)
		return &ServerError{Op: op, Message: resp.Message}
	}

	username := resp.Username
	if username == "" {
		username = identifier
	}
	if err := a.session.SignIn(ctx, username, resp.FirstName); err != nil {
		a.logger.Error("failed to persist session", zap.Error(err))
		return err
	}

	a.surface.SetIdentity(resp.FirstName)
	a.surface.SetAccountRegion(true)
	a.surface.ResetForm(form)
	a.surface.DismissForm(form)
	a.logger.Info(op+" succeeded", zap.String("username", username))

	if err := a.saves.Refresh(ctx); err != nil {
		a.logger.Warn("saved state refresh after "+op+" failed", zap.Error(err))
	}
	return nil
}
