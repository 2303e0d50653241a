package service

import (
	"context"

	"github.com/pageza/recipe-finder/internal/types"
)

// Backend is the subset of the recipe backend used by the controllers
type Backend interface {
	Search(ctx context.Context, query string) ([]types.Recipe, error)
	ToggleSave(ctx context.Context, recipeID, username string) (types.StatusResponse, error)
	SavedRecipes(ctx context.Context, username string) ([]string, error)
	Login(ctx context.Context, req types.LoginRequest) (types.AuthResponse, error)
	Signup(ctx context.Context, req types.SignupRequest) (types.AuthResponse, error)
	Logout(ctx context.Context, username string) (types.StatusResponse, error)
}

// Form identifies one of the authentication entry surfaces
type Form int

const (
	FormLogin Form = iota
	FormSignup
)

func (f Form) String() string {
	if f == FormSignup {
		return "signup"
	}
	return "login"
}

// Surface is the part of the interface the controllers drive directly.
// Implementations must be safe to call from any goroutine.
type Surface interface {
	// PresentLogin opens the login entry point
	PresentLogin()
	// DismissForm closes a login or signup surface
	DismissForm(form Form)
	// ResetForm clears the fields of a form
	ResetForm(form Form)
	// ShowFormMessage sets the inline message of a form; "" clears it
	ShowFormMessage(form Form, message string)
	// SetIdentity shows the signed-in display name; "" clears it
	SetIdentity(firstName string)
	// SetAccountRegion switches between the logged-in and logged-out controls
	SetAccountRegion(loggedIn bool)
}
