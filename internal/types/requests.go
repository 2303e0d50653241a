package types

// StatusSuccess is the status value the backend uses for a successful call
const StatusSuccess = "success"

// ToggleSaveRequest represents the body of POST /toggle-save-recipe
type ToggleSaveRequest struct {
	ID       string `json:"id" binding:"required"`
	Username string `json:"username" binding:"required"`
}

// SavedRecipesRequest represents the body of POST /get-saved-recipes
type SavedRecipesRequest struct {
	Username string `json:"username" binding:"required"`
}

// LoginRequest represents the body of POST /login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest represents the body of POST /signup
type SignupRequest struct {
	FirstName string `json:"firstname" binding:"required"`
	LastName  string `json:"lastname" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// LogoutRequest represents the body of POST /logout
type LogoutRequest struct {
	Username string `json:"username" binding:"required"`
}

// StatusResponse is the envelope returned by toggle-save and logout
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the backend accepted the call
func (r StatusResponse) OK() bool {
	return r.Status == StatusSuccess
}

// AuthResponse is returned by login and signup. A password field, if the
// backend echoes one, is deliberately not decoded.
type AuthResponse struct {
	StatusResponse
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstname,omitempty"`
}
