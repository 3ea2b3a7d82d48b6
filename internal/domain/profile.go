package domain

import (
	"time"
)

// Profile mirrors an authenticated identity's display name and email.
// The id is assigned by the auth provider at sign-up.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SignUpRequest represents a credential sign-up submission
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required,min=1"`
}

// SignInRequest represents a credential sign-in submission
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthUser is the identity returned by the auth backend
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session holds the tokens issued by the auth backend on sign-in
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         *AuthUser `json:"user,omitempty"`
}

// SignUpResponse carries the user-visible sign-up outcome
type SignUpResponse struct {
	Message string    `json:"message"`
	User    *AuthUser `json:"user,omitempty"`
}

// AuthClaims are the token claims the middleware extracts
type AuthClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
