package ports

import (
	"context"
	"fmt"
	"io"

	"github.com/hidayetmm/places-client/internal/core/domain"
)

// Credentials carries the login form fields.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// SignupInput carries the signup form fields. Image is the optional profile
// picture content; ImageName names the uploaded file part.
type SignupInput struct {
	Username  string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required"`
	Image     io.Reader
	ImageName string
}

// NewPlaceInput carries the add-place form fields.
type NewPlaceInput struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	Address     string `validate:"required"`
	Image       io.Reader
	ImageName   string
}

// AuthResult is the user object returned by login and signup.
type AuthResult struct {
	ID    string
	Name  string
	Email string
	Token string
	Image string
}

// PlacesGateway is the remote Places API, consumed over HTTP. It is a pure
// collaborator: implementations never touch client state.
type PlacesGateway interface {
	Login(ctx context.Context, creds Credentials) (*AuthResult, error)
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)
	// FetchPlaces returns the global feed in the server's ascending
	// insertion order. Callers are responsible for reordering.
	FetchPlaces(ctx context.Context) ([]domain.Place, error)
	CreatePlace(ctx context.Context, accessToken string, input NewPlaceInput) error
}

// APIError is a structured, server-reported failure: the response body
// carried a human-readable message. Anything that fails without one is a
// transport failure and stays a plain error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}
