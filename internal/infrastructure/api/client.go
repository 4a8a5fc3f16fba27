// Package api implements ports.PlacesGateway against the remote Places HTTP
// API. Responses are normalized at this boundary: a body carrying a message
// becomes a ports.APIError, anything else surfaces as a plain transport
// error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hidayetmm/places-client/internal/core/domain"
	"github.com/hidayetmm/places-client/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// Client is the HTTP implementation of ports.PlacesGateway.
type Client struct {
	base string
	http *http.Client
	log  zerolog.Logger
}

// NewClient builds a Client for the given API base URL (e.g.
// "http://localhost:5000/api/"). A non-positive timeout falls back to the
// default.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

// userPayload is the user object in login and signup responses.
type userPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
	Image string `json:"image"`
}

type authResponse struct {
	User *userPayload `json:"user"`
}

type placesResponse struct {
	Places []domain.Place `json:"places"`
}

// errorResponse is the error envelope the API returns on failure.
type errorResponse struct {
	Message string `json:"message"`
}

// Login authenticates against POST /users/login.
func (c *Client) Login(ctx context.Context, creds ports.Credentials) (*ports.AuthResult, error) {
	body, err := json.Marshal(map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("encode login request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/users/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doAuth(req)
}

// Signup registers a new account against POST /users/signup (multipart, the
// profile image part is optional).
func (c *Client) Signup(ctx context.Context, input ports.SignupInput) (*ports.AuthResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":     input.Username,
		"email":    input.Email,
		"password": input.Password,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("encode signup form: %w", err)
		}
	}
	if input.Image != nil {
		part, err := w.CreateFormFile("image", imageName(input.ImageName))
		if err != nil {
			return nil, fmt.Errorf("encode signup image: %w", err)
		}
		if _, err := io.Copy(part, input.Image); err != nil {
			return nil, fmt.Errorf("encode signup image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("encode signup form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/users/signup", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.doAuth(req)
}

// FetchPlaces retrieves the global feed from GET /places, in the server's
// ascending order.
func (c *Client) FetchPlaces(ctx context.Context) ([]domain.Place, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/places", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch places: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.apiError(resp)
	}

	var payload placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode places response: %w", err)
	}
	return payload.Places, nil
}

// CreatePlace publishes a new place against POST /places with the session's
// bearer token.
func (c *Client) CreatePlace(ctx context.Context, accessToken string, input ports.NewPlaceInput) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       input.Title,
		"description": input.Description,
		"address":     input.Address,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("encode place form: %w", err)
		}
	}
	if input.Image != nil {
		part, err := w.CreateFormFile("image", imageName(input.ImageName))
		if err != nil {
			return fmt.Errorf("encode place image: %w", err)
		}
		if _, err := io.Copy(part, input.Image); err != nil {
			return fmt.Errorf("encode place image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encode place form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/places", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("create place: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}
	return nil
}

// Ping reports whether the remote API is reachable. Any HTTP response counts
// as reachable; only transport failures do not.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/places", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping places api: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *Client) doAuth(req *http.Request) (*ports.AuthResult, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.apiError(resp)
	}

	var payload authResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	if payload.User == nil || payload.User.Token == "" {
		return nil, fmt.Errorf("auth response missing user token")
	}

	return &ports.AuthResult{
		ID:    payload.User.ID,
		Name:  payload.User.Name,
		Email: payload.User.Email,
		Token: payload.User.Token,
		Image: payload.User.Image,
	}, nil
}

// apiError turns a non-2xx response into a ports.APIError when the body
// carries a message, or a plain error otherwise.
func (c *Client) apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return &ports.APIError{Status: resp.StatusCode, Message: payload.Message}
	}

	c.log.Debug().Int("status", resp.StatusCode).Msg("unstructured error response")
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}

// imageName normalizes the multipart filename: never empty, never a local
// filesystem path.
func imageName(name string) string {
	if name == "" {
		return "image"
	}
	return filepath.Base(name)
}
