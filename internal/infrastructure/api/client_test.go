package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hidayetmm/places-client/internal/core/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", 0, zerolog.Nop()), srv
}

func TestClient_LoginSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/users/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("expected a request id header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":"u1","name":"alice","email":"alice@example.com","token":"tok-123","image":"uploads/alice.png"}}`))
	})

	res, err := client.Login(context.Background(), ports.Credentials{Email: "alice@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Name != "alice" || res.Token != "tok-123" || res.ID != "u1" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestClient_LoginStructuredError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials, could not log you in."}`))
	})

	_, err := client.Login(context.Background(), ports.Credentials{Email: "a@b.c", Password: "x"})

	var apiErr *ports.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Invalid credentials, could not log you in." {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
}

func TestClient_LoginUnstructuredErrorStaysPlain(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := client.Login(context.Background(), ports.Credentials{Email: "a@b.c", Password: "x"})
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *ports.APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("non-JSON body must not become an APIError: %+v", apiErr)
	}
}

func TestClient_LoginMissingTokenIsError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"id":"u1","name":"alice"}}`))
	})

	if _, err := client.Login(context.Background(), ports.Credentials{Email: "a@b.c", Password: "x"}); err == nil {
		t.Fatalf("a response without a token must be rejected")
	}
}

func TestClient_SignupSendsMultipartForm(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/signup" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got := r.FormValue("name"); got != "bob" {
			t.Errorf("name = %q", got)
		}
		if got := r.FormValue("email"); got != "bob@example.com" {
			t.Errorf("email = %q", got)
		}
		if got := r.FormValue("password"); got != "pw" {
			t.Errorf("password missing")
		}
		if _, _, err := r.FormFile("image"); err != nil {
			t.Errorf("image part missing: %v", err)
		}
		_, _ = w.Write([]byte(`{"user":{"id":"u2","name":"bob","email":"bob@example.com","token":"tok"}}`))
	})

	res, err := client.Signup(context.Background(), ports.SignupInput{
		Username:  "bob",
		Email:     "bob@example.com",
		Password:  "pw",
		Image:     strings.NewReader("png-bytes"),
		ImageName: "avatar.png",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if res.Name != "bob" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestClient_ImagePartUsesBaseFilename(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("image part missing: %v", err)
		} else if header.Filename != "avatar.png" {
			t.Errorf("filename = %q, local paths must not leak", header.Filename)
		}
		_, _ = w.Write([]byte(`{"user":{"id":"u2","name":"bob","email":"bob@example.com","token":"tok"}}`))
	})

	_, err := client.Signup(context.Background(), ports.SignupInput{
		Username:  "bob",
		Email:     "bob@example.com",
		Password:  "pw",
		Image:     strings.NewReader("png-bytes"),
		ImageName: "/home/bob/pictures/avatar.png",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
}

func TestClient_FetchPlacesDecodesServerOrder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/places" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"places":[
			{"id":"p1","title":"First","location":{"lat":41.02,"lng":28.97},"creator":{"name":"alice","image":"a.png"}},
			{"id":"p2","title":"Second","location":{"lat":48.85,"lng":2.35},"creator":{"name":"bob","image":"b.png"}}
		]}`))
	})

	places, err := client.FetchPlaces(context.Background())
	if err != nil {
		t.Fatalf("fetch places: %v", err)
	}
	if len(places) != 2 || places[0].ID != "p1" || places[1].ID != "p2" {
		t.Fatalf("expected server order untouched, got %v", places)
	}
	if places[0].Location.Lat != 41.02 || places[0].Creator.Name != "alice" {
		t.Fatalf("nested fields not decoded: %+v", places[0])
	}
}

func TestClient_CreatePlaceCarriesBearerToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "Galata Tower" {
			t.Errorf("title = %q", got)
		}
		w.WriteHeader(http.StatusCreated)
	})

	err := client.CreatePlace(context.Background(), "tok-123", ports.NewPlaceInput{
		Title:       "Galata Tower",
		Description: "Medieval stone tower",
		Address:     "Beyoglu, Istanbul",
	})
	if err != nil {
		t.Fatalf("create place: %v", err)
	}
}

func TestClient_CreatePlaceStructuredError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Authentication failed."}`))
	})

	err := client.CreatePlace(context.Background(), "bad", ports.NewPlaceInput{
		Title: "t", Description: "d", Address: "a",
	})

	var apiErr *ports.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Authentication failed." {
		t.Fatalf("expected structured error, got %v", err)
	}
}

func TestClient_PingTreatsAnyResponseAsReachable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping should succeed on any HTTP response: %v", err)
	}
}
