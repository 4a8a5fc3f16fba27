package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hidayetmm/places-client/internal/core/domain"
	"github.com/hidayetmm/places-client/internal/core/ports"
)

func newAuthFixture(gw *stubGateway) (*AuthFlow, *SessionStore, *memVault, *spyNotifier) {
	ctx := context.Background()
	v := &memVault{}
	sessions := NewSessionStore(ctx, v, zerolog.Nop())
	notifier := &spyNotifier{}
	flow := NewAuthFlow(gw, sessions, notifier, zerolog.Nop())
	return flow, sessions, v, notifier
}

func TestAuthFlow_LoginSuccess(t *testing.T) {
	gw := &stubGateway{loginResult: &ports.AuthResult{
		ID:    "u1",
		Name:  "alice",
		Email: "alice@example.com",
		Token: "tok-123",
		Image: "uploads/alice.png",
	}}
	flow, sessions, v, notifier := newAuthFixture(gw)

	err := flow.Login(context.Background(), ports.Credentials{
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	sess := sessions.Current()
	if !sess.IsLoggedIn || sess.AccessToken != "tok-123" || sess.Username != "alice" {
		t.Fatalf("unexpected session after login: %+v", sess)
	}

	stored, ok := v.stored(t)
	if !ok || stored.AccessToken != "tok-123" {
		t.Fatalf("expected durable session copy, got ok=%v %+v", ok, stored)
	}

	note := notifier.last(t)
	if note.Message != "Welcome @alice!" || note.Severity != ports.SeverityInfo {
		t.Fatalf("unexpected welcome notification: %+v", note)
	}
	if flow.Busy() {
		t.Fatalf("loading indicator still set after success")
	}
}

func TestAuthFlow_LoginStructuredFailure(t *testing.T) {
	gw := &stubGateway{loginErr: &ports.APIError{Status: 401, Message: "Invalid credentials"}}
	flow, sessions, _, notifier := newAuthFixture(gw)

	err := flow.Login(context.Background(), ports.Credentials{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	if err == nil {
		t.Fatalf("expected error")
	}

	note := notifier.last(t)
	if note.Message != "Invalid credentials" || note.Severity != ports.SeverityError {
		t.Fatalf("unexpected notification: %+v", note)
	}
	if sessions.Current() != domain.EmptySession() {
		t.Fatalf("failed login must leave the session unchanged")
	}
	if flow.Busy() {
		t.Fatalf("loading indicator still set after failure")
	}
}

func TestAuthFlow_LoginTransportFailure(t *testing.T) {
	gw := &stubGateway{loginErr: errors.New("dial tcp: connection refused")}
	flow, sessions, _, notifier := newAuthFixture(gw)

	if err := flow.Login(context.Background(), ports.Credentials{
		Email:    "alice@example.com",
		Password: "pw",
	}); err == nil {
		t.Fatalf("expected error")
	}

	note := notifier.last(t)
	if note.Message != TransportErrorMessage || note.Severity != ports.SeverityError {
		t.Fatalf("unexpected notification: %+v", note)
	}
	if sessions.Current().IsLoggedIn {
		t.Fatalf("transport failure must not log in")
	}
	if flow.Busy() {
		t.Fatalf("loading indicator still set after failure")
	}
}

func TestAuthFlow_LoginRejectsInvalidEmail(t *testing.T) {
	gw := &stubGateway{}
	flow, _, _, notifier := newAuthFixture(gw)

	if err := flow.Login(context.Background(), ports.Credentials{
		Email:    "not-an-email",
		Password: "pw",
	}); err == nil {
		t.Fatalf("expected validation error")
	}
	if gw.fetchCalls != 0 {
		t.Fatalf("invalid input must not reach the gateway")
	}
	if notifier.last(t).Severity != ports.SeverityError {
		t.Fatalf("validation failure should surface as an error notification")
	}
}

func TestAuthFlow_SignupSuccess(t *testing.T) {
	gw := &stubGateway{signupResult: &ports.AuthResult{
		ID:    "u2",
		Name:  "bob",
		Email: "bob@example.com",
		Token: "tok-456",
	}}
	flow, sessions, _, notifier := newAuthFixture(gw)

	err := flow.Signup(context.Background(), ports.SignupInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if sess := sessions.Current(); !sess.IsLoggedIn || sess.Username != "bob" {
		t.Fatalf("unexpected session after signup: %+v", sess)
	}
	if note := notifier.last(t); note.Message != "Welcome @bob!" {
		t.Fatalf("unexpected notification: %+v", note)
	}
}

// blockingGateway holds Login until the gate is closed.
type blockingGateway struct {
	stubGateway
	gate chan struct{}
}

func (g *blockingGateway) Login(ctx context.Context, creds ports.Credentials) (*ports.AuthResult, error) {
	<-g.gate
	return g.stubGateway.Login(ctx, creds)
}

func TestAuthFlow_RejectsConcurrentAuthRequests(t *testing.T) {
	gw := &blockingGateway{gate: make(chan struct{})}
	gw.loginResult = &ports.AuthResult{ID: "u1", Name: "alice", Email: "alice@example.com", Token: "tok"}

	ctx := context.Background()
	sessions := NewSessionStore(ctx, &memVault{}, zerolog.Nop())
	flow := NewAuthFlow(gw, sessions, &spyNotifier{}, zerolog.Nop())

	done := make(chan error, 1)
	go func() {
		done <- flow.Login(ctx, ports.Credentials{Email: "alice@example.com", Password: "pw"})
	}()
	waitFor(t, flow.Busy)

	err := flow.Login(ctx, ports.Credentials{Email: "alice@example.com", Password: "pw"})
	if !errors.Is(err, domain.ErrAuthInFlight) {
		t.Fatalf("expected ErrAuthInFlight while a login is running, got %v", err)
	}

	close(gw.gate)
	if err := <-done; err != nil {
		t.Fatalf("first login: %v", err)
	}
	if flow.Busy() {
		t.Fatalf("guard not released after completion")
	}
}

func TestAuthFlow_LogoutFromAnyState(t *testing.T) {
	gw := &stubGateway{}
	flow, sessions, _, _ := newAuthFixture(gw)

	if err := flow.Logout(context.Background()); err != nil {
		t.Fatalf("logout while logged out: %v", err)
	}
	if sessions.Current() != domain.EmptySession() {
		t.Fatalf("expected empty session")
	}
}
