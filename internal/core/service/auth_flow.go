package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hidayetmm/places-client/internal/core/domain"
	"github.com/hidayetmm/places-client/internal/core/ports"
	"github.com/hidayetmm/places-client/internal/metrics"
)

// AuthFlow drives the login and signup sub-flows: validate input, call the
// remote API, and on success replace the session through the SessionStore.
// Failures follow the same taxonomy as feed fetches (server message verbatim,
// generic text for transport errors) but never touch the session.
type AuthFlow struct {
	gateway  ports.PlacesGateway
	sessions *SessionStore
	notifier ports.Notifier
	validate *validator.Validate
	log      zerolog.Logger

	// busy doubles as the loading indicator and the re-entrancy guard: a
	// second request while one is in flight is rejected, not queued.
	busy atomic.Bool
}

func NewAuthFlow(gateway ports.PlacesGateway, sessions *SessionStore, notifier ports.Notifier, log zerolog.Logger) *AuthFlow {
	return &AuthFlow{
		gateway:  gateway,
		sessions: sessions,
		notifier: notifier,
		validate: validator.New(),
		log:      log,
	}
}

// Busy reports whether an auth request is in flight.
func (f *AuthFlow) Busy() bool {
	return f.busy.Load()
}

// Login authenticates with the remote API and activates the returned
// session. On success a welcome notification is emitted.
func (f *AuthFlow) Login(ctx context.Context, creds ports.Credentials) error {
	if !f.busy.CompareAndSwap(false, true) {
		return domain.ErrAuthInFlight
	}
	defer f.busy.Store(false)

	if err := validateInput(f.validate, creds); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_input").Inc()
		f.notify(err.Error(), ports.SeverityError)
		return err
	}

	res, err := f.gateway.Login(ctx, creds)
	if err != nil {
		f.reportFailure("login", err)
		return err
	}

	f.activate(ctx, "login", res)
	return nil
}

// Signup registers a new account; the response shape and the follow-up are
// identical to login.
func (f *AuthFlow) Signup(ctx context.Context, input ports.SignupInput) error {
	if !f.busy.CompareAndSwap(false, true) {
		return domain.ErrAuthInFlight
	}
	defer f.busy.Store(false)

	if err := validateInput(f.validate, input); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "invalid_input").Inc()
		f.notify(err.Error(), ports.SeverityError)
		return err
	}

	res, err := f.gateway.Signup(ctx, input)
	if err != nil {
		f.reportFailure("signup", err)
		return err
	}

	f.activate(ctx, "signup", res)
	return nil
}

// Logout drops the session. Safe to call when already logged out.
func (f *AuthFlow) Logout(ctx context.Context) error {
	return f.sessions.Logout(ctx)
}

func (f *AuthFlow) activate(ctx context.Context, flow string, res *ports.AuthResult) {
	sess := domain.Session{
		ID:          res.ID,
		Username:    res.Name,
		Email:       res.Email,
		AccessToken: res.Token,
		Image:       res.Image,
		IsLoggedIn:  true,
	}
	if err := f.sessions.Login(ctx, sess); err != nil {
		// The login itself succeeded; a vault problem only costs
		// durability across restarts.
		f.log.Warn().Err(err).Msg("session active but not persisted")
	}

	metrics.AuthAttemptsTotal.WithLabelValues(flow, "ok").Inc()
	f.log.Info().Str("username", res.Name).Str("flow", flow).Msg("authenticated")
	f.notify(fmt.Sprintf("Welcome @%s!", res.Name), ports.SeverityInfo)
}

func (f *AuthFlow) reportFailure(flow string, err error) {
	var apiErr *ports.APIError
	if errors.As(err, &apiErr) {
		metrics.AuthAttemptsTotal.WithLabelValues(flow, "api_error").Inc()
		f.notify(apiErr.Message, ports.SeverityError)
		return
	}
	metrics.AuthAttemptsTotal.WithLabelValues(flow, "transport_error").Inc()
	f.log.Warn().Err(err).Str("flow", flow).Msg("auth request failed")
	f.notify(TransportErrorMessage, ports.SeverityError)
}

func (f *AuthFlow) notify(msg string, sev ports.Severity) {
	f.notifier.Notify(ports.Notification{
		ID:       uuid.NewString(),
		Message:  msg,
		Severity: sev,
	})
}
