package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hidayetmm/places-client/internal/core/domain"
	"github.com/hidayetmm/places-client/internal/core/ports"
)

// PlaceFlow publishes a new place under the current session and invalidates
// the feed. No optimistic insert: consumers re-fetch the authoritative set.
type PlaceFlow struct {
	gateway  ports.PlacesGateway
	sessions *SessionStore
	signal   *RefreshSignal
	notifier ports.Notifier
	validate *validator.Validate
	log      zerolog.Logger
}

func NewPlaceFlow(gateway ports.PlacesGateway, sessions *SessionStore, signal *RefreshSignal, notifier ports.Notifier, log zerolog.Logger) *PlaceFlow {
	return &PlaceFlow{
		gateway:  gateway,
		sessions: sessions,
		signal:   signal,
		notifier: notifier,
		validate: validator.New(),
		log:      log,
	}
}

// Add submits the place and, on success, bumps the refresh signal exactly
// once.
func (f *PlaceFlow) Add(ctx context.Context, input ports.NewPlaceInput) error {
	sess := f.sessions.Current()
	if !sess.IsLoggedIn {
		f.notify("You need to log in to add a place", ports.SeverityError)
		return domain.ErrNotLoggedIn
	}

	if err := validateInput(f.validate, input); err != nil {
		f.notify(err.Error(), ports.SeverityError)
		return err
	}

	if err := f.gateway.CreatePlace(ctx, sess.AccessToken, input); err != nil {
		var apiErr *ports.APIError
		if errors.As(err, &apiErr) {
			f.notify(apiErr.Message, ports.SeverityError)
		} else {
			f.log.Warn().Err(err).Msg("create place failed")
			f.notify(TransportErrorMessage, ports.SeverityError)
		}
		return err
	}

	f.signal.Bump()
	f.log.Info().Str("title", input.Title).Str("creator", sess.Username).Msg("place added")
	f.notify(fmt.Sprintf("%s added!", input.Title), ports.SeverityInfo)
	return nil
}

func (f *PlaceFlow) notify(msg string, sev ports.Severity) {
	f.notifier.Notify(ports.Notification{
		ID:       uuid.NewString(),
		Message:  msg,
		Severity: sev,
	})
}
