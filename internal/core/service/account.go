package service

import (
	"context"
	"fmt"

	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/Wyydra/voicebridge/internal/core/port"
	"github.com/rs/zerolog/log"
)

// AccountService handles account linking with the voice platforms.
type AccountService struct {
	backends     port.Backends
	eventGateway string
}

func NewAccountService(backends port.Backends, eventGateway string) *AccountService {
	return &AccountService{
		backends:     backends,
		eventGateway: eventGateway,
	}
}

// AcceptGrant trades an Alexa grant code for backend linkage. The link
// success notification is fire and forget.
func (s *AccountService) AcceptGrant(ctx context.Context, token domain.AccessToken, code string) error {
	iot, err := s.backends.IoT(token)
	if err != nil {
		return err
	}
	oauth, err := s.backends.OAuth(token)
	if err != nil {
		return err
	}

	if err := oauth.AmazonAuthorization(ctx, code, s.eventGateway); err != nil {
		return fmt.Errorf("amazon authorization: %w", err)
	}

	if err := iot.NotifyAccountLinked(ctx, domain.PlatformAlexa); err != nil {
		log.Warn().Err(err).Str("kind", domain.Kind(err)).Msg("Failed to notify alexa account link")
	}
	return nil
}

// GoogleLinked tells both backends the account was linked. Nothing here is
// allowed to fail a SYNC.
func (s *AccountService) GoogleLinked(ctx context.Context, token domain.AccessToken) {
	oauth, err := s.backends.OAuth(token)
	if err != nil {
		log.Warn().Err(err).Msg("No oauth backend for google account link")
		return
	}
	if err := oauth.GoogleAccountLinked(ctx); err != nil {
		log.Warn().Err(err).Str("kind", domain.Kind(err)).Msg("Failed to notify google account link")
		return
	}

	iot, err := s.backends.IoT(token)
	if err != nil {
		log.Warn().Err(err).Msg("No iot backend for google account link")
		return
	}
	if err := iot.NotifyAccountLinked(ctx, domain.PlatformGoogleHome); err != nil {
		log.Warn().Err(err).Str("kind", domain.Kind(err)).Msg("Failed to report google account link")
	}
}

func (s *AccountService) GoogleDisconnect(ctx context.Context, token domain.AccessToken) error {
	oauth, err := s.backends.OAuth(token)
	if err != nil {
		return err
	}
	return oauth.GoogleAccountDisconnect(ctx)
}
