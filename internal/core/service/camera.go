package service

import (
	"context"
	"fmt"

	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/Wyydra/voicebridge/internal/core/port"
	"github.com/rs/zerolog/log"
)

// CameraService groups the token scoped calls the voice handlers make
// against the IoT backend.
type CameraService struct {
	backends   port.Backends
	negotiator *Negotiator
}

func NewCameraService(backends port.Backends, negotiator *Negotiator) *CameraService {
	return &CameraService{
		backends:   backends,
		negotiator: negotiator,
	}
}

// LinkedCameras returns the user's cameras linked to platform that can stream
// H.264. The tenant name is best effort.
func (s *CameraService) LinkedCameras(ctx context.Context, token domain.AccessToken, platform domain.Platform) (domain.Inventory, error) {
	iot, err := s.backends.IoT(token)
	if err != nil {
		return domain.Inventory{}, err
	}

	var inv domain.Inventory
	tenant, err := iot.TenantName(ctx)
	if err != nil {
		log.Warn().Err(err).Str("kind", domain.Kind(err)).Msg("Failed to query tenant name")
	} else {
		inv.TenantName = tenant
	}

	devices, err := iot.LinkedDevices(ctx, platform)
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("list linked devices: %w", err)
	}
	inv.Devices = domain.FilterH264(devices)

	log.Debug().
		Str("platform", platform.String()).
		Int("linked", len(devices)).
		Int("h264", len(inv.Devices)).
		Msg("Linked cameras")
	return inv, nil
}

func (s *CameraService) State(ctx context.Context, token domain.AccessToken, serialNumber string) (domain.DeviceState, error) {
	iot, err := s.backends.IoT(token)
	if err != nil {
		return domain.DeviceState{}, err
	}
	status, err := iot.DeviceStatus(ctx, serialNumber)
	if err != nil {
		return domain.DeviceState{}, fmt.Errorf("device status %s: %w", serialNumber, err)
	}
	return status.State(), nil
}

// Negotiate exchanges a bare SDP offer from a voice platform for the camera's answer.
func (s *CameraService) Negotiate(ctx context.Context, token domain.AccessToken, serialNumber string, sessionID domain.SessionID, platform domain.Platform, sdp string) (string, error) {
	iot, err := s.backends.IoT(token)
	if err != nil {
		return "", err
	}

	offer, err := domain.EncodeOffer(sdp)
	if err != nil {
		return "", err
	}

	req := domain.OfferRequest{
		SerialNumber: serialNumber,
		SessionID:    sessionID,
		Platform:     platform,
		Offer:        offer,
	}
	switch platform {
	case domain.PlatformAlexa:
		req.SignalingToken = token.BackendToken()
		req.ReportAnswer = true
	default:
		req.SignalingToken = token.String()
	}

	return s.negotiator.Exchange(ctx, iot, req)
}

func (s *CameraService) ReportSession(ctx context.Context, token domain.AccessToken, event domain.LiveEvent, sessionID domain.SessionID, serialNumber string) error {
	iot, err := s.backends.IoT(token)
	if err != nil {
		return err
	}
	return iot.ReportLive(ctx, domain.LiveReport{
		Event:        event,
		LiveID:       domain.LiveID(domain.PlatformAlexa, sessionID),
		SerialNumber: serialNumber,
	})
}

func (s *CameraService) Rotate(ctx context.Context, token domain.AccessToken, serialNumber string, r domain.Rotation) error {
	iot, err := s.backends.IoT(token)
	if err != nil {
		return err
	}
	return iot.Rotate(ctx, serialNumber, r)
}
