package service

import (
	"context"
	"fmt"

	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/Wyydra/voicebridge/internal/core/port"
	"github.com/rs/zerolog/log"
)

// signalingPlatform is the only platform getAlexaSdpAnswer understands.
const signalingPlatform = domain.PlatformAlexa

// Negotiator runs the offer/answer exchange shared by every integration.
type Negotiator struct {
	signaling port.SignalingServer
}

func NewNegotiator(signaling port.SignalingServer) *Negotiator {
	return &Negotiator{
		signaling: signaling,
	}
}

func (n *Negotiator) Exchange(ctx context.Context, issuer port.TicketIssuer, req domain.OfferRequest) (string, error) {
	l := log.With().
		Str("serial_number", req.SerialNumber).
		Str("session_id", req.SessionID.String()).
		Str("platform", req.Platform.String()).
		Logger()

	ticket, err := issuer.IssueTicket(ctx, domain.TicketRequest{
		SerialNumber: req.SerialNumber,
		SessionID:    req.SessionID,
		Platform:     req.Platform,
	})
	if err != nil {
		return "", fmt.Errorf("issue viewer ticket: %w", err)
	}

	address, err := ticket.SignalingAddress()
	if err != nil {
		return "", err
	}
	l.Info().Str("signal_server", address).Int("ice_servers", len(ticket.ICEServers)).Msg("Requesting sdp answer")

	answer, err := n.signaling.Answer(ctx, address, req.SignalingToken, domain.AnswerRequest{
		SdpOffer:       req.Offer,
		ViewerTicket:   *ticket,
		SessionID:      req.SessionID,
		DevicePlatform: signalingPlatform,
	})
	if err != nil {
		return "", fmt.Errorf("sdp answer: %w", err)
	}

	if req.ReportAnswer {
		report := domain.LiveReport{
			Event:        domain.LiveSdpReturnAnswer,
			LiveID:       domain.LiveID(req.Platform, req.SessionID),
			SerialNumber: req.SerialNumber,
		}
		if err := issuer.ReportLive(ctx, report); err != nil {
			l.Warn().Err(err).Msg("Failed to report sdp answer")
		}
	}

	return answer, nil
}
