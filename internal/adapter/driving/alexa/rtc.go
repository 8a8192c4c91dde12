package alexa

import (
	"context"

	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/rs/zerolog"
)

func (h *SmartHome) rtcSession(ctx context.Context, d *Directive) *Response {
	var p sessionPayload
	if err := d.decodePayload(&p); err != nil {
		return d.replyError(ErrInvalidDirective, "malformed session payload")
	}

	switch d.Header.Name {
	case "InitiateSessionWithOffer":
		return h.initiateSession(ctx, d, p)
	case "SessionConnected":
		return h.sessionEvent(ctx, d, p, domain.LiveSessionConnected)
	case "SessionDisconnected":
		return h.sessionEvent(ctx, d, p, domain.LiveSessionDisconnected)
	default:
		return NewErrorResponse(ResponseOptions{}, ErrInvalidDirective, d.Header.Name+" is not a directive handled by the skill")
	}
}

// initiateSession refuses unreachable or low battery cameras before any
// negotiation is attempted.
func (h *SmartHome) initiateSession(ctx context.Context, d *Directive, p sessionPayload) *Response {
	token, errResp := h.endpointToken(ctx, d)
	if errResp != nil {
		return errResp
	}
	serial := d.endpointID()

	state, err := h.cameras.State(ctx, token, serial)
	if err != nil {
		logFailure(ctx, err, "Device state")
		return d.replyError(ErrEndpointUnreachable, "The camera is unreachable")
	}
	if !state.Reachable() {
		return d.replyError(ErrEndpointUnreachable, "The camera is unreachable")
	}
	if state.LowBattery() {
		return d.replyError(ErrEndpointLowPower, "The camera battery is low")
	}

	if p.Offer == nil || p.Offer.Value == "" {
		return d.replyError(ErrInvalidDirective, "missing SDP offer")
	}

	answer, err := h.cameras.Negotiate(ctx, token, serial, domain.SessionID(p.SessionID), domain.PlatformAlexa, p.Offer.Value)
	if err != nil {
		logFailure(ctx, err, "InitiateSessionWithOffer")
		return d.replyError(ErrInternal, "failed to negotiate the session")
	}

	zerolog.Ctx(ctx).Info().Str("session_id", p.SessionID).Msg("Answer generated")
	return d.reply(rtcSessionController, "AnswerGeneratedForSession", answerPayload{
		Answer: offer{Format: "SDP", Value: answer},
	})
}

// sessionEvent reports the lifecycle event and confirms it regardless.
func (h *SmartHome) sessionEvent(ctx context.Context, d *Directive, p sessionPayload, event domain.LiveEvent) *Response {
	token, errResp := h.endpointToken(ctx, d)
	if errResp != nil {
		return errResp
	}
	if err := h.cameras.ReportSession(ctx, token, event, domain.SessionID(p.SessionID), d.endpointID()); err != nil {
		logFailure(ctx, err, string(event))
	}
	return d.reply(rtcSessionController, d.Header.Name, sessionIDPayload{SessionID: p.SessionID})
}
