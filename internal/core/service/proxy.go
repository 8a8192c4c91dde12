package service

import (
	"context"

	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/Wyydra/voicebridge/internal/core/port"
)

// ProxyRequest is an offer relayed by a PaaS deployment on behalf of Alexa.
// Offer is already in the signaling server's sdpOffer form.
type ProxyRequest struct {
	BaseURL      string
	RawQuery     string
	TenantID     string
	UserID       string
	SessionID    domain.SessionID
	SerialNumber string
	Offer        string
}

// OfferProxy negotiates without a user token; the PaaS open api vouches for
// the caller.
type OfferProxy struct {
	openAPI    port.OpenAPI
	negotiator *Negotiator
}

func NewOfferProxy(openAPI port.OpenAPI, negotiator *Negotiator) *OfferProxy {
	return &OfferProxy{
		openAPI:    openAPI,
		negotiator: negotiator,
	}
}

func (p *OfferProxy) Answer(ctx context.Context, req ProxyRequest) (string, error) {
	issuer := p.openAPI.Issuer(req.BaseURL, req.RawQuery, req.TenantID, req.UserID)
	return p.negotiator.Exchange(ctx, issuer, domain.OfferRequest{
		SerialNumber: req.SerialNumber,
		SessionID:    req.SessionID,
		Platform:     domain.PlatformAlexa,
		Offer:        req.Offer,
		ReportAnswer: true,
	})
}
