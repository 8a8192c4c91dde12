package offerproxy

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/Wyydra/voicebridge/internal/core/service"
	"github.com/rs/zerolog/log"
)

const (
	codeInvalidRequest = -102
	codeNegotiation    = -103

	domainMarker = "lambda-"
)

// Call is one proxied offer. DomainName is the host the request came in on
// and RawQuery its untouched query string.
type Call struct {
	DomainName string
	RawQuery   string
	Body       []byte
}

type Reply struct {
	StatusCode int
	Body       []byte
}

type offerBody struct {
	TenantID       string `json:"tenantId"`
	UserID         string `json:"userId"`
	AlexaSessionID string `json:"alexaSessionId"`
	AlexaOffer     string `json:"alexaOffer"`
	SerialNumber   string `json:"serialNumber"`
}

type failure struct {
	Code int      `json:"code"`
	Msg  string   `json:"msg"`
	Data struct{} `json:"data"`
}

type answer struct {
	AlexaAnswer string `json:"alexaAnswer"`
}

type Handler struct {
	proxy *service.OfferProxy
}

func NewHandler(proxy *service.OfferProxy) *Handler {
	return &Handler{proxy: proxy}
}

func (h *Handler) Handle(ctx context.Context, c Call) Reply {
	var body offerBody
	if err := json.Unmarshal(c.Body, &body); err != nil {
		log.Warn().Err(err).Msg("Undecodable offer body")
		return reject("invalid body")
	}

	if !strings.Contains(c.DomainName, domainMarker) {
		return reject("must request with lambda-api domain")
	}
	if body.TenantID == "" || body.UserID == "" {
		return reject("no tenantId or userId")
	}
	if body.AlexaSessionID == "" || body.AlexaOffer == "" {
		return reject("no alexaSessionId or alexaOffer")
	}
	if body.SerialNumber == "" {
		return reject("no serialNumber")
	}

	l := log.With().
		Str("tenant_id", body.TenantID).
		Str("serial_number", body.SerialNumber).
		Str("session_id", body.AlexaSessionID).
		Logger()

	sdp, err := h.proxy.Answer(l.WithContext(ctx), service.ProxyRequest{
		BaseURL:      PaaSBaseURL(c.DomainName),
		RawQuery:     c.RawQuery,
		TenantID:     body.TenantID,
		UserID:       body.UserID,
		SessionID:    domain.SessionID(body.AlexaSessionID),
		SerialNumber: body.SerialNumber,
		Offer:        body.AlexaOffer,
	})
	if err != nil {
		kind := domain.Kind(err)
		l.Error().Err(err).Str("kind", kind).Msg("Proxied offer failed")
		return reply(http.StatusBadGateway, failure{Code: codeNegotiation, Msg: kind})
	}

	l.Info().Msg("Proxied offer answered")
	return reply(http.StatusOK, answer{AlexaAnswer: sdp})
}

// PaaSBaseURL maps the lambda-api domain onto the PaaS deployment behind it.
func PaaSBaseURL(domainName string) string {
	return "https://" + strings.Replace(domainName, domainMarker, "", 1)
}

func reject(msg string) Reply {
	return reply(http.StatusOK, failure{Code: codeInvalidRequest, Msg: msg})
}

func reply(status int, v any) Reply {
	b, err := json.Marshal(v)
	if err != nil {
		return Reply{StatusCode: http.StatusInternalServerError, Body: []byte(`{}`)}
	}
	return Reply{StatusCode: status, Body: b}
}
