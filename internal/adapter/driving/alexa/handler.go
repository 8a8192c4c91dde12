package alexa

import (
	"context"
	"strings"

	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/Wyydra/voicebridge/internal/core/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrorResponse types
const (
	ErrInvalidDirective    = "INVALID_DIRECTIVE"
	ErrInternal            = "INTERNAL_ERROR"
	ErrInvalidCredential   = "INVALID_AUTHORIZATION_CREDENTIAL"
	ErrEndpointUnreachable = "ENDPOINT_UNREACHABLE"
	ErrEndpointLowPower    = "ENDPOINT_LOW_POWER"
	ErrAcceptGrantFailed   = "ACCEPT_GRANT_FAILED"
)

// namespaces are matched lowercased
const (
	namespaceAlexa         = "alexa"
	namespaceAuthorization = "alexa.authorization"
	namespaceDiscovery     = "alexa.discovery"
	namespaceRTCSession    = "alexa.rtcsessioncontroller"
)

const rtcSessionController = "Alexa.RTCSessionController"

// SmartHome dispatches Smart Home v3 directives.
type SmartHome struct {
	cameras  *service.CameraService
	accounts *service.AccountService
}

func NewSmartHome(cameras *service.CameraService, accounts *service.AccountService) *SmartHome {
	return &SmartHome{
		cameras:  cameras,
		accounts: accounts,
	}
}

// Handle never fails; a nil response means the directive is dropped.
func (h *SmartHome) Handle(ctx context.Context, req Request) *Response {
	if req.Directive == nil {
		return NewErrorResponse(ResponseOptions{}, ErrInvalidDirective, "Missing key: directive, Is request a valid Alexa directive?")
	}
	d := req.Directive
	if d.Header.PayloadVersion != payloadVersion {
		return NewErrorResponse(ResponseOptions{}, ErrInternal, "This skill only supports Smart Home API version 3")
	}

	l := log.With().
		Str("namespace", d.Header.Namespace).
		Str("name", d.Header.Name).
		Str("message_id", d.Header.MessageID).
		Str("endpoint_id", d.endpointID()).
		Logger()
	ctx = l.WithContext(ctx)
	l.Info().Msg("Directive received")

	switch strings.ToLower(d.Header.Namespace) {
	case namespaceAuthorization:
		return h.acceptGrant(ctx, d)
	case namespaceDiscovery:
		return h.discover(ctx, d)
	case namespaceRTCSession:
		return h.rtcSession(ctx, d)
	case namespaceAlexa:
		return h.alexa(ctx, d)
	default:
		return NewErrorResponse(ResponseOptions{}, ErrInvalidDirective, d.Header.Namespace+" is not a capability handled by the skill")
	}
}

func (h *SmartHome) acceptGrant(ctx context.Context, d *Directive) *Response {
	var p grantPayload
	if err := d.decodePayload(&p); err != nil {
		return NewErrorResponse(ResponseOptions{}, ErrInvalidDirective, "malformed AcceptGrant payload")
	}
	token, err := domain.ParseAccessToken(p.Grantee.Token)
	if err != nil {
		logFailure(ctx, err, "AcceptGrant")
		return NewErrorResponse(ResponseOptions{}, ErrInvalidCredential, "grantee token is not valid")
	}
	if err := h.accounts.AcceptGrant(ctx, token, p.Grant.Code); err != nil {
		logFailure(ctx, err, "AcceptGrant")
		return NewErrorResponse(ResponseOptions{Namespace: "Alexa.Authorization"}, ErrAcceptGrantFailed, "failed to link account")
	}
	return NewResponse(ResponseOptions{
		Namespace: "Alexa.Authorization",
		Name:      "AcceptGrant.Response",
	})
}

func (h *SmartHome) alexa(ctx context.Context, d *Directive) *Response {
	switch d.Header.Name {
	case "ReportState":
		return h.reportState(ctx, d)
	default:
		return NewErrorResponse(ResponseOptions{}, ErrInvalidDirective, d.Header.Name+" is not a directive handled by the skill")
	}
}

// endpointToken parses the token of an endpoint scoped directive.
func (h *SmartHome) endpointToken(ctx context.Context, d *Directive) (domain.AccessToken, *Response) {
	token, err := domain.ParseAccessToken(d.endpointToken())
	if err != nil {
		logFailure(ctx, err, d.Header.Name)
		return domain.AccessToken{}, d.replyError(ErrInvalidCredential, "endpoint token is not valid")
	}
	return token, nil
}

func logFailure(ctx context.Context, err error, what string) {
	zerolog.Ctx(ctx).Error().
		Err(err).
		Str("kind", domain.Kind(err)).
		Msgf("%s failed", what)
}
