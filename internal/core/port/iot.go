package port

import (
	"context"

	"github.com/Wyydra/voicebridge/internal/core/domain"
)

// TicketIssuer hands out viewer tickets and records live session events.
type TicketIssuer interface {
	IssueTicket(ctx context.Context, req domain.TicketRequest) (*domain.ViewerTicket, error)
	ReportLive(ctx context.Context, report domain.LiveReport) error
}

type IoTService interface {
	TicketIssuer
	TenantName(ctx context.Context) (string, error)
	LinkedDevices(ctx context.Context, platform domain.Platform) ([]domain.Device, error)
	DeviceStatus(ctx context.Context, serialNumber string) (*domain.DeviceStatus, error)
	NotifyAccountLinked(ctx context.Context, platform domain.Platform) error
	Rotate(ctx context.Context, serialNumber string, r domain.Rotation) error
}

type OAuthService interface {
	AmazonAuthorization(ctx context.Context, code, eventGateway string) error
	GoogleAccountLinked(ctx context.Context) error
	GoogleAccountDisconnect(ctx context.Context) error
}

// Backends resolves the per environment clients for a caller's token.
type Backends interface {
	IoT(token domain.AccessToken) (IoTService, error)
	OAuth(token domain.AccessToken) (OAuthService, error)
}

// OpenAPI hands out the unauthenticated ticket issuer of a PaaS deployment.
// rawQuery carries the caller's request signature.
type OpenAPI interface {
	Issuer(baseURL, rawQuery, tenantID, userID string) TicketIssuer
}
