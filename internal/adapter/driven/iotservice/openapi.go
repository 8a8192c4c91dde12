package iotservice

import (
	"context"
	"strings"

	"github.com/Wyydra/voicebridge/internal/adapter/driven/rest"
	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/Wyydra/voicebridge/internal/core/port"
)

// OpenAPIClient issues tickets through the unauthenticated PaaS open api.
// The caller's query string is forwarded as is; it carries the signature.
// implements port.TicketIssuer
type OpenAPIClient struct {
	rest     *rest.Client
	baseURL  string
	rawQuery string
	tenantID string
	userID   string
}

func NewOpenAPIClient(r *rest.Client, baseURL, rawQuery, tenantID, userID string) *OpenAPIClient {
	return &OpenAPIClient{
		rest:     r,
		baseURL:  strings.TrimRight(baseURL, "/"),
		rawQuery: rawQuery,
		tenantID: tenantID,
		userID:   userID,
	}
}

type openTicketBody struct {
	TenantID       string           `json:"tenantId"`
	UserID         string           `json:"userId"`
	AlexaSessionID domain.SessionID `json:"alexaSessionId"`
	SerialNumber   string           `json:"serialNumber"`
}

func (c *OpenAPIClient) IssueTicket(ctx context.Context, req domain.TicketRequest) (*domain.ViewerTicket, error) {
	url := c.baseURL + "/open-api/alexa/webrtcanswer?" + c.rawQuery
	var ticket domain.ViewerTicket
	err := c.rest.Post(ctx, "webrtcanswer", url, "", openTicketBody{
		TenantID:       c.tenantID,
		UserID:         c.userID,
		AlexaSessionID: req.SessionID,
		SerialNumber:   req.SerialNumber,
	}, &ticket)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (c *OpenAPIClient) ReportLive(ctx context.Context, report domain.LiveReport) error {
	event := string(report.Event)
	return c.rest.Post(ctx, event, c.baseURL+"/report/live/"+event, "", liveBody{
		LiveID:       report.LiveID,
		SerialNumber: report.SerialNumber,
	}, nil)
}

// implements port.OpenAPI
type OpenAPIDirectory struct {
	rest *rest.Client
}

func NewOpenAPIDirectory(r *rest.Client) *OpenAPIDirectory {
	return &OpenAPIDirectory{rest: r}
}

func (d *OpenAPIDirectory) Issuer(baseURL, rawQuery, tenantID, userID string) port.TicketIssuer {
	return NewOpenAPIClient(d.rest, baseURL, rawQuery, tenantID, userID)
}
