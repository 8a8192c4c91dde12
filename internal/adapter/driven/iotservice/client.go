package iotservice

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Wyydra/voicebridge/internal/adapter/driven/rest"
	"github.com/Wyydra/voicebridge/internal/core/domain"
)

// Client talks to one environment's IoT service on behalf of one user.
// implements port.IoTService
type Client struct {
	rest    *rest.Client
	baseURL string
	token   string
}

func NewClient(r *rest.Client, baseURL string, token domain.AccessToken) *Client {
	return &Client{
		rest:    r,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token.String(),
	}
}

type sessionConfig struct {
	DevicePlatform domain.Platform  `json:"devicePlatform"`
	SessionID      domain.SessionID `json:"sessionId"`
}

type alexaConfig struct {
	SessionID domain.SessionID `json:"sessionId"`
}

type ticketBody struct {
	SerialNumber string `json:"serialNumber"`
	Config       string `json:"config"`
	AlexaConfig  string `json:"alexaConfig,omitempty"`
}

type liveBody struct {
	LiveID       string `json:"liveId"`
	SerialNumber string `json:"serialNumber"`
}

type serialBody struct {
	SerialNumber string `json:"serialNumber"`
}

type rotateBody struct {
	SerialNumber string  `json:"serialNumber"`
	Pitch        float64 `json:"pitch"`
	Yaw          float64 `json:"yaw"`
}

func (c *Client) IssueTicket(ctx context.Context, req domain.TicketRequest) (*domain.ViewerTicket, error) {
	cfg, err := json.Marshal(sessionConfig{DevicePlatform: req.Platform, SessionID: req.SessionID})
	if err != nil {
		return nil, err
	}
	body := ticketBody{SerialNumber: req.SerialNumber, Config: string(cfg)}
	if req.Platform == domain.PlatformAlexa {
		ac, err := json.Marshal(alexaConfig{SessionID: req.SessionID})
		if err != nil {
			return nil, err
		}
		body.AlexaConfig = string(ac)
	}

	var ticket domain.ViewerTicket
	if err := c.rest.Post(ctx, "notAppGetWebrtcTicket", c.baseURL+"/device/notAppGetWebrtcTicket", c.token, body, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (c *Client) ReportLive(ctx context.Context, report domain.LiveReport) error {
	event := string(report.Event)
	return c.rest.Post(ctx, event, c.baseURL+"/report/live/"+event, c.token, liveBody{
		LiveID:       report.LiveID,
		SerialNumber: report.SerialNumber,
	}, nil)
}

func (c *Client) TenantName(ctx context.Context) (string, error) {
	var data struct {
		TenantName string `json:"tenantName"`
	}
	if err := c.rest.Post(ctx, "querytenantnamebyuserId", c.baseURL+"/user/querytenantnamebyuserId", c.token, nil, &data); err != nil {
		return "", err
	}
	return data.TenantName, nil
}

func (c *Client) LinkedDevices(ctx context.Context, platform domain.Platform) ([]domain.Device, error) {
	var data struct {
		PlatformLinkedDevicesMap map[string][]domain.Device `json:"platformLinkedDevicesMap"`
	}
	if err := c.rest.Post(ctx, "listplatformlinkeddevices", c.baseURL+"/device/listplatformlinkeddevices", c.token, nil, &data); err != nil {
		return nil, err
	}
	return data.PlatformLinkedDevicesMap[platform.String()], nil
}

func (c *Client) DeviceStatus(ctx context.Context, serialNumber string) (*domain.DeviceStatus, error) {
	var status domain.DeviceStatus
	if err := c.rest.Post(ctx, "selectsingledevice", c.baseURL+"/device/selectsingledevice", c.token, serialBody{SerialNumber: serialNumber}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) NotifyAccountLinked(ctx context.Context, platform domain.Platform) error {
	switch platform {
	case domain.PlatformAlexa:
		return c.rest.Post(ctx, "alexaAccountLinkSuccess", c.baseURL+"/alexa/lambda/alexaAccountLinkSuccess", c.token, nil, nil)
	default:
		return c.rest.Post(ctx, "googleAccountLinkSuccess", c.baseURL+"/google/lambda/googleAccountLinkSuccess", c.token, nil, nil)
	}
}

func (c *Client) Rotate(ctx context.Context, serialNumber string, r domain.Rotation) error {
	return c.rest.Post(ctx, "rotate", c.baseURL+"/device/rotate", c.token, rotateBody{
		SerialNumber: serialNumber,
		Pitch:        r.Pitch,
		Yaw:          r.Yaw,
	}, nil)
}
