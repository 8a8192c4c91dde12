// Package mocks holds testify fakes of the core ports.
package mocks

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/Wyydra/voicebridge/internal/core/port"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type IoT struct {
	mock.Mock
}

func (m *IoT) IssueTicket(ctx context.Context, req domain.TicketRequest) (*domain.ViewerTicket, error) {
	args := m.Called(ctx, req)
	if t := args.Get(0); t != nil {
		return t.(*domain.ViewerTicket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *IoT) ReportLive(ctx context.Context, report domain.LiveReport) error {
	return m.Called(ctx, report).Error(0)
}

func (m *IoT) TenantName(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *IoT) LinkedDevices(ctx context.Context, platform domain.Platform) ([]domain.Device, error) {
	args := m.Called(ctx, platform)
	if d := args.Get(0); d != nil {
		return d.([]domain.Device), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *IoT) DeviceStatus(ctx context.Context, serialNumber string) (*domain.DeviceStatus, error) {
	args := m.Called(ctx, serialNumber)
	if s := args.Get(0); s != nil {
		return s.(*domain.DeviceStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *IoT) NotifyAccountLinked(ctx context.Context, platform domain.Platform) error {
	return m.Called(ctx, platform).Error(0)
}

func (m *IoT) Rotate(ctx context.Context, serialNumber string, r domain.Rotation) error {
	return m.Called(ctx, serialNumber, r).Error(0)
}

type OAuth struct {
	mock.Mock
}

func (m *OAuth) AmazonAuthorization(ctx context.Context, code, eventGateway string) error {
	return m.Called(ctx, code, eventGateway).Error(0)
}

func (m *OAuth) GoogleAccountLinked(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *OAuth) GoogleAccountDisconnect(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type Signaling struct {
	mock.Mock
}

func (m *Signaling) Answer(ctx context.Context, address, token string, req domain.AnswerRequest) (string, error) {
	args := m.Called(ctx, address, token, req)
	return args.String(0), args.Error(1)
}

type Store struct {
	mock.Mock
}

func (m *Store) Set(ctx context.Context, key, value string) (string, error) {
	args := m.Called(ctx, key, value)
	return args.String(0), args.Error(1)
}

func (m *Store) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *Store) Delete(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

// Backends serves the fakes for tokens of Environment only.
type Backends struct {
	Environment string
	IoTService  *IoT
	OAuthClient *OAuth
}

func (b Backends) IoT(token domain.AccessToken) (port.IoTService, error) {
	if token.Environment() != b.Environment || b.IoTService == nil {
		return nil, domain.ErrUnknownEnvironment
	}
	return b.IoTService, nil
}

func (b Backends) OAuth(token domain.AccessToken) (port.OAuthService, error) {
	if token.Environment() != b.Environment || b.OAuthClient == nil {
		return nil, domain.ErrUnknownEnvironment
	}
	return b.OAuthClient, nil
}

// RawToken builds a Basic access token whose jti wraps env_backendToken.
func RawToken(env, backendToken, userName string) string {
	jti := base64.StdEncoding.EncodeToString([]byte(env + "_" + backendToken))
	claims := `{"jti":"` + jti + `","user_name":"` + userName + `"}`
	return "Basic" + base64.StdEncoding.EncodeToString([]byte(claims))
}

func AccessToken(t *testing.T, env, backendToken string) domain.AccessToken {
	t.Helper()
	tok, err := domain.ParseAccessToken(RawToken(env, backendToken, "alice"))
	require.NoError(t, err)
	return tok
}

func Ticket(t *testing.T, body string) *domain.ViewerTicket {
	t.Helper()
	var ticket domain.ViewerTicket
	require.NoError(t, json.Unmarshal([]byte(body), &ticket))
	return &ticket
}
