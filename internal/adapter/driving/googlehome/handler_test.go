package googlehome_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/Wyydra/voicebridge/internal/adapter/driving/googlehome"
	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/Wyydra/voicebridge/internal/core/port/mocks"
	"github.com/Wyydra/voicebridge/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	iot     *mocks.IoT
	oauth   *mocks.OAuth
	sig     *mocks.Signaling
	handler *googlehome.Handler
}

func newFixture() *fixture {
	f := &fixture{iot: new(mocks.IoT), oauth: new(mocks.OAuth), sig: new(mocks.Signaling)}
	backends := mocks.Backends{Environment: "bison", IoTService: f.iot, OAuthClient: f.oauth}
	f.handler = googlehome.NewHandler(
		service.NewCameraService(backends, service.NewNegotiator(f.sig)),
		service.NewAccountService(backends, ""),
	)
	return f
}

func bearer() string {
	return "Bearer " + mocks.RawToken("bison", "abc", "alice")
}

func (f *fixture) call(t *testing.T, body any) (googlehome.Reply, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	reply := f.handler.Handle(context.Background(), googlehome.Call{
		Authorization: bearer(),
		Body:          raw,
		RequestID:     "lambda-req-1",
		SignalingURL:  "https://fn.example.com/googlehome",
	})
	var m map[string]any
	require.NoError(t, json.Unmarshal(reply.Body, &m))
	return reply, m
}

func intent(name string, payload any) map[string]any {
	return map[string]any{
		"requestId": "g-1",
		"inputs":    []any{map[string]any{"intent": name, "payload": payload}},
	}
}

func TestHandler_NoAuthorization(t *testing.T) {
	reply := newFixture().handler.Handle(context.Background(), googlehome.Call{})

	assert.Equal(t, http.StatusOK, reply.StatusCode)
	assert.Equal(t, "HI", string(reply.Body))
	for k, v := range googlehome.CORSHeaders {
		assert.Equal(t, v, reply.Headers[k])
	}
}

func TestHandler_Offer(t *testing.T) {
	f := newFixture()
	f.iot.On("IssueTicket", mock.Anything, domain.TicketRequest{
		SerialNumber: "SN1",
		SessionID:    "lambda-req-1",
		Platform:     domain.PlatformGoogleHome,
	}).Return(mocks.Ticket(t, `{"signalServer":"sig"}`), nil)
	f.sig.On("Answer", mock.Anything, "sig", mocks.RawToken("bison", "abc", "alice"), mock.MatchedBy(func(r domain.AnswerRequest) bool {
		return r.DevicePlatform == domain.PlatformAlexa && r.SessionID == "lambda-req-1"
	})).Return("v=0 answer", nil)

	reply, m := f.call(t, map[string]any{"action": "offer", "deviceId": "SN1", "sdp": "v=0"})

	assert.Equal(t, http.StatusOK, reply.StatusCode)
	assert.Equal(t, "*", reply.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, map[string]any{"action": "answer", "sdp": "v=0 answer"}, m)
	f.iot.AssertNotCalled(t, "ReportLive", mock.Anything, mock.Anything)
}

func TestHandler_OfferFailure(t *testing.T) {
	f := newFixture()
	f.iot.On("IssueTicket", mock.Anything, mock.Anything).Return(nil, &domain.BackendError{Op: "ticket", Result: 2})

	reply, m := f.call(t, map[string]any{"action": "offer", "deviceId": "SN1", "sdp": "v=0"})

	assert.Equal(t, http.StatusBadGateway, reply.StatusCode)
	assert.Equal(t, "*", reply.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "error", m["action"])
}

func TestHandler_End(t *testing.T) {
	_, m := newFixture().call(t, map[string]any{"action": "end", "deviceId": "SN1"})

	assert.Empty(t, m)
}

func TestHandler_EndIgnoresToken(t *testing.T) {
	raw, _ := json.Marshal(map[string]any{"action": "end", "deviceId": "SN1"})

	reply := newFixture().handler.Handle(context.Background(), googlehome.Call{Authorization: "Bearer ???", Body: raw})

	assert.Equal(t, http.StatusOK, reply.StatusCode)
	assert.JSONEq(t, `{}`, string(reply.Body))
}

func TestHandler_Sync(t *testing.T) {
	f := newFixture()
	f.oauth.On("GoogleAccountLinked", mock.Anything).Return(nil)
	f.iot.On("NotifyAccountLinked", mock.Anything, domain.PlatformGoogleHome).Return(errors.New("ignored"))
	f.iot.On("TenantName", mock.Anything).Return("", errors.New("ignored"))
	f.iot.On("LinkedDevices", mock.Anything, domain.PlatformGoogleHome).Return([]domain.Device{
		{SerialNumber: "SN1", DeviceName: "Porch", ModelNo: "CG6", NewestFirmwareID: "1.2", DisplayGitSha: "abc"},
		{SerialNumber: "SN2", DeviceName: "Attic", Codec: domain.Codecs{"h265"}},
	}, nil)

	_, m := f.call(t, intent("action.devices.SYNC", map[string]any{}))

	assert.Equal(t, "g-1", m["requestId"])
	payload := m["payload"].(map[string]any)
	assert.Equal(t, "alice", payload["agentUserId"])

	devices := payload["devices"].([]any)
	require.Len(t, devices, 1)
	d := devices[0].(map[string]any)
	assert.Equal(t, "SN1", d["id"])
	assert.Equal(t, "action.devices.types.CAMERA", d["type"])
	assert.Equal(t, []any{
		"action.devices.traits.CameraStream",
		"action.devices.traits.ObjectDetection",
		"action.devices.traits.StatusReport",
		"action.devices.traits.OnOff",
	}, d["traits"])
	assert.Equal(t, map[string]any{"manufacturer": "Porch", "model": "CG6", "hwVersion": "1.2", "swVersion": "abc"}, d["deviceInfo"])
	assert.Equal(t, []any{"webrtc"}, d["attributes"].(map[string]any)["cameraStreamSupportedProtocols"])
	assert.Equal(t, []any{map[string]any{"deviceId": "SN1"}}, d["otherDeviceIds"])
	assert.Equal(t, true, d["willReportState"])
}

func TestHandler_QuerySkipsFailures(t *testing.T) {
	f := newFixture()
	f.iot.On("DeviceStatus", mock.Anything, "SN1").Return(&domain.DeviceStatus{Online: "1"}, nil)
	f.iot.On("DeviceStatus", mock.Anything, "SN2").Return(nil, &domain.BackendError{Op: "selectsingledevice", Result: 1})
	f.iot.On("DeviceStatus", mock.Anything, "SN3").Return(&domain.DeviceStatus{Online: "1", DeviceStatus: "3"}, nil)

	_, m := f.call(t, intent("action.devices.QUERY", map[string]any{
		"devices": []any{map[string]any{"id": "SN1"}, map[string]any{"id": "SN2"}, map[string]any{"id": "SN3"}},
	}))

	assert.Equal(t, map[string]any{
		"SN1": map[string]any{"on": true, "online": true},
		"SN3": map[string]any{"on": false, "online": false},
	}, m["payload"].(map[string]any)["devices"])
}

func TestHandler_Execute(t *testing.T) {
	_, m := newFixture().call(t, intent("action.devices.EXECUTE", map[string]any{
		"commands": []any{
			map[string]any{
				"devices":   []any{map[string]any{"id": "SN1"}},
				"execution": []any{map[string]any{"command": "action.devices.commands.GetCameraStream"}},
			},
			map[string]any{
				"devices":   []any{map[string]any{"id": "SN2"}},
				"execution": []any{map[string]any{"command": "action.devices.commands.OnOff"}},
			},
		},
	}))

	commands := m["payload"].(map[string]any)["commands"].([]any)
	require.Len(t, commands, 2)
	assert.Equal(t, map[string]any{
		"ids":    []any{"SN1"},
		"status": "SUCCESS",
		"states": map[string]any{
			"cameraStreamProtocol":     "webrtc",
			"cameraStreamSignalingUrl": "https://fn.example.com/googlehome",
		},
	}, commands[0])
	assert.Equal(t, "notSupported", commands[1].(map[string]any)["errorCode"])
}

func TestHandler_Disconnect(t *testing.T) {
	f := newFixture()
	f.oauth.On("GoogleAccountDisconnect", mock.Anything).Return(nil)

	_, m := f.call(t, intent("action.devices.DISCONNECT", nil))

	assert.Equal(t, map[string]any{"requestId": "g-1"}, m)
	f.oauth.AssertExpectations(t)
}

func TestHandler_UnknownIntent(t *testing.T) {
	_, m := newFixture().call(t, intent("action.devices.IDENTIFY", nil))

	assert.Equal(t, map[string]any{"errorCode": "notSupported"}, m["payload"])
}

func TestHandler_MalformedToken(t *testing.T) {
	f := newFixture()
	raw, _ := json.Marshal(intent("action.devices.SYNC", nil))

	reply := f.handler.Handle(context.Background(), googlehome.Call{Authorization: "Bearer ???", Body: raw})

	var m map[string]any
	require.NoError(t, json.Unmarshal(reply.Body, &m))
	assert.Equal(t, map[string]any{"errorCode": "authFailure"}, m["payload"])
}

func TestHandler_Signal(t *testing.T) {
	f := newFixture()
	var sessions []domain.SessionID
	f.iot.On("IssueTicket", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sessions = append(sessions, args.Get(1).(domain.TicketRequest).SessionID)
	}).Return(mocks.Ticket(t, `{"signalServer":"sig"}`), nil)
	f.sig.On("Answer", mock.Anything, "sig", mock.Anything, mock.Anything).Return("v=0 answer", nil)

	token := mocks.AccessToken(t, "bison", "abc")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		a, done := f.handler.Signal(ctx, token, googlehome.Message{Action: "offer", DeviceID: "SN1", SDP: "v=0"})
		assert.False(t, done)
		assert.Equal(t, googlehome.Answer{Action: "answer", SDP: "v=0 answer"}, a)
	}
	require.Len(t, sessions, 2)
	assert.NotEqual(t, sessions[0], sessions[1])

	a, done := f.handler.Signal(ctx, token, googlehome.Message{Action: "ping"})
	assert.False(t, done)
	assert.Equal(t, "error", a.Action)

	_, done = f.handler.Signal(ctx, token, googlehome.Message{Action: "end", DeviceID: "SN1"})
	assert.True(t, done)
}
