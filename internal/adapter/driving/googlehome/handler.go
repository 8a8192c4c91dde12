package googlehome

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/Wyydra/voicebridge/internal/core/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CORSHeaders go on the greeting and on offer replies.
var CORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "POST, GET, OPTIONS, DELETE",
	"Access-Control-Max-Age":       "3600",
	"Access-Control-Allow-Headers": "Authorization, Origin, X-Requested-With, Content-Type, Accept, *",
}

// Call is one fulfillment invocation, independent of the transport.
type Call struct {
	Authorization string
	Body          []byte
	// used as the session id of offers
	RequestID string
	// advertised back to Google as the signaling endpoint
	SignalingURL string
}

type Reply struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

type Handler struct {
	cameras  *service.CameraService
	accounts *service.AccountService
}

func NewHandler(cameras *service.CameraService, accounts *service.AccountService) *Handler {
	return &Handler{
		cameras:  cameras,
		accounts: accounts,
	}
}

func (h *Handler) Handle(ctx context.Context, c Call) Reply {
	if c.Authorization == "" {
		return Reply{StatusCode: http.StatusOK, Headers: cors("text/plain"), Body: []byte("HI")}
	}

	var msg Message
	if err := json.Unmarshal(c.Body, &msg); err != nil {
		log.Warn().Err(err).Msg("Undecodable fulfillment body")
		return Reply{StatusCode: http.StatusBadRequest, Headers: jsonHeaders(), Body: []byte(`{}`)}
	}

	l := log.With().Str("request_id", c.RequestID).Logger()
	ctx = l.WithContext(ctx)

	if msg.Action == actionEnd {
		l.Info().Str("device_id", msg.DeviceID).Msg("Stream ended")
		return jsonReply(struct{}{})
	}

	token, err := domain.ParseAccessToken(c.Authorization)
	if err != nil {
		l.Error().Err(err).Str("kind", domain.Kind(err)).Msg("Rejected fulfillment token")
		if msg.Action == actionOffer {
			return offerReply(http.StatusUnauthorized, Answer{Action: actionError})
		}
		return jsonReply(Response{RequestID: msg.RequestID, Payload: ErrorPayload{ErrorCode: "authFailure"}})
	}

	switch msg.Action {
	case actionOffer:
		answer, err := h.Offer(ctx, token, domain.SessionID(c.RequestID), msg.DeviceID, msg.SDP)
		if err != nil {
			return offerReply(http.StatusBadGateway, answer)
		}
		return offerReply(http.StatusOK, answer)
	}

	return jsonReply(h.Fulfill(ctx, token, msg.Request, c.SignalingURL))
}

// Offer negotiates a stream for deviceID. The returned Answer is usable
// even on error.
func (h *Handler) Offer(ctx context.Context, token domain.AccessToken, sessionID domain.SessionID, deviceID, sdp string) (Answer, error) {
	answer, err := h.cameras.Negotiate(ctx, token, deviceID, sessionID, domain.PlatformGoogleHome, sdp)
	if err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Str("kind", domain.Kind(err)).
			Str("device_id", deviceID).
			Msg("Offer failed")
		return Answer{Action: actionError}, err
	}
	return Answer{Action: actionAnswer, SDP: answer}, nil
}

// Signal handles one message of a streaming connection. Each offer gets a
// fresh session id. done is set once the peer ends the stream.
func (h *Handler) Signal(ctx context.Context, token domain.AccessToken, msg Message) (a Answer, done bool) {
	switch msg.Action {
	case actionOffer:
		a, _ = h.Offer(ctx, token, domain.NewSessionID(), msg.DeviceID, msg.SDP)
		return a, false
	case actionEnd:
		zerolog.Ctx(ctx).Info().Str("device_id", msg.DeviceID).Msg("Stream ended")
		return Answer{}, true
	default:
		zerolog.Ctx(ctx).Warn().Str("action", msg.Action).Msg("Unexpected stream message")
		return Answer{Action: actionError}, false
	}
}

// Fulfill answers a smart home intent request.
func (h *Handler) Fulfill(ctx context.Context, token domain.AccessToken, req Request, signalingURL string) Response {
	if len(req.Inputs) == 0 {
		return Response{RequestID: req.RequestID, Payload: ErrorPayload{ErrorCode: "protocolError"}}
	}
	input := req.Inputs[0]
	l := zerolog.Ctx(ctx)
	l.Info().Str("intent", input.Intent).Msg("Intent received")

	switch input.Intent {
	case intentSync:
		return h.sync(ctx, token, req.RequestID)
	case intentQuery:
		return Response{RequestID: req.RequestID, Payload: h.query(ctx, token, input.Payload.Devices)}
	case intentExecute:
		return Response{RequestID: req.RequestID, Payload: execute(input.Payload.Commands, signalingURL)}
	case intentDisconnect:
		if err := h.accounts.GoogleDisconnect(ctx, token); err != nil {
			l.Error().Err(err).Str("kind", domain.Kind(err)).Msg("Disconnect failed")
		}
		return Response{RequestID: req.RequestID}
	default:
		return Response{RequestID: req.RequestID, Payload: ErrorPayload{ErrorCode: "notSupported"}}
	}
}

func (h *Handler) sync(ctx context.Context, token domain.AccessToken, requestID string) Response {
	h.accounts.GoogleLinked(ctx, token)

	payload := SyncPayload{AgentUserID: token.UserName(), Devices: []Device{}}
	inv, err := h.cameras.LinkedCameras(ctx, token, domain.PlatformGoogleHome)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("kind", domain.Kind(err)).Msg("Sync failed")
		return Response{RequestID: requestID, Payload: payload}
	}
	for _, d := range inv.Devices {
		payload.Devices = append(payload.Devices, describe(inv, d))
	}
	return Response{RequestID: requestID, Payload: payload}
}

func describe(inv domain.Inventory, d domain.Device) Device {
	return Device{
		ID:   d.SerialNumber,
		Type: "action.devices.types.CAMERA",
		Traits: []string{
			"action.devices.traits.CameraStream",
			"action.devices.traits.ObjectDetection",
			"action.devices.traits.StatusReport",
			"action.devices.traits.OnOff",
		},
		Name: DeviceName{
			DefaultNames: []string{d.DeviceName},
			Name:         d.DeviceName,
			Nicknames:    []string{d.DeviceName},
		},
		DeviceInfo: DeviceInfo{
			Manufacturer: inv.Manufacturer(d),
			Model:        d.Model(),
			HwVersion:    d.NewestFirmwareID,
			SwVersion:    d.DisplayGitSha,
		},
		Attributes: Attributes{
			CameraStreamSupportedProtocols: []string{"webrtc"},
			CameraStreamNeedAuthToken:      true,
			QueryOnlyOnOff:                 true,
			CommandOnlyOnOff:               false,
		},
		OtherDeviceIDs:               []OtherDeviceID{{DeviceID: d.SerialNumber}},
		WillReportState:              true,
		NotificationSupportedByAgent: true,
	}
}

// query looks devices up one at a time; failed lookups are left out.
func (h *Handler) query(ctx context.Context, token domain.AccessToken, devices []DeviceRef) QueryPayload {
	out := QueryPayload{Devices: make(map[string]DeviceStates, len(devices))}
	for _, d := range devices {
		state, err := h.cameras.State(ctx, token, d.ID)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("device_id", d.ID).Msg("Query skipped device")
			continue
		}
		online := state.Reachable()
		out.Devices[d.ID] = DeviceStates{On: online, Online: online}
	}
	return out
}

func execute(commands []Command, signalingURL string) ExecutePayload {
	out := ExecutePayload{Commands: []CommandResult{}}
	for _, c := range commands {
		ids := make([]string, 0, len(c.Devices))
		for _, d := range c.Devices {
			ids = append(ids, d.ID)
		}
		for _, e := range c.Execution {
			if e.Command != commandGetCameraStream {
				out.Commands = append(out.Commands, CommandResult{IDs: ids, Status: "ERROR", ErrorCode: "notSupported"})
				continue
			}
			out.Commands = append(out.Commands, CommandResult{
				IDs:    ids,
				Status: "SUCCESS",
				States: &StreamStates{
					CameraStreamProtocol:     "webrtc",
					CameraStreamSignalingURL: signalingURL,
				},
			})
		}
	}
	return out
}

func cors(contentType string) map[string]string {
	headers := make(map[string]string, len(CORSHeaders)+1)
	for k, v := range CORSHeaders {
		headers[k] = v
	}
	headers["Content-Type"] = contentType
	return headers
}

func jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

func jsonReply(v any) Reply {
	return Reply{StatusCode: http.StatusOK, Headers: jsonHeaders(), Body: encode(v)}
}

func offerReply(status int, a Answer) Reply {
	return Reply{StatusCode: status, Headers: cors("application/json"), Body: encode(a)}
}
