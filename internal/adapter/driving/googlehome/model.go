package googlehome

import "encoding/json"

const (
	intentSync       = "action.devices.SYNC"
	intentQuery      = "action.devices.QUERY"
	intentExecute    = "action.devices.EXECUTE"
	intentDisconnect = "action.devices.DISCONNECT"

	commandGetCameraStream = "action.devices.commands.GetCameraStream"

	actionOffer  = "offer"
	actionEnd    = "end"
	actionAnswer = "answer"
	actionError  = "error"
)

// Message is either a smart home intent request or an out of band
// offer/end action.
type Message struct {
	Action   string `json:"action,omitempty"`
	DeviceID string `json:"deviceId,omitempty"`
	SDP      string `json:"sdp,omitempty"`
	Request
}

type Request struct {
	RequestID string  `json:"requestId"`
	Inputs    []Input `json:"inputs"`
}

type Input struct {
	Intent  string       `json:"intent"`
	Payload InputPayload `json:"payload"`
}

type InputPayload struct {
	Devices  []DeviceRef `json:"devices"`
	Commands []Command   `json:"commands"`
}

type DeviceRef struct {
	ID         string         `json:"id"`
	CustomData map[string]any `json:"customData,omitempty"`
}

type Command struct {
	Devices   []DeviceRef `json:"devices"`
	Execution []Execution `json:"execution"`
}

type Execution struct {
	Command string         `json:"command"`
	Params  map[string]any `json:"params,omitempty"`
}

type Response struct {
	RequestID string `json:"requestId"`
	Payload   any    `json:"payload,omitempty"`
}

type SyncPayload struct {
	AgentUserID string   `json:"agentUserId"`
	Devices     []Device `json:"devices"`
}

type Device struct {
	ID                           string          `json:"id"`
	Type                         string          `json:"type"`
	Traits                       []string        `json:"traits"`
	Name                         DeviceName      `json:"name"`
	DeviceInfo                   DeviceInfo      `json:"deviceInfo"`
	Attributes                   Attributes      `json:"attributes"`
	OtherDeviceIDs               []OtherDeviceID `json:"otherDeviceIds"`
	WillReportState              bool            `json:"willReportState"`
	NotificationSupportedByAgent bool            `json:"notificationSupportedByAgent"`
}

type DeviceName struct {
	DefaultNames []string `json:"defaultNames"`
	Name         string   `json:"name"`
	Nicknames    []string `json:"nicknames"`
}

type DeviceInfo struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	HwVersion    string `json:"hwVersion"`
	SwVersion    string `json:"swVersion"`
}

type Attributes struct {
	CameraStreamSupportedProtocols []string `json:"cameraStreamSupportedProtocols"`
	CameraStreamNeedAuthToken      bool     `json:"cameraStreamNeedAuthToken"`
	QueryOnlyOnOff                 bool     `json:"queryOnlyOnOff"`
	CommandOnlyOnOff               bool     `json:"commandOnlyOnOff"`
}

type OtherDeviceID struct {
	DeviceID string `json:"deviceId"`
}

type QueryPayload struct {
	Devices map[string]DeviceStates `json:"devices"`
}

type DeviceStates struct {
	On     bool `json:"on"`
	Online bool `json:"online"`
}

type ExecutePayload struct {
	Commands []CommandResult `json:"commands"`
}

type CommandResult struct {
	IDs       []string      `json:"ids"`
	Status    string        `json:"status"`
	States    *StreamStates `json:"states,omitempty"`
	ErrorCode string        `json:"errorCode,omitempty"`
}

type StreamStates struct {
	CameraStreamProtocol     string `json:"cameraStreamProtocol"`
	CameraStreamSignalingURL string `json:"cameraStreamSignalingUrl"`
}

type ErrorPayload struct {
	ErrorCode string `json:"errorCode"`
}

// Answer is the reply to an offer action.
type Answer struct {
	Action string `json:"action"`
	SDP    string `json:"sdp,omitempty"`
}

func encode(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return b
}
