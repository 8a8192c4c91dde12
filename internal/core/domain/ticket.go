package domain

import (
	"encoding/json"
	"strings"
)

// ViewerTicket is issued by the IoT backend for a viewer session. The raw
// document is forwarded to the signaling server untouched.
type ViewerTicket struct {
	raw json.RawMessage

	SignalServer   string      `json:"signalServer"`
	SignalServerIP string      `json:"signalServerIpAddress"`
	ICEServers     []ICEServer `json:"iceServer"`
}

type ICEServer struct {
	URL        string `json:"url"`
	Username   string `json:"username"`
	Credential string `json:"credential"`
	IPAddress  string `json:"ipAddress"`
}

func (t *ViewerTicket) UnmarshalJSON(b []byte) error {
	type fields ViewerTicket
	var f fields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*t = ViewerTicket(f)
	t.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (t ViewerTicket) MarshalJSON() ([]byte, error) {
	if len(t.raw) > 0 {
		return t.raw, nil
	}
	type fields ViewerTicket
	return json.Marshal(fields(t))
}

// SignalingAddress returns the host (scheme stripped) or, failing that, the
// bare IP of the signaling server.
func (t ViewerTicket) SignalingAddress() (string, error) {
	host := t.SignalServer
	if i := strings.Index(host, "//"); i != -1 {
		host = host[i+2:]
	}
	if host != "" {
		return host, nil
	}
	if t.SignalServerIP != "" {
		return t.SignalServerIP, nil
	}
	return "", ErrNoSignalServer
}
