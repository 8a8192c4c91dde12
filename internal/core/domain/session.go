package domain

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"
)

type Platform string

const (
	PlatformAlexa      Platform = "alexa"
	PlatformGoogleHome Platform = "googlehome"
)

func (p Platform) String() string {
	return string(p)
}

type SessionID string

func (s SessionID) String() string {
	return string(s)
}

// LiveID is how the backend names a viewer session in live reports.
func LiveID(platform Platform, sessionID SessionID) string {
	return platform.String() + "_" + sessionID.String()
}

type LiveEvent string

const (
	LiveSdpReturnAnswer     LiveEvent = "alexaSdpReturnAnswer"
	LiveSessionConnected    LiveEvent = "alexaSessionConnected"
	LiveSessionDisconnected LiveEvent = "alexaSessionDisconnected"
)

type LiveReport struct {
	Event        LiveEvent
	LiveID       string
	SerialNumber string
}

type TicketRequest struct {
	SerialNumber string
	SessionID    SessionID
	Platform     Platform
}

// OfferRequest is one offer/answer exchange. Offer is the already encoded
// sdpOffer field sent to the signaling server.
type OfferRequest struct {
	SerialNumber string
	SessionID    SessionID
	Platform     Platform
	Offer        string
	// bearer credential presented to the signaling server, may be empty
	SignalingToken string
	ReportAnswer   bool
}

// AnswerRequest is the body of getAlexaSdpAnswer.
type AnswerRequest struct {
	SdpOffer       string       `json:"sdpOffer"`
	ViewerTicket   ViewerTicket `json:"viewerTicket"`
	SessionID      SessionID    `json:"sessionId"`
	DevicePlatform Platform     `json:"devicePlatform"`
}

// EncodeOffer wraps a bare SDP into the {"type":"offer","sdp":...} document
// the signaling server expects.
func EncodeOffer(sdp string) (string, error) {
	b, err := json.Marshal(webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: sdp})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
