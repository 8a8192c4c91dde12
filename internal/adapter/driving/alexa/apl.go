package alexa

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/Wyydra/voicebridge/internal/core/service"
	"github.com/rs/zerolog/log"
)

//go:embed apl_document.json
var directionDocument []byte

const (
	welcomeSpeech  = "Welcome to use direction helper, have fun"
	renderDocument = "Alexa.Presentation.APL.RenderDocument"
	aplUserEvent   = "Alexa.Presentation.APL.UserEvent"
)

// SkillRequest is a custom skill invocation.
type SkillRequest struct {
	Version string `json:"version"`
	Context struct {
		System struct {
			User struct {
				UserID      string `json:"userId"`
				AccessToken string `json:"accessToken"`
			} `json:"user"`
		} `json:"System"`
	} `json:"context"`
	Request struct {
		Type      string `json:"type"`
		RequestID string `json:"requestId"`
		Arguments []any  `json:"arguments"`
	} `json:"request"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type SkillDirective struct {
	Type     string          `json:"type"`
	Token    string          `json:"token"`
	Document json.RawMessage `json:"document"`
}

type SkillResponseBody struct {
	OutputSpeech     *OutputSpeech    `json:"outputSpeech,omitempty"`
	ShouldEndSession *bool            `json:"shouldEndSession,omitempty"`
	Directives       []SkillDirective `json:"directives,omitempty"`
}

type SkillResponse struct {
	Version           string             `json:"version"`
	SessionAttributes map[string]any     `json:"sessionAttributes"`
	Response          *SkillResponseBody `json:"response"`
}

// APL renders the direction pad and turns button presses into rotations.
type APL struct {
	cameras *service.CameraService
	// rotated when the event does not name a camera
	defaultSerial string
}

func NewAPL(cameras *service.CameraService, defaultSerial string) *APL {
	return &APL{
		cameras:       cameras,
		defaultSerial: defaultSerial,
	}
}

func (h *APL) Handle(ctx context.Context, req SkillRequest) *SkillResponse {
	resp := &SkillResponse{
		Version:           "1.0",
		SessionAttributes: map[string]any{},
	}

	switch req.Request.Type {
	case "LaunchRequest", "IntentRequest":
		keepOpen := false
		resp.Response = &SkillResponseBody{
			OutputSpeech:     &OutputSpeech{Type: "PlainText", Text: welcomeSpeech},
			ShouldEndSession: &keepOpen,
			Directives: []SkillDirective{{
				Type:     renderDocument,
				Token:    "directionHelper",
				Document: json.RawMessage(directionDocument),
			}},
		}
	case aplUserEvent:
		resp.Response = h.rotate(ctx, req)
	default:
		log.Debug().Str("type", req.Request.Type).Msg("Skill request ignored")
	}
	return resp
}

func (h *APL) rotate(ctx context.Context, req SkillRequest) *SkillResponseBody {
	args := make([]string, 0, len(req.Request.Arguments))
	for _, a := range req.Request.Arguments {
		args = append(args, fmt.Sprint(a))
	}
	echo, _ := json.Marshal(req.Request.Arguments)

	serial := h.defaultSerial
	if len(args) > 1 && args[1] != "" {
		serial = args[1]
	}
	l := log.With().Str("request_id", req.Request.RequestID).Str("serial_number", serial).Logger()

	token, err := domain.ParseAccessToken(req.Context.System.User.AccessToken)
	if err != nil {
		l.Error().Err(err).Str("kind", domain.Kind(err)).Msg("Rotate refused")
		return speech("Please link your account to move the camera")
	}
	if serial == "" {
		l.Warn().Msg("No camera configured for rotation")
		return speech("No camera is configured for rotation")
	}

	r := domain.RotationFor(args)
	if err := h.cameras.Rotate(ctx, token, serial, r); err != nil {
		l.Error().Err(err).Str("kind", domain.Kind(err)).Msg("Rotate failed")
		return speech("Failed to rotate the camera")
	}
	l.Info().Float64("pitch", r.Pitch).Float64("yaw", r.Yaw).Msg("Camera rotated")
	return speech(string(echo))
}

func speech(text string) *SkillResponseBody {
	return &SkillResponseBody{
		OutputSpeech: &OutputSpeech{Type: "PlainText", Text: text},
	}
}
