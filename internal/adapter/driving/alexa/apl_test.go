package alexa_test

import (
	"testing"

	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/Wyydra/voicebridge/internal/core/port/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func skillRequest(reqType string, args []any) map[string]any {
	return map[string]any{
		"version": "1.0",
		"context": map[string]any{
			"System": map[string]any{
				"user": map[string]any{"userId": "u", "accessToken": mocks.RawToken("bison", "abc", "alice")},
			},
		},
		"request": map[string]any{"type": reqType, "requestId": "r-1", "arguments": args},
	}
}

func TestAPL_RenderDocument(t *testing.T) {
	m := newFixture("SN-APL").invoke(t, skillRequest("IntentRequest", nil))

	assert.Equal(t, "1.0", m["version"])
	assert.Equal(t, map[string]any{}, m["sessionAttributes"])

	resp := m["response"].(map[string]any)
	assert.Equal(t, "Welcome to use direction helper, have fun", resp["outputSpeech"].(map[string]any)["text"])
	assert.Equal(t, false, resp["shouldEndSession"])

	directives := resp["directives"].([]any)
	require.Len(t, directives, 1)
	d := directives[0].(map[string]any)
	assert.Equal(t, "Alexa.Presentation.APL.RenderDocument", d["type"])
	doc := d["document"].(map[string]any)
	assert.Equal(t, "APL", doc["type"])
	assert.Equal(t, "1.8", doc["version"])
}

func TestAPL_UserEventRotates(t *testing.T) {
	tests := []struct {
		arg  string
		want domain.Rotation
	}{
		{"up", domain.Rotation{Pitch: 0.1}},
		{"down", domain.Rotation{Pitch: -0.1}},
		{"left", domain.Rotation{Yaw: -0.1}},
		{"right", domain.Rotation{Yaw: 0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			f := newFixture("SN-APL")
			f.iot.On("Rotate", mock.Anything, "SN-APL", tt.want).Return(nil)

			m := f.invoke(t, skillRequest("Alexa.Presentation.APL.UserEvent", []any{tt.arg}))

			speech := m["response"].(map[string]any)["outputSpeech"].(map[string]any)
			assert.Equal(t, `["`+tt.arg+`"]`, speech["text"])
			f.iot.AssertExpectations(t)
		})
	}
}

func TestAPL_UserEventNamedCamera(t *testing.T) {
	f := newFixture("SN-APL")
	f.iot.On("Rotate", mock.Anything, "SN-OTHER", domain.Rotation{Yaw: 0.1}).Return(nil)

	f.invoke(t, skillRequest("Alexa.Presentation.APL.UserEvent", []any{"right", "SN-OTHER"}))

	f.iot.AssertExpectations(t)
}

func TestAPL_OtherRequestHasNullResponse(t *testing.T) {
	m := newFixture("").invoke(t, skillRequest("SessionEndedRequest", nil))

	assert.Contains(t, m, "response")
	assert.Nil(t, m["response"])
}
