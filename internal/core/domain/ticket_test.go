package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewerTicket_SignalingAddress(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		err  error
	}{
		{"host with scheme", `{"signalServer":"wss://sig.example.com","signalServerIpAddress":"10.0.0.1"}`, "sig.example.com", nil},
		{"bare host", `{"signalServer":"sig.example.com"}`, "sig.example.com", nil},
		{"ip only", `{"signalServerIpAddress":"10.0.0.1"}`, "10.0.0.1", nil},
		{"none", `{}`, "", domain.ErrNoSignalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ticket domain.ViewerTicket
			require.NoError(t, json.Unmarshal([]byte(tt.body), &ticket))
			got, err := ticket.SignalingAddress()
			assert.Equal(t, tt.want, got)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestViewerTicket_PassesThroughUnmodified(t *testing.T) {
	body := `{"signalServer":"sig.example.com","iceServer":[{"url":"turn:t","username":"u","credential":"c"}],"sign":"xyz","extra":{"n":1}}`

	var ticket domain.ViewerTicket
	require.NoError(t, json.Unmarshal([]byte(body), &ticket))
	require.Len(t, ticket.ICEServers, 1)
	assert.Equal(t, "turn:t", ticket.ICEServers[0].URL)

	out, err := json.Marshal(domain.AnswerRequest{ViewerTicket: ticket})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"viewerTicket":`+body)
}

func TestEncodeOffer(t *testing.T) {
	got, err := domain.EncodeOffer("v=0\r\n")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"offer","sdp":"v=0\r\n"}`, got)
}

func TestLiveID(t *testing.T) {
	assert.Equal(t, "alexa_s-1", domain.LiveID(domain.PlatformAlexa, "s-1"))
}
