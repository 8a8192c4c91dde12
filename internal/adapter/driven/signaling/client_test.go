package signaling_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Wyydra/voicebridge/internal/adapter/driven/rest"
	"github.com/Wyydra/voicebridge/internal/adapter/driven/signaling"
	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Answer(t *testing.T) {
	const answer = "v=0\r\no=- 1 2 IN IP4 127.0.0.1\r\n"
	ticketJSON := `{"signalServer":"x","sign":"keep-me"}`

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/getAlexaSdpAnswer", r.URL.Path)
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))

		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, ticketJSON, string(body["viewerTicket"]))
		assert.JSONEq(t, `"alexa"`, string(body["devicePlatform"]))
		assert.JSONEq(t, `"sess"`, string(body["sessionId"]))

		out, _ := json.Marshal(map[string]any{"result": 0, "data": map[string]string{"sdp": answer}})
		w.Write(out)
	}))
	defer srv.Close()

	var ticket domain.ViewerTicket
	require.NoError(t, json.Unmarshal([]byte(ticketJSON), &ticket))

	c := signaling.NewClient(rest.WithHTTPClient(srv.Client()))
	got, err := c.Answer(context.Background(), strings.TrimPrefix(srv.URL, "https://"), "abc123", domain.AnswerRequest{
		SdpOffer:       `{"type":"offer","sdp":"v=0"}`,
		ViewerTicket:   ticket,
		SessionID:      "sess",
		DevicePlatform: domain.PlatformAlexa,
	})

	require.NoError(t, err)
	assert.Equal(t, answer, got)
}

func TestClient_AnswerRejected(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"result":500,"msg":"device offline"}`))
	}))
	defer srv.Close()

	c := signaling.NewClient(rest.WithHTTPClient(srv.Client()))
	_, err := c.Answer(context.Background(), strings.TrimPrefix(srv.URL, "https://"), "", domain.AnswerRequest{})

	var be *domain.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 500, be.Result)
}
