package offerproxy_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Wyydra/voicebridge/internal/adapter/driven/iotservice"
	"github.com/Wyydra/voicebridge/internal/adapter/driven/rest"
	"github.com/Wyydra/voicebridge/internal/adapter/driven/signaling"
	"github.com/Wyydra/voicebridge/internal/adapter/driving/offerproxy"
	"github.com/Wyydra/voicebridge/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const offer = `{"type":"offer","sdp":"v=0\r\n"}`

// paas serves the open api, the live report and the signaling server from
// one TLS listener.
type paas struct {
	mu      sync.Mutex
	srv     *httptest.Server
	paths   []string
	query   string
	sdpSeen string
	answer  string
}

func newPaaS(t *testing.T) *paas {
	p := &paas{answer: "v=0 answer"}
	p.srv = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.paths = append(p.paths, r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch r.URL.Path {
		case "/open-api/alexa/webrtcanswer":
			p.query = r.URL.RawQuery
			assert.Empty(t, r.Header.Get("Authorization"))
			assert.Equal(t, "as-1", body["alexaSessionId"])
			host := strings.TrimPrefix(p.srv.URL, "https://")
			out, _ := json.Marshal(map[string]any{"result": 0, "data": map[string]any{"signalServer": "wss://" + host}})
			w.Write(out)
		case "/api/getAlexaSdpAnswer":
			p.sdpSeen, _ = body["sdpOffer"].(string)
			assert.Equal(t, "alexa", body["devicePlatform"])
			out, _ := json.Marshal(map[string]any{"result": 0, "data": map[string]string{"sdp": p.answer}})
			w.Write(out)
		case "/report/live/alexaSdpReturnAnswer":
			assert.Equal(t, "alexa_as-1", body["liveId"])
			w.Write([]byte(`{"result":0}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *paas) domain() string {
	return "lambda-" + strings.TrimPrefix(p.srv.URL, "https://")
}

func newHandler(p *paas) *offerproxy.Handler {
	r := rest.WithHTTPClient(p.srv.Client())
	proxy := service.NewOfferProxy(iotservice.NewOpenAPIDirectory(r), service.NewNegotiator(signaling.NewClient(r)))
	return offerproxy.NewHandler(proxy)
}

func body(t *testing.T, fields map[string]string) []byte {
	t.Helper()
	b, err := json.Marshal(fields)
	require.NoError(t, err)
	return b
}

func validFields() map[string]string {
	return map[string]string{
		"tenantId":       "t",
		"userId":         "u",
		"alexaSessionId": "as-1",
		"alexaOffer":     offer,
		"serialNumber":   "SN1",
	}
}

func TestHandler_Answer(t *testing.T) {
	p := newPaaS(t)

	reply := newHandler(p).Handle(context.Background(), offerproxy.Call{
		DomainName: p.domain(),
		RawQuery:   "sign=abc&ts=1",
		Body:       body(t, validFields()),
	})

	assert.Equal(t, http.StatusOK, reply.StatusCode)
	assert.JSONEq(t, `{"alexaAnswer":"v=0 answer"}`, string(reply.Body))
	assert.Equal(t, "sign=abc&ts=1", p.query)
	assert.Equal(t, offer, p.sdpSeen)
	assert.Equal(t, []string{
		"/open-api/alexa/webrtcanswer",
		"/api/getAlexaSdpAnswer",
		"/report/live/alexaSdpReturnAnswer",
	}, p.paths)
}

func TestHandler_Validation(t *testing.T) {
	p := newPaaS(t)
	h := newHandler(p)

	without := func(keys ...string) map[string]string {
		f := validFields()
		for _, k := range keys {
			delete(f, k)
		}
		return f
	}

	tests := []struct {
		name   string
		domain string
		fields map[string]string
		msg    string
	}{
		{"wrong domain", "api.example.com", validFields(), "must request with lambda-api domain"},
		{"no tenant", p.domain(), without("tenantId"), "no tenantId or userId"},
		{"no user", p.domain(), without("userId"), "no tenantId or userId"},
		{"no session", p.domain(), without("alexaSessionId"), "no alexaSessionId or alexaOffer"},
		{"no offer", p.domain(), without("alexaOffer"), "no alexaSessionId or alexaOffer"},
		{"no serial", p.domain(), without("serialNumber"), "no serialNumber"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := h.Handle(context.Background(), offerproxy.Call{DomainName: tt.domain, Body: body(t, tt.fields)})
			assert.Equal(t, http.StatusOK, reply.StatusCode)
			assert.JSONEq(t, `{"code":-102,"msg":"`+tt.msg+`","data":{}}`, string(reply.Body))
		})
	}
	assert.Empty(t, p.paths)
}

func TestHandler_NegotiationFailure(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":1,"msg":"signature mismatch"}`))
	}))
	defer srv.Close()

	r := rest.WithHTTPClient(srv.Client())
	h := offerproxy.NewHandler(service.NewOfferProxy(iotservice.NewOpenAPIDirectory(r), service.NewNegotiator(signaling.NewClient(r))))

	reply := h.Handle(context.Background(), offerproxy.Call{
		DomainName: "lambda-" + strings.TrimPrefix(srv.URL, "https://"),
		Body:       body(t, validFields()),
	})

	assert.Equal(t, http.StatusBadGateway, reply.StatusCode)
	assert.JSONEq(t, `{"code":-103,"msg":"backend_failure","data":{}}`, string(reply.Body))
}

func TestPaaSBaseURL(t *testing.T) {
	assert.Equal(t, "https://paas.example.com", offerproxy.PaaSBaseURL("lambda-paas.example.com"))
	assert.Equal(t, "https://eu.paas.example.com", offerproxy.PaaSBaseURL("eu.lambda-paas.example.com"))
}
