// Package lambda adapts the transport neutral handlers to AWS Lambda events.
// Alexa invokes its function with the raw directive; the other functions sit
// behind function URLs and receive API Gateway v2 HTTP events.
package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/Wyydra/voicebridge/internal/adapter/driving/alexa"
	"github.com/Wyydra/voicebridge/internal/adapter/driving/googlehome"
	"github.com/Wyydra/voicebridge/internal/adapter/driving/kvcrud"
	"github.com/Wyydra/voicebridge/internal/adapter/driving/offerproxy"
	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"
)

type AlexaHandler struct {
	skill *alexa.Skill
}

func NewAlexaHandler(skill *alexa.Skill) *AlexaHandler {
	return &AlexaHandler{skill: skill}
}

func (h *AlexaHandler) Handle(ctx context.Context, event json.RawMessage) (json.RawMessage, error) {
	log.Debug().RawJSON("event", event).Msg("Alexa event")
	return h.skill.Invoke(ctx, event)
}

type OfferProxyHandler struct {
	proxy *offerproxy.Handler
}

func NewOfferProxyHandler(proxy *offerproxy.Handler) *OfferProxyHandler {
	return &OfferProxyHandler{proxy: proxy}
}

func (h *OfferProxyHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body, err := requestBody(req)
	if err != nil {
		return badRequest(err), nil
	}
	reply := h.proxy.Handle(ctx, offerproxy.Call{
		DomainName: req.RequestContext.DomainName,
		RawQuery:   req.RawQueryString,
		Body:       body,
	})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: reply.StatusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(reply.Body),
	}, nil
}

type GoogleHandler struct {
	google *googlehome.Handler
}

func NewGoogleHandler(google *googlehome.Handler) *GoogleHandler {
	return &GoogleHandler{google: google}
}

func (h *GoogleHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body, err := requestBody(req)
	if err != nil {
		return badRequest(err), nil
	}
	rc := req.RequestContext
	reply := h.google.Handle(ctx, googlehome.Call{
		Authorization: header(req.Headers, "authorization"),
		Body:          body,
		RequestID:     rc.RequestID,
		SignalingURL:  "https://" + rc.DomainName + rc.HTTP.Path,
	})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: reply.StatusCode,
		Headers:    reply.Headers,
		Body:       string(reply.Body),
	}, nil
}

type KVHandler struct {
	kv *kvcrud.Handler
}

func NewKVHandler(kv *kvcrud.Handler) *KVHandler {
	return &KVHandler{kv: kv}
}

func (h *KVHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body, err := requestBody(req)
	if err != nil {
		return badRequest(err), nil
	}
	out, err := json.Marshal(h.kv.HandleBody(ctx, body))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(out),
	}, nil
}

func requestBody(req events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if req.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(req.Body)
	}
	return []byte(req.Body), nil
}

// header looks name up case insensitively; function URLs lower case header
// names but test events often do not.
func header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if http.CanonicalHeaderKey(k) == http.CanonicalHeaderKey(name) {
			return v
		}
	}
	return ""
}

func badRequest(err error) events.APIGatewayV2HTTPResponse {
	log.Warn().Err(err).Msg("Undecodable request body")
	return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest, Body: "{}"}
}
