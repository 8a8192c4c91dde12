package kvcrud

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/Wyydra/voicebridge/internal/core/service"
	"github.com/rs/zerolog/log"
)

// Request selects one action by flag. The first set flag wins, in the order
// create, get, update, remove.
type Request struct {
	Create bool            `json:"create"`
	Get    bool            `json:"get"`
	Update bool            `json:"update"`
	Remove bool            `json:"remove"`
	Key    string          `json:"key"`
	Data   json.RawMessage `json:"data"`
}

// Response carries either the store's result or a message.
type Response struct {
	Result any
	Msg    string
}

type Handler struct {
	kv *service.KeyValueService
}

func NewHandler(kv *service.KeyValueService) *Handler {
	return &Handler{kv: kv}
}

// HandleBody decodes a raw request body before dispatching it.
func (h *Handler) HandleBody(ctx context.Context, body []byte) Response {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		log.Warn().Err(err).Msg("Undecodable kv request")
		return Response{Msg: "invalid body"}
	}
	return h.Handle(ctx, req)
}

func (h *Handler) Handle(ctx context.Context, req Request) Response {
	var (
		result any
		err    error
	)
	switch {
	case req.Create:
		result, err = h.kv.Create(ctx, req.Key, value(req.Data))
	case req.Get:
		var v *string
		v, err = h.kv.Find(ctx, req.Key)
		if err == nil && v != nil {
			result = *v
		}
	case req.Update:
		result, err = h.kv.Update(ctx, req.Key, value(req.Data))
	case req.Remove:
		result, err = h.kv.Remove(ctx, req.Key)
	default:
		return Response{Msg: "no match redis action"}
	}

	if errors.Is(err, domain.ErrKeyRequired) {
		return Response{Msg: "key not exists"}
	}
	if err != nil {
		log.Error().Err(err).Str("key", req.Key).Msg("Store failed")
		return Response{Msg: err.Error()}
	}
	return Response{Result: result}
}

// MarshalJSON keeps "result": null for a missing key on get.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Msg != "" {
		return json.Marshal(struct {
			Msg string `json:"msg"`
		}{r.Msg})
	}
	return json.Marshal(struct {
		Result any `json:"result"`
	}{r.Result})
}

// value stores JSON strings unquoted and anything else as its JSON text.
func value(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
