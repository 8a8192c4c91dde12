package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Wyydra/voicebridge/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/voicebridge/internal/adapter/driving/alexa"
	"github.com/Wyydra/voicebridge/internal/adapter/driving/googlehome"
	"github.com/Wyydra/voicebridge/internal/adapter/driving/kvcrud"
	"github.com/Wyydra/voicebridge/internal/adapter/driving/offerproxy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Skill  *alexa.Skill
	Proxy  *offerproxy.Handler
	Google *googlehome.Handler
	KV     *kvcrud.Handler
	Hub    *ws.Hub
}

func NewHandler(skill *alexa.Skill, proxy *offerproxy.Handler, google *googlehome.Handler, kv *kvcrud.Handler, hub *ws.Hub) *Handler {
	return &Handler{
		Skill:  skill,
		Proxy:  proxy,
		Google: google,
		KV:     kv,
		Hub:    hub,
	}
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.Post("/alexa", h.ServeAlexa)
	r.Post("/alexa/offer", h.ServeOfferProxy)

	r.HandleFunc("/googlehome", h.ServeGoogle)
	r.Get("/googlehome/ws", h.ServeWS)

	if h.KV != nil {
		r.Post("/kv", h.ServeKV)
	}

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": h.Hub.Len(),
	})
}

func (h *Handler) ServeAlexa(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	out, err := h.Skill.Invoke(r.Context(), body)
	if err != nil {
		log.Warn().Err(err).Msg("Rejected alexa request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(out)
}

func (h *Handler) ServeOfferProxy(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	reply := h.Proxy.Handle(r.Context(), offerproxy.Call{
		DomainName: r.Host,
		RawQuery:   r.URL.RawQuery,
		Body:       body,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.StatusCode)
	w.Write(reply.Body)
}

func (h *Handler) ServeGoogle(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	reply := h.Google.Handle(r.Context(), googlehome.Call{
		Authorization: r.Header.Get("Authorization"),
		Body:          body,
		RequestID:     middleware.GetReqID(r.Context()),
		SignalingURL:  requestURL(r),
	})
	for k, v := range reply.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(reply.StatusCode)
	w.Write(reply.Body)
}

func (h *Handler) ServeKV(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.KV.HandleBody(r.Context(), body))
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return nil, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}

// requestURL rebuilds the public URL of r, honouring a terminating proxy.
func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + r.Host + r.URL.Path
}
