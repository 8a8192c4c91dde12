package http

import (
	"net/http"

	"github.com/Wyydra/voicebridge/internal/adapter/driving/googlehome"
	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Google's stream receivers connect from arbitrary origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSClient struct {
	id   string
	conn *websocket.Conn
}

func (c *WSClient) ID() string {
	return c.id
}

func (c *WSClient) Send(v any) error {
	return c.conn.WriteJSON(v)
}

func (c *WSClient) Close() error {
	return c.conn.Close()
}

// ServeWS carries the offer/end exchange of a Google stream over one
// connection. Browsers cannot set headers on the upgrade, so the token may
// also come in the access_token query parameter.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	raw := r.Header.Get("Authorization")
	if raw == "" {
		raw = r.URL.Query().Get("access_token")
	}
	token, err := domain.ParseAccessToken(raw)
	if err != nil {
		log.Warn().Err(err).Str("kind", domain.Kind(err)).Msg("Rejected websocket token")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Error while upgrading ws")
		return
	}

	client := &WSClient{
		id:   uuid.New().String(),
		conn: conn,
	}

	l := log.With().Str("client_id", client.id).Logger()
	l.Info().Msg("New client connected")
	ctx := l.WithContext(r.Context())

	h.Hub.Register(client)

	defer func() {
		l.Info().Msg("Client disconnected")
		h.Hub.Unregister(client)
	}()

	for {
		var msg googlehome.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l.Error().Err(err).Msg("Unexpected close error")
			}
			return
		}

		answer, done := h.Google.Signal(ctx, token, msg)
		if done {
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
		if err := client.Send(answer); err != nil {
			l.Error().Err(err).Msg("Failed to send answer")
			return
		}
	}
}
