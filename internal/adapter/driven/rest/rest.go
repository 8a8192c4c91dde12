package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/rs/zerolog/log"
)

const DefaultTimeout = 10 * time.Second

// Envelope is the {result, msg, data} reply shared by every backend.
type Envelope struct {
	Result domain.Scalar   `json:"result"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
}

func (e Envelope) OK() bool {
	return e.Result == "0"
}

type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient is used by tests to trust httptest TLS servers.
func WithHTTPClient(c *http.Client) *Client {
	return &Client{http: c}
}

// Post sends body as JSON to url and decodes the envelope's data into out.
// A non-zero result is returned as *domain.BackendError named after op.
// Empty bearer skips the Authorization header.
func (c *Client) Post(ctx context.Context, op, url, bearer string, body, out any) error {
	if body == nil {
		body = struct{}{}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	took := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug().Str("op", op).Int("status", resp.StatusCode).Dur("took", took).Msg("Backend call")
		return fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Debug().Str("op", op).Int("status", resp.StatusCode).Dur("took", took).Msg("Backend call")
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	// data carries ICE credentials and SDPs; it stays out of the log
	log.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("took", took).
		Str("result", string(env.Result)).
		Str("msg", env.Msg).
		Int("data_bytes", len(env.Data)).
		Msg("Backend call")
	if !env.OK() {
		code, convErr := strconv.Atoi(string(env.Result))
		if convErr != nil {
			code = -1
		}
		return &domain.BackendError{Op: op, Result: code, Msg: env.Msg}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", op, err)
	}
	return nil
}
