package signaling

import (
	"context"

	"github.com/Wyydra/voicebridge/internal/adapter/driven/rest"
	"github.com/Wyydra/voicebridge/internal/core/domain"
)

const answerPath = "/api/getAlexaSdpAnswer"

// implements port.SignalingServer
type Client struct {
	rest   *rest.Client
	scheme string
}

func NewClient(r *rest.Client) *Client {
	return &Client{
		rest:   r,
		scheme: "https",
	}
}

type answerData struct {
	SDP string `json:"sdp"`
}

// Answer returns data.sdp exactly as the signaling server sent it.
func (c *Client) Answer(ctx context.Context, address, token string, req domain.AnswerRequest) (string, error) {
	var data answerData
	if err := c.rest.Post(ctx, "getAlexaSdpAnswer", c.scheme+"://"+address+answerPath, token, req, &data); err != nil {
		return "", err
	}
	return data.SDP, nil
}
