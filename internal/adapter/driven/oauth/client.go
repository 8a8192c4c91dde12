package oauth

import (
	"context"
	"net/url"
	"strings"

	"github.com/Wyydra/voicebridge/internal/adapter/driven/rest"
	"github.com/Wyydra/voicebridge/internal/core/domain"
)

// implements port.OAuthService
type Client struct {
	rest    *rest.Client
	baseURL string
	token   string
}

func NewClient(r *rest.Client, baseURL string, token domain.AccessToken) *Client {
	return &Client{
		rest:    r,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token.String(),
	}
}

type authorizationBody struct {
	EventGateway string `json:"alexa-eventgateway-endpoint"`
}

func (c *Client) AmazonAuthorization(ctx context.Context, code, eventGateway string) error {
	u := c.baseURL + "/oauth/thirdparty/amazon/authorization?code=" + url.QueryEscape(code)
	return c.rest.Post(ctx, "amazon authorization", u, c.token, authorizationBody{EventGateway: eventGateway}, nil)
}

func (c *Client) GoogleAccountLinked(ctx context.Context) error {
	return c.rest.Post(ctx, "google accountlinked", c.baseURL+"/oauth/thirdparty/google/accountlinked", c.token, nil, nil)
}

func (c *Client) GoogleAccountDisconnect(ctx context.Context) error {
	return c.rest.Post(ctx, "google accountDisconnect", c.baseURL+"/oauth/thirdparty/google/accountDisconnect", c.token, nil, nil)
}
