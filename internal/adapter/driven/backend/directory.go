package backend

import (
	"fmt"

	"github.com/Wyydra/voicebridge/internal/adapter/driven/iotservice"
	"github.com/Wyydra/voicebridge/internal/adapter/driven/oauth"
	"github.com/Wyydra/voicebridge/internal/adapter/driven/rest"
	"github.com/Wyydra/voicebridge/internal/config"
	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/Wyydra/voicebridge/internal/core/port"
)

// Directory maps the environment named in a token to that environment's
// IoT and OAuth services.
// implements port.Backends
type Directory struct {
	rest         *rest.Client
	environments map[string]config.Environment
}

func NewDirectory(r *rest.Client, environments map[string]config.Environment) *Directory {
	return &Directory{
		rest:         r,
		environments: environments,
	}
}

func (d *Directory) IoT(token domain.AccessToken) (port.IoTService, error) {
	env, ok := d.environments[token.Environment()]
	if !ok || env.IoTServiceURL == "" {
		return nil, fmt.Errorf("%w: iot service for %q", domain.ErrUnknownEnvironment, token.Environment())
	}
	return iotservice.NewClient(d.rest, env.IoTServiceURL, token), nil
}

func (d *Directory) OAuth(token domain.AccessToken) (port.OAuthService, error) {
	env, ok := d.environments[token.Environment()]
	if !ok || env.OAuthURL == "" {
		return nil, fmt.Errorf("%w: oauth for %q", domain.ErrUnknownEnvironment, token.Environment())
	}
	return oauth.NewClient(d.rest, env.OAuthURL, token), nil
}
