// Package app wires configuration into the handlers shared by every
// entrypoint.
package app

import (
	"io"
	"os"

	"github.com/Wyydra/voicebridge/internal/adapter/driven/backend"
	"github.com/Wyydra/voicebridge/internal/adapter/driven/iotservice"
	"github.com/Wyydra/voicebridge/internal/adapter/driven/persistence/memory"
	"github.com/Wyydra/voicebridge/internal/adapter/driven/persistence/redis"
	"github.com/Wyydra/voicebridge/internal/adapter/driven/rest"
	"github.com/Wyydra/voicebridge/internal/adapter/driven/signaling"
	"github.com/Wyydra/voicebridge/internal/adapter/driving/alexa"
	"github.com/Wyydra/voicebridge/internal/adapter/driving/googlehome"
	"github.com/Wyydra/voicebridge/internal/adapter/driving/kvcrud"
	"github.com/Wyydra/voicebridge/internal/adapter/driving/offerproxy"
	"github.com/Wyydra/voicebridge/internal/config"
	"github.com/Wyydra/voicebridge/internal/core/port"
	"github.com/Wyydra/voicebridge/internal/core/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type App struct {
	Skill  *alexa.Skill
	Proxy  *offerproxy.Handler
	Google *googlehome.Handler
	KV     *kvcrud.Handler

	closers []io.Closer
}

func New(cfg *config.Config) *App {
	r := rest.NewClient(cfg.HTTP.Timeout)
	backends := backend.NewDirectory(r, cfg.Environments)
	negotiator := service.NewNegotiator(signaling.NewClient(r))

	cameras := service.NewCameraService(backends, negotiator)
	accounts := service.NewAccountService(backends, cfg.Alexa.EventGateway)

	a := &App{
		Skill:  alexa.NewSkill(alexa.NewSmartHome(cameras, accounts), alexa.NewAPL(cameras, cfg.Alexa.APLDeviceSerial)),
		Proxy:  offerproxy.NewHandler(service.NewOfferProxy(iotservice.NewOpenAPIDirectory(r), negotiator)),
		Google: googlehome.NewHandler(cameras, accounts),
	}

	var store port.KeyValueStore
	if cfg.Redis.Disabled {
		log.Info().Msg("Using in-memory key value store")
		store = memory.NewStore()
	} else {
		rs := redis.NewStore(redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.HTTP.Timeout,
		})
		a.closers = append(a.closers, rs)
		store = rs
	}
	a.KV = kvcrud.NewHandler(service.NewKeyValueService(store))

	return a
}

func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// SetupLogger configures the global logger. JSON output is for Lambda,
// where CloudWatch keeps one event per line.
func SetupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stdout}
	if cfg.Log.JSON {
		out = os.Stdout
	}
	log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}
