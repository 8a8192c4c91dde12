package main

import (
	"os"

	"github.com/Wyydra/voicebridge/internal/adapter/driving/lambda"
	"github.com/Wyydra/voicebridge/internal/app"
	"github.com/Wyydra/voicebridge/internal/config"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	cfg.Log.JSON = true
	app.SetupLogger(cfg)

	a := app.New(cfg)
	awslambda.Start(lambda.NewOfferProxyHandler(a.Proxy).Handle)
}
