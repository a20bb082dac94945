package appconfig

import (
	"fmt"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"poligrama.dev/backend/internal/app/appcontext"
	"poligrama.dev/backend/internal/pkg/projectpath"
)

const Prefix = "poligrama"

func Parse(ctx appcontext.Ctx) (*Config, error) {
	err := godotenv.Load(filepath.Join(projectpath.Root, ".env"))
	if err != nil {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	var config ConfigSpec
	err = envconfig.Process(Prefix, &config)
	if err != nil {
		_ = envconfig.Usage(Prefix, &config)
		return nil, fmt.Errorf("failed to parse configuration: %w. See internal/app/appconfig/spec.go for the available settings", err)
	}

	return &Config{
		ConfigSpec: config,
		AppContext: ctx,
	}, nil
}
