package infra

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"poligrama.dev/backend/internal/app/appconfig"
)

// S3 builds the client export archives are uploaded with. Credentials come
// from the default AWS chain; nothing is contacted until the first upload.
func S3(conf *appconfig.Config) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(conf.AWSRegion))
	if err != nil {
		log.Error().Err(err).Str("evt.name", "infra.s3.config").Msg("failed to load aws config")
		return nil, err
	}

	return s3.NewFromConfig(cfg), nil
}
