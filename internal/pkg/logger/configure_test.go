package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"poligrama.dev/backend/internal/app/appconfig"
)

func TestLevel(t *testing.T) {
	conf := &appconfig.Config{}
	assert.Equal(t, zerolog.DebugLevel, Level(conf))

	conf.DevMode = true
	assert.Equal(t, zerolog.TraceLevel, Level(conf))

	conf.LogLevel = "WARN"
	assert.Equal(t, zerolog.WarnLevel, Level(conf))

	conf.LogLevel = "loud"
	assert.Equal(t, zerolog.TraceLevel, Level(conf))
}
