package appconfig

import (
	"time"

	"poligrama.dev/backend/internal/app/appcontext"
)

type ConfigSpec struct {
	// ServiceAddress is the listen address would listen on for serving normal service requests.
	ServiceAddress string `required:"true" split_words:"true" default:":8080"`

	// DevMode to indicate development mode. When true, the program would spin up utilities for debugging and
	// provide a more contextual message when encountered a panic. See internal/server/httpserver/http.go for the
	// actual implementation details.
	DevMode bool `split_words:"true"`

	// LogJSONStdout is whether to log JSON logs (instead of pretty-print logs) to stdout for the ease of log collection.
	LogJSONStdout bool `envconfig:"LOG_JSON_STDOUT" default:"false"`

	// LogLevel overrides the level derived from DevMode. Accepts zerolog level names.
	LogLevel string `split_words:"true"`

	// LogFile is the rotated log file written next to the console output.
	LogFile string `split_words:"true" default:"logs/app.log"`

	// TrustedProxies is a list of trusted proxies that are trusted to report a real IP via the X-Forwarded-For header.
	TrustedProxies []string `required:"true" split_words:"true" default:"::1,127.0.0.1,10.0.0.0/8"`

	// DataDir holds the .xlsx workbooks that spreadsheet references resolve to.
	DataDir string `split_words:"true" default:"./data"`

	// DefaultRange is the A1 range read from a sheet when loading a dataset.
	DefaultRange string `split_words:"true" default:"A1:ZZ1000"`

	// GridCacheTTL is how long a loaded sheet grid is kept in memory.
	GridCacheTTL time.Duration `split_words:"true" default:"5m"`

	// RenderCacheSize is the number of rendered charts kept in the LRU cache. Zero disables it.
	RenderCacheSize int `split_words:"true" default:"512"`

	// BatchConcurrency bounds the renders running at once in a batch.
	BatchConcurrency int `split_words:"true" default:"4"`

	// QueueStore selects the export queue persistence: memory, file, badger or redis.
	QueueStore QueueStoreKind `split_words:"true" default:"memory"`

	// QueueFile is the JSON file used by the file queue store.
	QueueFile string `split_words:"true" default:"data/export-queue.json"`

	// QueueBadgerDir is the badger directory used by the badger queue store.
	// Leaving it empty runs badger in memory.
	QueueBadgerDir string `split_words:"true"`

	// QueueTTL is how long a saved chart stays in the export queue.
	QueueTTL time.Duration `split_words:"true" default:"1h"`

	// RedisURL is the URL of the Redis server used by the redis queue store. See
	// https://pkg.go.dev/github.com/redis/go-redis/v9#ParseURL for the format.
	RedisURL string `split_words:"true" default:"redis://127.0.0.1:6379/0"`

	// ExportDir is where the export command and the HTTP export write archives. Leaving it empty keeps
	// archives in memory only.
	ExportDir string `split_words:"true"`

	// S3Bucket enables uploading export archives when set.
	S3Bucket string `split_words:"true"`

	// S3Prefix is the key prefix of uploaded archives.
	S3Prefix string `split_words:"true" default:"exports/"`

	// AWSRegion is the region of the S3 bucket.
	AWSRegion string `envconfig:"AWS_REGION" default:"us-east-1"`

	// SentryDSN is the DSN of the Sentry server. See https://pkg.go.dev/github.com/getsentry/sentry-go#ClientOptions
	SentryDSN string `split_words:"true"`

	// TracingEnabled to indicate whether to enable OpenTelemetry tracing.
	TracingEnabled bool `split_words:"true"`

	// TracingExporters to indicate which exporters to use for tracing.
	// Valid values are: otlpgrpc, stdout (for debug).
	TracingExporters TracingExporters `split_words:"true" default:"stdout"`

	// TracingSampleRate to indicate the sampling rate for tracing.
	// Valid values are: 0.0 (disabled), 1.0 (all traces), or a value between 0.0 and 1.0 (sampling rate).
	TracingSampleRate float64 `split_words:"true" default:"1.0"`

	// HTTPServerShutdownTimeout is the timeout for the HTTP server to shut down gracefully.
	HTTPServerShutdownTimeout time.Duration `required:"true" split_words:"true" default:"60s"`
}

type Config struct {
	// ConfigSpec is the configuration specification injected to the config.
	ConfigSpec

	// AppContext is the application context
	AppContext appcontext.Ctx
}
