package constant

import "time"

const (
	ContextKeyRequestID = "requestid"

	RequestIDHeader = "X-Poligrama-Request-ID"

	IdempotencyHeader    = "X-Poligrama-Idempotency"
	IdempotencyKeyHeader = "X-Poligrama-Idempotency-Key"

	IdempotencyKeyLengthLimit = 128
	IdempotencyKeyLocalsKey   = "idempotency-key"

	QueueIdempotencyLifetime       = 10 * time.Minute
	QueueIdempotencyRedisKeyPrefix = "poligrama:idempotency:queue"
	RenderCacheControlMaxAge       = 5 * time.Minute
	HealthCheckCacheExpiration     = time.Second
	RequestBodyLimit               = 8 * 1024 * 1024
)
