package appconfig

import (
	"fmt"
	"strings"
)

type QueueStoreKind string

const (
	QueueStoreMemory QueueStoreKind = "memory"
	QueueStoreFile   QueueStoreKind = "file"
	QueueStoreBadger QueueStoreKind = "badger"
	QueueStoreRedis  QueueStoreKind = "redis"
)

func (k *QueueStoreKind) Decode(value string) error {
	switch v := QueueStoreKind(strings.ToLower(strings.TrimSpace(value))); v {
	case QueueStoreMemory, QueueStoreFile, QueueStoreBadger, QueueStoreRedis:
		*k = v
		return nil
	default:
		return fmt.Errorf("invalid queue store %q: expect one of memory, file, badger, redis", value)
	}
}

const (
	TracingExporterOTLPGRPC = "otlpgrpc"
	TracingExporterStdout   = "stdout"
)

type TracingExporters []string

func (e *TracingExporters) Decode(value string) error {
	*e = TracingExporters{}
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		switch part {
		case "":
			continue
		case TracingExporterOTLPGRPC, TracingExporterStdout:
			*e = append(*e, part)
		default:
			return fmt.Errorf("invalid tracing exporter %q: expect a comma separated list of otlpgrpc, stdout", part)
		}
	}
	return nil
}

func (e TracingExporters) Has(name string) bool {
	for _, v := range e {
		if v == name {
			return true
		}
	}
	return false
}
