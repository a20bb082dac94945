package constant

const (
	ServiceName = "poligrama"

	// SlimHeaderKey is to indicate whether the current request shall be ignored by Sentry transaction tracing.
	// This is typically used by probes to avoid useless data being sent to Sentry.
	SlimHeaderKey = "X-Slim"

	// QueueStoreKey is the key the export queue is persisted under.
	QueueStoreKey = "poligrama-export-queue-v1"

	ExportArchiveName = "graficas-poligrama.zip"

	ContentTypeSVG = "image/svg+xml"
	ContentTypeZip = "application/zip"
)
