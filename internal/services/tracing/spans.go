package tracing

// Span attribute keys for workspace service tracing. These constants define
// the semantic conventions for span attributes across the service layer.
const (
	// Document attributes
	AttrDocumentPath = "document.path"
	AttrDocumentID   = "document.id"

	// Session attributes
	AttrSessionGUID = "session.guid"
	AttrSessionKind = "session.kind"

	// Settings attributes
	AttrSettingsPlugin = "settings.plugin"
	AttrSettingsKey    = "settings.key"

	// Cache attributes
	AttrCacheName = "cache.name"
	AttrCacheHit  = "cache.hit"

	// Error attributes
	AttrErrorMessage = "error.message"
	AttrErrorType    = "error.type"
)

// Span name prefixes for consistent naming.
const (
	SpanPrefixContents = "contents."
	SpanPrefixSessions = "sessions."
	SpanPrefixSettings = "settings."
	SpanPrefixStore    = "store."
)

// Event names for span events.
const (
	EventStoreQuery    = "store.query"
	EventWatcherChange = "watcher.change"
	EventCacheInvalidated = "cache.invalidated"
	EventErrorOccurred    = "error.occurred"
)
