package tracing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// FileExporter appends service spans to a JSONL file for local inspection
// with jq and friends. It implements sdktrace.SpanExporter.
type FileExporter struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileExporter opens (or creates) the trace file at path, creating
// parent directories as needed.
func NewFileExporter(path string) (*FileExporter, error) {
	cleanPath := filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(cleanPath), 0750); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}

	file, err := os.OpenFile(cleanPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) // #nosec G304 -- path is cleaned above
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return &FileExporter{file: file}, nil
}

// ExportSpans appends one JSON line per span. The batch is marshalled
// before anything touches the file so a marshal failure leaves it intact.
func (e *FileExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if len(spans) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, span := range spans {
		line, err := json.Marshal(newSpanRecord(span))
		if err != nil {
			return fmt.Errorf("marshal span: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file == nil {
		return nil // shut down between batch and write
	}
	if _, err := e.file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write spans: %w", err)
	}
	return nil
}

// Shutdown closes the file. Further exports are silently discarded.
func (e *FileExporter) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file == nil {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	return err
}

// SpanRecord is one line of the trace file. Service and Op split the span
// name on its first dot, matching the service-layer naming scheme
// ("contents.get", "store.migrate"). All spans the workbench emits are
// internal, so no span kind is recorded.
type SpanRecord struct {
	Trace      string         `json:"trace"`
	Span       string         `json:"span"`
	Parent     string         `json:"parent,omitempty"`
	Service    string         `json:"service,omitempty"`
	Op         string         `json:"op"`
	Start      time.Time      `json:"start"`
	DurationUS int64          `json:"duration_us"`
	Error      string         `json:"error,omitempty"`
	Attrs      map[string]any `json:"attrs,omitempty"`
	Events     []SpanEvent    `json:"events,omitempty"`
}

// SpanEvent is one span event on the record.
type SpanEvent struct {
	Name  string         `json:"name"`
	At    time.Time      `json:"at"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

func newSpanRecord(span sdktrace.ReadOnlySpan) SpanRecord {
	sc := span.SpanContext()
	service, op := splitSpanName(span.Name())

	rec := SpanRecord{
		Trace:      sc.TraceID().String(),
		Span:       sc.SpanID().String(),
		Service:    service,
		Op:         op,
		Start:      span.StartTime(),
		DurationUS: span.EndTime().Sub(span.StartTime()).Microseconds(),
		Attrs:      attrsToMap(span.Attributes()),
	}
	if span.Parent().IsValid() {
		rec.Parent = span.Parent().SpanID().String()
	}
	if status := span.Status(); status.Code == codes.Error {
		rec.Error = status.Description
		if rec.Error == "" {
			rec.Error = "unknown"
		}
	}
	for _, evt := range span.Events() {
		rec.Events = append(rec.Events, SpanEvent{
			Name:  evt.Name,
			At:    evt.Time,
			Attrs: attrsToMap(evt.Attributes),
		})
	}
	return rec
}

// splitSpanName breaks "contents.get" into its service and operation. Names
// without a service prefix land wholly in op.
func splitSpanName(name string) (service, op string) {
	if i := strings.Index(name, "."); i > 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

func attrsToMap(kvs []attribute.KeyValue) map[string]any {
	if len(kvs) == 0 {
		return nil
	}
	attrs := make(map[string]any, len(kvs))
	for _, kv := range kvs {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	return attrs
}
