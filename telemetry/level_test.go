package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/freekieb7/coyote/test"
)

type recordingExporter struct {
	records []sdklog.Record
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.records = append(e.records, records...)
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func TestLevelHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLevelHandler(slog.LevelWarn, slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.Debug("debug record")
	logger.Info("info record")
	logger.With("component", "server").Warn("warn record")
	logger.WithGroup("http").Error("error record", "status", 500)

	out := buf.String()
	if strings.Contains(out, "debug record") || strings.Contains(out, "info record") {
		t.Errorf("records below warn were written: %q", out)
	}
	test.AssertContains(t, out, "component=server")
	test.AssertContains(t, out, "http.status=500")
}

func TestLevelHandlerFiltersBridge(t *testing.T) {
	exporter := &recordingExporter{}
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	bridge := otelslog.NewHandler("test", otelslog.WithLoggerProvider(provider))
	logger := slog.New(NewLevelHandler(slog.LevelInfo, bridge))

	logger.Debug("handled request")
	logger.Info("request served")

	test.AssertEqual(t, 1, len(exporter.records))
	test.AssertEqual(t, "request served", exporter.records[0].Body().AsString())
}

func TestNewLevelHandlerUnwraps(t *testing.T) {
	inner := slog.NewTextHandler(&bytes.Buffer{}, nil)
	h := NewLevelHandler(slog.LevelError, NewLevelHandler(slog.LevelDebug, inner))

	if h.Handler() != slog.Handler(inner) {
		t.Error("nested level handler was not unwrapped")
	}
}
