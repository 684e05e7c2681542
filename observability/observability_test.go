package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Info("ignored", String("k", "v"))
	if _, ok := l.With(Int("n", 1)).(NopLogger); !ok {
		t.Fatalf("NopLogger.With should return a NopLogger")
	}
	if _, ok := OrNop(nil).(NopLogger); !ok {
		t.Fatalf("OrNop(nil) should return a NopLogger")
	}
}

func TestSlogLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LogOptions{Level: "debug", JSON: true})
	l.With(String("job", "a")).Debug("transfer done",
		Int("width", 4),
		Float64("scale", 1.5),
		Duration("took", 2*time.Millisecond),
		Error("err", errors.New("boom")),
	)

	var rec map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "transfer done" {
		t.Errorf("unexpected msg %v", rec["msg"])
	}
	if rec["job"] != "a" {
		t.Errorf("expected With field job=a, got %v", rec["job"])
	}
	if rec["width"] != float64(4) {
		t.Errorf("expected width=4, got %v", rec["width"])
	}
	if rec["err"] != "boom" {
		t.Errorf("expected err=boom, got %v", rec["err"])
	}
}

func TestSlogLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LogOptions{Level: "warn"})
	l.Info("hidden")
	l.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", in, got, want)
		}
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.ObserveTransfer(10*time.Millisecond, 16, 1, 3)
	m.ObserveStage("decode", time.Millisecond)
	m.Fail("encode")

	if got := testutil.ToFloat64(m.Pixels); got != 16 {
		t.Errorf("expected 16 pixels, got %v", got)
	}
	if got := testutil.ToFloat64(m.ClippedSamples); got != 3 {
		t.Errorf("expected 3 clipped samples, got %v", got)
	}
	if got := testutil.ToFloat64(m.Failures.WithLabelValues("encode")); got != 1 {
		t.Errorf("expected 1 encode failure, got %v", got)
	}
	if n := testutil.CollectAndCount(m.TransferDuration); n != 1 {
		t.Errorf("expected one histogram series, got %d", n)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveTransfer(time.Second, 1, 0, 0)
	m.ObserveStage("x", time.Second)
	m.Fail("x")
}
