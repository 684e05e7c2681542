package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wudi/colortransfer/config"
	"github.com/wudi/colortransfer/imageio"
	"github.com/wudi/colortransfer/observability"
	"github.com/wudi/colortransfer/pixbuf"
	"github.com/wudi/colortransfer/transfer"
)

func writeImage(t *testing.T, path string, w, h int, fill func(x, y int) (uint8, uint8, uint8)) {
	t.Helper()
	b, err := pixbuf.NewRGB(w, h)
	if err != nil {
		t.Fatalf("NewRGB failed: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl := fill(x, y)
			b.Set(x, y, 0, r)
			b.Set(x, y, 1, g)
			b.Set(x, y, 2, bl)
		}
	}
	if err := imageio.WriteFile(path, b, imageio.EncodeOptions{}); err != nil {
		t.Fatalf("WriteFile %s: %v", path, err)
	}
}

func fixtures(t *testing.T) (dir, content, reference string) {
	t.Helper()
	dir = t.TempDir()
	content = filepath.Join(dir, "content.png")
	reference = filepath.Join(dir, "reference.bmp")
	writeImage(t, content, 12, 8, func(x, y int) (uint8, uint8, uint8) {
		return uint8(x * 20), uint8(y * 30), 90
	})
	writeImage(t, reference, 5, 5, func(x, y int) (uint8, uint8, uint8) {
		return 200, uint8(100 + x*10), uint8(20 + y*5)
	})
	return dir, content, reference
}

func TestRun(t *testing.T) {
	dir, content, reference := fixtures(t)
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	var logs bytes.Buffer
	p := New(Config{
		Logger:  observability.NewLogger(&logs, observability.LogOptions{Level: "debug"}),
		Metrics: metrics,
	})

	job := Job{
		Content:   content,
		Reference: reference,
		Output:    filepath.Join(dir, "out.png"),
		Report:    filepath.Join(dir, "report.yml"),
	}
	res, err := p.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.ContentFormat != "png" || res.ReferenceFormat != "bmp" {
		t.Errorf("unexpected formats %s/%s", res.ContentFormat, res.ReferenceFormat)
	}

	out, _, err := imageio.ReadFile(job.Output, pixbuf.DefaultLimits())
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if out.Width != 12 || out.Height != 8 {
		t.Errorf("expected 12x8 output, got %dx%d", out.Width, out.Height)
	}

	f, err := os.Open(job.Report)
	if err != nil {
		t.Fatalf("opening report: %v", err)
	}
	defer f.Close()
	rep, err := transfer.ReadReport(f)
	if err != nil {
		t.Fatalf("ReadReport failed: %v", err)
	}
	if rep.Space != "lalphabeta" || rep.ReferenceWidth != 5 {
		t.Errorf("unexpected report %+v", rep)
	}

	if got := testutil.ToFloat64(metrics.Pixels); got != 96 {
		t.Errorf("expected 96 pixels, got %v", got)
	}
	if n := testutil.CollectAndCount(metrics.StageDuration); n != 5 {
		t.Errorf("expected 5 stage series, got %d", n)
	}
	if !strings.Contains(logs.String(), "color transfer written") {
		t.Errorf("expected completion log, got:\n%s", logs.String())
	}
}

func TestRunMissingContent(t *testing.T) {
	dir, _, reference := fixtures(t)
	metrics := observability.NewMetrics(nil)
	p := New(Config{Metrics: metrics})
	_, err := p.Run(context.Background(), Job{
		Content:   filepath.Join(dir, "nope.png"),
		Reference: reference,
		Output:    filepath.Join(dir, "out.png"),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "decode content:") {
		t.Errorf("expected stage prefix, got %q", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist in chain, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.Failures.WithLabelValues(StageDecodeContent)); got != 1 {
		t.Errorf("expected one decode_content failure, got %v", got)
	}
}

func TestRunLimits(t *testing.T) {
	dir, content, reference := fixtures(t)
	p := New(Config{Limits: pixbuf.Limits{MaxDimension: 6}})
	_, err := p.Run(context.Background(), Job{
		Content:   content,
		Reference: reference,
		Output:    filepath.Join(dir, "out.png"),
	})
	if !errors.Is(err, pixbuf.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge for 12px wide content, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	dir, content, reference := fixtures(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := filepath.Join(dir, "out.png")
	_, err := New(Config{}).Run(ctx, Job{Content: content, Reference: reference, Output: out})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected no output after cancellation, stat err=%v", err)
	}
}

func TestFromConfig(t *testing.T) {
	dir, content, reference := fixtures(t)
	cfg := config.Default()
	cfg.Content = content
	cfg.Reference = reference
	cfg.Output = filepath.Join(dir, "out.jpg")
	cfg.ColorSpace = "cielab"
	cfg.JPEGQuality = 70

	p, job, err := FromConfig(cfg, nil, nil)
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}
	if job.Encode.JPEGQuality != 70 || job.Output != cfg.Output {
		t.Errorf("unexpected job %+v", job)
	}
	res, err := p.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Report.Space != "cielab" {
		t.Errorf("expected cielab space, got %s", res.Report.Space)
	}

	cfg.ColorSpace = "bogus"
	if _, _, err := FromConfig(cfg, nil, nil); err == nil {
		t.Fatal("expected error for unknown color space")
	}
}
