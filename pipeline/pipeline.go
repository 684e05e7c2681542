// Package pipeline runs one color transfer job end to end: decode the
// content and reference images, transfer, encode the result.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/wudi/colortransfer/colorspace"
	"github.com/wudi/colortransfer/config"
	"github.com/wudi/colortransfer/imageio"
	"github.com/wudi/colortransfer/observability"
	"github.com/wudi/colortransfer/pixbuf"
	"github.com/wudi/colortransfer/transfer"
)

// Stage names used in errors, logs and metric labels.
const (
	StageDecodeContent   = "decode_content"
	StageDecodeReference = "decode_reference"
	StageTransfer        = "transfer"
	StageEncode          = "encode"
	StageReport          = "report"
)

type Job struct {
	Content   string
	Reference string
	Output    string
	Report    string // optional path for the YAML transfer report
	Encode    imageio.EncodeOptions
}

type Result struct {
	ContentFormat   string
	ReferenceFormat string
	Report          *transfer.Report
}

type Config struct {
	Engine  *transfer.Engine // nil means transfer.New with the other fields
	Limits  pixbuf.Limits
	Logger  observability.Logger
	Metrics *observability.Metrics
}

type Pipeline struct {
	engine  *transfer.Engine
	limits  pixbuf.Limits
	logger  observability.Logger
	metrics *observability.Metrics
}

func New(cfg Config) *Pipeline {
	logger := observability.OrNop(cfg.Logger)
	engine := cfg.Engine
	if engine == nil {
		engine = transfer.New(transfer.Config{Logger: logger, Metrics: cfg.Metrics})
	}
	return &Pipeline{
		engine:  engine,
		limits:  cfg.Limits,
		logger:  logger,
		metrics: cfg.Metrics,
	}
}

// FromConfig builds a pipeline and its job from a validated configuration.
func FromConfig(cfg config.Config, logger observability.Logger, metrics *observability.Metrics) (*Pipeline, Job, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Job{}, err
	}
	space, err := colorspace.Lookup(cfg.ColorSpace)
	if err != nil {
		return nil, Job{}, err
	}
	p := New(Config{
		Engine:  transfer.New(transfer.Config{Space: space, Logger: logger, Metrics: metrics}),
		Limits:  cfg.PixelLimits(),
		Logger:  logger,
		Metrics: metrics,
	})
	job := Job{
		Content:   cfg.Content,
		Reference: cfg.Reference,
		Output:    cfg.Output,
		Report:    cfg.Report,
		Encode:    imageio.EncodeOptions{JPEGQuality: cfg.JPEGQuality},
	}
	return p, job, nil
}

// Run executes job. The context is checked before each stage; a stage in
// progress is not interrupted.
func (p *Pipeline) Run(ctx context.Context, job Job) (*Result, error) {
	res := &Result{}
	log := p.logger.With(observability.String("output", job.Output))

	var content, reference, out *pixbuf.Buffer
	err := p.stage(ctx, StageDecodeContent, func() (err error) {
		content, res.ContentFormat, err = imageio.ReadFile(job.Content, p.limits)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	err = p.stage(ctx, StageDecodeReference, func() (err error) {
		reference, res.ReferenceFormat, err = imageio.ReadFile(job.Reference, p.limits)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode reference: %w", err)
	}
	log.Debug("inputs decoded",
		observability.String("content", job.Content),
		observability.String("content_format", res.ContentFormat),
		observability.Int("content_width", content.Width),
		observability.Int("content_height", content.Height),
		observability.String("reference", job.Reference),
		observability.String("reference_format", res.ReferenceFormat),
	)

	err = p.stage(ctx, StageTransfer, func() (err error) {
		out, res.Report, err = p.engine.TransferWithReport(content, reference)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	err = p.stage(ctx, StageEncode, func() error {
		return imageio.WriteFile(job.Output, out, job.Encode)
	})
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}

	if job.Report != "" {
		err = p.stage(ctx, StageReport, func() error {
			return writeReport(job.Report, res.Report)
		})
		if err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
	}

	log.Info("color transfer written",
		observability.String("space", res.Report.Space),
		observability.Int("width", res.Report.Width),
		observability.Int("height", res.Report.Height),
		observability.Int("clipped_samples", res.Report.ClippedSamples),
		observability.Duration("transfer_duration", res.Report.Duration),
	)
	if n := len(res.Report.FlatChannels); n > 0 {
		log.Warn("content has flat channels; scaling skipped", observability.Int("channels", n))
	}
	return res, nil
}

func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	p.metrics.ObserveStage(name, time.Since(start))
	if err != nil {
		p.metrics.Fail(name)
		p.logger.Error("stage failed", observability.String("stage", name), observability.Error("error", err))
	}
	return err
}

func writeReport(path string, rep *transfer.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := rep.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
