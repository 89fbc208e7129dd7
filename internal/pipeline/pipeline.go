package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/logo-studio/internal/llm"
	"github.com/jonathan/logo-studio/internal/metrics"
)

// Stage names used in logs and metrics
const (
	StageExtract  = "extract"
	StageGenerate = "generate"
)

// DefaultLogoCount is the number of designs requested per generation
const DefaultLogoCount = 5

// Pipeline runs the extraction and logo generation stages against a model
// client. It holds no per-session state and is safe for concurrent use.
type Pipeline struct {
	client    llm.Client
	extractor llm.Extractor
	logoCount int
	logger    *zap.Logger
	metrics   *metrics.StageMetrics
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics sets the stage metrics recorder
func WithMetrics(m *metrics.StageMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithBalancedExtraction enables the balanced-object retry of the extractor
func WithBalancedExtraction(enabled bool) Option {
	return func(p *Pipeline) { p.extractor.Balanced = enabled }
}

// WithLogoCount sets how many designs the generation prompt asks for.
// The reply is accepted with any non-zero number of records.
func WithLogoCount(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.logoCount = n
		}
	}
}

// New creates a pipeline over client
func New(client llm.Client, opts ...Option) *Pipeline {
	p := &Pipeline{
		client:    client,
		logoCount: DefaultLogoCount,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// call sends one prompt. Any failure of the call itself is an UpstreamError.
func (p *Pipeline) call(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	raw, err := p.client.GenerateContent(ctx, prompt, tier)
	if err == nil {
		return raw, nil
	}

	var upstreamErr *llm.UpstreamError
	if errors.As(err, &upstreamErr) {
		return "", err
	}
	return "", &llm.UpstreamError{Message: "model call failed", Cause: err}
}

// observe wraps a stage with logging and metrics
func (p *Pipeline) observe(ctx context.Context, stage string, fn func() error) error {
	start := time.Now()
	p.metrics.RecordStart(ctx, stage)
	p.logger.Debug("stage started", zap.String("stage", stage))

	err := fn()

	elapsed := time.Since(start)
	kind := Kind(err)
	p.metrics.RecordFinish(ctx, stage, string(kind), elapsed)
	if err != nil {
		p.logger.Warn("stage failed",
			zap.String("stage", stage),
			zap.String("kind", string(kind)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return err
	}

	p.logger.Debug("stage finished", zap.String("stage", stage), zap.Duration("elapsed", elapsed))
	return nil
}
