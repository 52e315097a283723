package image

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jewelry-studio/internal/domain"
	"jewelry-studio/internal/infra"
	"jewelry-studio/internal/metrics"
)

// GeminiGenerator runs the generation pipeline: prompt, content assembly,
// model call and response interpretation.
type GeminiGenerator struct {
	builder     *ContentBuilder
	invoker     Invoker
	interpreter *Interpreter
	logger      infra.Logger
}

// NewGeminiGenerator wires the pipeline stages.
func NewGeminiGenerator(builder *ContentBuilder, invoker Invoker, interpreter *Interpreter, logger *infra.Logger) (*GeminiGenerator, error) {
	if builder == nil {
		return nil, errors.New("content builder is required")
	}
	if invoker == nil {
		return nil, errors.New("invoker is required")
	}
	if interpreter == nil {
		return nil, errors.New("interpreter is required")
	}
	return &GeminiGenerator{
		builder:     builder,
		invoker:     invoker,
		interpreter: interpreter,
		logger:      infra.ComponentLogger(logger, "gemini_generator"),
	}, nil
}

// Generate fulfils the Generator interface. The credential is checked before
// anything touches the network.
func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	if strings.TrimSpace(req.Credential) == "" {
		return nil, fmt.Errorf("%w: api key is required", domain.ErrUnauthorized)
	}
	if len(req.Sources) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", domain.ErrInvalidInput)
	}
	req.Normalize()

	start := time.Now()
	result, err := g.run(ctx, req)
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNoArtifact):
		outcome = "no_artifact"
	case errors.Is(err, domain.ErrInvocation):
		outcome = "invocation_error"
	default:
		outcome = "error"
	}
	metrics.RecordGeneration(outcome, time.Since(start).Seconds())
	return result, err
}

func (g *GeminiGenerator) run(ctx context.Context, req GenerateRequest) (*Result, error) {
	spec := BuildPrompt(req.Style, req.CustomPrompt)
	content := g.builder.Build(ctx, spec, req.Sources, req.ReferenceURL)

	g.logger.Info().
		Str("request_id", req.RequestID).
		Str("style", string(spec.Style)).
		Str("aspect_ratio", req.AspectRatio).
		Int("parts", len(content)).
		Msg("generating")

	resp, err := g.invoker.Invoke(ctx, req.Credential, content, req.AspectRatio)
	if err != nil {
		return nil, err
	}
	metrics.RecordTokens(UsageOf(resp))

	result, err := g.interpreter.Interpret(ctx, resp)
	if err != nil {
		return nil, err
	}
	return result, nil
}

var _ Generator = (*GeminiGenerator)(nil)
