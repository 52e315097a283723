package image

import (
	"context"
	"fmt"
	"os"

	"jewelry-studio/internal/infra"
	"jewelry-studio/internal/metrics"
)

// ReferenceMarker precedes the reference image in the content sequence.
const ReferenceMarker = "REFERENCE IMAGE (Copy this style/lighting/background ONLY):"

// ReferenceResolver turns a page URL into a local image file.
type ReferenceResolver interface {
	Resolve(ctx context.Context, pageURL string) (string, error)
}

// ReferenceResolution is the outcome of resolving an optional reference.
// Exactly one of Image or Err is set.
type ReferenceResolution struct {
	Path  string
	Image *SourceImage
	Err   error
}

// ContentBuilder assembles the ordered multimodal request.
type ContentBuilder struct {
	resolver ReferenceResolver
	logger   infra.Logger
}

// NewContentBuilder wires a builder. A nil resolver disables references.
func NewContentBuilder(resolver ReferenceResolver, logger *infra.Logger) *ContentBuilder {
	return &ContentBuilder{
		resolver: resolver,
		logger:   infra.ComponentLogger(logger, "content_builder"),
	}
}

// Build returns [prompt, sources..., marker, reference]. A reference that
// cannot be resolved is dropped and the content is the same as when no
// reference was requested.
func (b *ContentBuilder) Build(ctx context.Context, spec PromptSpec, sources []SourceImage, referenceURL string) Content {
	content := make(Content, 0, len(sources)+3)
	content = append(content, TextPart(spec.Text))
	for _, src := range sources {
		content = append(content, ImagePart(src.MIME, src.Data))
	}

	if referenceURL == "" {
		return content
	}

	res := b.ResolveReference(ctx, referenceURL)
	if res.Err != nil {
		metrics.RecordReference("dropped")
		b.logger.Warn().
			Err(res.Err).
			Str("reference_url", referenceURL).
			Msg("failed to load reference; generating without it")
		return content
	}
	metrics.RecordReference("resolved")

	return append(content,
		TextPart(ReferenceMarker),
		ImagePart(res.Image.MIME, res.Image.Data),
	)
}

// ResolveReference downloads and decodes the reference behind pageURL.
func (b *ContentBuilder) ResolveReference(ctx context.Context, pageURL string) ReferenceResolution {
	if b.resolver == nil {
		return ReferenceResolution{Err: fmt.Errorf("reference resolution is not configured")}
	}
	localPath, err := b.resolver.Resolve(ctx, pageURL)
	if err != nil {
		return ReferenceResolution{Err: err}
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return ReferenceResolution{Path: localPath, Err: fmt.Errorf("read reference: %w", err)}
	}
	img, err := DecodeSourceImage(localPath, data)
	if err != nil {
		return ReferenceResolution{Path: localPath, Err: err}
	}
	return ReferenceResolution{Path: localPath, Image: &img}
}
