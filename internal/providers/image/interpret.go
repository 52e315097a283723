package image

import (
	"bytes"
	"context"
	"fmt"
	stdimage "image"
	"image/png"

	"github.com/google/uuid"

	"jewelry-studio/internal/domain"
	"jewelry-studio/internal/infra"
)

const outputExt = ".png"

// ArtifactStore persists generated images.
type ArtifactStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// Interpreter extracts the generated image and telemetry from a response.
type Interpreter struct {
	store  ArtifactStore
	logger infra.Logger
}

// NewInterpreter wires an interpreter writing into store.
func NewInterpreter(store ArtifactStore, logger *infra.Logger) *Interpreter {
	return &Interpreter{
		store:  store,
		logger: infra.ComponentLogger(logger, "response_interpreter"),
	}
}

// Interpret walks the parts in order. Text is logged; the first image is
// re-encoded as PNG, saved under a fresh name and ends the walk. A response
// without any image part fails with domain.ErrNoArtifact.
func (i *Interpreter) Interpret(ctx context.Context, resp *Response) (*Result, error) {
	if resp == nil {
		return nil, domain.ErrNoArtifact
	}
	input, output := UsageOf(resp)

	for _, part := range resp.Parts {
		switch part.Kind {
		case PartText:
			if part.Text != "" {
				i.logger.Info().Str("text", part.Text).Msg("model text response")
			}
		case PartImage:
			artifact, err := i.persist(ctx, part.Image)
			if err != nil {
				return nil, err
			}
			return &Result{
				Artifact:     artifact,
				InputTokens:  input,
				OutputTokens: output,
			}, nil
		default:
			return nil, fmt.Errorf("unknown response part kind %d", part.Kind)
		}
	}
	return nil, domain.ErrNoArtifact
}

func (i *Interpreter) persist(ctx context.Context, img *InlineImage) (Artifact, error) {
	if img == nil || len(img.Data) == 0 {
		return Artifact{}, fmt.Errorf("%w: empty image part", domain.ErrNoArtifact)
	}
	bitmap, _, err := stdimage.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return Artifact{}, fmt.Errorf("decode generated image: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, bitmap); err != nil {
		return Artifact{}, fmt.Errorf("encode generated image: %w", err)
	}

	path, err := i.store.Write(ctx, uuid.NewString()+outputExt, buf.Bytes())
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	i.logger.Info().Str("path", path).Msg("image saved")
	return Artifact{Path: path, MIME: "image/png", Data: buf.Bytes()}, nil
}

// UsageOf returns the token counters, zero when the response carries none.
func UsageOf(resp *Response) (input, output int32) {
	if resp == nil || resp.Usage == nil {
		return 0, 0
	}
	return resp.Usage.InputTokens, resp.Usage.OutputTokens
}
