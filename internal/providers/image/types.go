package image

import (
	"bytes"
	"context"
	"fmt"
	stdimage "image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"

	"jewelry-studio/internal/domain"
)

// DefaultAspectRatio is used when the caller does not pick one.
const DefaultAspectRatio = "4:5"

// SourceImage is an uploaded photo: the decoded bitmap plus the bytes it was
// decoded from. It lives only for the duration of one request.
type SourceImage struct {
	Filename string
	MIME     string
	Data     []byte
	Bitmap   stdimage.Image
}

// DecodeSourceImage validates that data is a decodable image.
func DecodeSourceImage(filename string, data []byte) (SourceImage, error) {
	if len(data) == 0 {
		return SourceImage{}, fmt.Errorf("%w: %s is empty", domain.ErrInvalidInput, filename)
	}
	bitmap, _, err := stdimage.Decode(bytes.NewReader(data))
	if err != nil {
		return SourceImage{}, fmt.Errorf("%w: %s is not a supported image: %v", domain.ErrInvalidInput, filename, err)
	}
	return SourceImage{
		Filename: filename,
		MIME:     mimetype.Detect(data).String(),
		Data:     data,
		Bitmap:   bitmap,
	}, nil
}

// PartKind tags the variant held by a Part.
type PartKind int

const (
	PartText PartKind = iota
	PartImage
)

// Part is one element of a multimodal sequence: either text or an inline image.
type Part struct {
	Kind  PartKind
	Text  string
	Image *InlineImage
}

// InlineImage carries encoded image bytes.
type InlineImage struct {
	MIME string
	Data []byte
}

// TextPart builds a text element.
func TextPart(text string) Part {
	return Part{Kind: PartText, Text: text}
}

// ImagePart builds an image element.
func ImagePart(mime string, data []byte) Part {
	return Part{Kind: PartImage, Image: &InlineImage{MIME: mime, Data: data}}
}

// Content is the ordered request sent to the model. Order matters: the model
// is told that the image following the reference marker is the style source.
type Content []Part

// Usage carries the token counters reported by the model.
type Usage struct {
	InputTokens  int32
	OutputTokens int32
}

// Response is the model output decomposed into ordered parts. Usage is nil
// when the service did not report telemetry.
type Response struct {
	Parts []Part
	Usage *Usage
}

// Artifact is the generated image persisted in the output directory.
type Artifact struct {
	Path string
	MIME string
	Data []byte
}

// Result is the outcome of a successful generation.
type Result struct {
	Artifact     Artifact
	InputTokens  int32
	OutputTokens int32
}

// GenerateRequest describes one /generate call after transport decoding.
type GenerateRequest struct {
	RequestID    string
	Credential   string
	Style        string
	CustomPrompt string
	ReferenceURL string
	AspectRatio  string
	Sources      []SourceImage
}

// Normalize applies request defaults.
func (r *GenerateRequest) Normalize() {
	r.ReferenceURL = strings.TrimSpace(r.ReferenceURL)
	r.AspectRatio = strings.TrimSpace(r.AspectRatio)
	if r.AspectRatio == "" {
		r.AspectRatio = DefaultAspectRatio
	}
}

// Invoker sends assembled content to the generative model.
type Invoker interface {
	Invoke(ctx context.Context, credential string, content Content, aspectRatio string) (*Response, error)
}

// Generator is the contract the HTTP layer depends on.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Result, error)
}
