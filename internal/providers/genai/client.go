package genai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	googlegenai "google.golang.org/genai"

	"jewelry-studio/internal/domain"
	"jewelry-studio/internal/infra"
	"jewelry-studio/internal/providers/image"
)

const (
	defaultModel     = "gemini-3-pro-image-preview"
	defaultImageSize = "2K"
)

// Options controls how the Gemini client is configured.
type Options struct {
	BaseURL    string
	Model      string
	ImageSize  string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client sends multimodal content to Gemini. It holds no credential: every
// call builds a fresh SDK client from the key supplied by the caller.
type Client struct {
	baseURL    string
	model      string
	imageSize  string
	httpClient *http.Client
	logger     infra.Logger
}

// NewClient constructs a Gemini client with sane defaults.
func NewClient(opts Options) (*Client, error) {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	imageSize := strings.TrimSpace(opts.ImageSize)
	if imageSize == "" {
		imageSize = defaultImageSize
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		model:      model,
		imageSize:  imageSize,
		httpClient: opts.HTTPClient,
		logger:     infra.ComponentLogger(opts.Logger, "genai"),
	}, nil
}

// Model returns the configured Gemini model identifier.
func (c *Client) Model() string {
	return c.model
}

// Invoke fulfils image.Invoker. A blank credential fails before any request is
// made; service errors are passed through with their own message.
func (c *Client) Invoke(ctx context.Context, credential string, content image.Content, aspectRatio string) (*image.Response, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, fmt.Errorf("%w: api key is required", domain.ErrUnauthorized)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sdk, err := googlegenai.NewClient(ctx, c.clientConfig(credential))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvocation, err)
	}

	contents := []*googlegenai.Content{googlegenai.NewContentFromParts(toSDKParts(content), googlegenai.RoleUser)}
	resp, err := sdk.Models.GenerateContent(ctx, c.model, contents, c.generateConfig(aspectRatio))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvocation, err)
	}

	out := fromSDKResponse(resp)
	c.logger.Debug().
		Str("model", c.model).
		Int("parts", len(out.Parts)).
		Msg("genai: generate content returned")
	return out, nil
}

func (c *Client) clientConfig(credential string) *googlegenai.ClientConfig {
	cfg := &googlegenai.ClientConfig{
		APIKey:     credential,
		Backend:    googlegenai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = googlegenai.HTTPOptions{BaseURL: c.baseURL}
	}
	return cfg
}

func (c *Client) generateConfig(aspectRatio string) *googlegenai.GenerateContentConfig {
	aspectRatio = strings.TrimSpace(aspectRatio)
	if aspectRatio == "" {
		aspectRatio = image.DefaultAspectRatio
	}
	return &googlegenai.GenerateContentConfig{
		ResponseModalities: []string{
			string(googlegenai.ModalityText),
			string(googlegenai.ModalityImage),
		},
		ImageConfig: &googlegenai.ImageConfig{
			AspectRatio: aspectRatio,
			ImageSize:   c.imageSize,
		},
	}
}

func toSDKParts(content image.Content) []*googlegenai.Part {
	parts := make([]*googlegenai.Part, 0, len(content))
	for _, part := range content {
		switch part.Kind {
		case image.PartText:
			parts = append(parts, googlegenai.NewPartFromText(part.Text))
		case image.PartImage:
			if part.Image == nil {
				continue
			}
			parts = append(parts, googlegenai.NewPartFromBytes(part.Image.Data, part.Image.MIME))
		}
	}
	return parts
}

// fromSDKResponse flattens the first candidate into tagged parts. Thought
// images are intermediate drafts and are skipped.
func fromSDKResponse(resp *googlegenai.GenerateContentResponse) *image.Response {
	out := &image.Response{}
	if resp == nil {
		return out
	}
	if resp.UsageMetadata != nil {
		out.Usage = &image.Usage{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
		}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return out
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		switch {
		case part.Text != "":
			out.Parts = append(out.Parts, image.TextPart(part.Text))
		case part.InlineData != nil && len(part.InlineData.Data) > 0 && !part.Thought:
			out.Parts = append(out.Parts, image.ImagePart(part.InlineData.MIMEType, part.InlineData.Data))
		}
	}
	return out
}

var _ image.Invoker = (*Client)(nil)
