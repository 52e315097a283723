package reference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"jewelry-studio/internal/domain"
	"jewelry-studio/internal/infra"
)

const (
	maxPageBytes = 8 << 20
	// originalsMarker identifies full-resolution image paths on pin pages.
	originalsMarker = "originals"
)

var directImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}

// ImageFetcher downloads an image URL to a local file.
type ImageFetcher interface {
	Fetch(ctx context.Context, imageURL string) (string, error)
}

// ResolverOptions configures a PageResolver.
type ResolverOptions struct {
	Fetcher    ImageFetcher
	HTTPClient *http.Client
	UserAgent  string
	Timeout    time.Duration
	Logger     *infra.Logger
}

// PageResolver turns a web page URL into a downloaded image by scraping the
// page for a candidate image URL.
type PageResolver struct {
	fetcher   ImageFetcher
	client    *http.Client
	userAgent string
	timeout   time.Duration
	logger    infra.Logger
}

// NewPageResolver constructs a PageResolver. The timeout bounds only the page
// fetch; the image download is left to the fetcher.
func NewPageResolver(opts ResolverOptions) (*PageResolver, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("reference: image fetcher is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PageResolver{
		fetcher:   opts.Fetcher,
		client:    client,
		userAgent: strings.TrimSpace(opts.UserAgent),
		timeout:   timeout,
		logger:    infra.ComponentLogger(opts.Logger, "page_resolver"),
	}, nil
}

// Resolve scrapes pageURL and downloads the first candidate image found by
// the fallback chain: og:image meta tag, first <img> whose src contains
// "originals", then the page URL itself when it names an image file.
func (r *PageResolver) Resolve(ctx context.Context, pageURL string) (string, error) {
	pageURL = strings.TrimSpace(pageURL)
	base, err := url.ParseRequestURI(pageURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return "", fmt.Errorf("%w: invalid page url %q", domain.ErrResolution, pageURL)
	}

	page, err := r.fetchPage(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrResolution, err)
	}

	candidate := FindImageURL(page, base)
	if candidate == "" {
		return "", fmt.Errorf("%w: no image found", domain.ErrResolution)
	}
	r.logger.Debug().Str("page_url", pageURL).Str("image_url", candidate).Msg("reference candidate found")

	localPath, err := r.fetcher.Fetch(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrResolution, err)
	}
	return localPath, nil
}

func (r *PageResolver) fetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create page request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("fetch page %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read page %s: %w", pageURL, err)
	}
	return body, nil
}

// FindImageURL applies the scraping heuristics to a page body. Relative
// candidates are resolved against base. It returns "" when nothing matches.
func FindImageURL(page []byte, base *url.URL) string {
	if candidate := findOpenGraphImage(page); candidate != "" {
		return absoluteURL(base, candidate)
	}
	if candidate := findOriginalsImage(page); candidate != "" {
		return absoluteURL(base, candidate)
	}
	if hasImageExtension(base.String()) {
		return base.String()
	}
	return ""
}

// findOpenGraphImage returns the content of the first og:image meta tag. An
// empty content attribute on that tag counts as no match.
func findOpenGraphImage(page []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(page))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return ""
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		token := tokenizer.Token()
		if token.Data != "meta" || attr(token, "property") != "og:image" {
			continue
		}
		return strings.TrimSpace(attr(token, "content"))
	}
}

func findOriginalsImage(page []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(page))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return ""
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		token := tokenizer.Token()
		if token.Data != "img" {
			continue
		}
		if src := attr(token, "src"); src != "" && strings.Contains(src, originalsMarker) {
			return src
		}
	}
}

func attr(token html.Token, key string) string {
	for _, a := range token.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasImageExtension(raw string) bool {
	lower := strings.ToLower(raw)
	for _, ext := range directImageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func absoluteURL(base *url.URL, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
