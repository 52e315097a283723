package reference

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"jewelry-studio/internal/domain"
	"jewelry-studio/internal/infra"
	"jewelry-studio/internal/storage"
)

const (
	// referenceFilename is the fixed name of a download inside its scope.
	referenceFilename = "image.jpg"
	sniffLen          = 3072
)

// FetcherOptions configures a Fetcher.
type FetcherOptions struct {
	Store      *storage.FileStore
	HTTPClient *http.Client
	UserAgent  string
	Logger     *infra.Logger
}

// Fetcher downloads a single image into a fresh scope of the download store.
type Fetcher struct {
	store     *storage.FileStore
	client    *http.Client
	userAgent string
	logger    infra.Logger
}

// NewFetcher constructs a Fetcher. A nil HTTP client falls back to one without
// a timeout; downloads rely on the transport defaults.
func NewFetcher(opts FetcherOptions) (*Fetcher, error) {
	if opts.Store == nil {
		return nil, errors.New("reference: download store is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{
		store:     opts.Store,
		client:    client,
		userAgent: strings.TrimSpace(opts.UserAgent),
		logger:    infra.ComponentLogger(opts.Logger, "image_fetcher"),
	}, nil
}

// Fetch downloads imageURL and returns the local path of the stored copy. Each
// call writes into its own uniquely named subdirectory.
func (f *Fetcher) Fetch(ctx context.Context, imageURL string) (string, error) {
	scope, err := f.store.NewScope(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", domain.ErrFetch, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: %s returned status %d", domain.ErrFetch, imageURL, resp.StatusCode)
	}

	body := bufio.NewReaderSize(resp.Body, sniffLen)
	head, err := body.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: read body: %w", domain.ErrFetch, err)
	}
	if len(head) == 0 {
		return "", fmt.Errorf("%w: %s returned an empty body", domain.ErrFetch, imageURL)
	}
	if mime := mimetype.Detect(head); !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("%w: %s is not an image (%s)", domain.ErrFetch, imageURL, mime.String())
	}

	key := path.Join(scope, referenceFilename)
	file, err := f.store.Create(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	written, err := io.Copy(file, body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = f.store.Remove(key)
		return "", fmt.Errorf("%w: write image: %w", domain.ErrFetch, err)
	}

	localPath, err := f.store.Path(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	f.logger.Debug().
		Str("image_url", imageURL).
		Str("path", localPath).
		Int64("bytes", written).
		Msg("reference image downloaded")
	return localPath, nil
}
