// Package studio assembles the generation pipeline from configuration so the
// API server and the command line tool share one wiring.
package studio

import (
	"fmt"
	"net/http"

	"jewelry-studio/internal/infra"
	"jewelry-studio/internal/providers/genai"
	"jewelry-studio/internal/providers/image"
	"jewelry-studio/internal/reference"
	"jewelry-studio/internal/storage"
)

// Pipeline holds the long-lived components built from a Config.
type Pipeline struct {
	Uploads   *storage.FileStore
	Outputs   *storage.FileStore
	Downloads *storage.FileStore
	Resolver  *reference.PageResolver
	Generator *image.GeminiGenerator
}

// NewPipeline creates the storage directories and wires every stage.
func NewPipeline(cfg *infra.Config, logger *infra.Logger) (*Pipeline, error) {
	uploads, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("upload store: %w", err)
	}
	outputs, err := storage.NewFileStore(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output store: %w", err)
	}
	downloads, err := storage.NewFileStore(cfg.DownloadDir)
	if err != nil {
		return nil, fmt.Errorf("download store: %w", err)
	}

	httpClient := &http.Client{}
	fetcher, err := reference.NewFetcher(reference.FetcherOptions{
		Store:      downloads,
		HTTPClient: httpClient,
		UserAgent:  cfg.ScraperUserAgent,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	resolver, err := reference.NewPageResolver(reference.ResolverOptions{
		Fetcher:    fetcher,
		HTTPClient: httpClient,
		UserAgent:  cfg.ScraperUserAgent,
		Timeout:    cfg.PageFetchTimeout,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	invoker, err := genai.NewClient(genai.Options{
		BaseURL:   cfg.GeminiBaseURL,
		Model:     cfg.GeminiModel,
		ImageSize: cfg.GeminiImageSize,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	generator, err := image.NewGeminiGenerator(
		image.NewContentBuilder(resolver, logger),
		invoker,
		image.NewInterpreter(outputs, logger),
		logger,
	)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		Uploads:   uploads,
		Outputs:   outputs,
		Downloads: downloads,
		Resolver:  resolver,
		Generator: generator,
	}, nil
}
