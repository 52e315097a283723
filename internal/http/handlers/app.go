package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"jewelry-studio/internal/domain"
	"jewelry-studio/internal/infra"
	"jewelry-studio/internal/middleware"
	"jewelry-studio/internal/providers/image"
	"jewelry-studio/internal/storage"
)

const (
	apiKeyRequiredMessage = "API Key is required. Please enter it in Settings."
	noArtifactMessage     = "Failed to generate image"
)

// ReferenceResolver downloads the image behind a reference page.
type ReferenceResolver interface {
	Resolve(ctx context.Context, pageURL string) (string, error)
}

// App carries the dependencies shared by all handlers.
type App struct {
	Config        *infra.Config
	Logger        infra.Logger
	Generator     image.Generator
	Resolver      ReferenceResolver
	DownloadStore *storage.FileStore
	UploadStore   *storage.FileStore
}

// NewApp validates and assembles the handler container.
func NewApp(cfg *infra.Config, logger *infra.Logger, generator image.Generator, resolver ReferenceResolver, downloads, uploads *storage.FileStore) (*App, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("handlers: config is required")
	case generator == nil:
		return nil, errors.New("handlers: generator is required")
	case resolver == nil:
		return nil, errors.New("handlers: reference resolver is required")
	case downloads == nil || uploads == nil:
		return nil, errors.New("handlers: download and upload stores are required")
	}
	return &App{
		Config:        cfg,
		Logger:        infra.ComponentLogger(logger, "http"),
		Generator:     generator,
		Resolver:      resolver,
		DownloadStore: downloads,
		UploadStore:   uploads,
	}, nil
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (a *App) error(w http.ResponseWriter, code int, detail string) {
	a.json(w, code, errorResponse{Detail: detail})
}

// fail maps a pipeline error onto a status code and writes the detail body.
func (a *App) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	code, detail := statusFor(err)
	event := a.Logger.Warn()
	if code >= http.StatusInternalServerError {
		event = a.Logger.Error()
	}
	event.
		Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("op", op).
		Int("status", code).
		Msg("request failed")
	a.error(w, code, detail)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, apiKeyRequiredMessage
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNoArtifact):
		return http.StatusInternalServerError, noArtifactMessage
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
