package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"jewelry-studio/internal/domain"
	"jewelry-studio/internal/middleware"
)

type analyzeReferenceRequest struct {
	URL string `json:"url"`
}

type analyzeReferenceResponse struct {
	ImageURL string `json:"image_url"`
}

// AnalyzeReference resolves a reference page to a locally hosted image and
// returns its public URL. Nothing is sent to the model.
func (a *App) AnalyzeReference(w http.ResponseWriter, r *http.Request) {
	var req analyzeReferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, r, "analyze_reference", fmt.Errorf("%w: invalid payload", domain.ErrInvalidInput))
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		a.fail(w, r, "analyze_reference", fmt.Errorf("%w: url is required", domain.ErrInvalidInput))
		return
	}

	localPath, err := a.Resolver.Resolve(r.Context(), req.URL)
	if err != nil {
		a.fail(w, r, "analyze_reference", err)
		return
	}
	rel, err := a.DownloadStore.Rel(localPath)
	if err != nil {
		a.fail(w, r, "analyze_reference", fmt.Errorf("%w: %w", domain.ErrStorage, err))
		return
	}

	imageURL := a.Config.PublicBaseURL + path.Join("/downloads", rel)
	a.Logger.Info().
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("page_url", req.URL).
		Str("image_url", imageURL).
		Msg("reference resolved")
	a.json(w, http.StatusOK, analyzeReferenceResponse{ImageURL: imageURL})
}
