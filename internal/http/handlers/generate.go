package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"jewelry-studio/internal/domain"
	"jewelry-studio/internal/middleware"
	"jewelry-studio/internal/providers/image"
)

// Multipart field names understood by Generate.
const (
	fieldFiles        = "files"
	fieldStyle        = "style"
	fieldReferenceURL = "reference_url"
	fieldAspectRatio  = "aspect_ratio"
	fieldCustomPrompt = "custom_prompt"
	fieldAPIKey       = "api_key"

	HeaderInputTokens  = "X-Input-Tokens"
	HeaderOutputTokens = "X-Output-Tokens"
)

// Generate runs one synchronous generation and answers with the PNG bytes.
// The credential is checked before anything else is touched.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(a.Config.MaxUploadBytes); err != nil {
		a.fail(w, r, "generate", fmt.Errorf("%w: invalid multipart form: %v", domain.ErrInvalidInput, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	credential := strings.TrimSpace(r.FormValue(fieldAPIKey))
	if credential == "" {
		a.fail(w, r, "generate", fmt.Errorf("%w: api key is required", domain.ErrUnauthorized))
		return
	}
	style := r.FormValue(fieldStyle)
	if strings.TrimSpace(style) == "" {
		a.fail(w, r, "generate", fmt.Errorf("%w: style is required", domain.ErrInvalidInput))
		return
	}
	headers := r.MultipartForm.File[fieldFiles]
	if len(headers) == 0 {
		a.fail(w, r, "generate", fmt.Errorf("%w: at least one file is required", domain.ErrInvalidInput))
		return
	}

	sources := make([]image.SourceImage, 0, len(headers))
	for _, fh := range headers {
		src, err := a.readUpload(r, fh)
		if err != nil {
			a.fail(w, r, "generate", err)
			return
		}
		sources = append(sources, src)
	}

	result, err := a.Generator.Generate(r.Context(), image.GenerateRequest{
		RequestID:    middleware.RequestIDFromContext(r.Context()),
		Credential:   credential,
		Style:        style,
		CustomPrompt: r.FormValue(fieldCustomPrompt),
		ReferenceURL: r.FormValue(fieldReferenceURL),
		AspectRatio:  r.FormValue(fieldAspectRatio),
		Sources:      sources,
	})
	if err != nil {
		a.fail(w, r, "generate", err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", result.Artifact.MIME)
	h.Set("Content-Length", strconv.Itoa(len(result.Artifact.Data)))
	h.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filepath.Base(result.Artifact.Path)))
	h.Set(HeaderInputTokens, strconv.FormatInt(int64(result.InputTokens), 10))
	h.Set(HeaderOutputTokens, strconv.FormatInt(int64(result.OutputTokens), 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifact.Data)
}

// readUpload decodes one uploaded file and keeps a copy in the upload store.
func (a *App) readUpload(r *http.Request, fh *multipart.FileHeader) (image.SourceImage, error) {
	f, err := fh.Open()
	if err != nil {
		return image.SourceImage{}, fmt.Errorf("%w: open %s: %v", domain.ErrInvalidInput, fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return image.SourceImage{}, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidInput, fh.Filename, err)
	}
	src, err := image.DecodeSourceImage(fh.Filename, data)
	if err != nil {
		return image.SourceImage{}, err
	}

	key := uuid.NewString() + uploadExt(fh.Filename, data)
	if _, err := a.UploadStore.Write(r.Context(), key, data); err != nil {
		return image.SourceImage{}, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	return src, nil
}

func uploadExt(filename string, data []byte) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		return ext
	}
	return mimetype.Detect(data).Extension()
}
