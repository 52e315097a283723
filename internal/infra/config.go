package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	PublicBaseURL    string
	UploadDir        string
	OutputDir        string
	DownloadDir      string
	GeminiModel      string
	GeminiBaseURL    string
	GeminiImageSize  string
	ScraperUserAgent string
	PageFetchTimeout time.Duration
	MaxUploadBytes   int64
	CORSOrigins      []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8000")
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             port,
		PublicBaseURL:    strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		OutputDir:        getEnv("OUTPUT_DIR", "outputs"),
		DownloadDir:      getEnv("DOWNLOAD_DIR", "downloads"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-3-pro-image-preview"),
		GeminiBaseURL:    os.Getenv("GEMINI_BASE_URL"),
		GeminiImageSize:  getEnv("GEMINI_IMAGE_SIZE", "2K"),
		ScraperUserAgent: getEnv("SCRAPER_USER_AGENT", defaultUserAgent),
		PageFetchTimeout: getEnvSeconds("PAGE_FETCH_TIMEOUT_SECONDS", 10),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_MB", 32)) << 20,
		CORSOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		HTTPReadTimeout:  getEnvSeconds("HTTP_READ_TIMEOUT_SECONDS", 30),
		HTTPWriteTimeout: getEnvSeconds("HTTP_WRITE_TIMEOUT_SECONDS", 300),
		HTTPIdleTimeout:  getEnvSeconds("HTTP_IDLE_TIMEOUT_SECONDS", 60),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	for name, dir := range map[string]string{
		"UPLOAD_DIR":   cfg.UploadDir,
		"OUTPUT_DIR":   cfg.OutputDir,
		"DOWNLOAD_DIR": cfg.DownloadDir,
	} {
		if strings.TrimSpace(dir) == "" {
			return nil, fmt.Errorf("%s must not be blank", name)
		}
	}
	if cfg.PageFetchTimeout <= 0 {
		return nil, fmt.Errorf("PAGE_FETCH_TIMEOUT_SECONDS must be positive")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if cfg.RateLimitPerMin <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Second * time.Duration(getEnvInt(key, fallback))
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
