package studio

import (
	"os"
	"path/filepath"
	"testing"

	"jewelry-studio/internal/infra"
)

func TestNewPipelineCreatesDirectories(t *testing.T) {
	root := t.TempDir()
	t.Setenv("UPLOAD_DIR", filepath.Join(root, "up"))
	t.Setenv("OUTPUT_DIR", filepath.Join(root, "out"))
	t.Setenv("DOWNLOAD_DIR", filepath.Join(root, "dl"))
	cfg, err := infra.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	p, err := NewPipeline(cfg, nil)
	if err != nil {
		t.Fatalf("NewPipeline() error: %v", err)
	}
	for _, dir := range []string{"up", "out", "dl"} {
		if info, err := os.Stat(filepath.Join(root, dir)); err != nil || !info.IsDir() {
			t.Fatalf("directory %s not created: %v", dir, err)
		}
	}
	if p.Generator == nil || p.Resolver == nil {
		t.Fatal("pipeline stages not wired")
	}
	if p.Downloads.BasePath() != filepath.Join(root, "dl") {
		t.Fatalf("downloads base = %q", p.Downloads.BasePath())
	}
}
