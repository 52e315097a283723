package image

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	stdimage "image"
)

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 2, 2))
	img.Set(0, 0, c)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func sourceImages(t *testing.T, n int) []SourceImage {
	t.Helper()
	out := make([]SourceImage, n)
	for i := range out {
		src, err := DecodeSourceImage("ring.png", pngBytes(t, color.RGBA{R: uint8(i * 40), A: 255}))
		if err != nil {
			t.Fatalf("DecodeSourceImage() error: %v", err)
		}
		out[i] = src
	}
	return out
}

type stubResolver struct {
	path  string
	err   error
	calls int
}

func (s *stubResolver) Resolve(ctx context.Context, pageURL string) (string, error) {
	s.calls++
	return s.path, s.err
}

func writeReference(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.jpg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write reference: %v", err)
	}
	return path
}

func TestBuildWithoutReference(t *testing.T) {
	resolver := &stubResolver{}
	builder := NewContentBuilder(resolver, nil)
	spec := BuildPrompt("white", "")
	sources := sourceImages(t, 2)

	content := builder.Build(context.Background(), spec, sources, "")
	if len(content) != 3 {
		t.Fatalf("len(content) = %d, want 3", len(content))
	}
	if content[0].Kind != PartText || content[0].Text != spec.Text {
		t.Fatalf("content[0] is not the prompt")
	}
	for i, src := range sources {
		part := content[i+1]
		if part.Kind != PartImage || !bytes.Equal(part.Image.Data, src.Data) {
			t.Fatalf("content[%d] is not source %d", i+1, i)
		}
	}
	if resolver.calls != 0 {
		t.Fatalf("resolver called %d times without reference", resolver.calls)
	}
}

func TestBuildWithResolvedReference(t *testing.T) {
	refData := pngBytes(t, color.RGBA{B: 255, A: 255})
	resolver := &stubResolver{path: writeReference(t, refData)}
	builder := NewContentBuilder(resolver, nil)

	for n := 1; n <= 3; n++ {
		content := builder.Build(context.Background(), BuildPrompt("custom", ""), sourceImages(t, n), "https://pin.example/123")
		if len(content) != 1+n+2 {
			t.Fatalf("n=%d: len(content) = %d, want %d", n, len(content), 1+n+2)
		}
		marker := content[len(content)-2]
		ref := content[len(content)-1]
		if marker.Kind != PartText || marker.Text != ReferenceMarker {
			t.Fatalf("n=%d: marker part = %+v", n, marker)
		}
		if ref.Kind != PartImage || !bytes.Equal(ref.Image.Data, refData) {
			t.Fatalf("n=%d: reference image not last", n)
		}
		if ref.Image.MIME != "image/png" {
			t.Fatalf("n=%d: reference MIME = %q", n, ref.Image.MIME)
		}
	}
}

func TestBuildDegradesWhenReferenceFails(t *testing.T) {
	sources := sourceImages(t, 2)
	spec := BuildPrompt("dark", "more sparkle")
	baseline := NewContentBuilder(nil, nil).Build(context.Background(), spec, sources, "")

	cases := map[string]*stubResolver{
		"resolver error": {err: errors.New("no image found")},
		"missing file":   {path: filepath.Join(t.TempDir(), "gone.jpg")},
		"not an image":   {path: writeReference(t, []byte("<html></html>"))},
	}
	for name, resolver := range cases {
		t.Run(name, func(t *testing.T) {
			content := NewContentBuilder(resolver, nil).Build(context.Background(), spec, sources, "https://pin.example/x")
			if !reflect.DeepEqual(content, baseline) {
				t.Fatalf("degraded content differs from reference-free content")
			}
			if resolver.calls != 1 {
				t.Fatalf("resolver calls = %d, want 1", resolver.calls)
			}
		})
	}
}

func TestResolveReferenceResult(t *testing.T) {
	builder := NewContentBuilder(nil, nil)
	if res := builder.ResolveReference(context.Background(), "https://x"); res.Err == nil || res.Image != nil {
		t.Fatalf("ResolveReference() without resolver = %+v", res)
	}

	path := writeReference(t, pngBytes(t, color.White))
	builder = NewContentBuilder(&stubResolver{path: path}, nil)
	res := builder.ResolveReference(context.Background(), "https://x")
	if res.Err != nil || res.Image == nil || res.Path != path {
		t.Fatalf("ResolveReference() = %+v", res)
	}
}

func TestDecodeSourceImageRejectsGarbage(t *testing.T) {
	if _, err := DecodeSourceImage("a.png", nil); err == nil {
		t.Fatal("expected error for empty data")
	}
	if _, err := DecodeSourceImage("a.png", []byte("not an image")); err == nil {
		t.Fatal("expected error for non-image data")
	}
}
