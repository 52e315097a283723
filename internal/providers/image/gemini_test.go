package image

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"jewelry-studio/internal/domain"
)

type fakeInvoker struct {
	calls      int
	credential string
	content    Content
	aspect     string
	resp       *Response
	err        error
}

func (f *fakeInvoker) Invoke(ctx context.Context, credential string, content Content, aspectRatio string) (*Response, error) {
	f.calls++
	f.credential = credential
	f.content = content
	f.aspect = aspectRatio
	return f.resp, f.err
}

func newTestGenerator(t *testing.T, resolver ReferenceResolver, invoker Invoker) (*GeminiGenerator, *memoryStore) {
	t.Helper()
	store := &memoryStore{dir: t.TempDir()}
	gen, err := NewGeminiGenerator(NewContentBuilder(resolver, nil), invoker, NewInterpreter(store, nil), nil)
	if err != nil {
		t.Fatalf("NewGeminiGenerator() error: %v", err)
	}
	return gen, store
}

func TestGenerateRequiresCredential(t *testing.T) {
	resolver := &stubResolver{}
	invoker := &fakeInvoker{}
	gen, store := newTestGenerator(t, resolver, invoker)

	for _, credential := range []string{"", "  \t"} {
		_, err := gen.Generate(context.Background(), GenerateRequest{
			Credential:   credential,
			Style:        "white",
			ReferenceURL: "https://pin.example/1",
			Sources:      sourceImages(t, 1),
		})
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("Generate(%q) error = %v, want ErrUnauthorized", credential, err)
		}
	}
	if resolver.calls != 0 || invoker.calls != 0 || len(store.writes) != 0 {
		t.Fatalf("side effects without credential: resolver=%d invoker=%d writes=%d", resolver.calls, invoker.calls, len(store.writes))
	}
}

func TestGenerateRequiresSources(t *testing.T) {
	invoker := &fakeInvoker{}
	gen, _ := newTestGenerator(t, nil, invoker)
	_, err := gen.Generate(context.Background(), GenerateRequest{Credential: "k", Style: "white"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("Generate() error = %v, want ErrInvalidInput", err)
	}
	if invoker.calls != 0 {
		t.Fatalf("invoker called without sources")
	}
}

func TestGenerateSucceedsWhenReferenceFails(t *testing.T) {
	invoker := &fakeInvoker{resp: &Response{
		Parts: []Part{TextPart("done"), ImagePart("image/png", pngBytes(t, color.White))},
		Usage: &Usage{InputTokens: 900, OutputTokens: 1100},
	}}
	resolver := &stubResolver{err: errors.New("page returned 404")}
	gen, store := newTestGenerator(t, resolver, invoker)

	result, err := gen.Generate(context.Background(), GenerateRequest{
		Credential:   "key-123",
		Style:        "custom",
		CustomPrompt: "warm tones",
		ReferenceURL: "https://pin.example/404",
		Sources:      sourceImages(t, 2),
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if resolver.calls != 1 {
		t.Fatalf("resolver calls = %d, want 1", resolver.calls)
	}
	if len(invoker.content) != 3 {
		t.Fatalf("content parts = %d, want 3 (prompt + 2 sources)", len(invoker.content))
	}
	for _, part := range invoker.content {
		if part.Kind == PartText && part.Text == ReferenceMarker {
			t.Fatal("reference marker sent although reference failed")
		}
	}
	if invoker.credential != "key-123" {
		t.Fatalf("credential = %q", invoker.credential)
	}
	if invoker.aspect != DefaultAspectRatio {
		t.Fatalf("aspect ratio = %q, want %q", invoker.aspect, DefaultAspectRatio)
	}
	if len(store.writes) != 1 || result.InputTokens != 900 || result.OutputTokens != 1100 {
		t.Fatalf("result = %+v writes=%v", result, store.writes)
	}
}

func TestGeneratePropagatesErrors(t *testing.T) {
	tests := []struct {
		name    string
		invoker *fakeInvoker
		want    error
	}{
		{
			name:    "invocation",
			invoker: &fakeInvoker{err: errors.Join(domain.ErrInvocation, errors.New("quota exceeded"))},
			want:    domain.ErrInvocation,
		},
		{
			name:    "text only",
			invoker: &fakeInvoker{resp: &Response{Parts: []Part{TextPart("cannot comply")}}},
			want:    domain.ErrNoArtifact,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen, store := newTestGenerator(t, nil, tc.invoker)
			_, err := gen.Generate(context.Background(), GenerateRequest{
				Credential:  "k",
				Style:       "dark",
				AspectRatio: "1:1",
				Sources:     sourceImages(t, 1),
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("Generate() error = %v, want %v", err, tc.want)
			}
			if len(store.writes) != 0 {
				t.Fatalf("writes = %v, want none", store.writes)
			}
			if tc.invoker.aspect != "1:1" {
				t.Fatalf("aspect ratio = %q", tc.invoker.aspect)
			}
		})
	}
}

func TestNewGeminiGeneratorValidates(t *testing.T) {
	builder := NewContentBuilder(nil, nil)
	interp := NewInterpreter(&memoryStore{}, nil)
	if _, err := NewGeminiGenerator(nil, &fakeInvoker{}, interp, nil); err == nil {
		t.Fatal("expected error for nil builder")
	}
	if _, err := NewGeminiGenerator(builder, nil, interp, nil); err == nil {
		t.Fatal("expected error for nil invoker")
	}
	if _, err := NewGeminiGenerator(builder, &fakeInvoker{}, nil, nil); err == nil {
		t.Fatal("expected error for nil interpreter")
	}
}
