package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"jewelry-studio/internal/infra"
	"jewelry-studio/internal/providers/image"
	"jewelry-studio/internal/studio"
)

func main() {
	var (
		keyFlag    string
		styleFlag  string
		refFlag    string
		aspectFlag string
		promptFlag string
	)
	flag.StringVar(&keyFlag, "key", "", "Gemini API key (falls back to GEMINI_API_KEY)")
	flag.StringVar(&styleFlag, "style", "white", "style tag: white, dark, macro, creative or custom")
	flag.StringVar(&refFlag, "ref", "", "optional reference page URL")
	flag.StringVar(&aspectFlag, "aspect", image.DefaultAspectRatio, "output aspect ratio")
	flag.StringVar(&promptFlag, "prompt", "", "additional instructions appended to the prompt")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] photo [photo...]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	_ = godotenv.Load()

	key := strings.TrimSpace(keyFlag)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
	if key == "" {
		exitWithError(fmt.Errorf("API key is required via -key or GEMINI_API_KEY"))
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	sources := make([]image.SourceImage, 0, flag.NArg())
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			exitWithError(err)
		}
		src, err := image.DecodeSourceImage(filepath.Base(path), data)
		if err != nil {
			exitWithError(err)
		}
		sources = append(sources, src)
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "studio").Logger()
	pipeline, err := studio.NewPipeline(cfg, &logger)
	if err != nil {
		exitWithError(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.Generator.Generate(ctx, image.GenerateRequest{
		Credential:   key,
		Style:        styleFlag,
		CustomPrompt: promptFlag,
		ReferenceURL: refFlag,
		AspectRatio:  aspectFlag,
		Sources:      sources,
	})
	if err != nil {
		exitWithError(err)
	}

	fmt.Printf("%s\tinput_tokens=%d\toutput_tokens=%d\n", result.Artifact.Path, result.InputTokens, result.OutputTokens)
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
