package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mkral/go-sunsky-pathtracer/pkg/renderer"
	"github.com/mkral/go-sunsky-pathtracer/pkg/scene"
)

// printfLogger adapts charmbracelet/log to the renderer's Printf interface
type printfLogger struct {
	logger *log.Logger
}

func (pl *printfLogger) Printf(format string, args ...interface{}) {
	pl.logger.Infof(format, args...)
}

func main() {
	configPath := flag.String("config", "", "TOML render config (optional, defaults to built-in scene)")
	modelPath := flag.String("model", "", "glTF/GLB model, overrides the config's model")
	output := flag.String("output", "output", "Output directory for rendered images")
	samples := flag.Int("samples", 0, "Samples per pixel, overrides the config")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	renderLogger := &printfLogger{logger: logger}

	cfg := scene.DefaultConfig()
	if *configPath != "" {
		loaded, err := scene.LoadConfig(*configPath)
		if err != nil {
			logger.Fatal("failed to load config", "path", *configPath, "err", err)
		}
		cfg = loaded
	}
	if *modelPath != "" {
		cfg.Model = *modelPath
	}
	if *samples > 0 {
		cfg.Samples = *samples
	}

	world, err := scene.BuildScene(cfg, renderLogger)
	if err != nil {
		logger.Fatal("failed to build scene", "err", err)
	}

	if err := os.MkdirAll(*output, 0755); err != nil {
		logger.Fatal("failed to create output directory", "dir", *output, "err", err)
	}

	progressive := renderer.NewProgressiveRaytracer(
		world, cfg.Width, cfg.Height,
		cfg.SamplingConfig(),
		renderer.DefaultProgressiveConfig(),
		renderLogger,
	)

	startTime := time.Now()
	passChan, _, errChan := progressive.RenderProgressive(context.Background(), renderer.RenderOptions{})

	var final renderer.PassResult
	for result := range passChan {
		final = result
	}
	if err := <-errChan; err != nil {
		logger.Fatal("render failed", "err", err)
	}
	logger.Info("render completed",
		"time", time.Since(startTime).Round(time.Millisecond),
		"samples", final.Stats.AverageSamples)

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(*output, fmt.Sprintf("render_%s.png", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		logger.Fatal("failed to create output file", "path", filename, "err", err)
	}
	defer file.Close()

	if err := png.Encode(file, final.Image); err != nil {
		logger.Fatal("failed to encode PNG", "err", err)
	}

	logger.Info("render saved", "path", filename)
}
