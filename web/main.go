package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"

	"github.com/mkral/go-sunsky-pathtracer/pkg/scene"
	"github.com/mkral/go-sunsky-pathtracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	configPath := flag.String("config", "", "Base TOML render config (optional)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "web",
	})

	cfg := scene.DefaultConfig()
	if *configPath != "" {
		loaded, err := scene.LoadConfig(*configPath)
		if err != nil {
			logger.Fatal("failed to load config", "path", *configPath, "err", err)
		}
		cfg = loaded
	}

	webServer := server.NewServer(*port, cfg, logger)

	logger.Info("starting render preview server", "url", "http://localhost", "port", *port)
	if err := webServer.Start(); err != nil {
		logger.Fatal("server exited", "err", err)
	}
}
