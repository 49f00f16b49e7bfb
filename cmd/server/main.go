package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/jrossi/playlist-archiver/config"
	"github.com/jrossi/playlist-archiver/internal/archive"
	"github.com/jrossi/playlist-archiver/internal/audio"
	"github.com/jrossi/playlist-archiver/internal/downloader"
	"github.com/jrossi/playlist-archiver/internal/extractor"
	"github.com/jrossi/playlist-archiver/internal/pipeline"
	"github.com/jrossi/playlist-archiver/internal/playlist"
	"github.com/jrossi/playlist-archiver/internal/server"
	"github.com/jrossi/playlist-archiver/internal/storage"
)

func main() {
	port := flag.String("port", "", "Server port (overrides config)")
	configPath := flag.String("config", "./config/config.yaml", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if *port == "" {
		*port = cfg.Server.Port
	}

	store, err := newStorage(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Cleanup()

	p := pipeline.New(
		playlist.NewYouTubeExpander(),
		extractor.NewYouTubeNegotiator(time.Duration(cfg.NegotiationTimeoutSeconds)*time.Second),
		downloader.NewHTTPFetcher(),
		audio.NewFFMPEGEngine(),
		archive.NewZipArchiver(),
		store,
	)

	srv := server.New(cfg, p)

	slog.Info("Starting playlist archiver API server", "port", *port)
	if err := srv.Start(*port); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Type {
	case "gcs":
		return storage.NewGCSStorage(ctx, cfg.Storage.Bucket, cfg.Storage.ObjectPrefix, cfg.Storage.MusicDir, cfg.Storage.CredentialsFile)
	default:
		return storage.NewLocalStorage(cfg.Storage.MusicDir)
	}
}
