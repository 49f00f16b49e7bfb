package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"

	"github.com/jrossi/playlist-archiver/config"
	"github.com/jrossi/playlist-archiver/internal/archive"
	"github.com/jrossi/playlist-archiver/internal/audio"
	"github.com/jrossi/playlist-archiver/internal/downloader"
	"github.com/jrossi/playlist-archiver/internal/extractor"
	"github.com/jrossi/playlist-archiver/internal/pipeline"
	"github.com/jrossi/playlist-archiver/internal/playlist"
	"github.com/jrossi/playlist-archiver/internal/storage"
)

func main() {
	playlistURL := flag.String("url", "", "URL of the playlist to archive (required)")
	format := flag.String("format", "", "Output audio format (overrides config)")
	bitrate := flag.String("bitrate", "", "Output audio bitrate (overrides config)")
	configPath := flag.String("config", "./config/config.yaml", "Path to config file")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *playlistURL == "" {
		slog.Error("Missing required flag: -url")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if *format == "" {
		*format = cfg.FileExtension
	}
	if *bitrate == "" {
		*bitrate = cfg.AudioBitrate
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStorage(ctx, cfg)
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

	var bar *progressbar.ProgressBar
	result, err := p.Run(ctx, *playlistURL, pipeline.Options{
		FileExtension: *format,
		Bitrate:       *bitrate,
		OnProgress: func(completed, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(
					total,
					progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
					progressbar.OptionEnableColorCodes(true),
					progressbar.OptionSetTheme(progressbar.ThemeASCII),
					progressbar.OptionFullWidth(),
					progressbar.OptionShowCount(),
					progressbar.OptionSetDescription("[cyan]Archiving playlist...[reset]"),
				)
			}
			_ = bar.Set(completed)
		},
	})
	if err != nil {
		slog.Error("Archiving failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\nArchived %d/%d items from %q\n", result.Archived, result.Total, result.PlaylistTitle)
	fmt.Printf("Archive: %s\n", result.ArchivePath)
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Type {
	case "gcs":
		return storage.NewGCSStorage(ctx, cfg.Storage.Bucket, cfg.Storage.ObjectPrefix, cfg.Storage.MusicDir, cfg.Storage.CredentialsFile)
	default:
		return storage.NewLocalStorage(cfg.Storage.MusicDir)
	}
}
