package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/briangreenhill/mapty/internal/config"
	"github.com/briangreenhill/mapty/internal/form"
	"github.com/briangreenhill/mapty/internal/mapview"
	"github.com/briangreenhill/mapty/internal/storage"
	"github.com/briangreenhill/mapty/internal/tracker"
)

func main() {
	w := os.Stdout

	cfg, err := config.Load(".")
	if err != nil {
		slog.New(slog.NewTextHandler(w, nil)).Error("Error loading config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel()}))

	if err := run(context.Background(), w, os.Args[1:], cfg, logger); err != nil {
		logger.Error("Error running mapty", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, args []string, cfg config.Config, logger *slog.Logger) error {
	home, err := cfg.Home()
	if err != nil {
		return err
	}

	store, err := storage.Open(ctx, cfg.StorageConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	app := tracker.New(tracker.Options{
		Logger:     logger,
		Repository: storage.NewRepository(store, logger),
		Locator:    mapview.StaticLocator{Position: home},
		Widget:     mapview.NewCanvas(),
		Map:        cfg.MapOptions(),
		Form:       form.New(cfg.Form.RestyleDelay),
		Notifier:   tracker.WriterNotifier{W: os.Stderr},
	})

	cli := tracker.NewCLI(w, os.Stdin, logger, app, cfg.Server.Address)
	return cli.Run(ctx, args)
}
