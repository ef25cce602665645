package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/glabrego/postdeck/internal/app"
	"github.com/glabrego/postdeck/internal/card"
	"github.com/glabrego/postdeck/internal/config"
	"github.com/glabrego/postdeck/internal/directus"
	"github.com/glabrego/postdeck/internal/logging"
	"github.com/glabrego/postdeck/internal/storage"
	"github.com/glabrego/postdeck/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (default: ./postdeck.toml when present)")
	slug := flag.String("slug", "", "open a single post by slug instead of the deck")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.LogPath, cfg.Debug)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := repo.Init(ctx); err != nil {
		log.Fatalf("storage schema error: %v", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		log.Fatalf("storage write check failed (%v). Verify POSTDECK_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	client := directus.NewClient(cfg.DirectusURL, cfg.Token, nil, logger.Named("directus"))
	service := app.NewService(client, repo)

	cacheLoadStart := time.Now()
	posts, err := service.ListCached(ctx, cfg.Limit)
	if err != nil {
		log.Fatalf("cannot load cached posts: %v", err)
	}
	logger.Info("cache loaded",
		zap.Int("posts", len(posts)),
		zap.Duration("duration", time.Since(cacheLoadStart)))

	opts := []tui.Option{
		tui.WithSiteURL(cfg.SiteURL),
		tui.WithLimit(cfg.Limit),
		tui.WithCellWidth(cfg.CellWidth),
		tui.WithDateFormatter(card.NewDateFormatter(cfg.LanguageTag(), time.Local)),
		tui.WithLogger(logger.Named("tui")),
	}
	if *slug != "" {
		opts = append(opts, tui.WithStandalone(*slug))
	}

	prefCtx, prefCancel := context.WithTimeout(context.Background(), 5*time.Second)
	prefs, err := service.LoadUIPreferences(prefCtx)
	prefCancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load UI preferences (%v), using defaults\n", err)
	} else {
		opts = append(opts, tui.WithPreferences(prefs))
	}

	model := tui.NewModel(service, posts, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}
}
