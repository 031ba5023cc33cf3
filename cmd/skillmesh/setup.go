package skillmesh

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/skillmesh/skillmesh"
	"github.com/skillmesh/skillmesh/pkg/config"
	"github.com/skillmesh/skillmesh/pkg/embedder"
	"github.com/skillmesh/skillmesh/pkg/logger"
	"github.com/skillmesh/skillmesh/pkg/skills"
	"github.com/skillmesh/skillmesh/pkg/telemetry"
)

// buildLogger assembles the slog pipeline: colored terminal output, wrapped
// by the parquet telemetry sink when one is configured.
func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.Log.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = logger.NewColorHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	if cfg.Telemetry.ParquetPath != "" {
		ph, err := telemetry.NewParquetHandler(handler, cfg.Telemetry.ParquetPath)
		if err != nil {
			return nil, fmt.Errorf("failed to set up telemetry: %w", err)
		}
		handler = ph
	}

	return slog.New(handler), nil
}

// buildEngine constructs the full engine from configuration.
func buildEngine(cfg *config.Config, log *slog.Logger) (*skillmesh.Client, error) {
	embedderClient, err := embedder.NewOpenAIClient(embedder.Config{
		Model:      cfg.Embedding.Model,
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	wrapped := embedder.NewCircuitBreakerClient(
		embedderClient, embedder.DefaultCircuitBreakerConfig(), log, "embedding")

	manager := skills.NewFileManager(cfg.Corpus.Roots...)

	return skillmesh.NewClient(manager, wrapped, &skillmesh.Config{
		CorpusRoots:  cfg.Corpus.Roots,
		SnapshotPath: cfg.Index.SnapshotPath,
		EmbedTimeout: cfg.Index.EmbedTimeout,
	}, log)
}

// loadAll is the common command preamble.
func loadAll() (*config.Config, *slog.Logger, *skillmesh.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := buildLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := buildEngine(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, client, nil
}
