package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/farran/tavla/internal/adapters/storage/sqlite"
	"github.com/farran/tavla/internal/app"
	"github.com/farran/tavla/internal/config"
	"github.com/farran/tavla/internal/platform"
)

// runtime bundles the wired dependencies one command invocation uses.
type runtime struct {
	cfg    config.Config
	logger *runtimeLogger
	repo   *sqlite.Repository
	svc    *app.Service
}

// close releases the repository and log sinks in reverse wiring order.
func (r *runtime) close() {
	if r.repo != nil {
		if err := r.repo.Close(); err != nil {
			r.logger.Warn("sqlite close failed", "err", err)
		}
	}
	if err := r.logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: close log sink: %v\n", err)
	}
}

// bootstrap resolves paths and config, then wires logger, repository, and service.
func bootstrap(cmd *cobra.Command) (*runtime, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := newRuntimeLogger(os.Stderr, cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}

	logger.Info("opening sqlite repository", "db_path", cfg.Database.Path)
	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		if closeErr := logger.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: close log sink: %v\n", closeErr)
		}
		return nil, fmt.Errorf("open sqlite repository: %w", err)
	}

	svc := app.NewService(repo, repo, repo, uuid.NewString, nil, app.ServiceConfig{
		PreserveWIPLimits: cfg.Sync.PreserveWIPLimits,
		RemoveOrphans:     cfg.Sync.RemoveOrphans,
	})
	logger.Debug("application service initialized",
		"preserve_wip_limits", cfg.Sync.PreserveWIPLimits,
		"remove_orphans", cfg.Sync.RemoveOrphans)
	return &runtime{cfg: cfg, logger: logger, repo: repo, svc: svc}, nil
}

// resolveConfig merges flags, environment, and the config file into one Config.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	dbPath, _ := cmd.Flags().GetString("db")
	devMode, _ := cmd.Flags().GetBool("dev")
	if !cmd.Flags().Changed("dev") {
		if envDev, ok := parseBoolEnv("TAVLA_DEV_MODE"); ok {
			devMode = envDev
		}
	}

	paths, err := platform.Resolve("tavla", devMode)
	if err != nil {
		return config.Config{}, fmt.Errorf("resolve app paths: %w", err)
	}

	if strings.TrimSpace(configPath) == "" {
		if envPath := strings.TrimSpace(os.Getenv("TAVLA_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	dbOverridden := strings.TrimSpace(dbPath) != ""
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("TAVLA_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// parseBoolEnv reads one boolean environment variable.
func parseBoolEnv(key string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false, false
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return val, true
}
