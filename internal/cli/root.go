package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mapweaver/mapweaver/pkg/cache"
	"github.com/mapweaver/mapweaver/pkg/config"
	"github.com/mapweaver/mapweaver/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "mapweaver"

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with values
// injected via ldflags at build time.
//
// Parameters:
//   - v: semantic version string (e.g., "v1.2.3")
//   - c: git commit SHA (short or long form)
//   - d: build timestamp (e.g., "2025-12-20T14:32:01Z")
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the mapweaver CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (new, compile,
// edit, serve, watch), loads the engine configuration, configures logging
// based on the --verbose flag, and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext; the merged configuration travels the same way. The
// given context cancels long-running commands (serve, watch) on signals.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "mapweaver",
		Short:        "Mapweaver compiles thinking-map specifications into diagrams",
		Long:         `Mapweaver is the diagram engine behind an educational thinking-map editor: it compiles archetype-typed specifications (circle, bubble, tree, flow, bridge, mind maps and more) into concrete node/edge geometry, and provides an interactive editing session with undo/redo.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("mapweaver %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "engine config file (default: mapweaver.toml)")

	root.AddCommand(newNewCmd())
	root.AddCommand(newCompileCmd())
	root.AddCommand(newEditCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}

// =============================================================================
// Backend Factories
// =============================================================================

// newCacheBackend builds the layout cache selected by the configuration.
// Any backend failure degrades to the null cache: caching is an
// optimization, never a reason a compile can't run.
func newCacheBackend(ctx context.Context, cfg config.CacheCfg, noCache bool) cache.Cache {
	if noCache || cfg.Backend == "none" {
		return cache.NewNullCache()
	}

	logger := loggerFromContext(ctx)
	switch cfg.Backend {
	case "redis":
		c, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis cache unavailable, caching disabled", "addr", cfg.RedisAddr, "err", err)
			return cache.NewNullCache()
		}
		return c
	default:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache()
			}
			dir = d
		}
		c, err := cache.NewFileCache(dir)
		if err != nil {
			logger.Warn("file cache unavailable, caching disabled", "dir", dir, "err", err)
			return cache.NewNullCache()
		}
		return c
	}
}

// newStoreBackend builds the diagram store selected by the configuration.
func newStoreBackend(ctx context.Context, cfg config.StoreCfg) (store.Store, error) {
	if cfg.Backend == "mongo" {
		return store.NewMongoStore(ctx, cfg.MongoURI, "", "")
	}
	return store.NewMemoryStore(), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/mapweaver/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
