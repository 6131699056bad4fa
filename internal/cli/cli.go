package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackprint/internal/config"
	"github.com/matzehuels/stackprint/pkg/analyzer"
	"github.com/matzehuels/stackprint/pkg/buildinfo"
	"github.com/matzehuels/stackprint/pkg/cache"
	"github.com/matzehuels/stackprint/pkg/fingerprint"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stackprint"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stackprint fingerprints the technology stack of a project",
		Long:         `Stackprint reads a project's dependency manifest and samples its JavaScript, TypeScript and Python sources to describe frameworks, state management and coding style.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			if cfg.File != "" {
				c.Logger.Debug("loaded config", "file", cfg.File)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.FileName+")")

	root.AddCommand(c.detectCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.fingerprintCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a fingerprint runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, backend string) (*fingerprint.Runner, error) {
	cc := c.config().Cache
	if backend != "" {
		cc.Backend = backend
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory", "error", err)
		dir = ""
	}
	ch, err := cc.OpenCache(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cc.Backend, err)
	}
	runner := fingerprint.NewRunner(ch, cc.Keyer(), c.Logger, nil)
	runner.TTL = cc.TTL
	return runner, nil
}

// config returns the loaded config, or defaults when a command runs
// without the root pre-run (as in tests).
func (c *CLI) config() *config.Config {
	if c.Config == nil {
		cfg, err := config.Load("")
		if err != nil {
			c.Logger.Warn("using built-in defaults", "error", err)
			cfg = &config.Config{
				Analyze: analyzer.DefaultConfig(),
				Cache:   config.CacheConfig{Backend: config.BackendNone, TTL: cache.TTLFingerprint},
			}
		}
		c.Config = cfg
	}
	return c.Config
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stackprint/).
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

// projectDir returns the directory argument or the working directory.
func projectDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

