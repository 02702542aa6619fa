package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgernorm/internal/buildinfo"
	"github.com/cleared-dev/ledgernorm/internal/config"
)

// EnvLogLevel names the environment variable holding the default log level.
const EnvLogLevel = "LEDGERNORM_LOG_LEVEL"

// globals are the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
}

// load resolves the config and builds the stderr logger.
func (g *globals) load() (*config.Config, *slog.Logger, error) {
	logger, err := newLogger(g.logLevel)
	if err != nil {
		return nil, nil, err
	}
	cfg, path, err := config.Resolve(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	if path != "" {
		logger.Debug("loaded config", "path", path)
	}
	return cfg, logger, nil
}

func newLogger(level string) (*slog.Logger, error) {
	if level == "" {
		level = os.Getenv(EnvLogLevel)
	}
	if level == "" {
		level = "warn"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:     "ledgernorm",
		Short:   "Normalize extracted financial statements into structured accounts",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default $"+config.EnvConfig+" or ./"+config.FileName+")")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "debug, info, warn or error (default $"+EnvLogLevel+" or warn)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newNormalizeCommand(g))
	rootCmd.AddCommand(newTokenizeCommand(g))

	return rootCmd
}
