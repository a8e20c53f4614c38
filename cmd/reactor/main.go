package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:   "reactor",
		Short: "Render, diff and serve reactive component trees",
		Long: `reactor drives the reactive rendering engine from the command line.

  • render a demo component tree to HTML with state and teleports
  • trace the host operations of a keyed list diff
  • serve a streamed, hydratable page with Prometheus metrics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "Directory to search for reactor.json or reactor.yaml")

	root.AddCommand(
		renderCmd(&configDir),
		diffCmd(&configDir),
		serveCmd(&configDir),
		initCmd(),
		versionCmd(),
	)
	return root
}

// loadConfig loads the configuration found from dir upward and builds the
// logger it describes.
func loadConfig(dir string, w io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadOrDefault(dir)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return cfg, logger, nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
