package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dequedict/internal/config"
)

var (
	v          = viper.New()
	configFile string

	rootCmd = &cobra.Command{
		Use:   "dequedict",
		Short: "Benchmarks and demos for the dequedict container",
		Long: `dequedict exercises the ordered map with deque discipline.
Run "bench" to time its operations against Go maps and lists, or "demo" to watch
an LRU/TTL cache built on top of it.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file path (yaml or toml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug|info|warn|error)")
	if err := v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(
		benchCmd(),
		demoCmd(),
	)
}

func main() {
	// Signal-aware context is the root of ownership for long-lived work.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and returns a context carrying a logger at the
// configured level.
func setup(cmd *cobra.Command) (context.Context, *config.Config, error) {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, nil, err
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	logger := clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return clog.WithLogger(cmd.Context(), logger), cfg, nil
}
