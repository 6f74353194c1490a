package main

import (
	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"dequedict/internal/bench"
	"dequedict/pkg/dequedict"
)

func benchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time dequedict operations",
		Long: `Time every public dequedict operation for each selected implementation,
alongside a Go map and a container/list where they support the operation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			log := clog.FromContext(ctx)
			log.Infof("Benchmarking %v (size=%d iterations=%d, default implementation %s)",
				cfg.Bench.Impls, cfg.Bench.Size, cfg.Bench.Iterations, dequedict.Implementation())

			results, err := bench.Run(ctx, bench.Options{
				Size:       cfg.Bench.Size,
				Iterations: cfg.Bench.Iterations,
				Impls:      cfg.BenchImpls(),
				Baselines:  cfg.Bench.Baselines,
			})
			if err != nil {
				return err
			}
			return bench.Render(cmd.OutOrStdout(), results, cfg.Bench.Output)
		},
	}

	flags := cmd.Flags()
	flags.Int("size", 1000, "Entries in the prebuilt containers")
	flags.Int("iterations", 100_000, "Repetitions of each cheap operation")
	flags.StringSlice("impls", []string{string(dequedict.Linked), string(dequedict.ArenaImpl)}, "Implementations to measure")
	flags.Bool("baselines", true, "Also measure Go map and container/list")
	flags.StringP("output", "o", "text", "Output format (text|json|yaml)")
	for key, flag := range map[string]string{
		"bench.size":       "size",
		"bench.iterations": "iterations",
		"bench.impls":      "impls",
		"bench.baselines":  "baselines",
		"bench.output":     "output",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	return cmd
}
