// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// osql-sim drives the osql session registry with a synthetic workload of
// offloaded transactions: concurrent front ends create sessions and stream
// operations into them, a worker pool plays the transaction-application
// component, and random terminations exercise the abort paths.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/maxwellito/comdb2/pkg/settings"
	"github.com/maxwellito/comdb2/pkg/util/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:           "osql-sim",
	Short:         "osql session registry simulator",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run a simulated offload workload and print a summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()
		res, err := runSim(ctx, cfg)
		if err != nil {
			return err
		}
		res.print(cmd.OutOrStdout())
		return nil
	},
}

var cfg = defaultSimConfig()

func addRunFlags(f *pflag.FlagSet, c *simConfig) {
	f.IntVar(&c.sessions, "sessions", c.sessions, "number of sessions to run")
	f.IntVar(&c.ops, "ops", c.ops, "row operations per session")
	f.IntVar(&c.workers, "workers", c.workers,
		"number of concurrent front ends; the applier pool has the same size")
	f.Float64Var(&c.rate, "rate", c.rate, "operations per second across all sessions; 0 is unlimited")
	f.Float64Var(&c.failRatio, "fail-ratio", c.failRatio,
		"fraction of sessions terminated mid-stream or failing validation")
	f.StringVar(&c.settingsFile, "settings", c.settingsFile, "YAML file of cluster setting overrides")
	f.StringVar(&c.metricsAddr, "metrics-addr", c.metricsAddr,
		"if set, serve prometheus metrics on this address while running")
	f.Int64Var(&c.seed, "seed", c.seed, "random seed; 0 picks one from the clock")
	f.DurationVar(&c.outcomeTimeout, "outcome-timeout", c.outcomeTimeout,
		"how long a front end waits for the outcome of a dispatched session")
}

func init() {
	addRunFlags(runCmd.Flags(), &cfg)
	rootCmd.AddCommand(runCmd)
}

func main() {
	settings.Freeze()
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf(ctx, "%v", err)
	}
}

