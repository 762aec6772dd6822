package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/substate/internal/config"
	"github.com/vango-dev/substate/internal/replay"
)

func replayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <script.json>",
		Short: "Run a replay script",
		Long: `Run a replay script against a fresh store and print, per consumer,
how often it rendered and the value it last rendered with.

Consumers render with --mode headless by default: bindings attach right
after each render. With --mode visual they attach on paint steps only.

Examples:
  substate replay counter.json
  substate replay --metrics --fan-out counter.json
  SUBSTATE_MODE=visual substate replay --log-level debug visual.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd, "")
			if err != nil {
				return err
			}
			return runReplay(cmd, cfg, args[0])
		},
	}

	return cmd
}

func runReplay(cmd *cobra.Command, cfg *config.Config, path string) error {
	script, err := replay.Load(path)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	runner := replay.NewRunner(replay.Options{
		Mode:           cfg.Mode,
		FanOut:         cfg.FanOut,
		MaxFlushPasses: cfg.MaxFlushPasses,
		Logger:         cfg.Logger(os.Stderr),
		Registerer:     reg,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, runErr := runner.Run(ctx, script)

	out := cmd.OutOrStdout()
	if err := report.Write(out); err != nil {
		return err
	}
	if cfg.Metrics {
		if _, err := out.Write([]byte("\n")); err != nil {
			return err
		}
		if err := replay.WriteMetrics(out, reg); err != nil {
			return err
		}
	}
	return runErr
}
