package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TickerBench/internal/bench/domain"
	"TickerBench/internal/dependencies"

	"github.com/spf13/cobra"
)

const sinkTimeout = 30 * time.Second

func newRunCmd(root *rootOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark and write csv, xlsx, chart and markdown artifacts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}

			log.Info("Starting TickerBench",
				"name", cfg.App.Name,
				"version", cfg.App.Version,
			)

			// Ожидаем сигналы завершения
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			var console io.Writer = out
			if quiet {
				console = nil
			}

			container, err := dependencies.NewContainer(ctx, cfg, log, console)
			if err != nil {
				return fmt.Errorf("failed to create dependency container: %w", err)
			}
			defer container.Close()

			settings := cfg.Settings()
			fmt.Fprintf(out, "\nRunning %d test iterations on exchange APIs...\n", settings.Iterations)

			run, runErr := container.RunHandler.Run(ctx, container.Registry, settings)
			if runErr != nil && !errors.Is(runErr, domain.ErrRunInterrupted) {
				return runErr
			}
			if runErr != nil {
				log.Warn("Benchmark interrupted, reporting partial results",
					"probes", run.Len(),
					"error", runErr,
				)
			}

			return finish(container, run, out, runErr)
		},
	}

	cmd.Flags().Int("iterations", 3, "number of iterations over every endpoint")
	cmd.Flags().String("timeout", "3s", "per-request timeout (seconds or duration)")
	cmd.Flags().String("cooldown", "1s", "pause after every request (seconds or duration)")
	cmd.Flags().Bool("parallel", false, "probe all endpoints of an iteration concurrently")
	cmd.Flags().String("out", "results", "output directory for artifacts")
	cmd.Flags().StringSlice("format", nil, "artifact formats (csv,xlsx,charts,markdown)")
	cmd.Flags().String("highlight", "", "target to highlight in charts and recommendations")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print per-request progress")

	return cmd
}

// finish aggregates, emits artifacts and feeds the optional sinks. Sink
// failures are logged; only a failed emit or an interrupted run is returned.
func finish(c *dependencies.Container, run *domain.RunResult, out io.Writer, runErr error) error {
	log := c.Logger
	summary := c.AggregateService.Summarize(run)

	artifacts, emitErr := c.Emitter.Emit(run, summary)
	if emitErr != nil {
		log.Error("Failed to write some artifacts", "error", emitErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()

	if c.RunStore != nil {
		if err := c.RunStore.SaveRun(ctx, run); err != nil {
			log.Error("Failed to save run to database", "run_id", run.ID, "error", err)
		} else {
			log.Info("Run saved to database", "run_id", run.ID, "probes", run.Len())
		}
	}

	if c.PublishObserver != nil {
		c.PublishObserver.OnSummary(summary)
	}

	fmt.Fprintf(out, "\nBenchmark complete! %d files saved to %s\n", len(artifacts), c.Config.Report.OutputDir)
	if summary.Fastest != nil {
		fmt.Fprintf(out, "\nFastest exchange: %s\n", summary.Fastest.Target)
	} else {
		fmt.Fprintln(out, "\nFastest exchange: n/a (no successful requests)")
	}

	if runErr != nil {
		return runErr
	}
	return emitErr
}
