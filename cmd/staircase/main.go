// Package main provides the CLI entry point for staircase.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/staircase/internal/config"
	"github.com/five82/staircase/internal/logging"
	"github.com/five82/staircase/internal/util"
)

const (
	appName    = "staircase"
	appVersion = "0.1.0"
)

func main() {
	settings, err := config.LoadSettings(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := newRootCmd(settings).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func newRootCmd(settings config.Settings) *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Adaptive up-down staircase for threshold estimation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSimulateCmd(settings),
		newBatchCmd(settings),
		newInteractiveCmd(settings),
		newPresetsCmd(),
		newVersionCmd(),
	)
	return root
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in presets and their values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, p := range config.Presets() {
				cfg := config.GetPresetValues(p)
				def := ""
				if p == config.DefaultPreset {
					def = " (default)"
				}
				fmt.Fprintf(out, "%s%s: %s\n", p, def, p.Description())
				fmt.Fprintf(out, "  starting difference:  %g\n", cfg.StartingDifference)
				fmt.Fprintf(out, "  initial step size:    %g\n", cfg.InitialStepSize)
				fmt.Fprintf(out, "  step size modifier:   %.4f\n", cfg.StepSizeModifier)
				fmt.Fprintf(out, "  shrink on difference: %g x step, every %d trials\n",
					cfg.ChangeStepSizeOnDifference, cfg.ChangeStepSizeOnNTrials)
				fmt.Fprintf(out, "  terminate on:         %d turns, %d trials, difference > %g\n",
					cfg.TerminateOnNTurns, cfg.TerminateOnNTrials, cfg.TerminateOnMaxDifference)
				fmt.Fprintf(out, "  threshold on last:    %d turns\n", cfg.ThresholdOnLastNTurns)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			h := util.Host()
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (%s, %s)\n", appName, appVersion, h.Platform, h.GoVersion)
		},
	}
}

// setupLogging opens the run log and returns it with a structured logger
// writing to the same file, in JSON when --json is set. Both are usable when
// logging is disabled.
func setupLogging(f *commonFlags) (*logging.FileLogger, *logging.Logger, error) {
	fl, err := logging.Setup(f.logDir, f.verbose, f.noLog)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	fl.Info("Host: %s", util.Host())
	return fl, fl.Structured(f.json), nil
}
