package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/five82/staircase/internal/config"
	serrors "github.com/five82/staircase/internal/errors"
	"github.com/five82/staircase/internal/reporter"
	"github.com/five82/staircase/internal/runner"
	"github.com/five82/staircase/internal/util"
)

func newInteractiveCmd(settings config.Settings) *cobra.Command {
	var cf commonFlags

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Run a staircase answered by an operator",
		Long: `Run a staircase where an operator presents each trial and answers
y (correct) or n (incorrect). q or Ctrl-C stops the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, &cf)
		},
	}

	cf.register(cmd, settings)
	return cmd
}

// lineReader is the part of readline.Instance the operator prompt uses.
type lineReader interface {
	Readline() (string, error)
}

// operatorResponder asks the operator whether each trial was answered
// correctly. Trials come from runner.PassThrough, so the correct answer is
// interval 0.
type operatorResponder struct {
	in  lineReader
	out io.Writer
}

func (o *operatorResponder) Respond(ctx context.Context, trial runner.Trial) (runner.Response, error) {
	fmt.Fprintf(o.out, "Trial %d: present difference %s (step %s)\n",
		trial.Index+1, util.FormatThreshold(trial.Difference), util.FormatStep(trial.Step))

	for {
		if err := ctx.Err(); err != nil {
			return runner.Response{}, serrors.NewCancelledError()
		}

		line, err := o.in.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return runner.Response{}, serrors.NewCancelledError()
		}
		if err != nil {
			return runner.Response{}, serrors.NewIOError("failed to read answer", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return runner.Response{Pressed: trial.CorrectIndex}, nil
		case "n", "no":
			return runner.Response{Pressed: (trial.CorrectIndex + 1) % max(trial.Alternatives, 2)}, nil
		case "q", "quit":
			return runner.Response{}, serrors.NewCancelledError()
		default:
			fmt.Fprintln(o.out, "Answer y (correct), n (incorrect) or q (quit)")
		}
	}
}

func runInteractive(cmd *cobra.Command, cf *commonFlags) error {
	conds, err := cf.conditions(cmd)
	if err != nil {
		return err
	}

	fl, log, err := setupLogging(cf)
	if err != nil {
		return err
	}
	defer func() { _ = fl.Close() }()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "correct? [y/n/q] ",
		InterruptPrompt: "^C",
		EOFPrompt:       "q",
	})
	if err != nil {
		return fmt.Errorf("failed to start prompt: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// The progress bar would fight the prompt for the terminal.
	rep := cf.newReporter(fl)
	if !cf.json {
		rep = reporter.WithoutTrials(rep)
	}

	cond := conds[0]
	out := rl.Stdout()
	if cf.json {
		out = rl.Stderr()
	}
	fl.Info("Interactive run of %s (%s)", cond.Name, cond.Config.DownUp)

	res, err := runner.Run(cmd.Context(), cond.Config, runner.Options{
		Condition: cond.Name,
		Preparer:  runner.PassThrough,
		Responder: &operatorResponder{in: rl, out: out},
		Reporter:  rep,
		Logger:    log,
	})
	if serrors.IsCancelled(err) && res != nil {
		fl.Warn("Run %s stopped by operator after %d trials", res.RunID, len(res.Trials))
		rep.Warning(fmt.Sprintf("Stopped after %d trials, no threshold", len(res.Trials)))
		return nil
	}
	if err != nil {
		return err
	}

	fl.Info("Run %s stopped on %s, threshold %s", res.RunID, res.Result.Reason, util.FormatThreshold(res.Result.Threshold))
	return nil
}
