// ABOUTME: run command: guided full-screen workout for a stored plan.
// ABOUTME: Wires the execution engine, sound cues and the TUI, then saves the session.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/harperreed/trainer/internal/cue"
	"github.com/harperreed/trainer/internal/execution"
	"github.com/harperreed/trainer/internal/logging"
	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/tui"
	"github.com/spf13/cobra"
)

var (
	runClient  string
	runNoSound bool
)

var runCmd = &cobra.Command{
	Use:   "run <plan>",
	Short: "Run a guided workout",
	Long: `Run a plan as a guided workout.

The screen shows the current item, series, exercise and rest clocks, total
time and what comes next. Rest starts automatically after each series and
ends with a cue when the timer runs out.

KEYS:

  enter / space   start, finish the current series, or end rest early
  n               skip rest
  x               skip the rest of this item
  p               pause / resume
  R               restart from the beginning
  q               quit without saving

When the last item is done you can log perceived exertion, a comment and
load/reps per item before the session is saved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := repo.GetPlan(args[0])
		if err != nil {
			return fmt.Errorf("plan not found: %w", err)
		}

		var clientOverride *models.Client
		if runClient != "" {
			clientOverride, err = repo.GetClient(runClient)
			if err != nil {
				return fmt.Errorf("client not found: %w", err)
			}
		}

		engine, err := execution.NewEngine(plan,
			execution.WithCuePlayer(cuePlayer()),
			execution.WithLogger(logging.Logger),
		)
		if err != nil {
			return err
		}
		defer func() { _ = engine.Close() }()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		save := func(s *models.Session) error {
			if clientOverride != nil {
				s.WithClient(clientOverride.ID)
			}
			return repo.CreateSession(s)
		}

		session, err := tui.Run(ctx, engine, save)
		if err != nil {
			return err
		}
		if session == nil {
			color.Yellow("Workout abandoned, nothing saved.")
			return nil
		}

		color.Green("✓ Saved session %s", session.ID.String()[:8])
		fmt.Printf("  %s, %d/%d items completed\n",
			execution.FormatClock(session.TotalSeconds),
			session.CompletedItems(), len(session.Items))
		return nil
	},
}

func cuePlayer() cue.Player {
	if runNoSound || !cfg.SoundEnabled() {
		return cue.Nop{}
	}
	return cue.NewSoundPlayer(cfg.VoiceEnabled())
}

func init() {
	runCmd.Flags().StringVar(&runClient, "client", "", "attribute the session to this client")
	runCmd.Flags().BoolVar(&runNoSound, "quiet", false, "disable sound and voice cues")
	rootCmd.AddCommand(runCmd)
}
