// ABOUTME: CLI commands for completed workout sessions.
// ABOUTME: Lists, shows and deletes sessions with per-item timing and logs.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/execution"
	"github.com/harperreed/trainer/internal/models"
	"github.com/spf13/cobra"
)

var (
	historyClient string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"sessions", "h"},
	Short:   "Completed workout sessions",
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		var clientID *uuid.UUID
		if historyClient != "" {
			c, err := repo.GetClient(historyClient)
			if err != nil {
				return fmt.Errorf("client not found: %w", err)
			}
			clientID = &c.ID
		}

		sessions, err := repo.ListSessions(clientID, historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		for _, s := range sessions {
			extra := ""
			if s.Exertion != nil {
				extra = faint.Sprintf(" RPE %d", *s.Exertion)
			}
			fmt.Printf("%s %s %s %s %s%s\n",
				faint.Sprint(s.ID.String()[:8]),
				s.StartedAt.Format("2006-01-02 15:04"),
				padRight(truncate(s.PlanName, 24), 24),
				color.CyanString(execution.FormatClock(s.TotalSeconds)),
				faint.Sprintf("%d/%d", s.CompletedItems(), len(s.Items)),
				extra)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a session with per-item detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := repo.GetSession(args[0])
		if err != nil {
			return fmt.Errorf("session not found: %w", err)
		}
		printSession(s)
		return nil
	},
}

func printSession(s *models.Session) {
	color.New(color.Bold).Println(s.PlanName)
	fmt.Printf("  %s\n", faint.Sprint(s.ID.String()))
	fmt.Printf("  %s, %s total\n", s.StartedAt.Format("2006-01-02 15:04"), execution.FormatClock(s.TotalSeconds))
	if s.Exertion != nil {
		fmt.Printf("  Exertion: %d/5\n", *s.Exertion)
	}
	if s.Comment != nil {
		fmt.Printf("  %s\n", *s.Comment)
	}
	if v := s.Volume(); v > 0 {
		fmt.Printf("  Volume: %.0f kg\n", v)
	}
	fmt.Println()

	for _, it := range s.Items {
		status := color.GreenString("✓")
		if it.Skipped {
			status = color.YellowString("skipped")
		} else if !it.Completed {
			status = faint.Sprint("-")
		}
		fmt.Printf("%d. %s %s\n", it.ItemIndex+1, padRight(it.Name, 28), status)
		line := fmt.Sprintf("   %d series, work %s, rest %s",
			it.Series, execution.FormatClock(it.ExerciseSeconds), execution.FormatClock(it.RestSeconds))
		if it.LoadKg != nil {
			line += fmt.Sprintf(", %.1f kg", *it.LoadKg)
		}
		if it.Reps != nil {
			line += fmt.Sprintf(" x %d", *it.Reps)
		}
		fmt.Println(faint.Sprint(line))
		if it.Notes != "" {
			fmt.Printf("   %s\n", it.Notes)
		}
	}
}

var historyDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a session",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := repo.GetSession(args[0])
		if err != nil {
			return fmt.Errorf("session not found: %w", err)
		}
		if err := repo.DeleteSession(s.ID.String()); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		color.Yellow("✗ Deleted session %s", s.ID.String()[:8])
		return nil
	},
}

func init() {
	historyListCmd.Flags().StringVar(&historyClient, "client", "", "only this client")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "max results")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}
