// ABOUTME: CLI commands for client progress entries.
// ABOUTME: Manual measurements (weight, circumferences, resting HR) and latest values.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/trainer/internal/models"
	"github.com/spf13/cobra"
)

var (
	progressAt    string
	progressNotes string
	progressType  string
	progressLimit int
)

var progressCmd = &cobra.Command{
	Use:     "progress",
	Aliases: []string{"pr"},
	Short:   "Track client measurements over time",
	Long: fmt.Sprintf(`Track client measurements over time.

Assessments write weight, body fat, lean mass, fat mass and BMI
automatically. Use 'progress add' for anything measured by hand.

TYPES:

  %s

EXAMPLES:

  trainer progress add ana waist 72.5
  trainer progress add ana resting_hr 58 --at 2026-03-01
  trainer progress list ana --type weight
  trainer progress latest ana`, progressTypeList()),
}

var progressAddCmd = &cobra.Command{
	Use:   "add <client> <type> <value>",
	Short: "Record a measurement",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := repo.GetClient(args[0])
		if err != nil {
			return fmt.Errorf("client not found: %w", err)
		}
		if !models.IsValidProgressType(args[1]) {
			return fmt.Errorf("unknown progress type: %s\nValid types: %s", args[1], progressTypeList())
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(args[2], ",", "."), 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[2])
		}

		p := models.NewProgress(c.ID, models.ProgressType(args[1]), value)
		if progressAt != "" {
			at, err := parseTime(progressAt)
			if err != nil {
				return fmt.Errorf("invalid --at: %w", err)
			}
			p.WithRecordedAt(at)
		}
		if progressNotes != "" {
			p.WithNotes(progressNotes)
		}

		if err := repo.CreateProgress(p); err != nil {
			return fmt.Errorf("failed to record progress: %w", err)
		}
		color.Green("✓ Recorded %s %.1f %s for %s", p.Type, p.Value, p.Unit, c.Name)
		fmt.Printf("  %s\n", faint.Sprint(p.ID.String()[:8]))
		return nil
	},
}

var progressListCmd = &cobra.Command{
	Use:     "list <client>",
	Aliases: []string{"ls"},
	Short:   "List measurements, newest first",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := repo.GetClient(args[0])
		if err != nil {
			return fmt.Errorf("client not found: %w", err)
		}

		var pt *models.ProgressType
		if progressType != "" {
			if !models.IsValidProgressType(progressType) {
				return fmt.Errorf("unknown progress type: %s", progressType)
			}
			t := models.ProgressType(progressType)
			pt = &t
		}

		entries, err := repo.ListProgress(&c.ID, pt, progressLimit)
		if err != nil {
			return fmt.Errorf("failed to list progress: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No progress entries found.")
			return nil
		}

		for _, p := range entries {
			source := ""
			if p.AssessmentID != nil {
				source = faint.Sprint(" (assessment)")
			}
			fmt.Printf("%s %s %s %8.1f %s%s\n",
				faint.Sprint(p.ID.String()[:8]),
				p.RecordedAt.Format("2006-01-02"),
				padRight(string(p.Type), 12),
				p.Value, p.Unit, source)
		}
		return nil
	},
}

var progressLatestCmd = &cobra.Command{
	Use:   "latest <client>",
	Short: "Show the latest value of every measurement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := repo.GetClient(args[0])
		if err != nil {
			return fmt.Errorf("client not found: %w", err)
		}

		color.New(color.Bold).Println(c.Name)
		found := false
		for _, pt := range models.AllProgressTypes {
			p, err := repo.GetLatestProgress(c.ID, pt)
			if err != nil {
				continue
			}
			found = true
			fmt.Printf("  %s %8.1f %s %s\n",
				padRight(string(pt), 12), p.Value, padRight(p.Unit, 6),
				faint.Sprint(p.RecordedAt.Format("2006-01-02")))
		}
		if !found {
			fmt.Println("  No measurements yet.")
		}
		return nil
	},
}

var progressDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a progress entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := repo.GetProgress(args[0])
		if err != nil {
			return fmt.Errorf("progress entry not found: %w", err)
		}
		if err := repo.DeleteProgress(p.ID.String()); err != nil {
			return fmt.Errorf("failed to delete progress: %w", err)
		}
		color.Yellow("✗ Deleted %s entry %s", p.Type, p.ID.String()[:8])
		return nil
	},
}

func progressTypeList() string {
	names := make([]string, 0, len(models.AllProgressTypes))
	for _, pt := range models.AllProgressTypes {
		names = append(names, string(pt))
	}
	return strings.Join(names, ", ")
}

func init() {
	progressAddCmd.Flags().StringVar(&progressAt, "at", "", "measurement time (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	progressAddCmd.Flags().StringVar(&progressNotes, "notes", "", "notes")
	progressListCmd.Flags().StringVar(&progressType, "type", "", "only this measurement type")
	progressListCmd.Flags().IntVarP(&progressLimit, "limit", "n", 20, "max results")

	progressCmd.AddCommand(progressAddCmd)
	progressCmd.AddCommand(progressListCmd)
	progressCmd.AddCommand(progressLatestCmd)
	progressCmd.AddCommand(progressDeleteCmd)
	rootCmd.AddCommand(progressCmd)
}
