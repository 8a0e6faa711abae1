// ABOUTME: CLI commands for workout plans.
// ABOUTME: Plans are authored as YAML or JSON files and imported with plan add.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/trainer/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	planFile   string
	planClient string
)

// planDoc is the on-disk plan format. JSON files parse as YAML too.
type planDoc struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Items       []models.WorkoutItem `yaml:"items"`
}

var planCmd = &cobra.Command{
	Use:     "plan",
	Aliases: []string{"plans", "p"},
	Short:   "Manage workout plans",
	Long: `Manage workout plans.

PLAN FILES:

  Plans are written in YAML (or JSON) and imported with 'trainer plan add'.
  Items with one exercise are singles; two or more make a superset (bi-set,
  tri-set, giga-set). Exercises are counted in reps or timed in seconds.

    name: Upper A
    description: Push focus
    items:
      - series: 4
        rest_seconds: 90
        exercises:
          - name: Bench press
            reps: 8-10
      - series: 3
        rest_seconds: 60
        exercises:
          - name: Push-up
            reps: "12"
          - name: Plank
            duration_seconds: 30

EXAMPLES:

  trainer plan add --file upper-a.yaml --client ana1b2c3
  trainer plan list
  trainer plan show 4f2a9c1e`,
}

var planAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Import a plan from a YAML or JSON file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if planFile == "" {
			return fmt.Errorf("--file is required")
		}
		data, err := os.ReadFile(planFile)
		if err != nil {
			return fmt.Errorf("failed to read plan file: %w", err)
		}

		p, err := parsePlan(data)
		if err != nil {
			return err
		}
		if planClient != "" {
			c, err := repo.GetClient(planClient)
			if err != nil {
				return fmt.Errorf("client not found: %w", err)
			}
			p.WithClient(c.ID)
		}

		if err := repo.CreatePlan(p); err != nil {
			return fmt.Errorf("failed to create plan: %w", err)
		}

		color.Green("✓ Added plan %s", p.Name)
		fmt.Printf("  %s %d items, %d series\n",
			faint.Sprint(p.ID.String()[:8]), len(p.Items), p.TotalSeries())
		return nil
	},
}

// parsePlan decodes a plan document, filling in item kinds and exercise
// modes the author left implicit, and validates the result.
func parsePlan(data []byte) (*models.WorkoutPlan, error) {
	var doc planDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid plan file: %w", err)
	}

	for i := range doc.Items {
		it := &doc.Items[i]
		if it.Kind == "" {
			it.Kind = models.ItemSingle
			if len(it.Exercises) > 1 {
				it.Kind = models.ItemSuperset
			}
		}
		for j := range it.Exercises {
			ex := &it.Exercises[j]
			if ex.Mode == "" {
				ex.Mode = models.ModeReps
				if ex.DurationSeconds > 0 && ex.Reps == "" {
					ex.Mode = models.ModeTime
				}
			}
		}
	}

	p := models.NewWorkoutPlan(strings.TrimSpace(doc.Name), doc.Items...)
	if d := strings.TrimSpace(doc.Description); d != "" {
		p.WithDescription(d)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	return p, nil
}

var planListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workout plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		plans, err := listPlans(planClient)
		if err != nil {
			return err
		}
		if len(plans) == 0 {
			fmt.Println("No plans found.")
			return nil
		}

		for _, p := range plans {
			fmt.Printf("%s %s %s\n",
				faint.Sprint(p.ID.String()[:8]),
				padRight(p.Name, 24),
				faint.Sprintf("%d items, %d series", len(p.Items), p.TotalSeries()))
		}
		return nil
	},
}

func listPlans(clientRef string) ([]*models.WorkoutPlan, error) {
	if clientRef == "" {
		plans, err := repo.ListPlans(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list plans: %w", err)
		}
		return plans, nil
	}
	c, err := repo.GetClient(clientRef)
	if err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}
	plans, err := repo.ListPlans(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

var planShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a plan with all its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := repo.GetPlan(args[0])
		if err != nil {
			return fmt.Errorf("plan not found: %w", err)
		}
		printPlan(p)
		return nil
	},
}

func printPlan(p *models.WorkoutPlan) {
	color.New(color.Bold).Println(p.Name)
	fmt.Printf("  %s\n", faint.Sprint(p.ID.String()))
	if p.Description != nil {
		fmt.Printf("  %s\n", *p.Description)
	}
	fmt.Println()

	for i, it := range p.Items {
		header := fmt.Sprintf("%d. %d x", i+1, it.Series)
		if label := it.Label(); label != "" {
			header += " " + color.CyanString(label)
		}
		if it.RestSeconds > 0 {
			header += faint.Sprintf("  rest %ds", it.RestSeconds)
		}
		fmt.Println(header)
		for _, ex := range it.Exercises {
			fmt.Printf("     %s %s\n", padRight(ex.Name, 24), faint.Sprint(ex.Target()))
		}
		if it.Notes != "" {
			fmt.Printf("     %s\n", faint.Sprint(it.Notes))
		}
	}
}

var planDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a plan",
	Long: `Delete a plan by ID or ID prefix.

Sessions already run from the plan are kept in history.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := repo.GetPlan(args[0])
		if err != nil {
			return fmt.Errorf("plan not found: %w", err)
		}
		if err := repo.DeletePlan(p.ID.String()); err != nil {
			return fmt.Errorf("failed to delete plan: %w", err)
		}
		color.Yellow("✗ Deleted plan %s", p.Name)
		return nil
	},
}

func init() {
	planAddCmd.Flags().StringVarP(&planFile, "file", "f", "", "plan file (YAML or JSON)")
	planAddCmd.Flags().StringVar(&planClient, "client", "", "assign to client (ID or prefix)")
	planListCmd.Flags().StringVar(&planClient, "client", "", "only plans for this client")

	planCmd.AddCommand(planAddCmd)
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planDeleteCmd)
	rootCmd.AddCommand(planCmd)
}
