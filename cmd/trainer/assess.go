// ABOUTME: CLI commands for skinfold body-composition assessments.
// ABOUTME: compute is a stateless calculator; add stores the result and derived progress.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/composition"
	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
	"github.com/spf13/cobra"
)

var (
	assessSex    string
	assessAge    int
	assessWeight float64
	assessHeight float64
	assessSites  []string
	assessAt     string
	assessNotes  string
	assessClient string
	assessLimit  int
)

var assessCmd = &cobra.Command{
	Use:     "assess",
	Aliases: []string{"assessment", "a"},
	Short:   "Body-composition assessments",
	Long: `Estimate body composition from skinfold thickness.

The protocol is picked from the sites provided:

  Jackson-Pollock 7   chest, abdomen, triceps, subscapular,
                      midaxillary, suprailiac, thigh
  Durnin-Womersley 4  triceps, subscapular, suprailiac, chest
  Jackson-Pollock 3   men: chest, abdomen, thigh
                      women: triceps, suprailiac, thigh

Sites are passed as --site name=mm. Bilateral sites take left/right
readings (--site triceps=12/13) and are averaged. Commas work as decimal
separators. Unusable readings count as absent.

EXAMPLES:

  trainer assess compute --sex m --age 25 --weight 80 \
      --site chest=10 --site abdomen=20 --site thigh=15
  trainer assess add ana --weight 62 --height 168 --site triceps=18/17 ...
  trainer assess list --client ana`,
}

var assessComputeCmd = &cobra.Command{
	Use:         "compute",
	Short:       "Compute body composition without saving",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		sex, ok := composition.ParseSex(assessSex)
		if !ok {
			return fmt.Errorf("--sex is required (m or f)")
		}
		sites, err := parseSites(assessSites)
		if err != nil {
			return err
		}

		a := models.NewAssessment(uuid.Nil, sex)
		a.Skinfolds = sites
		if assessAge > 0 {
			a.WithAge(assessAge)
		}
		if assessWeight > 0 {
			a.WithWeight(assessWeight)
		}
		if assessHeight > 0 {
			a.WithHeight(assessHeight)
		}
		a.Recompute()

		printAssessment(a)
		return nil
	},
}

var assessAddCmd = &cobra.Command{
	Use:   "add <client>",
	Short: "Record an assessment for a client",
	Long: `Record an assessment for a client.

Sex comes from the client record and age from their birth date unless
--age is given. Weight, body fat, lean mass, fat mass and BMI are also
written as progress entries.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := repo.GetClient(args[0])
		if err != nil {
			return fmt.Errorf("client not found: %w", err)
		}

		sex := c.Sex
		if assessSex != "" {
			s, ok := composition.ParseSex(assessSex)
			if !ok {
				return fmt.Errorf("unknown sex: %s (use m or f)", assessSex)
			}
			sex = s
		}
		sites, err := parseSites(assessSites)
		if err != nil {
			return err
		}

		at := time.Now()
		if assessAt != "" {
			at, err = parseTime(assessAt)
			if err != nil {
				return fmt.Errorf("invalid --at: %w", err)
			}
		}

		a := models.NewAssessment(c.ID, sex).WithAssessedAt(at)
		a.Skinfolds = sites
		switch {
		case assessAge > 0:
			a.WithAge(assessAge)
		case c.Age(at) != nil:
			a.WithAge(*c.Age(at))
		}
		if assessWeight > 0 {
			a.WithWeight(assessWeight)
		}
		if assessHeight > 0 {
			a.WithHeight(assessHeight)
		}
		if assessNotes != "" {
			a.WithNotes(assessNotes)
		}

		entries, err := storeAssessment(a)
		if err != nil {
			return err
		}

		color.Green("✓ Recorded assessment for %s", c.Name)
		fmt.Printf("  %s %s\n", faint.Sprint(a.ID.String()[:8]), faint.Sprintf("%d progress entries", len(entries)))
		fmt.Println()
		printAssessment(a)
		return nil
	},
}

var assessListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List assessments, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		var clientID *uuid.UUID
		if assessClient != "" {
			c, err := repo.GetClient(assessClient)
			if err != nil {
				return fmt.Errorf("client not found: %w", err)
			}
			clientID = &c.ID
		}

		list, err := repo.ListAssessments(clientID, assessLimit)
		if err != nil {
			return fmt.Errorf("failed to list assessments: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No assessments found.")
			return nil
		}

		names := clientNames()
		for _, a := range list {
			bf := "-"
			if a.Result != nil {
				bf = fmt.Sprintf("%.1f%%", a.Result.BodyFatPct)
			}
			fmt.Printf("%s %s %s %s %s\n",
				faint.Sprint(a.ID.String()[:8]),
				a.AssessedAt.Format("2006-01-02"),
				padRight(names[a.ClientID], 20),
				padRight(optionalFloat(a.WeightKg, "%.1fkg"), 8),
				color.CyanString(bf))
		}
		return nil
	},
}

var assessShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := repo.GetAssessment(args[0])
		if err != nil {
			return fmt.Errorf("assessment not found: %w", err)
		}
		fmt.Printf("%s %s\n", faint.Sprint(a.ID.String()), a.AssessedAt.Format("2006-01-02 15:04"))
		if a.Notes != nil {
			fmt.Printf("%s\n", *a.Notes)
		}
		fmt.Println()
		printAssessment(a)
		return nil
	},
}

var assessDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an assessment",
	Long: `Delete an assessment by ID or ID prefix.

Progress entries derived from it are deleted too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := repo.GetAssessment(args[0])
		if err != nil {
			return fmt.Errorf("assessment not found: %w", err)
		}
		if err := repo.DeleteAssessment(a.ID.String()); err != nil {
			return fmt.Errorf("failed to delete assessment: %w", err)
		}
		color.Yellow("✗ Deleted assessment %s", a.ID.String()[:8])
		return nil
	},
}

func storeAssessment(a *models.Assessment) ([]*models.Progress, error) {
	entries, err := storage.RecordAssessment(repo, a)
	if err != nil {
		return nil, fmt.Errorf("failed to record assessment: %w", err)
	}
	return entries, nil
}

func printAssessment(a *models.Assessment) {
	bold := color.New(color.Bold)

	profile := []string{string(a.Sex)}
	if a.Age != nil {
		profile = append(profile, fmt.Sprintf("%dy", *a.Age))
	}
	if a.WeightKg != nil {
		profile = append(profile, fmt.Sprintf("%.1f kg", *a.WeightKg))
	}
	if a.HeightCm != nil {
		profile = append(profile, fmt.Sprintf("%.0f cm", *a.HeightCm))
	}
	fmt.Printf("  %s\n", faint.Sprint(strings.Join(profile, ", ")))

	for _, site := range composition.AllSites {
		if v, ok := a.Skinfolds.Value(site); ok {
			fmt.Printf("  %s %.1f mm\n", padRight(string(site), 12), v)
		}
	}
	fmt.Println()

	if a.Result == nil {
		color.Yellow("Insufficient data for an estimate.")
		fmt.Println(faint.Sprint("  Needs sex, age, weight and a complete site set."))
	} else {
		r := a.Result
		bold.Printf("Body fat     %.1f%%\n", r.BodyFatPct)
		fmt.Printf("Lean mass    %.1f kg\n", r.LeanMassKg)
		fmt.Printf("Fat mass     %.1f kg\n", r.FatMassKg)
		fmt.Printf("Density      %.4f\n", r.Density)
		fmt.Printf("%s\n", faint.Sprintf("%s, sum %.1f mm", r.Protocol, r.SumMM))
	}
	if bmi := a.BMI(); bmi != nil {
		fmt.Printf("BMI          %.1f\n", *bmi)
	}
}

// clientNames maps client IDs to names for list output.
func clientNames() map[uuid.UUID]string {
	names := map[uuid.UUID]string{}
	clients, err := repo.ListClients(false)
	if err != nil {
		return names
	}
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	return names
}

func init() {
	for _, c := range []*cobra.Command{assessComputeCmd, assessAddCmd} {
		c.Flags().StringVar(&assessSex, "sex", "", "m or f")
		c.Flags().IntVar(&assessAge, "age", 0, "age in years")
		c.Flags().Float64Var(&assessWeight, "weight", 0, "body weight (kg)")
		c.Flags().Float64Var(&assessHeight, "height", 0, "height (cm)")
		c.Flags().StringArrayVar(&assessSites, "site", nil, "skinfold site=mm or site=left/right (repeatable)")
	}
	assessAddCmd.Flags().StringVar(&assessAt, "at", "", "assessment time (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	assessAddCmd.Flags().StringVar(&assessNotes, "notes", "", "notes")
	assessListCmd.Flags().StringVar(&assessClient, "client", "", "only this client")
	assessListCmd.Flags().IntVarP(&assessLimit, "limit", "n", 20, "max results")

	assessCmd.AddCommand(assessComputeCmd)
	assessCmd.AddCommand(assessAddCmd)
	assessCmd.AddCommand(assessListCmd)
	assessCmd.AddCommand(assessShowCmd)
	assessCmd.AddCommand(assessDeleteCmd)
	rootCmd.AddCommand(assessCmd)
}
