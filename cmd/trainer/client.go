// ABOUTME: CLI commands for managing clients (students).
// ABOUTME: Supports add, list, show and delete by ID prefix.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/trainer/internal/composition"
	"github.com/harperreed/trainer/internal/models"
	"github.com/spf13/cobra"
)

var (
	clientEmail  string
	clientPhone  string
	clientSex    string
	clientBirth  string
	clientGoal   string
	clientNotes  string
	clientActive bool
)

var clientCmd = &cobra.Command{
	Use:     "client",
	Aliases: []string{"clients", "c"},
	Short:   "Manage clients",
	Long: `Manage the clients (students) you coach.

Every assessment, plan, session and progress entry can be attributed to a
client. Sex and birth date are used to pick the skinfold protocol and age
for body-composition estimates.

EXAMPLES:

  trainer client add "Ana Souza" --sex f --birth 1994-03-12 --goal "fat loss"
  trainer client list
  trainer client show ana1b2c3
  trainer client delete ana1b2c3`,
}

var clientAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("name is required")
		}

		c := models.NewClient(name)
		if clientEmail != "" {
			c.WithEmail(clientEmail)
		}
		if clientPhone != "" {
			c.WithPhone(clientPhone)
		}
		if clientSex != "" {
			sex, ok := composition.ParseSex(clientSex)
			if !ok {
				return fmt.Errorf("unknown sex: %s (use m or f)", clientSex)
			}
			c.WithSex(sex)
		}
		if clientBirth != "" {
			bd, err := time.Parse("2006-01-02", clientBirth)
			if err != nil {
				return fmt.Errorf("invalid birth date: %s (use YYYY-MM-DD)", clientBirth)
			}
			c.WithBirthDate(bd)
		}
		if clientGoal != "" {
			c.WithGoal(clientGoal)
		}
		if clientNotes != "" {
			c.WithNotes(clientNotes)
		}

		if err := repo.CreateClient(c); err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		color.Green("✓ Added client %s", c.Name)
		fmt.Printf("  %s\n", faint.Sprint(c.ID.String()[:8]))
		return nil
	},
}

var clientListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		clients, err := repo.ListClients(clientActive)
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}
		if len(clients) == 0 {
			fmt.Println("No clients found.")
			return nil
		}

		now := time.Now()
		for _, c := range clients {
			details := []string{}
			if c.Sex != "" {
				details = append(details, string(c.Sex))
			}
			if age := c.Age(now); age != nil {
				details = append(details, fmt.Sprintf("%dy", *age))
			}
			if c.Goal != nil && *c.Goal != "" {
				details = append(details, truncate(*c.Goal, 30))
			}
			status := ""
			if !c.Active {
				status = color.YellowString(" (inactive)")
			}
			fmt.Printf("%s %s %s%s\n",
				faint.Sprint(c.ID.String()[:8]),
				padRight(c.Name, 24),
				faint.Sprint(strings.Join(details, ", ")),
				status)
		}
		return nil
	},
}

var clientShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a client with latest measurements",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := repo.GetClient(args[0])
		if err != nil {
			return fmt.Errorf("client not found: %w", err)
		}

		bold := color.New(color.Bold)
		bold.Println(c.Name)
		fmt.Printf("  ID:      %s\n", c.ID)
		if c.Sex != "" {
			fmt.Printf("  Sex:     %s\n", c.Sex)
		}
		if c.BirthDate != nil {
			fmt.Printf("  Born:    %s", c.BirthDate.Format("2006-01-02"))
			if age := c.Age(time.Now()); age != nil {
				fmt.Printf(" (%d)", *age)
			}
			fmt.Println()
		}
		if c.Email != nil {
			fmt.Printf("  Email:   %s\n", *c.Email)
		}
		if c.Phone != nil {
			fmt.Printf("  Phone:   %s\n", *c.Phone)
		}
		if c.Goal != nil {
			fmt.Printf("  Goal:    %s\n", *c.Goal)
		}
		if c.Notes != nil {
			fmt.Printf("  Notes:   %s\n", *c.Notes)
		}

		fmt.Println()
		bold.Println("Latest")
		found := false
		for _, pt := range models.AllProgressTypes {
			p, err := repo.GetLatestProgress(c.ID, pt)
			if err != nil {
				continue
			}
			found = true
			fmt.Printf("  %s %.1f %s %s\n",
				padRight(string(pt), 12), p.Value, p.Unit,
				faint.Sprint(p.RecordedAt.Format("2006-01-02")))
		}
		if !found {
			fmt.Println("  No measurements yet.")
		}
		return nil
	},
}

var clientDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a client and everything recorded for them",
	Long: `Delete a client by ID or ID prefix.

CAUTION:

  This also deletes the client's assessments, sessions and progress entries.
  Plans assigned to the client are kept but unassigned. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := repo.GetClient(args[0])
		if err != nil {
			return fmt.Errorf("client not found: %w", err)
		}
		if err := repo.DeleteClient(c.ID.String()); err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}

		color.Yellow("✗ Deleted client %s", c.Name)
		fmt.Printf("  %s\n", faint.Sprint(c.ID.String()[:8]))
		return nil
	},
}

func init() {
	clientAddCmd.Flags().StringVar(&clientEmail, "email", "", "contact email")
	clientAddCmd.Flags().StringVar(&clientPhone, "phone", "", "contact phone")
	clientAddCmd.Flags().StringVar(&clientSex, "sex", "", "m or f")
	clientAddCmd.Flags().StringVar(&clientBirth, "birth", "", "birth date (YYYY-MM-DD)")
	clientAddCmd.Flags().StringVar(&clientGoal, "goal", "", "training goal")
	clientAddCmd.Flags().StringVar(&clientNotes, "notes", "", "notes")
	clientListCmd.Flags().BoolVar(&clientActive, "active", false, "only active clients")

	clientCmd.AddCommand(clientAddCmd)
	clientCmd.AddCommand(clientListCmd)
	clientCmd.AddCommand(clientShowCmd)
	clientCmd.AddCommand(clientDeleteCmd)
	rootCmd.AddCommand(clientCmd)
}
