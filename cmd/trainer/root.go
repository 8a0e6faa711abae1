// ABOUTME: Root Cobra command for trainer CLI.
// ABOUTME: Loads config, starts debug logging and opens storage via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"io"

	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/logging"
	"github.com/harperreed/trainer/internal/storage"
	"github.com/spf13/cobra"
)

// skipStorage marks commands that open storage themselves or not at all.
const skipStorage = "skip-storage"

var (
	cfg       *config.Config
	repo      storage.Repository
	logCloser io.Closer

	flagBackend string
	flagDataDir string
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "trainer",
	Short: "Personal trainer toolkit: clients, assessments and guided workouts",
	Long: `Trainer is a CLI for personal trainers and their students.

WHAT IT DOES:

  Clients       register students with sex, birth date and goal
  Assessments   skinfold body-composition estimates (Jackson-Pollock 7/3-site,
                Durnin-Womersley 4-site) with BMI, lean and fat mass
  Plans         workout plans of single exercises and supersets
  Run           guided full-screen workout with rest timers and sound cues
  History       completed sessions with per-item timing and load/reps logs
  Progress      weight, body fat, circumferences and resting heart rate over time

QUICK START:

  $ trainer client add "Ana Souza" --sex f --birth 1994-03-12
  $ trainer assess add ana --weight 62 --height 168 \
        --site triceps=18 --site suprailiac=14 --site thigh=22
  $ trainer plan add --file upper-a.yaml --client ana
  $ trainer run upper-a
  $ trainer history list --client ana

STORAGE:

  Backends: sqlite (default), markdown, charm. Configure in
  ~/.config/trainer/config.json or with --backend / TRAINER_BACKEND.
  Data lives in ~/.local/share/trainer unless --data-dir is set.

MCP INTEGRATION:

  Run 'trainer mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "trainer": { "command": "trainer", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}

		logCloser, err = logging.Initialize(cfg.Debug, "")
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		logging.Logger.Debug("command starting", "command", cmd.CommandPath(), "backend", cfg.GetBackend())

		if cmd.Annotations[skipStorage] == "true" {
			return nil
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if repo != nil {
			err = repo.Close()
			repo = nil
		}
		if logCloser != nil {
			_ = logCloser.Close()
			logCloser = nil
		}
		return err
	},
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	c, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flagBackend != "" {
		c.Backend = flagBackend
	}
	if flagDataDir != "" {
		c.DataDir = flagDataDir
	}
	if flagDebug {
		c.Debug = true
	}
	return c, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite, markdown or charm")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.local/share/trainer)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "write a JSON debug log")
}
