// ABOUTME: serve command: JSON HTTP API over the configured storage backend.
// ABOUTME: Shuts down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/harperreed/trainer/internal/logging"
	"github.com/harperreed/trainer/internal/server"
	"github.com/spf13/cobra"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON HTTP API",
	Long: `Serve trainer data and the composition estimator over HTTP.

ENDPOINTS:

  POST /api/v1/composition              estimate body composition
  GET  /api/v1/clients                  list clients
  GET  /api/v1/clients/{id}             get a client
  GET  /api/v1/clients/{id}/assessments client assessments
  GET  /api/v1/clients/{id}/progress    client progress (?type=weight)
  GET  /api/v1/plans                    list plans
  GET  /api/v1/plans/{id}               get a plan
  GET  /api/v1/sessions                 list sessions (?client=...)
  GET  /api/v1/sessions/{id}            get a session

When an API key is configured ("api_key" or TRAINER_API_KEY), the
composition endpoint requires it in the X-API-Key header.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.GetListen()
		if serveListen != "" {
			addr = serveListen
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		color.Green("✓ Listening on http://%s", addr)
		if cfg.APIKey == "" {
			fmt.Println(faint.Sprint("  No API key set; the composition endpoint is open."))
		}

		srv := server.New(repo, cfg.APIKey, logging.Logger)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "address to listen on (default 127.0.0.1:8087)")
	rootCmd.AddCommand(serveCmd)
}
