// ABOUTME: Version command for trainer CLI.
// ABOUTME: Version is overridden at build time with -ldflags.
package main

import (
	"fmt"

	"github.com/harperreed/trainer/internal/mcp"
	"github.com/spf13/cobra"
)

var version = "dev"

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the trainer version",
	Annotations: map[string]string{skipStorage: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("trainer", version)
	},
}

func init() {
	mcp.Version = version
	rootCmd.AddCommand(versionCmd)
}
