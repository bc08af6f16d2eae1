// Package configcmd provides config management commands.
package configcmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-lint/internal/config"
)

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage bbl configuration",
		Long:  `Commands for viewing, checking, and clearing bbl configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdTest())
	cmd.AddCommand(NewCmdClear())

	return cmd
}

// envVar returns the environment variable that overrides key.
func envVar(key string) string {
	return strings.ToUpper(config.EnvPrefix + "_" + key)
}

// activeEnv lists the BBL_* override variables that are set.
func activeEnv() []string {
	var active []string
	for _, key := range []string{"output", "no_color", "min_severity", "disabled"} {
		if name := envVar(key); os.Getenv(name) != "" {
			active = append(active, name)
		}
	}
	return active
}
