// Package commands implements the qrdrop CLI.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "qrdrop",
	Short: "Ephemeral LAN file transfer behind a QR code",
	Long: `qrdrop serves a one-off, token-gated page on your local network and
prints a QR code for it. In receive mode phones can push files to this
machine; in share mode they can pull the files and directories you name.
The access link expires after a TTL and never survives a restart.

Use "qrdrop [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. Called by main.main().
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		rootCmd.PrintErrf("Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")

	rootCmd.AddCommand(receiveCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
