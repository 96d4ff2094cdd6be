// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the orbit CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orbit",
		Short: "Onboard SD-WAN devices against a Manager instance",
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Core commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Onboard())
	cmd.AddCommand(Backup())
	cmd.AddCommand(Restore())

	// Utility commands
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
