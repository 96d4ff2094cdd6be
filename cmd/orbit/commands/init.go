package commands

import (
	"github.com/spf13/cobra"

	"github.com/torbbang/sdwan-orbit/cmd/orbit/handlers"
)

// Init returns the command for interactively creating an inventory file.
//
// Flags:
//
//	--output, -o: Path to output file (default "inventory.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create an inventory file",
		Long: `Interactively create an inventory file.

This command walks you through the Manager connection settings and
optionally a first edge device. Controllers, validators and further
edges are added by editing the generated YAML.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Init(outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "inventory.yaml", "Output file path")

	return cmd
}
