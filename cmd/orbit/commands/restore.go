package commands

import (
	"github.com/spf13/cobra"

	"github.com/torbbang/sdwan-orbit/cmd/orbit/handlers"
)

// Restore returns the command for importing a previously taken backup.
//
// Optional flags:
//
//	--config, -c: Path to the inventory YAML file (default: inventory.yaml)
//	--workdir, -w: Directory the backup is read from (default: backup)
//	--tags: Artifact tags to import (default: all)
//	--attach: Reattach templates to devices after import
//	--no-mrf: Skip the multi-region fabric hierarchy
func Restore() *cobra.Command {
	var (
		configPath string
		workdir    string
		tags       []string
		attach     bool
		noMRF      bool
	)

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Import a configuration backup into the Manager",
		Long: `Import a previously exported configuration tree into the Manager.

The multi-region fabric hierarchy is restored first, regions before
subregions, so that restored configuration can reference regions that
already exist.

Examples:
  # Restore from ./backup
  orbit restore

  # Restore and reattach device templates
  orbit restore --attach`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			return handlers.Restore(cmd.Context(), handlers.RestoreRequest{
				ConfigPath: configPath,
				Workdir:    workdir,
				Tags:       tags,
				Attach:     attach,
				IncludeMRF: !noMRF,
				Verbose:    verbose,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to inventory file (default: inventory.yaml)")
	cmd.Flags().StringVarP(&workdir, "workdir", "w", "backup", "Backup input directory")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Artifact tags to import (default: all)")
	cmd.Flags().BoolVar(&attach, "attach", false, "Reattach templates after import")
	cmd.Flags().BoolVar(&noMRF, "no-mrf", false, "Skip the multi-region fabric hierarchy")

	return cmd
}
