package commands

import (
	"github.com/spf13/cobra"

	"github.com/torbbang/sdwan-orbit/cmd/orbit/handlers"
)

// Backup returns the command for exporting Manager configuration.
//
// Optional flags:
//
//	--config, -c: Path to the inventory YAML file (default: inventory.yaml)
//	--workdir, -w: Directory the backup is written to (default: backup)
//	--tags: Artifact tags to export (default: all)
//	--save-running: Include device running configurations
//	--no-mrf: Skip the multi-region fabric hierarchy
//	--offsite: Copy the finished backup to the configured object store
//
// Environment variables:
//
//	ORBIT_S3_ACCESS_KEY, ORBIT_S3_SECRET_KEY: offsite storage credentials
//	  (required with --offsite)
func Backup() *cobra.Command {
	var (
		configPath  string
		workdir     string
		tags        []string
		saveRunning bool
		noMRF       bool
		offsite     bool
	)

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export Manager configuration to a local directory",
		Long: `Export the Manager configuration catalog to a local directory.

On Manager versions 20.7 and later the multi-region fabric hierarchy
(regions and subregions) is saved alongside the catalog. With --offsite
the finished tree is copied to the S3-compatible endpoint named in the
inventory's offsite section.

Examples:
  # Full backup into ./backup
  orbit backup

  # Backup templates only, with an offsite copy
  orbit backup --tags template --offsite`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			return handlers.Backup(cmd.Context(), handlers.BackupRequest{
				ConfigPath:  configPath,
				Workdir:     workdir,
				Tags:        tags,
				SaveRunning: saveRunning,
				IncludeMRF:  !noMRF,
				Offsite:     offsite,
				Verbose:     verbose,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to inventory file (default: inventory.yaml)")
	cmd.Flags().StringVarP(&workdir, "workdir", "w", "backup", "Backup output directory")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Artifact tags to export (default: all)")
	cmd.Flags().BoolVar(&saveRunning, "save-running", false, "Include device running configurations")
	cmd.Flags().BoolVar(&noMRF, "no-mrf", false, "Skip the multi-region fabric hierarchy")
	cmd.Flags().BoolVar(&offsite, "offsite", false, "Copy the backup to the configured object store")

	return cmd
}
