package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/torbbang/sdwan-orbit/cmd/orbit/handlers"
)

// Onboard returns the command for onboarding devices from an inventory.
//
// The command connects to the Manager named in the inventory file, brings
// up controllers and validators first, waits for the control plane to
// settle, then registers edges and attaches their templates or
// configuration groups.
//
// Optional flags:
//
//	--config, -c: Path to the inventory YAML file (default: inventory.yaml)
//	--skip-existing: Reuse devices that are already registered
//	--no-wait: Do not block on device readiness between phases
//	--timeout: Per-phase readiness timeout
func Onboard() *cobra.Command {
	var (
		configPath   string
		skipExisting bool
		noWait       bool
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Onboard the devices listed in the inventory",
		Long: `Onboard SD-WAN devices from a declarative inventory file.

Controllers and validators are registered first. Once the control plane
reports ready, edge devices are registered, their certificates awaited,
and their device templates or configuration groups attached.

Examples:
  # Onboard using inventory.yaml in the current directory
  orbit onboard

  # Onboard a lab inventory, tolerating already-registered devices
  orbit onboard -c lab.yaml --skip-existing

  # Fire and forget, without readiness barriers
  orbit onboard --no-wait`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			return handlers.Onboard(cmd.Context(), handlers.OnboardRequest{
				ConfigPath:   configPath,
				SkipExisting: skipExisting,
				Wait:         !noWait,
				Timeout:      timeout,
				Verbose:      verbose,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to inventory file (default: inventory.yaml)")
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Reuse already-registered devices")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Do not wait for device readiness")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-phase readiness timeout (default 10m)")

	return cmd
}
