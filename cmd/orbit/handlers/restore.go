package handlers

import (
	"context"
	"fmt"

	"github.com/torbbang/sdwan-orbit/internal/backup"
)

// RestoreRequest carries the restore command inputs.
type RestoreRequest struct {
	ConfigPath string
	Workdir    string
	Tags       []string
	Attach     bool
	IncludeMRF bool
	Verbose    bool
}

// Restore imports a previously exported configuration tree into the
// Manager, regions and subregions first.
func Restore(ctx context.Context, req RestoreRequest) error {
	inv, err := loadInventory(req.ConfigPath)
	if err != nil {
		return err
	}

	logger := newLogger(req.Verbose)

	api, release, err := connectManager(ctx, managerEndpoint(inv), logger)
	if err != nil {
		return fmt.Errorf("failed to connect to Manager: %w", err)
	}
	defer release()

	fmt.Println(styled(headerStyle, fmt.Sprintf("Restoring %s from %s", inv.Manager.URL, req.Workdir)))

	mgr := newBackupManager(api, logger)
	err = mgr.Restore(ctx, req.Workdir, backup.RestoreOptions{
		Tags:       req.Tags,
		Attach:     req.Attach,
		IncludeMRF: req.IncludeMRF,
	})
	if err != nil {
		fmt.Println(styled(failedStyle, "Restore failed"))
		return err
	}

	fmt.Println(styled(successStyle, "Restore complete"))
	return nil
}
