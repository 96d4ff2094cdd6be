package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-logr/logr"

	"github.com/torbbang/sdwan-orbit/internal/backup"
	"github.com/torbbang/sdwan-orbit/internal/config"
	"github.com/torbbang/sdwan-orbit/internal/manager"
	"github.com/torbbang/sdwan-orbit/internal/platform/s3"
)

// Offsite storage credentials come from the environment, never the
// inventory file.
const (
	envS3AccessKey = "ORBIT_S3_ACCESS_KEY"
	envS3SecretKey = "ORBIT_S3_SECRET_KEY"
)

// newUploader creates the offsite uploader - replaceable in tests.
var newUploader = func(offsite *config.OffsiteConfig) (backup.Uploader, error) {
	accessKey := os.Getenv(envS3AccessKey)
	secretKey := os.Getenv(envS3SecretKey)
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("offsite copy requires %s and %s to be set", envS3AccessKey, envS3SecretKey)
	}
	return s3.NewClient(offsite.Endpoint, offsite.Region, accessKey, secretKey)
}

// newBackupManager assembles the backup manager - replaceable in tests.
var newBackupManager = func(api manager.Client, logger logr.Logger, opts ...backup.ManagerOption) *backup.Manager {
	return backup.New(api, backup.NewCatalogExporter(api, logger), logger, opts...)
}

// BackupRequest carries the backup command inputs.
type BackupRequest struct {
	ConfigPath  string
	Workdir     string
	Tags        []string
	SaveRunning bool
	IncludeMRF  bool
	Offsite     bool
	Verbose     bool
}

// Backup exports the Manager configuration into a local directory and
// optionally copies it to the inventory's offsite object store.
func Backup(ctx context.Context, req BackupRequest) error {
	inv, err := loadInventory(req.ConfigPath)
	if err != nil {
		return err
	}

	logger := newLogger(req.Verbose)

	opts := backup.Options{
		Tags:        req.Tags,
		SaveRunning: req.SaveRunning,
		IncludeMRF:  req.IncludeMRF,
	}

	var managerOpts []backup.ManagerOption
	if req.Offsite {
		if inv.Offsite == nil {
			return errors.New("--offsite requires an offsite section in the inventory")
		}
		uploader, err := newUploader(inv.Offsite)
		if err != nil {
			return err
		}
		managerOpts = append(managerOpts, backup.WithUploader(uploader))
		opts.OffsiteBucket = inv.Offsite.Bucket
		opts.OffsitePrefix = inv.Manager.URL
	}

	api, release, err := connectManager(ctx, managerEndpoint(inv), logger)
	if err != nil {
		return fmt.Errorf("failed to connect to Manager: %w", err)
	}
	defer release()

	fmt.Println(styled(headerStyle, fmt.Sprintf("Backing up %s", inv.Manager.URL)))

	mgr := newBackupManager(api, logger, managerOpts...)
	if err := mgr.Backup(ctx, req.Workdir, opts); err != nil {
		fmt.Println(styled(failedStyle, "Backup failed"))
		return err
	}

	fmt.Println(styled(successStyle, fmt.Sprintf("Backup written to %s", req.Workdir)))
	if req.Offsite {
		fmt.Println(styled(dimStyle, fmt.Sprintf("  offsite copy: s3://%s", inv.Offsite.Bucket)))
	}
	return nil
}
