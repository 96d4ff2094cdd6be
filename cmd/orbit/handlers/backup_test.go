package handlers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torbbang/sdwan-orbit/internal/config"
	"github.com/torbbang/sdwan-orbit/internal/manager"
)

// saveAndRestoreBackupFactories saves and restores backup factory functions.
func saveAndRestoreBackupFactories(t *testing.T) {
	origLoad := loadInventoryFile
	origConnect := connectManager

	t.Cleanup(func() {
		loadInventoryFile = origLoad
		connectManager = origConnect
	})
}

func TestBackup(t *testing.T) {
	t.Run("writes catalogs to workdir", func(t *testing.T) {
		saveAndRestoreBackupFactories(t)

		loadInventoryFile = func(string) (*config.Inventory, error) {
			return onboardInventory(), nil
		}

		released := 0
		connectManager = func(context.Context, manager.Endpoint, logr.Logger) (manager.Client, func(), error) {
			mock := &manager.MockClient{
				GetTemplatesFunc: func(context.Context) ([]manager.Template, error) {
					return []manager.Template{{Name: "branch", ID: "t-1"}}, nil
				},
				ServerVersionFunc: func(context.Context) (string, error) {
					return "20.6.1", nil
				},
			}
			return mock, func() { released++ }, nil
		}

		workdir := filepath.Join(t.TempDir(), "backup")
		var err error
		output := captureOutput(func() {
			err = Backup(context.Background(), BackupRequest{Workdir: workdir, IncludeMRF: true})
		})
		require.NoError(t, err)
		assert.Equal(t, 1, released)
		assert.FileExists(t, filepath.Join(workdir, "device_templates.json"))
		assert.Contains(t, output, "Backup written to")
	})

	t.Run("offsite requires inventory section", func(t *testing.T) {
		saveAndRestoreBackupFactories(t)

		loadInventoryFile = func(string) (*config.Inventory, error) {
			return onboardInventory(), nil
		}

		err := Backup(context.Background(), BackupRequest{Workdir: t.TempDir(), Offsite: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "offsite section")
	})

	t.Run("offsite requires credentials in the environment", func(t *testing.T) {
		saveAndRestoreBackupFactories(t)
		t.Setenv(envS3AccessKey, "")
		t.Setenv(envS3SecretKey, "")

		loadInventoryFile = func(string) (*config.Inventory, error) {
			inv := onboardInventory()
			inv.Offsite = &config.OffsiteConfig{Endpoint: "https://s3.example.com", Bucket: "backups"}
			return inv, nil
		}

		err := Backup(context.Background(), BackupRequest{Workdir: t.TempDir(), Offsite: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), envS3AccessKey)
	})
}

func TestRestore(t *testing.T) {
	t.Run("missing backup directory", func(t *testing.T) {
		saveAndRestoreBackupFactories(t)

		loadInventoryFile = func(string) (*config.Inventory, error) {
			return onboardInventory(), nil
		}
		connectManager = func(context.Context, manager.Endpoint, logr.Logger) (manager.Client, func(), error) {
			return &manager.MockClient{}, func() {}, nil
		}

		var err error
		output := captureOutput(func() {
			err = Restore(context.Background(), RestoreRequest{Workdir: filepath.Join(t.TempDir(), "absent")})
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backup directory not found")
		assert.Contains(t, output, "Restore failed")
	})
}
