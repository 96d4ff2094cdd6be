package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torbbang/sdwan-orbit/internal/config"
)

// saveAndRestoreInitFactories saves and restores init factory functions.
func saveAndRestoreInitFactories(t *testing.T) {
	origFileExists := fileExists
	origRunWizard := runWizard
	origSave := saveInventory

	t.Cleanup(func() {
		fileExists = origFileExists
		runWizard = origRunWizard
		saveInventory = origSave
	})
}

func TestInit(t *testing.T) {
	t.Run("writes wizard result", func(t *testing.T) {
		saveAndRestoreInitFactories(t)

		fileExists = func(string) bool { return false }
		runWizard = func() (*config.Inventory, error) {
			return onboardInventory(), nil
		}

		var savedPath string
		saveInventory = func(_ *config.Inventory, path string) error {
			savedPath = path
			return nil
		}

		var err error
		output := captureOutput(func() {
			err = Init("inventory.yaml")
		})
		require.NoError(t, err)
		assert.Equal(t, "inventory.yaml", savedPath)
		assert.Contains(t, output, "Inventory saved!")
		assert.Contains(t, output, "orbit onboard")
	})

	t.Run("warns about overwrite", func(t *testing.T) {
		saveAndRestoreInitFactories(t)

		fileExists = func(string) bool { return true }
		runWizard = func() (*config.Inventory, error) {
			return onboardInventory(), nil
		}
		saveInventory = func(*config.Inventory, string) error { return nil }

		output := captureOutput(func() {
			_ = Init("inventory.yaml")
		})
		assert.Contains(t, output, "already exists and will be overwritten")
	})

	t.Run("wizard cancellation", func(t *testing.T) {
		saveAndRestoreInitFactories(t)

		fileExists = func(string) bool { return false }
		runWizard = func() (*config.Inventory, error) {
			return nil, errors.New("user aborted")
		}

		var err error
		captureOutput(func() {
			err = Init("inventory.yaml")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "wizard canceled")
	})

	t.Run("write failure", func(t *testing.T) {
		saveAndRestoreInitFactories(t)

		fileExists = func(string) bool { return false }
		runWizard = func() (*config.Inventory, error) {
			return onboardInventory(), nil
		}
		saveInventory = func(*config.Inventory, string) error {
			return errors.New("disk full")
		}

		var err error
		captureOutput(func() {
			err = Init("inventory.yaml")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to write inventory")
	})
}
