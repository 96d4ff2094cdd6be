package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInventory = `
manager:
  url: https://vmanage.example.com
  username: admin
  password: secret
controllers:
  - ip: 10.0.0.10
    password: ctrl-pass
validators:
  - ip: 10.0.0.20
edges:
  - serial: C8K-ABC123
    system_ip: 10.255.0.1
    site_id: 100
    template_name: branch-template
    values:
      vpn1_interface: GigabitEthernet2
`

func TestLoadBytes(t *testing.T) {
	t.Run("valid inventory", func(t *testing.T) {
		inv, err := LoadBytes([]byte(sampleInventory))
		require.NoError(t, err)

		assert.Equal(t, "https://vmanage.example.com", inv.Manager.URL)
		assert.Equal(t, "admin", inv.Manager.Username)
		require.Len(t, inv.Controllers, 1)
		assert.Equal(t, "10.0.0.10", inv.Controllers[0].IP)
		assert.Equal(t, "ctrl-pass", inv.Controllers[0].Password)
		require.Len(t, inv.Validators, 1)
		require.Len(t, inv.Edges, 1)
		assert.Equal(t, "C8K-ABC123", inv.Edges[0].Serial)
		assert.Equal(t, 100, inv.Edges[0].SiteID)
		assert.Equal(t, "branch-template", inv.Edges[0].TemplateName)
		assert.Equal(t, "GigabitEthernet2", inv.Edges[0].Values["vpn1_interface"])
	})

	t.Run("port defaults to 443", func(t *testing.T) {
		inv, err := LoadBytes([]byte(sampleInventory))
		require.NoError(t, err)
		assert.Equal(t, 443, inv.Manager.Port)
	})

	t.Run("explicit port kept", func(t *testing.T) {
		doc := `
manager:
  url: https://vmanage.example.com
  username: admin
  password: secret
  port: 8443
`
		inv, err := LoadBytes([]byte(doc))
		require.NoError(t, err)
		assert.Equal(t, 8443, inv.Manager.Port)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadBytes([]byte("manager: [unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal yaml")
	})

	t.Run("validation failure surfaces", func(t *testing.T) {
		_, err := LoadBytes([]byte("manager:\n  username: admin\n  password: x\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "url is required")
	})
}

func TestInventoryRoundTrip(t *testing.T) {
	inv, err := LoadBytes([]byte(sampleInventory))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "inventory.yaml")
	require.NoError(t, inv.SaveFile(path))

	reloaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, inv, reloaded)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read inventory file")
}

func TestSaveFilePermissions(t *testing.T) {
	inv, err := LoadBytes([]byte(sampleInventory))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "inventory.yaml")
	require.NoError(t, inv.SaveFile(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestInventoryCounts(t *testing.T) {
	inv := &Inventory{
		Controllers: []ControlComponent{{IP: "a"}, {IP: "b"}},
		Validators:  []ControlComponent{{IP: "c"}},
		Edges:       []Edge{{Serial: "x"}},
	}
	assert.Equal(t, 3, inv.ControlComponents())
	assert.Equal(t, 4, inv.TotalDevices())
}
