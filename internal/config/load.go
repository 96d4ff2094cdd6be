package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultInventoryFilename is the inventory file looked up when no path is
// given on the command line.
const DefaultInventoryFilename = "inventory.yaml"

// LoadFile reads, decodes, defaults and validates an inventory file.
func LoadFile(path string) (*Inventory, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory file: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes decodes, defaults and validates an inventory document.
func LoadBytes(data []byte) (*Inventory, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var inv Inventory
	if err := mapstructure.Decode(raw, &inv); err != nil {
		return nil, fmt.Errorf("failed to decode inventory: %w", err)
	}

	applyDefaults(&inv)

	if err := inv.Validate(); err != nil {
		return nil, fmt.Errorf("inventory validation failed: %w", err)
	}

	return &inv, nil
}

// SaveFile writes the inventory back to disk in its canonical YAML shape.
// LoadFile(SaveFile(inv)) reproduces an equal inventory.
func (inv *Inventory) SaveFile(path string) error {
	data, err := yaml.Marshal(inv)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write inventory file: %w", err)
	}
	return nil
}

func applyDefaults(inv *Inventory) {
	if inv.Manager.Port == 0 {
		inv.Manager.Port = 443
	}
}
