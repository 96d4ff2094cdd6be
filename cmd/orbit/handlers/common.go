// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/mattn/go-isatty"

	"github.com/torbbang/sdwan-orbit/internal/config"
	"github.com/torbbang/sdwan-orbit/internal/manager"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadInventoryFile loads an inventory from a file.
	loadInventoryFile = config.LoadFile

	// connectManager establishes a Manager session and returns the API
	// client plus a release function.
	connectManager = func(ctx context.Context, ep manager.Endpoint, logger logr.Logger) (manager.Client, func(), error) {
		session, err := manager.Connect(ctx, ep, logger)
		if err != nil {
			return nil, nil, err
		}
		return manager.NewClient(session), session.Close, nil
	}
)

// newLogger builds the CLI logger. Verbose enables level-1 messages.
func newLogger(verbose bool) logr.Logger {
	verbosity := 0
	if verbose {
		verbosity = 1
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			log.Printf("%s: %s", prefix, args)
			return
		}
		log.Println(args)
	}, funcr.Options{Verbosity: verbosity})
}

// loadInventory resolves the inventory path and loads it. An empty path
// falls back to inventory.yaml in the current directory.
func loadInventory(configPath string) (*config.Inventory, error) {
	if configPath == "" {
		configPath = config.DefaultInventoryFilename
	}
	inv, err := loadInventoryFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w\nRun 'orbit init' to create one", err)
	}
	return inv, nil
}

func managerEndpoint(inv *config.Inventory) manager.Endpoint {
	m := inv.Manager
	return manager.Endpoint{
		URL:       m.URL,
		Username:  m.Username,
		Password:  m.Password,
		Port:      m.Port,
		VerifyTLS: m.Verify,
	}
}

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
