package handlers

import (
	"fmt"
	"os"

	"github.com/torbbang/sdwan-orbit/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the inventory wizard.
	runWizard = config.RunWizard

	// saveInventory writes the inventory to a file.
	saveInventory = func(inv *config.Inventory, path string) error {
		return inv.SaveFile(path)
	}
)

// Init runs the inventory wizard and writes the result to a file.
func Init(outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	inv, err := runWizard()
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	if err := saveInventory(inv, outputPath); err != nil {
		return fmt.Errorf("failed to write inventory: %w", err)
	}

	printInitSuccess(outputPath, inv)
	return nil
}

func printWelcome() {
	fmt.Println()
	fmt.Println("orbit - SD-WAN device onboarding")
	fmt.Println("================================")
	fmt.Println()
	fmt.Println("This wizard creates an inventory file with the Manager connection")
	fmt.Println("settings and optionally a first edge device.")
	fmt.Println()
}

func printInitSuccess(outputPath string, inv *config.Inventory) {
	fmt.Println()
	fmt.Println("Inventory saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Inventory Summary")
	fmt.Println("-----------------")
	fmt.Printf("  Manager:     %s\n", inv.Manager.URL)
	fmt.Printf("  Controllers: %d\n", len(inv.Controllers))
	fmt.Printf("  Validators:  %d\n", len(inv.Validators))
	fmt.Printf("  Edges:       %d\n", len(inv.Edges))
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Printf("  1. Add controllers, validators and edges to %s\n", outputPath)
	fmt.Println()
	fmt.Println("  2. Onboard the fabric:")
	fmt.Println("     orbit onboard")
	fmt.Println()
}
