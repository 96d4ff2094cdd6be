package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/torbbang/sdwan-orbit/internal/config"
	"github.com/torbbang/sdwan-orbit/internal/orchestration"
)

// Orchestrator interface for testing - matches orchestration.Orbit.
type Orchestrator interface {
	Onboard(ctx context.Context, opts orchestration.Options) (*orchestration.Result, error)
}

// newOrchestrator creates the onboarding orchestrator - replaceable in tests.
var newOrchestrator = func(inv *config.Inventory, logger logr.Logger) Orchestrator {
	return orchestration.New(inv, logger)
}

// OnboardRequest carries the onboard command inputs.
type OnboardRequest struct {
	ConfigPath   string
	SkipExisting bool
	Wait         bool
	Timeout      time.Duration
	Verbose      bool
}

// Onboard runs the full onboarding sequence from an inventory file.
//
// Control components come up first, then edges, with readiness barriers
// between the phases unless waiting is disabled.
func Onboard(ctx context.Context, req OnboardRequest) error {
	inv, err := loadInventory(req.ConfigPath)
	if err != nil {
		return err
	}

	logger := newLogger(req.Verbose)
	orbit := newOrchestrator(inv, logger)

	fmt.Println(styled(headerStyle, fmt.Sprintf("Onboarding against %s", inv.Manager.URL)))
	fmt.Println(styled(dimStyle, fmt.Sprintf("  %d control components, %d edges",
		inv.ControlComponents(), len(inv.Edges))))

	result, err := orbit.Onboard(ctx, orchestration.Options{
		SkipExisting: req.SkipExisting,
		WaitForReady: req.Wait,
		Timeout:      req.Timeout,
	})
	if err != nil {
		fmt.Println(styled(failedStyle, "Onboarding failed"))
		return err
	}

	printOnboardSuccess(result)
	return nil
}

func printOnboardSuccess(result *orchestration.Result) {
	fmt.Println()
	fmt.Println(styled(successStyle, "Onboarding complete"))
	fmt.Printf("  Controllers: %d\n", len(result.Controllers))
	fmt.Printf("  Validators:  %d\n", len(result.Validators))
	fmt.Printf("  Edges:       %d\n", len(result.Edges))
	for _, uuid := range result.Edges {
		fmt.Printf("    %s\n", styled(dimStyle, uuid))
	}
}
