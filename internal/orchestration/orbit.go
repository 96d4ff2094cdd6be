// Package orchestration composes the session, onboarder and pollers into
// the documented three-phase onboarding sequence.
package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/torbbang/sdwan-orbit/internal/config"
	"github.com/torbbang/sdwan-orbit/internal/manager"
	"github.com/torbbang/sdwan-orbit/internal/onboarding"
)

// DefaultWaitTimeout bounds the readiness waits between phases.
const DefaultWaitTimeout = 10 * time.Minute

// Options configures a single orchestration run.
type Options struct {
	// SkipExisting reuses devices that are already onboarded instead of
	// re-registering them.
	SkipExisting bool

	// WaitForReady blocks on control plane readiness before edges are
	// onboarded, and on edge readiness before returning.
	WaitForReady bool

	// Timeout bounds each readiness wait. Zero means DefaultWaitTimeout.
	Timeout time.Duration
}

// Result holds the device identifiers produced by one orchestration run,
// one ordered sequence per device class, preserving inventory order.
type Result struct {
	Controllers []string
	Validators  []string
	Edges       []string
}

// OrchestrationError wraps any phase failure surfaced by Onboard. Partial
// results gathered before the failing phase are not returned.
type OrchestrationError struct {
	Err error
}

func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("onboarding failed: %v", e.Err)
}

func (e *OrchestrationError) Unwrap() error { return e.Err }

// Orbit is the orchestration facade over one management plane.
type Orbit struct {
	inventory *config.Inventory
	log       logr.Logger

	// connect and newOnboarder are replaceable seams for tests.
	connect      func(ctx context.Context) (manager.Client, func(), error)
	newOnboarder func(api manager.Client) *onboarding.Onboarder
}

// New builds an Orbit for the given inventory.
func New(inventory *config.Inventory, log logr.Logger) *Orbit {
	o := &Orbit{inventory: inventory, log: log}
	o.connect = o.connectSession
	o.newOnboarder = func(api manager.Client) *onboarding.Onboarder {
		return onboarding.New(api, log)
	}
	return o
}

// NewWithClient builds an Orbit bound to an existing client, bypassing
// connection establishment. Used by tests and by callers that manage the
// session themselves.
func NewWithClient(inventory *config.Inventory, api manager.Client, log logr.Logger) *Orbit {
	o := New(inventory, log)
	o.connect = func(context.Context) (manager.Client, func(), error) {
		return api, func() {}, nil
	}
	return o
}

// Endpoint returns the management plane endpoint derived from the
// inventory.
func (o *Orbit) Endpoint() manager.Endpoint {
	m := o.inventory.Manager
	return manager.Endpoint{
		URL:       m.URL,
		Username:  m.Username,
		Password:  m.Password,
		Port:      m.Port,
		VerifyTLS: m.Verify,
	}
}

func (o *Orbit) connectSession(ctx context.Context) (manager.Client, func(), error) {
	session, err := manager.Connect(ctx, o.Endpoint(), o.log)
	if err != nil {
		return nil, nil, err
	}
	return manager.NewClient(session), session.Close, nil
}

// Onboard runs the three-phase sequence: controllers, validators, control
// plane wait, edges, edge wait. The session is released on every exit
// path. Any phase failure is wrapped into a single *OrchestrationError and
// no partial result is returned.
func (o *Orbit) Onboard(ctx context.Context, opts Options) (*Result, error) {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultWaitTimeout
	}

	o.log.Info("starting onboarding",
		"controlComponents", o.inventory.ControlComponents(), "edges", len(o.inventory.Edges))

	api, release, err := o.connect(ctx)
	if err != nil {
		return nil, &OrchestrationError{Err: err}
	}
	defer release()

	onboarder := o.newOnboarder(api)
	result := &Result{}

	if err := o.onboardControlPlane(ctx, onboarder, result, opts); err != nil {
		return nil, &OrchestrationError{Err: err}
	}
	if err := o.onboardEdges(ctx, onboarder, result, opts); err != nil {
		return nil, &OrchestrationError{Err: err}
	}

	o.log.Info("onboarding complete",
		"controllers", len(result.Controllers), "validators", len(result.Validators), "edges", len(result.Edges))
	return result, nil
}

func (o *Orbit) onboardControlPlane(ctx context.Context, onboarder *onboarding.Onboarder, result *Result, opts Options) error {
	var err error

	if len(o.inventory.Controllers) > 0 {
		result.Controllers, err = onboarder.OnboardControllers(ctx, o.inventory.Controllers, opts.SkipExisting)
		if err != nil {
			return err
		}
	}
	if len(o.inventory.Validators) > 0 {
		result.Validators, err = onboarder.OnboardValidators(ctx, o.inventory.Validators, opts.SkipExisting)
		if err != nil {
			return err
		}
	}

	// Hard barrier: edges must not start until the control plane is up.
	if opts.WaitForReady {
		controlUUIDs := append(append([]string{}, result.Controllers...), result.Validators...)
		if len(controlUUIDs) > 0 {
			o.log.Info("waiting for control plane readiness")
			if err := onboarder.WaitForDevices(ctx, controlUUIDs, opts.Timeout); err != nil {
				return err
			}
		}
	}
	return nil
}

func (o *Orbit) onboardEdges(ctx context.Context, onboarder *onboarding.Onboarder, result *Result, opts Options) error {
	if len(o.inventory.Edges) == 0 {
		return nil
	}

	var err error
	result.Edges, err = onboarder.OnboardEdges(ctx, o.inventory.Edges, opts.SkipExisting)
	if err != nil {
		return err
	}

	if opts.WaitForReady && len(result.Edges) > 0 {
		o.log.Info("waiting for edge readiness")
		if err := onboarder.WaitForDevices(ctx, result.Edges, opts.Timeout); err != nil {
			return err
		}
	}
	return nil
}
