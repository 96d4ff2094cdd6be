package onboarding

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
)

// progressInterval is how often slow polls report their pending count.
const progressInterval = 30 * time.Second

// ReadyFunc evaluates a remote-observable readiness predicate for one
// device identifier.
type ReadyFunc func(ctx context.Context, id string) (bool, error)

// Waiter is a timeout-bounded polling loop over a set of identifiers. The
// predicate is swapped per use (device readiness, certificate install); the
// loop mechanics are not.
type Waiter struct {
	Timeout  time.Duration
	Interval time.Duration

	log logr.Logger
}

// NewWaiter builds a waiter with the given bounds.
func NewWaiter(log logr.Logger, timeout, interval time.Duration) *Waiter {
	return &Waiter{Timeout: timeout, Interval: interval, log: log}
}

// WaitUntilReady polls ready for every identifier until all succeed or the
// timeout elapses. An empty id set succeeds immediately without a single
// remote call. Predicate errors are logged and treated as not-yet-ready;
// only the timeout (or context cancellation) ends the loop with an error.
func (w *Waiter) WaitUntilReady(ctx context.Context, ids []string, ready ReadyFunc) error {
	if len(ids) == 0 {
		w.log.V(1).Info("no devices to wait for")
		return nil
	}

	w.log.Info("waiting for devices", "count", len(ids), "timeout", w.Timeout)

	start := time.Now()
	done := make(map[string]bool, len(ids))
	var lastProgress time.Duration

	for {
		for _, id := range ids {
			if done[id] {
				continue
			}

			ok, err := ready(ctx, id)
			if err != nil {
				w.log.V(1).Info("readiness check failed", "device", id, "error", err.Error())
				continue
			}
			if ok {
				done[id] = true
				w.log.Info("device ready", "device", id, "ready", len(done), "total", len(ids))
			}
		}

		if len(done) == len(ids) {
			w.log.Info("all devices ready")
			return nil
		}

		elapsed := time.Since(start)
		if elapsed > w.Timeout {
			return &TimeoutError{Pending: len(ids) - len(done)}
		}

		if elapsed-lastProgress >= progressInterval {
			lastProgress = elapsed
			w.log.Info("still waiting", "pending", len(ids)-len(done), "elapsed", elapsed.Round(time.Second))
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait aborted: %w", ctx.Err())
		case <-time.After(w.Interval):
		}
	}
}
