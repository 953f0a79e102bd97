// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running and stopping multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
// Run starts the worker's execution; implementations are expected to spawn
// their goroutines internally and return. Stop blocks until the worker's
// goroutines have fully exited and is safe to call on an idle worker.
type Worker interface {
	Run()
	Stop()
}

// LeaseRenewer extends the driver's ownership lease while sync sessions
// are active.
type LeaseRenewer interface {
	RenewLeases(ctx context.Context) error
}

// StallDetector fails registry sessions stuck past their phase budget with
// no driver updating them.
type StallDetector interface {
	FailStalled(ctx context.Context) error
}
