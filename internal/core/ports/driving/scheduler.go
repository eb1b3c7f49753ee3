package driving

import "context"

// Scheduler runs recurring background work, such as periodic source
// re-ingestion, alongside a long-running server.
type Scheduler interface {
	// Start runs the schedule loop until the context is cancelled or
	// Stop is called. When the scheduler is disabled by configuration
	// it returns immediately.
	Start(ctx context.Context) error

	// Stop ends the loop and waits for in-flight tasks to finish.
	Stop() error
}
