package interfaces

import "context"

// -----------------------------------------------------------------------------
// IPoller is the lifecycle surface of the source poller.
// -----------------------------------------------------------------------------

type IPoller interface {
	// Start launches the timers; false when already running
	Start(ctx context.Context) bool

	// Stop cancels timers and in-flight fetches; false when already stopped
	Stop() bool

	Running() bool

	// Epoch identifies the current run; completions from older runs are stale
	Epoch() uint64

	// RefreshChart fetches one entity's full-day series right away
	RefreshChart(entity string) bool
}
