package interfaces

import "live-indices/src/models"

// -----------------------------------------------------------------------------
// IDashboard is what the outer surfaces (REST, websocket, gRPC) drive.
// -----------------------------------------------------------------------------

type IDashboard interface {
	// Select changes the selected entity and refreshes its chart
	Select(entity string) error

	// SetVisible starts (true) or stops (false) polling
	SetVisible(visible bool)

	// View returns a private copy of the current view document
	View() *models.MViewState

	Entities() []models.MEntity

	Selected() string

	Running() bool

	PipelineMetrics() models.MPipelineMetrics
}
