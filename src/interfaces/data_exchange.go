package interfaces

import "live-indices/src/models"

// -----------------------------------------------------------------------------
// IDataExchanger defining the interface for sharing the view with external systems (Server/Push).
// -----------------------------------------------------------------------------

type IDataExchanger interface {
	// -----------------------------------------------------------------------------
	// Broadcast pushes a view document to external listeners.
	// Implementations must not retain the pointer past the call unless they own it.
	Broadcast(view *models.MViewState)

	// -----------------------------------------------------------------------------
	// Start the exchanger
	Start() error

	// -----------------------------------------------------------------------------
	// Stop the exchanger gracefully
	Stop() error
}
