package interfaces

import "live-indices/src/models"

// -----------------------------------------------------------------------------
// IRecordPublisher ships reconciled records to a message bus.
// -----------------------------------------------------------------------------

type IRecordPublisher interface {
	PublishDisplay(rec models.MDisplayRecord) error
	PublishCard(rec models.MCardRecord) error
	Close()
}
