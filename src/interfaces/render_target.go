package interfaces

import "live-indices/src/models"

// -----------------------------------------------------------------------------
// IRenderTarget resolves the widgets a page carries. A nil result means the
// widget is not on the page and the update is skipped.
// -----------------------------------------------------------------------------

type IRenderTarget interface {
	Card(entity string) *models.MCardView
	Detail() *models.MDetailView
	Chart(id string) *models.MChartView
	Flows() *models.MFlowView
}
