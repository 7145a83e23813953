package render

import (
	"live-indices/src/models"
)

// Document is the server-held page: the widgets configured for it and their
// current content. It implements interfaces.IRenderTarget.
type Document struct {
	view    *models.MViewState
	chartID string
}

// -----------------------------------------------------------------------------

// NewDocument lays out a page with the configured widgets.
func NewDocument(page models.MPageConfig, entities []models.MEntity) *Document {
	view := &models.MViewState{Type: "UPDATE"}

	if page.Cards {
		view.Cards = make(map[string]*models.MCardView, len(entities))
		for _, e := range entities {
			view.Cards[e.Key] = &models.MCardView{Label: e.Label}
		}
	}
	if page.Detail {
		view.Detail = &models.MDetailView{}
	}
	if page.ChartID != "" {
		view.Chart = &models.MChartView{ID: page.ChartID}
	}
	if page.Flows {
		view.Flows = &models.MFlowView{}
	}

	return &Document{view: view, chartID: page.ChartID}
}

// -----------------------------------------------------------------------------

func (d *Document) Card(entity string) *models.MCardView {
	if d.view.Cards == nil {
		return nil
	}
	return d.view.Cards[entity]
}

func (d *Document) Detail() *models.MDetailView {
	return d.view.Detail
}

func (d *Document) Chart(id string) *models.MChartView {
	if d.view.Chart == nil || d.view.Chart.ID != id {
		return nil
	}
	return d.view.Chart
}

func (d *Document) Flows() *models.MFlowView {
	return d.view.Flows
}

// ChartID is the identifier of the page's chart, empty when there is none.
func (d *Document) ChartID() string {
	return d.chartID
}

// View returns the live document. Callers hand out View().Clone() only.
func (d *Document) View() *models.MViewState {
	return d.view
}
