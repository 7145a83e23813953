package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"live-indices/src/helpers"
	"live-indices/src/interfaces"
	"live-indices/src/logger"
	"live-indices/src/models"
)

// NSEChartSource reads the full trading day series of one entity.
type NSEChartSource struct {
	Config  *models.MConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
	prefix  string
	now     func() time.Time
}

// -----------------------------------------------------------------------------

func NewNSEChartSource(cfg *models.MConfig, netMgr interfaces.INetworkManager) *NSEChartSource {
	return &NSEChartSource{
		Config:  cfg,
		Network: netMgr,
		Logger:  logger.NewLogger(cfg.LogLevel, "NSEChartSource"),
		prefix:  endpoint(cfg, cfg.Backend.NSEChartPath),
		now:     time.Now,
	}
}

func (s *NSEChartSource) Name() string             { return "nse-chart" }
func (s *NSEChartSource) Kind() models.MSourceKind { return models.SourceChart }

// -----------------------------------------------------------------------------

// Fetch polls /api/nse-chart/{entity}.
func (s *NSEChartSource) Fetch(ctx context.Context, entity string) (*models.MSourceUpdate, error) {
	if entity == "" {
		return nil, helpers.NewValidationError(s.Name()+": entity required", helpers.ErrUnknownEntity)
	}
	if _, ok := tracked(s.Config)[entity]; !ok {
		return nil, helpers.NewValidationError(fmt.Sprintf("%s: %s", s.Name(), entity), helpers.ErrUnknownEntity)
	}

	prefix := s.prefix
	if prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}
	body, err := s.Network.Get(ctx, prefix+url.PathEscape(entity), nil)
	if err != nil {
		return nil, err
	}

	var resp models.MNSEChartResponse
	if err := decode(s.Name(), body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		var cause error
		if resp.Error != "" {
			cause = errors.New(resp.Error)
		}
		return nil, helpers.NewPayloadError(fmt.Sprintf("%s/%s: success=false", s.Name(), entity), cause)
	}

	now := s.now()
	chart := &models.MChartSnapshot{
		Entity:     entity,
		Series:     make([]models.MChartPoint, 0, len(resp.Series)),
		Open:       clonePtr(resp.Open),
		High:       clonePtr(resp.High),
		Low:        clonePtr(resp.Low),
		Close:      clonePtr(resp.Close),
		Percent:    clonePtr(resp.Percent),
		CapturedAt: now,
	}

	for _, pair := range resp.Series {
		if len(pair) < 2 || !finite(pair[0]) || !finite(pair[1]) || pair[0] <= 0 {
			continue
		}
		chart.Series = append(chart.Series, models.MChartPoint{EpochMillis: int64(pair[0]), Price: pair[1]})
	}

	return &models.MSourceUpdate{Kind: models.SourceChart, Entity: entity, Chart: chart, ReceivedAt: now}, nil
}
