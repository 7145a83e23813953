package datasource

import (
	"context"
	"time"

	"live-indices/src/helpers"
	"live-indices/src/interfaces"
	"live-indices/src/logger"
	"live-indices/src/models"
)

// NSEIndicesSource reads the authoritative quotes (change vs previous close, day OHLC).
type NSEIndicesSource struct {
	Config  *models.MConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
	url     string
	now     func() time.Time
}

// -----------------------------------------------------------------------------

func NewNSEIndicesSource(cfg *models.MConfig, netMgr interfaces.INetworkManager) *NSEIndicesSource {
	return &NSEIndicesSource{
		Config:  cfg,
		Network: netMgr,
		Logger:  logger.NewLogger(cfg.LogLevel, "NSEIndicesSource"),
		url:     endpoint(cfg, cfg.Backend.NSEIndicesPath),
		now:     time.Now,
	}
}

func (s *NSEIndicesSource) Name() string             { return "nse-indices" }
func (s *NSEIndicesSource) Kind() models.MSourceKind { return models.SourceQuotes }

// -----------------------------------------------------------------------------

// Fetch polls /api/nse-indices for every entity.
func (s *NSEIndicesSource) Fetch(ctx context.Context, _ string) (*models.MSourceUpdate, error) {
	body, err := s.Network.Get(ctx, s.url, nil)
	if err != nil {
		return nil, err
	}

	var resp models.MNSEIndicesResponse
	if err := decode(s.Name(), body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, helpers.NewPayloadError(s.Name()+": success=false", nil)
	}
	if len(resp.Indices) == 0 {
		return nil, helpers.NewPayloadError(s.Name()+": missing indices", nil)
	}

	now := s.now()
	keep := tracked(s.Config)
	quotes := make(map[string]models.MIndexQuote, len(resp.Indices))

	for key, entry := range resp.Indices {
		if _, ok := keep[key]; !ok {
			continue
		}
		if entry.Value == nil || !finite(*entry.Value) {
			s.Logger.Debug("Skipping %s: no value", key)
			continue
		}
		quotes[key] = models.MIndexQuote{
			Entity:        key,
			Value:         *entry.Value,
			Change:        value(entry.Change),
			PercentChange: value(entry.PercentChange),
			Open:          value(entry.Open),
			High:          value(entry.High),
			Low:           value(entry.Low),
			PreviousClose: value(entry.PreviousClose),
			CapturedAt:    now,
		}
	}

	return &models.MSourceUpdate{Kind: models.SourceQuotes, Quotes: quotes, ReceivedAt: now}, nil
}
