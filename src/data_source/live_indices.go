package datasource

import (
	"context"
	"errors"
	"time"

	"live-indices/src/helpers"
	"live-indices/src/interfaces"
	"live-indices/src/logger"
	"live-indices/src/models"
)

// LiveIndicesSource reads the fast, session-scoped feed for every entity at once.
type LiveIndicesSource struct {
	Config  *models.MConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
	url     string
	now     func() time.Time
}

// -----------------------------------------------------------------------------

func NewLiveIndicesSource(cfg *models.MConfig, netMgr interfaces.INetworkManager) *LiveIndicesSource {
	return &LiveIndicesSource{
		Config:  cfg,
		Network: netMgr,
		Logger:  logger.NewLogger(cfg.LogLevel, "LiveIndicesSource"),
		url:     endpoint(cfg, cfg.Backend.LiveIndicesPath),
		now:     time.Now,
	}
}

func (s *LiveIndicesSource) Name() string             { return "live-indices" }
func (s *LiveIndicesSource) Kind() models.MSourceKind { return models.SourceFast }

// -----------------------------------------------------------------------------

// Fetch polls /api/live-indices. entity is ignored; the feed covers all entities.
func (s *LiveIndicesSource) Fetch(ctx context.Context, _ string) (*models.MSourceUpdate, error) {
	body, err := s.Network.Get(ctx, s.url, nil)
	if err != nil {
		return nil, err
	}

	var resp models.MLiveIndicesResponse
	if err := decode(s.Name(), body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		var cause error
		if resp.Message != "" {
			cause = errors.New(resp.Message)
		}
		return nil, helpers.NewPayloadError(s.Name()+": success=false", cause)
	}
	if resp.Indices == nil {
		return nil, helpers.NewPayloadError(s.Name()+": missing indices", nil)
	}

	now := s.now()
	keep := tracked(s.Config)
	snaps := make(map[string]models.MFastSnapshot, len(resp.Indices))

	for key, entry := range resp.Indices {
		if _, ok := keep[key]; !ok {
			continue
		}
		if entry.Value == nil || !finite(*entry.Value) {
			s.Logger.Debug("Skipping %s: no value", key)
			continue
		}
		snaps[key] = models.MFastSnapshot{
			Entity:        key,
			Value:         *entry.Value,
			Change:        value(entry.Change),
			PercentChange: value(entry.PercentChange),
			Open:          clonePtr(entry.Open),
			High:          clonePtr(entry.High),
			Low:           clonePtr(entry.Low),
			History:       entry.History,
			CapturedAt:    now,
		}
	}

	return &models.MSourceUpdate{Kind: models.SourceFast, Fast: snaps, ReceivedAt: now}, nil
}
