package datasource

import (
	"context"
	"time"

	"live-indices/src/helpers"
	"live-indices/src/interfaces"
	"live-indices/src/logger"
	"live-indices/src/models"
)

// FIIDIISource reads the day's institutional net flows.
type FIIDIISource struct {
	Config  *models.MConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
	url     string
	now     func() time.Time
}

// -----------------------------------------------------------------------------

func NewFIIDIISource(cfg *models.MConfig, netMgr interfaces.INetworkManager) *FIIDIISource {
	return &FIIDIISource{
		Config:  cfg,
		Network: netMgr,
		Logger:  logger.NewLogger(cfg.LogLevel, "FIIDIISource"),
		url:     endpoint(cfg, cfg.Backend.FIIDIIPath),
		now:     time.Now,
	}
}

func (s *FIIDIISource) Name() string             { return "live-fii-dii" }
func (s *FIIDIISource) Kind() models.MSourceKind { return models.SourceFlows }

// -----------------------------------------------------------------------------

// Fetch polls /api/live-fii-dii. The entity argument is ignored.
func (s *FIIDIISource) Fetch(ctx context.Context, _ string) (*models.MSourceUpdate, error) {
	body, err := s.Network.Get(ctx, s.url, nil)
	if err != nil {
		return nil, err
	}

	var resp models.MFIIDIIResponse
	if err := decode(s.Name(), body, &resp); err != nil {
		return nil, err
	}
	if resp.Success != nil && !*resp.Success {
		return nil, helpers.NewPayloadError(s.Name()+": "+resp.Message, nil)
	}
	if resp.FIINet == nil || resp.DIINet == nil || !finite(*resp.FIINet) || !finite(*resp.DIINet) {
		return nil, helpers.NewPayloadError(s.Name()+": missing net flows", nil)
	}

	now := s.now()
	flows := &models.MFlowSnapshot{
		FIINet:     *resp.FIINet,
		DIINet:     *resp.DIINet,
		TotalNet:   *resp.FIINet + *resp.DIINet,
		CapturedAt: now,
	}
	if resp.TotalNet != nil && finite(*resp.TotalNet) {
		flows.TotalNet = *resp.TotalNet
	}

	return &models.MSourceUpdate{Kind: models.SourceFlows, Flows: flows, ReceivedAt: now}, nil
}
