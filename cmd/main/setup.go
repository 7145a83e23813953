package main

import (
	"live-indices/src/config"
	"live-indices/src/dashboard"
	datasource "live-indices/src/data_source"
	"live-indices/src/logger"
	"live-indices/src/models"
	"live-indices/src/network"
	"live-indices/src/observability"
	"live-indices/src/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// pipeline holds the wired polling and reconciliation components
type pipeline struct {
	registry   *prometheus.Registry
	metrics    *observability.Metrics
	controller *dashboard.Controller
	poller     *datasource.Poller
	updates    chan *models.MSourceUpdate
}

// -----------------------------------------------------------------------------

// buildPipeline wires network -> sources -> poller -> controller.
func buildPipeline(cfg *config.Config, appLogger *logger.Logger) (*pipeline, error) {
	// Metrics registry, served on /metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(cfg.Metrics.Namespace, registry)
	}

	// Feeds
	networkManager := network.NewAsyncNetworkManager(cfg.MConfig, appLogger.Named("Network"))
	sources := datasource.Sources{
		Fast:   datasource.NewLiveIndicesSource(cfg.MConfig, networkManager),
		Quotes: datasource.NewNSEIndicesSource(cfg.MConfig, networkManager),
		Chart:  datasource.NewNSEChartSource(cfg.MConfig, networkManager),
		Flows:  datasource.NewFIIDIISource(cfg.MConfig, networkManager),
	}

	// Controller
	controller, err := dashboard.NewController(cfg, appLogger.Named("Controller"))
	if err != nil {
		return nil, err
	}
	controller.Metrics = metrics
	controller.Scheduler = utils.NewMarketScheduler(cfg.Session.MIC, appLogger.Named("Scheduler"))

	// Poller reads the selection at fire time
	updates := make(chan *models.MSourceUpdate, 64)
	poller := datasource.NewPoller(sources, datasource.Intervals{
		Fast:   cfg.FastInterval(),
		Medium: cfg.MediumInterval(),
		Slow:   cfg.SlowInterval(),
	}, controller.Selected, updates, appLogger.Named("Poller"))
	poller.Metrics = metrics
	controller.AttachPoller(poller)

	return &pipeline{
		registry:   registry,
		metrics:    metrics,
		controller: controller,
		poller:     poller,
		updates:    updates,
	}, nil
}
