package main

import (
	"live-indices/src/config"
	"live-indices/src/grpc_control"
	"live-indices/src/interfaces"
	"live-indices/src/logger"
	"live-indices/src/publishers"
	"live-indices/src/serializers"
	"live-indices/src/server"
)

// -----------------------------------------------------------------------------

// startServers launches the HTTP/websocket server, the optional gRPC health
// server and the optional NATS publisher. It returns the started exchangers
// and publisher so main can stop them.
func startServers(cfg *config.Config, p *pipeline, appLogger *logger.Logger) ([]interfaces.IDataExchanger, interfaces.IRecordPublisher) {
	var exchangers []interfaces.IDataExchanger

	// HTTP + WebSocket
	srv := server.NewFastAPIServer(cfg.MConfig, p.controller, p.metrics, p.registry, appLogger.Named("Server"))
	p.controller.AddExchanger(srv)
	exchangers = append(exchangers, srv)
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
		}
	}()

	// gRPC health
	if cfg.GrpcPort != 0 {
		control := grpc_control.NewControlService(cfg.MConfig, appLogger.Named("ControlService"))
		p.controller.AddExchanger(control)
		exchangers = append(exchangers, control)
		go func() {
			if err := control.Start(); err != nil {
				appLogger.Error("gRPC server failed: %v", err)
			}
		}()
	}

	// NATS
	if !cfg.NATS.Enabled {
		return exchangers, nil
	}
	publisher := publishers.NewNATSPublisher(&cfg.NATS, appLogger.Named("NATS"), serializers.NewJSONSerializer())
	if err := publisher.Connect(); err != nil {
		appLogger.Error("NATS unavailable, records will not be published: %v", err)
		publisher.Close()
		return exchangers, nil
	}
	p.controller.SetPublisher(publisher)

	return exchangers, publisher
}
