package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"live-indices/src/config"
	"live-indices/src/logger"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "../../configs/default.yaml", "path to config file")
	flag.Parse()

	// 1. Load config from YAML file (+ .env and environment overrides)
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(cfg.LogLevel, cfg.Name)

	// 2. Setup Components
	p, err := buildPipeline(cfg, appLogger)
	if err != nil {
		appLogger.Critical("Failed to build pipeline: %v", err)
	}

	// 3. Start Servers
	exchangers, publisher := startServers(cfg, p, appLogger)

	// 4. Main Loop (Push Model)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		p.controller.Run(ctx, p.updates)
		close(done)
	}()

	if cfg.Polling.StartOnBoot {
		p.controller.Start(ctx)
	} else {
		// Polling follows page visibility; a visible client starts it
		appLogger.Info("Waiting for a visible client before polling")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	// 5. Shutdown
	appLogger.Info("Shutting down...")
	for _, ex := range exchangers {
		if err := ex.Stop(); err != nil {
			appLogger.Warning("Stop failed: %v", err)
		}
	}

	p.controller.Stop()
	p.poller.Wait()
	cancel()
	<-done

	if publisher != nil {
		publisher.Close()
	}
}
