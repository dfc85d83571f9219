package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/MineBot/bridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/MineBot/bridge/internal/infrastructure/server"
)

func main() {
	// Parse flags
	configFile := flag.String("config", "", "Config file (yaml, json or toml)")
	port := flag.String("port", "", "Server port")
	bridgeURL := flag.String("bridge", "", "Inference service base URL")
	strict := flag.Bool("strict", false, "Reject a whole sequence when any command is rejected")
	dev := flag.Bool("dev", false, "Development mode (console logs, debug level)")
	flag.Parse()

	if *configFile != "" {
		if err := os.Setenv(config.FileEnv, *configFile); err != nil {
			log.Fatalf("Failed to set config file: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override env and file
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *bridgeURL != "" {
		cfg.Bridge.URL = *bridgeURL
	}
	if *strict {
		cfg.Dispatch.StrictSequences = true
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	log.Println("MineBot bridge starting")

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		log.Println("Shutting down gracefully...")
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		_ = srv.Close()
		log.Fatalf("Server error: %v", err)
	}
}
