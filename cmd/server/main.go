package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/termos-project/termos/internal/config"
	"github.com/termos-project/termos/internal/server"
)

func main() {
	port := flag.String("port", "", "Server port (overrides PORT)")
	persist := flag.Bool("persist", false, "Enable checkpoint persistence (overrides PERSIST_ENABLED)")
	dbPath := flag.String("db", "", "Checkpoint database path (overrides PERSIST_PATH)")
	dev := flag.Bool("dev", false, "Development logging")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *persist {
		cfg.Persist.Enabled = true
	}
	if *dbPath != "" {
		cfg.Persist.Path = *dbPath
	}
	if *dev {
		cfg.Logging.Development = true
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

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
		log.Println("shutting down")
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}
