package main

import (
	"flag"
	"log"

	"github.com/syedmojiz72-lab/agentexchanger/config"
	"github.com/syedmojiz72-lab/agentexchanger/server"
	"github.com/syedmojiz72-lab/agentexchanger/session"
	"github.com/syedmojiz72-lab/agentexchanger/store"
)

func main() {
	// Parse command line flags
	configFile := flag.String("config", "", "Path to YAML config file (optional, overrides environment)")
	dbPath := flag.String("db", "", "Path to SQLite database file (default: ./data/marketplace.db or AGENTX_DB_PATH)")
	flag.Parse()

	// Load configuration
	var cfg *config.Config
	var err error
	if *configFile != "" {
		cfg, err = config.LoadFile(*configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override database path if provided via flag
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	log.Printf("=== AgentExchanger Server ===")
	log.Printf("Database Path: %s", cfg.Database.Path)
	log.Printf("Stats Enabled: %v", cfg.Features.StatsEnabled)

	// Open the marketplace store (schema is created if absent)
	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	// Sessions live in process memory only; a restart forces re-login
	sessions := session.NewMemoryDirectory()

	srv := server.NewServer(cfg, st, sessions)
	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start HTTP server: %v", err)
	}
}
