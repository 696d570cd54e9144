package main

import (
	"context"
	"log"
	"net/http"

	"reliefline/internal/api"
	"reliefline/internal/config"
	"reliefline/internal/registry"
	"reliefline/internal/session"
	"reliefline/internal/store"
	"reliefline/internal/ws"
)

func main() {
	log.Println("MAIN: Starting relief-line support chat server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("MAIN_FATAL: Loading configuration: %v", err)
	}
	log.Printf("MAIN_CONFIG: Listening on '%s' (seed demo data: %t).", cfg.Addr, cfg.SeedDemoData)

	// The store is the single owner of all records; everything else holds
	// a handle to it, never its own copy of state.
	memStore := store.NewMemStore()
	if cfg.SeedDemoData {
		if err := store.SeedDemoRelievers(context.Background(), memStore); err != nil {
			log.Fatalf("MAIN_FATAL: Seeding demo relievers: %v", err)
		}
	}

	connRegistry := registry.New(memStore)
	sessions := session.NewManager(memStore, connRegistry)
	router := ws.NewRouter(connRegistry, sessions)

	wsHandler := ws.NewHandler(router)
	restHandler := api.NewHandler(memStore)
	httpRouter := api.NewRouter(restHandler, wsHandler.ServeWS)
	log.Println("MAIN: Routes registered: REST under /api, WebSocket at /ws.")

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      httpRouter,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	log.Printf("MAIN: HTTP server starting on %s ...", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("MAIN_FATAL: Could not start HTTP server on %s: %v", cfg.Addr, err)
	}
	log.Println("MAIN: Server stopped.")
}
