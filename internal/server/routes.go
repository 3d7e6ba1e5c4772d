package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"livepoll/internal/config"
	"livepoll/internal/db"
	"livepoll/internal/engine"
	"livepoll/internal/history"
	"livepoll/internal/roster"
	"livepoll/internal/session"
	"livepoll/internal/wshub"
)

func Run() error {
	cfg := config.Load()

	hist := history.NewStore()
	sess := session.New(hist)
	rost := roster.NewStore()
	hub := wshub.NewHub()

	srv := &Server{
		Hub:     hub,
		History: hist,
		Origins: cfg.AllowedOrigins,
	}

	// Optional database connection
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := database.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			srv.DB = database
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, running without database")
	}

	if cfg.AutoClosePolls {
		log.Println("[Engine] Poll auto-close enabled")
	}

	eng := engine.New(hub, sess, rost, hist, srv.DB, cfg.AutoClosePolls)
	srv.Engine = eng

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	httpServer := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Port,
		Handler: srv.routes(),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		cancel()
		httpServer.Close()
	}()

	fmt.Printf("Server listening on http://localhost:%s\n", cfg.Port)
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.HandleFunc("GET /history/archive", s.handleArchive)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}
