package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"maitred/internal/advice"
	"maitred/internal/api"
	"maitred/internal/auth"
	"maitred/internal/config"
	"maitred/internal/kitchen"
	"maitred/internal/monitoring"
	"maitred/internal/store"
)

var (
	addr       = flag.String("addr", "", "listen address (overrides config)")
	configFile = flag.String("config", "configs/config.yaml", "path to configuration file")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}

	st, err := store.Open(cfg.Database.Dialect, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	health := monitoring.NewHealth()

	var sessions auth.SessionStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		sessions = auth.NewRedisSessionStore(rdb)
		health.SetComponent("sessions", "redis")
	} else {
		log.Println("No Redis configured, sessions are in-memory")
		sessions = auth.NewMemorySessionStore()
		health.SetComponent("sessions", "memory")
	}

	var advisor *advice.Advisor
	if llm, err := advice.NewLLM(); err != nil {
		log.Printf("Advice endpoint disabled: %v", err)
		health.SetComponent("advisor", "disabled")
	} else {
		advisor = advice.New(llm, st)
		health.SetComponent("advisor", "enabled")
	}

	server := api.NewServer(api.Options{
		Store:         st,
		Issuer:        auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL()),
		Sessions:      sessions,
		Advisor:       advisor,
		Health:        health,
		PublicBaseURL: cfg.PublicBaseURL,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go kitchen.NewWatcher(st).Run(ctx)

	detach := st.Bus.Attach(func(pe *store.PermissionError) {
		log.Printf("permission error: %v", pe)
	})
	defer detach()

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.Router,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		cancel()
	}()

	log.Printf("Starting server on %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
