package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finquiz/internal/auth"
	"finquiz/internal/config"
	"finquiz/internal/httpapi"
	"finquiz/internal/quiz"
	"finquiz/internal/quiz/sqlstore"
	"finquiz/internal/session"
)

func main() {
	cfg := config.Load()

	addr := flag.String("addr", cfg.Server.Addr, "HTTP listen address")
	flag.Parse()

	logger := log.Default()

	store, err := sqlstore.Open(cfg.DB.Driver, cfg.DB.DSN, logger)
	if err != nil {
		log.Fatalf("failed to open result store: %v", err)
	}
	defer store.Close()

	sessions, stopSessions, err := newSessionStore(cfg, logger)
	if err != nil {
		log.Fatalf("failed to set up sessions: %v", err)
	}
	defer stopSessions()

	source := quiz.NewDirSource(cfg.Quiz.BankDir)
	service := quiz.NewService(source, sessions, store, quiz.ServiceOptions{
		DefaultQuiz: cfg.Quiz.DefaultQuiz,
		Logger:      logger,
	})
	tokens := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	server := &http.Server{
		Addr: *addr,
		Handler: httpapi.NewRouter(service, tokens, cfg.Auth.LoginURL, httpapi.Options{
			LandingURL: cfg.Quiz.LandingURL,
			TimeLimit:  cfg.Quiz.TimeLimit,
		}, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("quiz-service listening on %s (banks=%s, db=%s, sessions=%s)", *addr, source.Dir(), cfg.DB.Driver, cfg.Session.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("shutting down quiz-service...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("error shutting down HTTP server: %v", err)
	}
}

func newSessionStore(cfg *config.Config, logger *log.Logger) (quiz.SessionStore, func(), error) {
	switch cfg.Session.Backend {
	case "redis":
		client, err := session.NewRedisClient(session.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, cfg.Session.TTL), func() { _ = client.Close() }, nil
	case "memory", "":
		store := session.NewMemoryStore(cfg.Session.TTL)
		janitor := session.NewJanitor(store, logger)
		if err := janitor.Start(cfg.Session.SweepInterval); err != nil {
			return nil, nil, err
		}
		return store, janitor.Stop, nil
	default:
		return nil, nil, errors.New("unknown SESSION_BACKEND " + cfg.Session.Backend)
	}
}
