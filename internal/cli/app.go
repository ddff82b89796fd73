// Package cli plays quizzes offline: the full quiz service runs on a loopback
// listener inside the process and the terminal client talks to it.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"finquiz/internal/auth"
	"finquiz/internal/httpapi"
	"finquiz/internal/quiz"
	"finquiz/internal/quiz/sqlstore"
	"finquiz/internal/session"
	"finquiz/internal/userclient"
)

const (
	offlineUserID = 1
	loginPath     = "/login"
	memoryDB      = ":memory:"
)

type Config struct {
	BankDir     string
	DefaultQuiz string
	// DBPath is a SQLite file for results; empty keeps them for this run only.
	DBPath    string
	TimeLimit int
	Logger    *log.Logger
	Player    userclient.PlayerOptions
}

func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = memoryDB
	}

	store, err := sqlstore.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	source := quiz.NewDirSource(cfg.BankDir)
	service := quiz.NewService(source, session.NewMemoryStore(session.DefaultTTL), store, quiz.ServiceOptions{
		DefaultQuiz: cfg.DefaultQuiz,
		Logger:      logger,
	})

	// A fresh secret per run: tokens never outlive the process.
	tokens := auth.NewTokens(uuid.NewString(), 0)
	token, _, err := tokens.Issue(offlineUserID)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("listen on loopback: %w", err)
	}
	server := &http.Server{
		Handler:           httpapi.NewRouter(service, tokens, loginPath, httpapi.Options{TimeLimit: cfg.TimeLimit}, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("offline server stopped: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	baseURL := "http://" + listener.Addr().String()
	client := userclient.NewHTTPClient(baseURL, token, loginPath, &http.Client{Timeout: 5 * time.Second})

	fmt.Fprintf(out, "finquiz offline\nbanks=%s\n\n", source.Dir())
	return userclient.Interact(ctx, client, in, out, userclient.Config{
		ServerURL: baseURL,
		Player:    cfg.Player,
	})
}
