package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"finquiz/internal/userclient"
)

func main() {
	server := flag.String("server", "http://127.0.0.1:8080", "quiz service base URL")
	token := flag.String("token", os.Getenv("QUIZ_TOKEN"), "session token (see quiz-token)")
	loginURL := flag.String("login", "/login", "login URL the service redirects anonymous users to")
	timeout := flag.Duration("timeout", 5*time.Second, "HTTP timeout")
	flag.Parse()

	if *token == "" {
		fmt.Fprintln(os.Stderr, "error: --token or QUIZ_TOKEN is required")
		os.Exit(1)
	}

	err := userclient.Run(context.Background(), os.Stdin, os.Stdout, userclient.Config{
		ServerURL:   *server,
		Token:       *token,
		LoginURL:    *loginURL,
		HTTPTimeout: *timeout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
