package main

import (
	"flag"
	"fmt"
	"log"

	"finquiz/internal/auth"
	"finquiz/internal/config"
)

func main() {
	cfg := config.Load()

	userID := flag.Int64("user", 0, "user id to issue the token for (required)")
	ttl := flag.Duration("ttl", cfg.Auth.TokenTTL, "token lifetime")
	flag.Parse()

	token, identity, err := auth.NewTokens(cfg.Auth.Secret, *ttl).Issue(*userID)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	log.Printf("issued token for user %d, session %s", identity.UserID, identity.SessionID)
	fmt.Println(token)
}
