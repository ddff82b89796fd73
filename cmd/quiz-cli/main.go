package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"finquiz/internal/cli"
	"finquiz/internal/config"
)

func main() {
	cfg := config.Load()

	banks := flag.String("banks", cfg.Quiz.BankDir, "directory with question banks")
	defaultQuiz := flag.String("quiz", cfg.Quiz.DefaultQuiz, "quiz used when none is remembered")
	db := flag.String("db", "", "SQLite file for results (empty keeps them in memory)")
	verbose := flag.Bool("v", false, "log service requests to stderr")
	flag.Parse()

	appCfg := cli.Config{
		BankDir:     *banks,
		DefaultQuiz: *defaultQuiz,
		DBPath:      *db,
		TimeLimit:   cfg.Quiz.TimeLimit,
	}
	if *verbose {
		appCfg.Logger = log.New(os.Stderr, "quiz-cli ", log.LstdFlags)
	}

	if err := cli.Run(context.Background(), os.Stdin, os.Stdout, appCfg); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
