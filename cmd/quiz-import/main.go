package main

import (
	"context"
	"flag"
	"log"
	"time"

	"finquiz/internal/config"
	"finquiz/internal/opentdb"
	"finquiz/internal/quiz"
)

func main() {
	cfg := config.Load()

	quizID := flag.String("quiz", "", "id of the bank to write (required)")
	title := flag.String("title", "", "quiz title (defaults to the id)")
	amount := flag.Int("amount", 10, "number of questions to fetch")
	category := flag.Int("category", 0, "OpenTriviaDB category id")
	banks := flag.String("banks", cfg.Quiz.BankDir, "directory with question banks")
	flag.Parse()

	if *quizID == "" {
		log.Fatal("--quiz is required")
	}

	client := opentdb.NewClient(nil)
	client.Category = *category
	source := quiz.NewDirSource(*banks)
	service := quiz.NewService(source, nil, nil, quiz.ServiceOptions{
		Fetcher: client.FetchQuestions,
		Writer:  source,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	imported, err := service.Import(ctx, *quizID, *title, *amount)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	log.Printf("wrote %s with %d questions to %s", imported.ID, len(imported.Questions), source.Dir())
}
