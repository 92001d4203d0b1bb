// Command seed replaces the survey question catalog.
package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"

	"chatbot-evaluation/backend/internal/models"
	"chatbot-evaluation/backend/internal/repository"
	"chatbot-evaluation/backend/internal/service"
	"chatbot-evaluation/backend/internal/survey"
	"chatbot-evaluation/backend/pkg/config"
	"chatbot-evaluation/backend/pkg/logger"
)

//go:embed questions.yaml
var defaultQuestions []byte

func main() {
	file := flag.String("file", "", "YAML question catalog (defaults to the built-in catalog)")
	flag.Parse()

	cfg := config.New()

	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.JSON = cfg.Logging.Format != "text"
	appLog := logger.New(logConfig)

	questions, err := loadQuestions(*file)
	if err != nil {
		log.Fatalf("Failed to load questions: %v", err)
	}

	db, err := config.NewDB(cfg, appLog)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	surveys := service.NewSurveyService(repository.NewGormStore(db))
	if err := surveys.SeedQuestions(context.Background(), questions); err != nil {
		log.Fatalf("Failed to seed questions: %v", err)
	}

	appLog.Info("Database seeded successfully", "questions", len(questions))
}

// loadQuestions reads the catalog at path, or the embedded one when path is empty
func loadQuestions(path string) ([]models.Question, error) {
	if path == "" {
		return survey.LoadQuestions(bytes.NewReader(defaultQuestions))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return survey.LoadQuestions(f)
}
