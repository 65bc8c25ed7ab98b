package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/yourusername/orion-api/internal/config"
	"github.com/yourusername/orion-api/internal/jobs"
	pgRepo "github.com/yourusername/orion-api/internal/repository/postgres"
	"github.com/yourusername/orion-api/internal/service/gamemanager"
	"github.com/yourusername/orion-api/internal/service/generation"
	"github.com/yourusername/orion-api/pkg/database"
)

// Генератор челленджей для ручного запуска.
// Пример: go run ./cmd/generate -count 10 -cleanup
func main() {
	count := flag.Int("count", 10, "how many challenges to generate")
	cleanup := flag.Bool("cleanup", false, "also purge stale challenges")
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	challengeRepo := pgRepo.NewChallengeRepo(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var generator gamemanager.ChallengeGenerator
	if cfg.Generation.Provider == "gemini" && cfg.Generation.APIKey != "" {
		generator, err = generation.NewGeminiGenerator(ctx, cfg.Generation.APIKey, cfg.Generation.Model, challengeRepo)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini generator: %v", err)
		}
		log.Printf("Using gemini generator (model %s)", cfg.Generation.Model)
	} else {
		generator = generation.NewTemplateGenerator(challengeRepo)
		log.Println("Using template generator")
	}

	job := jobs.NewDailyChallengeJob(
		generator,
		challengeRepo,
		cfg.Generation.CronSpec,
		cfg.Generation.DailyCount,
		cfg.Generation.RetentionDays,
		time.Duration(cfg.Generation.ResolvedGraceHours)*time.Hour,
	)

	generated := job.GenerateBatch(ctx, *count)
	log.Printf("Generated %d of %d challenges", generated, *count)

	if *cleanup {
		job.Cleanup(ctx)
	}
}
