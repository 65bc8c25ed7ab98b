package generation

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"

	"github.com/yourusername/orion-api/internal/domain/entity"
	"github.com/yourusername/orion-api/internal/domain/repository"
)

// GeminiGenerator генерирует челленджи через Gemini API и сохраняет их в каталог
type GeminiGenerator struct {
	client        *genai.Client
	model         string
	challengeRepo repository.ChallengeRepository
}

// NewGeminiGenerator создает генератор с указанной моделью
func NewGeminiGenerator(ctx context.Context, apiKey, model string, challengeRepo repository.ChallengeRepository) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{
		client:        client,
		model:         model,
		challengeRepo: challengeRepo,
	}, nil
}

// Generate запрашивает у модели челлендж, валидирует ответ и сохраняет его
func (g *GeminiGenerator) Generate(ctx context.Context, language string, difficulty int, challengeType string) (*entity.Challenge, error) {
	if !entity.IsValidLanguage(language) {
		return nil, fmt.Errorf("unsupported language: %s", language)
	}
	if !entity.IsValidChallengeType(challengeType) {
		return nil, fmt.Errorf("unsupported challenge type: %s", challengeType)
	}

	prompt := buildPrompt(language, difficulty, challengeType)

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("gemini returned no response")
	}

	text, err := result.Text()
	if err != nil {
		return nil, fmt.Errorf("failed to extract gemini response text: %w", err)
	}
	if text == "" {
		return nil, fmt.Errorf("gemini returned empty response")
	}

	payload, err := parsePayload(text)
	if err != nil {
		return nil, fmt.Errorf("invalid gemini response: %w", err)
	}

	challenge := buildChallenge(language, difficulty, challengeType, "gemini", payload, time.Now())
	if err := g.challengeRepo.Create(challenge); err != nil {
		return nil, fmt.Errorf("failed to store generated challenge: %w", err)
	}

	log.Printf("[GeminiGenerator] Сгенерирован челлендж ID=%d (%s, сложность %d, тип %s)",
		challenge.ID, language, difficulty, challengeType)
	return challenge, nil
}
