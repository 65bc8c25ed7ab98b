package generation

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/orion-api/internal/domain/entity"
)

// challengePayload — JSON-структура, которую обязан вернуть генератор
type challengePayload struct {
	Title         string   `json:"title"`
	Prompt        string   `json:"prompt"`
	CodeSnippet   string   `json:"codeSnippet"`
	CorrectAnswer string   `json:"correctAnswer"`
	Hints         []string `json:"hints"`
	Explanation   string   `json:"explanation"`
}

// challengeTTL — срок жизни сгенерированного челленджа
const challengeTTL = 30 * 24 * time.Hour

// difficultyText переводит числовую сложность в текст для промпта
func difficultyText(difficulty int) string {
	switch {
	case difficulty <= 3:
		return "beginner"
	case difficulty <= 7:
		return "intermediate"
	default:
		return "advanced"
	}
}

// xpRewardFor вычисляет награду челленджа по его сложности
func xpRewardFor(difficulty int) int {
	return 50 + difficulty*10
}

// buildPrompt строит текст запроса к модели для типа челленджа
func buildPrompt(language string, difficulty int, challengeType string) string {
	level := difficultyText(difficulty)

	var task, question string
	switch challengeType {
	case "fix_bug":
		task = "Create a code snippet with a bug that needs to be fixed."
		question = "What's wrong with this code?"
	case "complete_code":
		task = "Create a code snippet with a missing part that needs to be completed."
		question = "Complete the following code to achieve the described functionality."
	case "explain_output":
		task = "Create a code snippet and ask what the output will be."
		question = "What will be the output of this code?"
	case "predict_outcome":
		task = "Create a code snippet and ask what will happen when it runs (e.g., error, specific behavior)."
		question = "What happens when this code runs?"
	case "identify_pattern":
		task = "Create a code snippet that implements a specific pattern or algorithm and ask to identify it."
		question = "What pattern or algorithm does this code implement?"
	default:
		task = "Create a coding challenge."
		question = "A clear instruction for the challenge"
	}

	return fmt.Sprintf(`Generate a coding challenge for %s %s programmers. %s The response should be in JSON format with the following structure:
{
  "title": "A catchy title for the challenge",
  "prompt": "%s",
  "codeSnippet": "// The code",
  "correctAnswer": "The expected answer",
  "hints": ["Hint 1", "Hint 2", "Hint 3"],
  "explanation": "Detailed explanation of the solution"
}`, level, language, task, question)
}

// extractJSON вырезает JSON-объект из ответа модели (модель может
// обернуть его в пояснительный текст или markdown)
func extractJSON(response string) ([]byte, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	return []byte(response[start : end+1]), nil
}

// parsePayload разбирает и валидирует ответ генератора
func parsePayload(response string) (*challengePayload, error) {
	raw, err := extractJSON(response)
	if err != nil {
		return nil, err
	}

	var payload challengePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse challenge payload: %w", err)
	}

	if payload.Prompt == "" || payload.CodeSnippet == "" ||
		payload.CorrectAnswer == "" || payload.Explanation == "" {
		return nil, fmt.Errorf("missing required fields in challenge payload")
	}
	if payload.Hints == nil {
		payload.Hints = []string{}
	}
	return &payload, nil
}

// buildChallenge собирает сущность челленджа из валидного payload
func buildChallenge(language string, difficulty int, challengeType, seed string, payload *challengePayload, now time.Time) *entity.Challenge {
	title := payload.Title
	if title == "" {
		title = fmt.Sprintf("%s %s Challenge",
			strings.ToUpper(language[:1])+language[1:],
			strings.ReplaceAll(challengeType, "_", " "))
	}

	return &entity.Challenge{
		Language:      language,
		Difficulty:    difficulty,
		Type:          challengeType,
		Title:         title,
		Prompt:        payload.Prompt,
		CodeSnippet:   payload.CodeSnippet,
		CorrectAnswer: payload.CorrectAnswer,
		Hints:         payload.Hints,
		Explanation:   payload.Explanation,
		XPReward:      xpRewardFor(difficulty),
		Active:        true,
		Seed:          seed,
		ExpiresAt:     now.Add(challengeTTL),
	}
}
