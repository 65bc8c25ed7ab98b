package service

import (
	"context"
	"fmt"
	"strings"
)

// CodeVerifier — оракул проверки ответа по нормализованному сравнению.
// Для кода сравниваются строки после удаления комментариев и схлопывания
// пробелов; для текстовых ответов дополнительно допускается совпадение
// без учёта регистра.
type CodeVerifier struct{}

// NewCodeVerifier создаёт новый верификатор ответов
func NewCodeVerifier() *CodeVerifier {
	return &CodeVerifier{}
}

// Verify сравнивает отправленный ответ с эталонным с учётом языка
func (v *CodeVerifier) Verify(ctx context.Context, correctAnswer, submittedAnswer, language string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("verification cancelled: %w", err)
	}
	if strings.TrimSpace(correctAnswer) == "" {
		return false, fmt.Errorf("challenge has empty correct answer")
	}

	expected := normalizeCode(correctAnswer, language)
	actual := normalizeCode(submittedAnswer, language)

	if expected == actual {
		return true, nil
	}

	// Текстовые ответы (explain_output и т.п.) сравниваем мягче
	return strings.EqualFold(
		collapseWhitespace(correctAnswer),
		collapseWhitespace(submittedAnswer),
	), nil
}

// lineCommentPrefix возвращает префикс однострочного комментария для языка
func lineCommentPrefix(language string) string {
	switch language {
	case "python", "ruby":
		return "#"
	default:
		return "//"
	}
}

// normalizeCode убирает комментарии и лишние пробелы, сохраняя порядок строк
func normalizeCode(code, language string) string {
	prefix := lineCommentPrefix(language)

	var lines []string
	for _, line := range strings.Split(code, "\n") {
		if idx := strings.Index(line, prefix); idx >= 0 {
			line = line[:idx]
		}
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// collapseWhitespace схлопывает любые последовательности пробельных символов
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
