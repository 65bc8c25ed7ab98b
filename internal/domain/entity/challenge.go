package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if o == nil || len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Contains проверяет, содержится ли строка в массиве
func (o StringArray) Contains(s string) bool {
	for _, v := range o {
		if v == s {
			return true
		}
	}
	return false
}

// Допустимые языки программирования для челленджей
var ValidLanguages = []string{
	"python", "javascript", "java", "csharp", "cpp", "ruby", "go",
	"php", "rust", "swift", "typescript", "kotlin", "css", "html",
}

// Типы челленджей
var ChallengeTypes = []string{
	"fix_bug", "complete_code", "explain_output", "predict_outcome", "identify_pattern",
}

// IsValidLanguage проверяет, входит ли язык в список поддерживаемых
func IsValidLanguage(language string) bool {
	for _, l := range ValidLanguages {
		if l == language {
			return true
		}
	}
	return false
}

// IsValidChallengeType проверяет, входит ли тип в список поддерживаемых
func IsValidChallengeType(challengeType string) bool {
	for _, t := range ChallengeTypes {
		if t == challengeType {
			return true
		}
	}
	return false
}

// Challenge представляет ежедневный челлендж по программированию
type Challenge struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Language      string      `gorm:"size:20;not null;index:idx_challenges_selection" json:"language"`
	Difficulty    int         `gorm:"not null;index:idx_challenges_selection" json:"difficulty"` // 1..10
	Type          string      `gorm:"size:30;not null" json:"type"`
	Title         string      `gorm:"size:200;not null" json:"title"`
	Prompt        string      `gorm:"type:text;not null" json:"prompt"`
	CodeSnippet   string      `gorm:"type:text;not null" json:"code_snippet"`
	CorrectAnswer string      `gorm:"type:text;not null" json:"-"` // Скрыто от клиента
	Hints         StringArray `gorm:"type:jsonb;not null" json:"-"`
	Explanation   string      `gorm:"type:text;not null" json:"-"`
	XPReward      int         `gorm:"not null;default:50" json:"xp_reward"` // Минимум 10
	Active        bool        `gorm:"not null;default:true;index:idx_challenges_selection" json:"active"`
	Seed          string      `gorm:"size:100;default:''" json:"-"` // Источник генерации: template | gemini
	CompletedBy   int64       `gorm:"not null;default:0" json:"-"`  // Счётчики для очистки каталога
	FailedBy      int64       `gorm:"not null;default:0" json:"-"`
	ExpiresAt     time.Time   `gorm:"not null;index" json:"expires_at"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Challenge) TableName() string {
	return "challenges"
}

// IsExpired проверяет, истёк ли срок действия челленджа
func (c *Challenge) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// HintForAttempt возвращает подсказку для номера попытки (1-indexed).
// Индекс насыщающий: если подсказок меньше пяти, последняя повторяется
// для всех оставшихся попыток.
func (c *Challenge) HintForAttempt(attemptNumber int) string {
	if len(c.Hints) == 0 {
		return ""
	}
	idx := attemptNumber - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(c.Hints)-1 {
		idx = len(c.Hints) - 1
	}
	return c.Hints[idx]
}

// DifficultyBand возвращает строковое имя уровня сложности для клиента
func DifficultyBand(difficulty int) string {
	switch {
	case difficulty <= 2:
		return "easy"
	case difficulty <= 4:
		return "medium"
	case difficulty <= 6:
		return "hard"
	case difficulty <= 8:
		return "expert"
	case difficulty <= 9:
		return "master"
	default:
		return "legendary"
	}
}
