package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UintArray - пользовательский тип для хранения набора ID в JSONB
type UintArray []uint

// Scan реализует интерфейс sql.Scanner для UintArray
func (o *UintArray) Scan(value interface{}) error {
	if value == nil {
		*o = UintArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = UintArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для UintArray
func (o UintArray) Value() (driver.Value, error) {
	if o == nil || len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// Contains проверяет наличие ID в наборе
func (o UintArray) Contains(id uint) bool {
	for _, v := range o {
		if v == id {
			return true
		}
	}
	return false
}

// User представляет игрока в системе
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email    string `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`

	// Languages — предпочитаемые языки программирования (минимум один)
	Languages StringArray `gorm:"type:jsonb;not null" json:"languages"`

	XP          int64      `gorm:"not null;default:0;index:idx_users_progress" json:"xp"`
	Level       int        `gorm:"not null;default:1" json:"level"` // Производное от XP
	Wins        int64      `gorm:"not null;default:0" json:"wins"`
	Losses      int64      `gorm:"not null;default:0" json:"losses"`
	Streak      int64      `gorm:"not null;default:0" json:"streak"`
	GamesPlayed int64      `gorm:"not null;default:0" json:"games_played"`
	LastPlayed  *time.Time `gorm:"type:timestamp" json:"last_played,omitempty"`

	// CompletedChallenges — набор ID пройденных челленджей (уникальный, неупорядоченный)
	CompletedChallenges UintArray `gorm:"type:jsonb;not null" json:"-"`

	IsAdmin bool `gorm:"not null;default:false" json:"-"`

	PasswordResetToken   string     `gorm:"size:100;default:''" json:"-"`
	PasswordResetExpires *time.Time `gorm:"type:timestamp" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// LevelForXP вычисляет уровень по формуле floor(1 + sqrt(XP / 100))
func LevelForXP(xp int64) int {
	if xp < 0 {
		return 1
	}
	return int(math.Floor(1 + math.Sqrt(float64(xp)/100.0)))
}

// BeforeSave хеширует пароль и пересчитывает уровень перед сохранением
func (u *User) BeforeSave(tx *gorm.DB) error {
	// Хешируем пароль только если он:
	// 1. Не пустой
	// 2. Не является уже bcrypt-хешем (начинается с "$2a$", "$2b$" или "$2y$")
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}

	// Уровень всегда производен от XP
	u.Level = LevelForXP(u.XP)
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// AddCompletedChallenge добавляет челлендж в набор пройденных.
// Повторное добавление того же ID — no-op (семантика множества).
func (u *User) AddCompletedChallenge(challengeID uint) {
	if u.CompletedChallenges.Contains(challengeID) {
		return
	}
	u.CompletedChallenges = append(u.CompletedChallenges, challengeID)
}

// HasPlayedToday проверяет, играл ли пользователь сегодня.
// Граница дня — локальная полночь относительно now.
func (u *User) HasPlayedToday(now time.Time) bool {
	if u.LastPlayed == nil {
		return false
	}
	y1, m1, d1 := u.LastPlayed.Local().Date()
	y2, m2, d2 := now.Local().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ClearGameState сбрасывает отметку последней игры (админская операция)
func (u *User) ClearGameState() {
	u.LastPlayed = nil
}
