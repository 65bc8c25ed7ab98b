package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yourusername/orion-api/internal/domain/entity"
	apperrors "github.com/yourusername/orion-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий игроков
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового игрока
func (r *UserRepo) Create(user *entity.User) error {
	return r.db.Create(user).Error
}

// GetByID возвращает игрока по ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail возвращает игрока по email
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername возвращает игрока по имени пользователя
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update обновляет информацию об игроке
func (r *UserRepo) Update(user *entity.User) error {
	return r.db.Save(user).Error
}

// UpdateLanguages обновляет предпочитаемые языки игрока
func (r *UserRepo) UpdateLanguages(userID uint, languages entity.StringArray) error {
	result := r.db.Model(&entity.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"languages":  languages,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdatePassword безопасно обновляет пароль игрока.
// Хеширует пароль здесь и пишет прямым SQL, чтобы обойти хук BeforeSave
// и исключить двойное хеширование.
func (r *UserRepo) UpdatePassword(userID uint, newPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[UserRepo.UpdatePassword] Ошибка при хешировании пароля: %v", err)
		return err
	}

	result := r.db.Exec(
		"UPDATE users SET password = ?, password_reset_token = '', password_reset_expires = NULL, updated_at = ? WHERE id = ?",
		string(hashedPassword),
		time.Now(),
		userID,
	)
	if result.Error != nil {
		log.Printf("[UserRepo.UpdatePassword] Ошибка при обновлении пароля для ID=%d: %v", userID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RecordWin атомарно начисляет выигрыш одним UPDATE.
// Инкременты выполняются на стороне базы, поэтому параллельные отправки
// одного игрока не теряют XP/серии. Уровень пересчитывается в том же
// выражении из нового значения XP, а ID челленджа добавляется в JSONB-набор
// идемпотентно (оператор @> отсекает дубликаты).
func (r *UserRepo) RecordWin(userID uint, xpGained int64, challengeID uint, playedAt time.Time) (*entity.User, error) {
	idJSON, err := json.Marshal([]uint{challengeID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal challenge id: %w", err)
	}

	result := r.db.Exec(`
		UPDATE users
		SET xp = xp + ?,
		    level = FLOOR(1 + SQRT((xp + ?) / 100.0)),
		    wins = wins + 1,
		    streak = streak + 1,
		    games_played = games_played + 1,
		    last_played = ?,
		    completed_challenges = CASE
		        WHEN completed_challenges @> ?::jsonb THEN completed_challenges
		        ELSE completed_challenges || ?::jsonb
		    END,
		    updated_at = ?
		WHERE id = ?`,
		xpGained, xpGained, playedAt, string(idJSON), string(idJSON), time.Now(), userID,
	)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrNotFound
	}

	return r.GetByID(userID)
}

// RecordLoss атомарно фиксирует проигрыш: серия обнуляется, счётчики растут
func (r *UserRepo) RecordLoss(userID uint, playedAt time.Time) (*entity.User, error) {
	result := r.db.Exec(`
		UPDATE users
		SET streak = 0,
		    losses = losses + 1,
		    games_played = games_played + 1,
		    last_played = ?,
		    updated_at = ?
		WHERE id = ?`,
		playedAt, time.Now(), userID,
	)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrNotFound
	}

	return r.GetByID(userID)
}

// ClearLastPlayed сбрасывает отметку последней игры
func (r *UserRepo) ClearLastPlayed(userID uint) error {
	result := r.db.Model(&entity.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"last_played": nil,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetPasswordResetToken сохраняет хеш токена сброса пароля
func (r *UserRepo) SetPasswordResetToken(userID uint, tokenHash string, expires time.Time) error {
	result := r.db.Model(&entity.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password_reset_token":   tokenHash,
		"password_reset_expires": expires,
		"updated_at":             time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetByResetToken возвращает игрока по действующему токену сброса пароля
func (r *UserRepo) GetByResetToken(tokenHash string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("password_reset_token = ? AND password_reset_expires > ?", tokenHash, time.Now()).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
