package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/orion-api/internal/domain/entity"
	"github.com/yourusername/orion-api/internal/domain/repository"
	apperrors "github.com/yourusername/orion-api/internal/pkg/errors"
	"github.com/yourusername/orion-api/pkg/auth"
)

// RegisterInput содержит данные регистрации
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Languages []string
}

// AuthService предоставляет регистрацию и аутентификацию игроков
type AuthService struct {
	userRepo     repository.UserRepository
	jwtService   *auth.JWTService
	emailService EmailService
	frontendURL  string
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	emailService EmailService,
	frontendURL string,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtService:   jwtService,
		emailService: emailService,
		frontendURL:  frontendURL,
	}
}

// Register создает нового игрока
func (s *AuthService) Register(input RegisterInput) (*entity.User, error) {
	if len(input.Username) < 3 || len(input.Username) > 20 {
		return nil, fmt.Errorf("%w: username must be 3-20 characters", apperrors.ErrValidation)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidation)
	}
	if len(input.Languages) == 0 || len(input.Languages) > 5 {
		return nil, fmt.Errorf("%w: select between 1 and 5 programming languages", apperrors.ErrValidation)
	}
	for _, lang := range input.Languages {
		if !entity.IsValidLanguage(lang) {
			return nil, fmt.Errorf("%w: invalid language %q", apperrors.ErrValidation, lang)
		}
	}

	// Уникальность username/email
	if _, err := s.userRepo.GetByUsername(input.Username); err == nil {
		return nil, fmt.Errorf("%w: username already taken", apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByEmail(input.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user := &entity.User{
		Username:            input.Username,
		Email:               input.Email,
		Password:            input.Password, // Хешируется в BeforeSave
		Languages:           input.Languages,
		Level:               1,
		CompletedChallenges: entity.UintArray{},
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[AuthService] Зарегистрирован новый игрок username=%s id=%d", user.Username, user.ID)
	return user, nil
}

// Login проверяет учетные данные и выпускает токен
func (s *AuthService) Login(email, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.ErrUnauthorized
		}
		return nil, "", err
	}

	if !user.CheckPassword(password) {
		return nil, "", apperrors.ErrUnauthorized
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// GetUserByID возвращает игрока по ID
func (s *AuthService) GetUserByID(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// ChangePassword меняет пароль после проверки старого
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(oldPassword) {
		return apperrors.ErrUnauthorized
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidation)
	}
	return s.userRepo.UpdatePassword(userID, newPassword)
}

// ForgotPassword создает токен сброса и отправляет письмо со ссылкой.
// Для неизвестного email ничего не сообщаем наружу (защита от перебора).
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[AuthService] Запрос сброса пароля для неизвестного email")
			return nil
		}
		return err
	}

	// В базе храним только хеш токена; сам токен уходит в письме
	token := uuid.NewString()
	expires := time.Now().Add(10 * time.Minute)

	if err := s.userRepo.SetPasswordResetToken(user.ID, hashResetToken(token), expires); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
	if err := s.emailService.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	log.Printf("[AuthService] Отправлена ссылка сброса пароля для user id=%d", user.ID)
	return nil
}

// ResetPassword устанавливает новый пароль по действующему токену сброса
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByResetToken(hashResetToken(token))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: reset token is invalid or expired", apperrors.ErrUnauthorized)
		}
		return err
	}

	if err := s.userRepo.UpdatePassword(user.ID, newPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	log.Printf("[AuthService] Пароль сброшен для user id=%d", user.ID)
	return nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
