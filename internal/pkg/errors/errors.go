package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, занятый username).
	ErrConflict = errors.New("resource state conflict")
)

// Ошибки игрового ядра. Каждая категория стабильна: обработчики
// сопоставляют их с HTTP-ответами через errors.Is.
var (
	// ErrAlreadyPlayedToday возвращается, когда игрок уже получал челлендж сегодня.
	ErrAlreadyPlayedToday = errors.New("already played today")

	// ErrNoEligibleChallenge возвращается, когда ни один активный челлендж не подошёл
	// и генерация тоже не дала результата.
	ErrNoEligibleChallenge = errors.New("no eligible challenge")

	// ErrInvalidAttempt возвращается при номере попытки вне диапазона 1..5.
	ErrInvalidAttempt = errors.New("invalid attempt number")

	// ErrChallengeNotFound возвращается, когда челлендж с указанным ID не существует.
	ErrChallengeNotFound = errors.New("challenge not found")

	// ErrVerification возвращается, когда оракул проверки ответа упал.
	// Состояние игрока при этом не меняется, запрос можно повторить.
	ErrVerification = errors.New("answer verification failed")

	// ErrGenerationFailed означает сбой генератора челленджей. Наружу не
	// отдаётся: селектор поглощает её и переходит к fallback-выборке.
	ErrGenerationFailed = errors.New("challenge generation failed")

	// ErrSubmissionInProgress возвращается, когда параллельная отправка ответа
	// того же игрока ещё не завершилась (двойной клик).
	ErrSubmissionInProgress = errors.New("submission already in progress")
)
