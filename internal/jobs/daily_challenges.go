package jobs

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yourusername/orion-api/internal/domain/entity"
	"github.com/yourusername/orion-api/internal/domain/repository"
	"github.com/yourusername/orion-api/internal/service/gamemanager"
)

// Параметры по умолчанию для ежедневной генерации
const (
	DefaultCronSpec      = "1 0 * * *"
	DefaultDailyCount    = 3
	DefaultRetentionDays = 7
	DefaultResolvedGrace = 24 * time.Hour
)

// DailyChallengeJob — фоновая задача: раз в сутки пополняет каталог
// челленджей и чистит устаревшие записи
type DailyChallengeJob struct {
	generator     gamemanager.ChallengeGenerator
	challengeRepo repository.ChallengeRepository

	cronSpec      string
	dailyCount    int
	retentionDays int
	resolvedGrace time.Duration

	scheduler *cron.Cron
	randFn    func(n int) int
}

// NewDailyChallengeJob создает задачу с переданными настройками.
// Нулевые значения заменяются значениями по умолчанию.
func NewDailyChallengeJob(
	generator gamemanager.ChallengeGenerator,
	challengeRepo repository.ChallengeRepository,
	cronSpec string,
	dailyCount int,
	retentionDays int,
	resolvedGrace time.Duration,
) *DailyChallengeJob {
	if cronSpec == "" {
		cronSpec = DefaultCronSpec
	}
	if dailyCount <= 0 {
		dailyCount = DefaultDailyCount
	}
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	if resolvedGrace <= 0 {
		resolvedGrace = DefaultResolvedGrace
	}

	return &DailyChallengeJob{
		generator:     generator,
		challengeRepo: challengeRepo,
		cronSpec:      cronSpec,
		dailyCount:    dailyCount,
		retentionDays: retentionDays,
		resolvedGrace: resolvedGrace,
		randFn:        rand.Intn,
	}
}

// Start регистрирует расписание и запускает планировщик
func (j *DailyChallengeJob) Start() error {
	j.scheduler = cron.New()
	_, err := j.scheduler.AddFunc(j.cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		j.Run(ctx)
	})
	if err != nil {
		return err
	}

	j.scheduler.Start()
	log.Printf("[DailyChallengeJob] Планировщик запущен, расписание %q, %d челленджей в сутки",
		j.cronSpec, j.dailyCount)
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущего запуска
func (j *DailyChallengeJob) Stop() {
	if j.scheduler != nil {
		stopCtx := j.scheduler.Stop()
		<-stopCtx.Done()
		log.Println("[DailyChallengeJob] Планировщик остановлен")
	}
}

// Run выполняет один цикл: генерация партии и очистка каталога
func (j *DailyChallengeJob) Run(ctx context.Context) {
	generated := j.GenerateBatch(ctx, j.dailyCount)
	log.Printf("[DailyChallengeJob] Сгенерировано %d из %d челленджей", generated, j.dailyCount)
	j.Cleanup(ctx)
}

// GenerateBatch генерирует count челленджей со случайными параметрами.
// Ошибки отдельных генераций логируются и не прерывают партию.
func (j *DailyChallengeJob) GenerateBatch(ctx context.Context, count int) int {
	generated := 0
	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			log.Printf("[DailyChallengeJob] Генерация прервана: %v", ctx.Err())
			break
		}

		language := entity.ValidLanguages[j.randFn(len(entity.ValidLanguages))]
		challengeType := entity.ChallengeTypes[j.randFn(len(entity.ChallengeTypes))]
		difficulty := j.randFn(10) + 1

		challenge, err := j.generator.Generate(ctx, language, difficulty, challengeType)
		if err != nil {
			log.Printf("[DailyChallengeJob] Ошибка генерации (%s/%s, сложность %d): %v",
				language, challengeType, difficulty, err)
			continue
		}
		generated++
		log.Printf("[DailyChallengeJob] Новый челлендж ID=%d: %s", challenge.ID, challenge.Title)
	}
	return generated
}

// Cleanup чистит каталог: удаляет старые челленджи, деактивирует
// просроченные и убирает уже сыгранные
func (j *DailyChallengeJob) Cleanup(ctx context.Context) {
	now := time.Now()

	removed, err := j.challengeRepo.DeleteOlderThan(now.AddDate(0, 0, -j.retentionDays))
	if err != nil {
		log.Printf("[DailyChallengeJob] Ошибка удаления старых челленджей: %v", err)
	} else if removed > 0 {
		log.Printf("[DailyChallengeJob] Удалено %d челленджей старше %d дней", removed, j.retentionDays)
	}

	deactivated, err := j.challengeRepo.DeactivateExpired(now)
	if err != nil {
		log.Printf("[DailyChallengeJob] Ошибка деактивации просроченных челленджей: %v", err)
	} else if deactivated > 0 {
		log.Printf("[DailyChallengeJob] Деактивировано %d просроченных челленджей", deactivated)
	}

	resolved, err := j.challengeRepo.DeleteResolvedBefore(now.Add(-j.resolvedGrace))
	if err != nil {
		log.Printf("[DailyChallengeJob] Ошибка удаления сыгранных челленджей: %v", err)
	} else if resolved > 0 {
		log.Printf("[DailyChallengeJob] Удалено %d сыгранных челленджей", resolved)
	}
}
