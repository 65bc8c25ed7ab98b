package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/orion-api/internal/config"
	"github.com/yourusername/orion-api/internal/handler"
	"github.com/yourusername/orion-api/internal/jobs"
	"github.com/yourusername/orion-api/internal/middleware"
	pgRepo "github.com/yourusername/orion-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/orion-api/internal/repository/redis"
	"github.com/yourusername/orion-api/internal/service"
	"github.com/yourusername/orion-api/internal/service/gamemanager"
	"github.com/yourusername/orion-api/internal/service/generation"
	ws "github.com/yourusername/orion-api/internal/websocket"
	"github.com/yourusername/orion-api/pkg/auth"
	"github.com/yourusername/orion-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	challengeRepo := pgRepo.NewChallengeRepo(db)
	leaderboardRepo := pgRepo.NewLeaderboardRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Контекст жизненного цикла фоновых горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Конфигурация игрового ядра ---
	gameConfig := gamemanager.DefaultConfig()
	if cfg.Game.MaxAttempts > 0 {
		gameConfig.MaxAttempts = cfg.Game.MaxAttempts
	}
	if cfg.Game.DecayPerAttempt > 0 {
		gameConfig.DecayPerAttempt = cfg.Game.DecayPerAttempt
	}
	if cfg.Game.DecayFloor > 0 {
		gameConfig.DecayFloor = cfg.Game.DecayFloor
	}
	if cfg.Game.GenerationTimeoutSec > 0 {
		gameConfig.GenerationTimeout = time.Duration(cfg.Game.GenerationTimeoutSec) * time.Second
	}

	// --- Генератор челленджей ---
	var generator gamemanager.ChallengeGenerator
	if cfg.Generation.Provider == "gemini" && cfg.Generation.APIKey != "" {
		geminiGen, err := generation.NewGeminiGenerator(ctx, cfg.Generation.APIKey, cfg.Generation.Model, challengeRepo)
		if err != nil {
			log.Printf("Failed to initialize Gemini generator: %v. Falling back to templates.", err)
			generator = generation.NewTemplateGenerator(challengeRepo)
		} else {
			log.Printf("Challenge generation: gemini (model %s)", cfg.Generation.Model)
			generator = geminiGen
		}
	} else {
		log.Println("Challenge generation: templates")
		generator = generation.NewTemplateGenerator(challengeRepo)
	}

	// --- JWT ---
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpirationHrs)*time.Hour)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// --- Email ---
	var emailService service.EmailService
	if cfg.Email.Provider == "resend" && cfg.Email.APIKey != "" {
		resendService, err := service.NewResendEmailService(cfg.Email.APIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize Resend: %v. Password reset emails disabled.", err)
			emailService = &service.NoopEmailService{}
		} else {
			emailService = resendService
		}
	} else {
		emailService = &service.NoopEmailService{}
	}

	// --- WebSocket хаб ---
	wsHub := ws.NewHub()
	go wsHub.Run()

	// --- Игровое ядро ---
	deps := &gamemanager.Dependencies{
		UserRepo:        userRepo,
		ChallengeRepo:   challengeRepo,
		LeaderboardRepo: leaderboardRepo,
		Generator:       generator,
		Verifier:        service.NewCodeVerifier(),
	}
	selector := gamemanager.NewChallengeSelector(gameConfig, deps)
	evaluator := gamemanager.NewAttemptEvaluator(gameConfig, deps)

	// --- Сервисы ---
	authService := service.NewAuthService(userRepo, jwtService, emailService, cfg.Server.FrontendURL)
	userService := service.NewUserService(userRepo)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo, cacheRepo)
	gameService := service.NewGameService(userRepo, challengeRepo, cacheRepo, leaderboardService, selector, evaluator, wsHub, gameConfig)

	// --- Ночной батч генерации и очистки каталога ---
	dailyJob := jobs.NewDailyChallengeJob(
		generator,
		challengeRepo,
		cfg.Generation.CronSpec,
		cfg.Generation.DailyCount,
		cfg.Generation.RetentionDays,
		time.Duration(cfg.Generation.ResolvedGraceHours)*time.Hour,
	)
	if err := dailyJob.Start(); err != nil {
		log.Printf("Failed to start daily challenge job: %v", err)
		os.Exit(1)
	}

	isProduction := gin.Mode() == gin.ReleaseMode

	// --- Обработчики ---
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:3000"}
	if cfg.Server.FrontendURL != "" {
		allowedOrigins = append([]string{cfg.Server.FrontendURL}, allowedOrigins...)
	}

	authHandler := handler.NewAuthHandler(authService, jwtService, isProduction)
	gameHandler := handler.NewGameHandler(gameService, leaderboardService)
	userHandler := handler.NewUserHandler(userService)
	adminHandler := handler.NewAdminHandler(gameService, leaderboardService)
	wsHandler := handler.NewWSHandler(wsHub, jwtService, allowedOrigins)

	// --- Middleware ---
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.DefaultAuthRateLimitConfig()))
		{
			strict := rateLimiter.Limit(middleware.StrictAuthRateLimitConfig())
			authGroup.POST("/signup", strict, authHandler.Signup)
			authGroup.POST("/login", strict, authHandler.Login)
			authGroup.POST("/forgot-password", strict, authHandler.ForgotPassword)
			authGroup.POST("/reset-password", strict, authHandler.ResetPassword)

			authedAuth := authGroup.Group("/")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.POST("/logout", authHandler.Logout)
				authedAuth.POST("/change-password", authHandler.ChangePassword)
			}
		}

		// Профиль игрока
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.GetMe)
			users.GET("/me/stats", userHandler.GetStats)
			users.PUT("/me/languages", userHandler.UpdateLanguages)
		}

		// Игра
		game := api.Group("/game")
		game.Use(authMiddleware.RequireAuth())
		{
			game.GET("/daily", gameHandler.GetDailyChallenge)
			game.GET("/daily/status", gameHandler.GetDailyStatus)
			game.POST("/submit", rateLimiter.LimitByIP(middleware.SubmitRateLimitConfig()), gameHandler.SubmitAnswer)
		}

		// Лидерборд (публичный маршрут)
		api.GET("/leaderboard", gameHandler.GetLeaderboard)

		// Администрирование
		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			admin.POST("/players/:id/reset-game", adminHandler.ResetPlayerGameState)
			admin.GET("/challenges/recent", adminHandler.GetRecentChallenges)
			admin.GET("/leaderboard/export", adminHandler.ExportLeaderboard)
		}
	}

	// WebSocket маршрут
	router.GET("/ws", wsHandler.HandleConnection)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Завершаем фоновые горутины
	cancel()
	dailyJob.Stop()
	wsHub.Close()

	// Graceful shutdown HTTP сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
