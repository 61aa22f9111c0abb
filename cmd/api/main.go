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

	"github.com/VLVrishank/revdeploy/internal/config"
	"github.com/VLVrishank/revdeploy/internal/handler"
	"github.com/VLVrishank/revdeploy/internal/middleware"
	pgRepo "github.com/VLVrishank/revdeploy/internal/repository/postgres"
	redisRepo "github.com/VLVrishank/revdeploy/internal/repository/redis"
	"github.com/VLVrishank/revdeploy/internal/service"
	"github.com/VLVrishank/revdeploy/pkg/auth"
	"github.com/VLVrishank/revdeploy/pkg/database"
	"github.com/VLVrishank/revdeploy/pkg/storage"
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
	adRepo := pgRepo.NewAdRepository(db)
	newsRepo := pgRepo.NewNewsRepository(db)
	deviceRepo := pgRepo.NewDeviceRepository(db)
	pingRepo := pgRepo.NewPingRepository(db)
	interactionRepo := pgRepo.NewInteractionRepository(db)
	settingRepo := pgRepo.NewSettingRepository(db)
	operatorRepo := pgRepo.NewOperatorRepository(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Хранилище медиа-файлов рекламы
	mediaStorage, err := storage.NewCloudinaryStorage(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.APIKey,
		cfg.Cloudinary.APISecret,
		cfg.Cloudinary.Folder,
	)
	if err != nil {
		log.Printf("Failed to initialize Cloudinary storage: %v", err)
		os.Exit(1)
	}

	// JWT для операторов контроллера
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Алерты оператору о проваленных пингах (опционально)
	var alerts service.AlertSender
	if cfg.Email.APIKey != "" {
		alerts, err = service.NewResendAlertSender(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.AlertTo)
		if err != nil {
			log.Printf("Алерты по email отключены: %v", err)
			alerts = &service.NoopAlertSender{}
		}
	} else {
		alerts = &service.NoopAlertSender{}
	}

	// Корневой контекст для фоновых горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализируем сервисы
	authService := service.NewAuthService(operatorRepo, jwtService)
	adService := service.NewAdService(adRepo, cacheRepo, mediaStorage)
	newsService := service.NewNewsService(newsRepo, settingRepo, cacheRepo, service.NewsConfig{
		APIKey:   cfg.NewsAPI.APIKey,
		Country:  cfg.NewsAPI.Country,
		Category: cfg.NewsAPI.Category,
		MaxRows:  cfg.NewsAPI.MaxRows,
	})
	deviceService := service.NewDeviceService(deviceRepo)
	pingService := service.NewPingService(pingRepo, deviceRepo, alerts)
	analyticsService := service.NewAnalyticsService(interactionRepo)

	// Фоновый ингест новостей: раз в сутки, проверка ежечасно
	if cfg.NewsAPI.APIKey != "" {
		go newsService.RunDailyIngest(ctx)
	} else {
		log.Println("NEWSAPI_KEY не задан, фоновый ингест новостей отключён")
	}

	// Инициализируем обработчики
	broadcaster := handler.NewPingEventBroadcaster()
	authHandler := handler.NewAuthHandler(authService)
	adHandler := handler.NewAdHandler(adService)
	newsHandler := handler.NewNewsHandler(newsService)
	deviceHandler := handler.NewDeviceHandler(deviceService)
	pingHandler := handler.NewPingHandler(pingService, broadcaster)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	wsHandler := handler.NewWSHandler(pingService, broadcaster)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS: веб-клиенты контроллера и дисплея
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация операторов
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
		}

		// Админ-панель контроллера
		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAuth())
		{
			admin.POST("/ads", adHandler.UploadAd)
			admin.GET("/ads", adHandler.ListAds)
			admin.PATCH("/ads/:id/active", adHandler.SetActive)
			admin.DELETE("/ads/:id", adHandler.DeleteAd)

			admin.GET("/devices", deviceHandler.ListDevices)
			admin.POST("/devices", deviceHandler.Register)
			admin.GET("/devices/:id", deviceHandler.GetDevice)
			admin.POST("/devices/:id/refresh", deviceHandler.TriggerForceRefresh)
			admin.POST("/devices/:id/ping", pingHandler.CreatePing)
			admin.GET("/pings/:id", pingHandler.GetPing)
			admin.GET("/pings/:id/watch", wsHandler.WatchPing)

			admin.GET("/analytics/summary", analyticsHandler.Summary)
			admin.GET("/analytics/interactions", analyticsHandler.Recent)
			admin.GET("/analytics/export", analyticsHandler.ExportXLSX)

			admin.GET("/settings/news", newsHandler.NewsSettings)
			admin.PUT("/settings/news", newsHandler.UpdateNewsSettings)
			admin.POST("/news/ingest", newsHandler.TriggerIngest)
		}

		// Дисплеи рикш (аутентификация только PIN-входом)
		display := api.Group("/display")
		{
			display.POST("/login", deviceHandler.Login)
			display.GET("/ads", adHandler.ActivePlaylist)
			display.GET("/news", newsHandler.LatestNews)
			display.GET("/settings/news", newsHandler.NewsSettings)

			display.GET("/devices/:id", deviceHandler.GetDevice)
			display.POST("/devices/:id/heartbeat", deviceHandler.Heartbeat)
			display.GET("/devices/:id/refresh", deviceHandler.RefreshState)
			display.DELETE("/devices/:id/refresh", deviceHandler.ClearForceRefresh)

			display.GET("/devices/:id/pings/pending", pingHandler.PendingPing)
			display.POST("/pings/:id/complete", pingHandler.CompletePing)
			display.POST("/pings/:id/fail", pingHandler.FailPing)

			display.POST("/interactions", analyticsHandler.RecordInteraction)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Останавливаем фоновые горутины
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
