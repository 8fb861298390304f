package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"farmily/internal/adapter/api"
	"farmily/internal/adapter/api/handler"
	apimiddleware "farmily/internal/adapter/api/middleware"
	"farmily/internal/adapter/api/router"
	"farmily/internal/adapter/repository"
	"farmily/internal/domain/service"
	"farmily/internal/infrastructure/cache"
	"farmily/internal/infrastructure/firebase"
	"farmily/internal/infrastructure/integration"
	"farmily/internal/infrastructure/metrics"
	"farmily/internal/infrastructure/ratelimit"
	"farmily/internal/infrastructure/storage"
	"farmily/internal/infrastructure/websocket"
	"farmily/internal/usecase"
	"farmily/pkg/config"
	"farmily/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Environment: cfg.Environment}); err != nil {
		logger.Error("Failed to initialize logger: %v", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		if _, err := os.Stat(cfg.CredentialsFile); err != nil {
			logger.Error("Service account file is not readable: %s", cfg.CredentialsFile)
			os.Exit(1)
		}
		logger.Info("Using Firebase service account from file: %s", cfg.CredentialsFile)
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		logger.Error("Failed to initialize Firebase: %v", err)
		os.Exit(1)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		logger.Error("Failed to initialize Firebase Auth: %v", err)
		os.Exit(1)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		logger.Error("Failed to create Firestore client: %v", err)
		os.Exit(1)
	}
	defer firestoreClient.Close()

	// Without a bucket, listing images stay inline as data URLs.
	var files service.FileUploadService
	if cfg.StorageBucket != "" {
		storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize Cloud Storage: %v", err)
			os.Exit(1)
		}
		defer storageClient.Close()
		files = storageClient
	} else {
		logger.Warn("STORAGE_BUCKET not set, product images are stored inline")
	}

	healthChecks := map[string]handler.Pinger{
		"firestore": func(ctx context.Context) error {
			_, err := firestoreClient.Collection("categories").Limit(1).Documents(ctx).GetAll()
			return err
		},
	}

	var responseCache cache.Cache = cache.NewMemoryCache()
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, "farmily:")
		if err != nil {
			logger.Warn("Redis unavailable, using in-memory cache: %v", err)
		} else {
			defer redisCache.Close()
			responseCache = redisCache
			healthChecks["redis"] = redisCache.Ping
		}
	}

	m := metrics.New()

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine(ctx.Done())

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	usernameRepo := repository.NewFirestoreUsernameRepository(firestoreClient)
	cartRepo := repository.NewFirestoreCartRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	taskRepo := repository.NewFirestoreTaskRepository(firestoreClient)
	yieldRepo := repository.NewFirestoreYieldRepository(firestoreClient)
	farmRepo := repository.NewFirestoreFarmRepository(firestoreClient)
	productRepo := repository.NewFirestoreProductRepository(firestoreClient)
	postRepo := repository.NewFirestorePostRepository(firestoreClient)
	communityRepo := repository.NewFirestoreCommunityRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseAPIKey)

	weatherClient := integration.NewOpenMeteoClient(cfg.OpenMeteoURL, cfg.HTTPClientTimeout, responseCache, cfg.CacheTTL, m)
	shoppingClient := integration.NewSerperClient(cfg.SerperURL, cfg.SerperAPIKey, cfg.USDToGHSRate, cfg.HTTPClientTimeout, responseCache, cfg.CacheTTL, m)
	detectionClient := integration.NewCropDetectionClient(cfg.CropDetectionURL, cfg.HTTPClientTimeout, m)

	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, postRepo, limiter)

	wsManager := websocket.NewManager(chatUseCase, m)
	wsManager.Start(ctx)
	chatUseCase.SetNotifier(wsManager)

	handler.Setup(handler.UseCases{
		Auth:          usecase.NewAuthUseCase(userRepo, usernameRepo, firebaseAuthClient),
		User:          usecase.NewUserUseCase(userRepo, usernameRepo),
		Discovery:     usecase.NewDiscoveryUseCase(userRepo, usernameRepo),
		Cart:          usecase.NewCartUseCase(cartRepo, userRepo),
		Chat:          chatUseCase,
		Task:          usecase.NewTaskUseCase(taskRepo),
		Yield:         usecase.NewYieldUseCase(yieldRepo),
		Farm:          usecase.NewFarmUseCase(farmRepo),
		Product:       usecase.NewProductUseCase(productRepo, userRepo, files, cfg.MaxUploadSize),
		Community:     usecase.NewCommunityUseCase(postRepo, communityRepo, userRepo, usernameRepo, limiter),
		Weather:       usecase.NewWeatherUseCase(weatherClient),
		Market:        usecase.NewMarketUseCase(shoppingClient),
		CropDetection: usecase.NewCropDetectionUseCase(detectionClient, limiter),
		Meeting:       usecase.NewMeetingUseCase(userRepo, cfg.AgoraAppID, cfg.AgoraToken),
	})
	handler.SetupHealthHandler(healthChecks)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(apimiddleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
	}))
	e.Use(middleware.BodyLimit(bodyLimit(cfg.MaxUploadSize)))
	e.Use(m.Middleware())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient)
	wsHandler := handler.NewWebSocketHandler(wsManager, cfg.CORSOrigins)

	router.Setup(e, authMiddleware, limiter, wsHandler, m.Handler())

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}

// bodyLimit leaves headroom over the upload size for base64 and JSON framing.
func bodyLimit(maxUpload int64) string {
	mb := (maxUpload*4/3)>>20 + 1
	return strconv.FormatInt(mb, 10) + "M"
}
