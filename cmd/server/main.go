package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskdeck/backend/api/handler"
	"github.com/taskdeck/backend/internal/config"
	calendarInfra "github.com/taskdeck/backend/internal/infrastructure/calendar"
	"github.com/taskdeck/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskdeck/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskdeck/backend/internal/infrastructure/redis"
	"github.com/taskdeck/backend/internal/infrastructure/trigger"
	"github.com/taskdeck/backend/internal/middleware"
	"github.com/taskdeck/backend/internal/router"
	"github.com/taskdeck/backend/internal/services"
	"github.com/taskdeck/backend/internal/services/lifecycle"
	"github.com/taskdeck/backend/pkg/httpcontext"
	"github.com/taskdeck/backend/pkg/logger"
	"github.com/taskdeck/backend/repository/postgres"
	redisRepo "github.com/taskdeck/backend/repository/redis"
	authUC "github.com/taskdeck/backend/usecase/auth"
	categoryUC "github.com/taskdeck/backend/usecase/category"
	profileUC "github.com/taskdeck/backend/usecase/profile"
	"github.com/taskdeck/backend/usecase/reminder"
	taskUC "github.com/taskdeck/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	triggerStore, err := trigger.Open(cfg.Reminder.StorePath, "triggers")
	if err != nil {
		zapLogger.Fatal("failed to open trigger store", zap.Error(err))
	}
	manager.Register("trigger_store", func(ctx context.Context) error {
		return triggerStore.Close()
	})

	mon := monitor.New(pool, redisClient, triggerStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)

	dispatcher := services.NewTriggerDispatcher(triggerStore, zapLogger, services.DispatcherConfig{
		Interval:  cfg.Reminder.DrainInterval,
		BatchSize: cfg.Reminder.BatchSize,
	})
	dispatcher.AddSink(services.NewRedisSink(redisClient))
	dispatcher.AddSink(services.NewLogSink(zapLogger))
	dispatcher.Start()
	manager.Register("trigger_dispatcher", func(ctx context.Context) error {
		dispatcher.Stop(ctx)
		return nil
	})

	eventBus := services.NewTaskEventBus(redisClient, zapLogger)
	scheduler := reminder.NewScheduler(services.NewNotifyBridge(triggerStore), cfg.Reminder.Lead, zapLogger)

	var calendarSync *services.CalendarBridge
	if cfg.Calendar.Enabled {
		calClient, err := calendarInfra.NewClient(appCtx, calendarInfra.Config{
			CredentialsFile: cfg.Calendar.CredentialsFile,
			TokenFile:       cfg.Calendar.TokenFile,
			CalendarID:      cfg.Calendar.CalendarID,
			Timezone:        cfg.Calendar.Timezone,
		})
		if err != nil {
			// Calendar sync is best-effort even at boot; the rest of the
			// service runs without it.
			zapLogger.Warn("calendar sync disabled", zap.Error(err))
		} else {
			calendarSync = services.NewCalendarBridge(calClient, zapLogger)
		}
	}

	authUseCase := authUC.New(userRepo, sessionRepo, authUC.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
	}, zapLogger)
	profileUseCase := profileUC.New(userRepo, zapLogger)
	categoryUseCase := categoryUC.New(categoryRepo, zapLogger)

	var taskUseCase *taskUC.UseCase
	if calendarSync != nil {
		taskUseCase = taskUC.New(taskRepo, scheduler, eventBus, calendarSync, zapLogger)
	} else {
		taskUseCase = taskUC.New(taskRepo, scheduler, eventBus, nil, zapLogger)
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:     apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.JWT.SessionTTL),
		Profile:  apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Task:     apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Category: apiHandler.NewCategoryHandler(categoryUseCase, ctxAdapter, zapLogger),
		Stream:   apiHandler.NewStreamHandler(eventBus, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
