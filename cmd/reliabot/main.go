package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Vinnycalora/Reliabot/internal/bot"
	"github.com/Vinnycalora/Reliabot/internal/clock"
	"github.com/Vinnycalora/Reliabot/internal/config"
	v1 "github.com/Vinnycalora/Reliabot/internal/delivery/http/v1"
	"github.com/Vinnycalora/Reliabot/internal/repository"
	"github.com/Vinnycalora/Reliabot/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("config")
	}

	logger := newLogger(cfg.Env)

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	sysClock := clock.System{}
	svcClock := clock.NewService(sysClock)

	streakSvc := service.NewStreakService(userRepo, logger)
	analyticsSvc := service.NewAnalyticsService(taskRepo, streakSvc, logger)
	taskSvc := service.NewTaskService(taskRepo, userRepo, streakSvc, sysClock, cfg.Completion, logger)

	var telegramBot *bot.Bot
	if cfg.TelegramToken != "" {
		telegramBot, err = bot.New(cfg.TelegramToken, taskSvc, streakSvc, analyticsSvc, sysClock, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("create bot")
		}
	} else {
		logger.Warn().Msg("TELEGRAM_TOKEN not set, chat bot and reminder DMs disabled")
	}

	scheduler := service.NewSchedulerService(time.Local)
	if telegramBot != nil {
		reminderSvc := service.NewReminderService(userRepo, telegramBot, cfg.Reminder.SendTimeout, logger)
		_, err := scheduler.ScheduleInterval(cfg.Reminder.ScanInterval, func() {
			scanCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := reminderSvc.Scan(scanCtx, svcClock.Now()); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("reminder scan")
			}
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("schedule reminder scan")
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-User-ID"},
		AllowCredentials: true,
	}))
	router.Use(v1.RateLimit(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst))
	v1.New(taskSvc, streakSvc, analyticsSvc, svcClock, logger).Register(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	if telegramBot != nil {
		go func() {
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("bot stopped")
			}
		}()
	}

	<-ctx.Done()

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	logger.Info().Msg("shutdown complete")
}

func newLogger(env string) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if env == config.EnvLocal {
		writer := zerolog.NewConsoleWriter()
		writer.TimeFormat = time.DateTime
		logger = logger.Output(writer).Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
	return logger
}
