package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	httpin "github.com/aslima544/consultorio-slot-engine/internal/adapters/in/http"
	"github.com/aslima544/consultorio-slot-engine/internal/adapters/in/rabbitmq"
	"github.com/aslima544/consultorio-slot-engine/internal/adapters/out/cache"
	"github.com/aslima544/consultorio-slot-engine/internal/adapters/out/logger"
	"github.com/aslima544/consultorio-slot-engine/internal/adapters/out/registry"
	"github.com/aslima544/consultorio-slot-engine/internal/adapters/out/store/memory"
	"github.com/aslima544/consultorio-slot-engine/internal/adapters/out/store/postgres"
	"github.com/aslima544/consultorio-slot-engine/internal/config"
	"github.com/aslima544/consultorio-slot-engine/internal/core/ports/out"
	"github.com/aslima544/consultorio-slot-engine/internal/core/services"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера с таймзоной
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := mainLogger.WithModule("Main")

	logger.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"granularity":     cfg.Granularity.String(),
		"rabbitmqEnabled": cfg.RabbitMq.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Хранилище записей: Postgres в проде, in-memory без DATABASE_URL
	var storePort out.AppointmentStorePort
	if cfg.Postgres.URL != "" {
		repository, err := postgres.NewAppointmentRepository(ctx, cfg.Postgres.URL, logger.WithModule("AppointmentRepository"))
		if err != nil {
			logger.Error("app.postgres.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		defer repository.Close()
		storePort = repository
	} else {
		logger.Info("app.store.memory", out.LogFields{
			"message": "DATABASE_URL is not set, using in-memory appointment store",
		})
		storePort = memory.NewAppointmentStore()
	}

	// Реестр консульториев: внешний HTTP сервис или статичный набор
	var registryPort out.RegistryPort
	if cfg.Registry.URL != "" {
		registryPort = registry.NewRegistryAdapter(cfg, logger.WithModule("RegistryAdapter"))
	} else {
		logger.Info("app.registry.static", out.LogFields{
			"message": "REGISTRY_URL is not set, using static consultorio registry",
		})
		registryPort = registry.NewStaticAdapter()
	}

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		var err error
		cacheAdapter, err = cache.NewCacheAdapter(cfg, logger.WithModule("CacheAdapter"))
		if err != nil {
			logger.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}

	// Инициализация сервисов
	availabilityService := services.NewAvailabilityService(
		storePort,
		registryPort,
		cacheAdapter,
		cfg,
		logger,
	)
	bookingService := services.NewBookingService(
		availabilityService,
		storePort,
		cfg,
		logger,
	)

	// Настройка HTTP сервера
	router := gin.Default()
	controller := httpin.NewBookingController(availabilityService, bookingService, cfg)
	controller.RegisterRoutes(router)

	// Настройка RabbitMQ слушателя только если он включен
	if cfg.RabbitMq.Enabled {
		listener, err := rabbitmq.NewRegistryListener(
			availabilityService,
			cfg,
			logger.WithModule("RegistryListener"),
		)
		if err != nil {
			logger.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		if err := listener.Start(ctx); err != nil {
			logger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				logger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			logger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	logger.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
