// main.go — точка входа File Store.
// Конфигурация резолвится один раз при старте и передаётся в конструкторы;
// глобальное состояние внутри сервисов не читается.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/filestore/internal/api/handlers"
	"github.com/bigkaa/filestore/internal/api/middleware"
	"github.com/bigkaa/filestore/internal/config"
	"github.com/bigkaa/filestore/internal/database"
	"github.com/bigkaa/filestore/internal/repository"
	"github.com/bigkaa/filestore/internal/server"
	"github.com/bigkaa/filestore/internal/service"
	"github.com/bigkaa/filestore/internal/storage"
)

func main() {
	ctx := context.Background()

	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// 2. Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("File Store запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 3. PostgreSQL: миграции + пул подключений
	if err := database.Migrate(cfg, logger); err != nil {
		log.Fatalf("Ошибка миграций: %v", err)
	}

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Ошибка подключения к PostgreSQL: %v", err)
	}
	defer pool.Close()

	// 4. Объектное хранилище (MinIO)
	store, err := storage.NewMinioStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Ошибка подключения к объектному хранилищу: %v", err)
	}

	// 5. Репозиторий, кэш метаданных и координатор
	fileRepo := repository.NewFileRepository(pool)
	cache := service.NewCacheService(cfg.CacheSize, cfg.CacheTTL)
	fileService := service.NewFileService(fileRepo, store, cache, logger)

	// 6. Мониторинг зависимостей (dephealth)
	if cfg.DephealthEnabled {
		sqlDB := stdlib.OpenDBFromPool(pool)
		dh, err := service.NewDephealthService(
			cfg.DephealthGroup,
			sqlDB,
			cfg.DatabaseDSN(),
			store.HealthURL(),
			cfg.DephealthCheckInterval,
			logger,
		)
		if err != nil {
			logger.Error("Ошибка инициализации dephealth", slog.String("error", err.Error()))
		} else {
			if err := dh.Start(ctx); err != nil {
				logger.Error("Ошибка запуска dephealth", slog.String("error", err.Error()))
			}
			defer dh.Stop()
		}
	}

	// 7. Handlers
	healthHandler := handlers.NewHealthHandler(
		database.NewReadinessChecker(pool),
		store,
	)
	apiHandler := handlers.NewAPIHandler(fileService, healthHandler, logger)

	// 8. HTTP-сервер (блокирующий вызов с graceful shutdown)
	srv := server.New(cfg, logger, apiHandler,
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
	)

	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		log.Fatalf("Сервер завершился с ошибкой: %v", err)
	}

	logger.Info("File Store остановлен")
}
