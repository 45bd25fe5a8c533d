package router

import (
	"customs-web/internal/config"
	"customs-web/internal/handler"
	"customs-web/internal/repository"
	"customs-web/internal/service"
	"customs-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redis *redis.Client,
	cfg *config.Config,
) {
	// Initialize repositories
	batchRepo := repository.NewBatchRepository(db)
	resultRepo := repository.NewResultRepository(db)
	ratesRepo := repository.NewRatesRepository(db)

	// Initialize services
	ratesService := service.NewRatesService(ratesRepo, cfg.RatesPath, utils.GetLogger())

	// Initialize Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redis != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Initialize handlers
	calculatorHandler := handler.NewCalculatorHandler(ratesService, cfg)
	batchHandler := handler.NewBatchHandler(batchRepo, resultRepo, ratesService, asynqClient, redis, cfg)
	ratesHandler := handler.NewRatesHandler(ratesService)

	// Calculation routes
	calculations := router.Group("/calculations")
	calculations.Post("/alcohol", calculatorHandler.CalculateAlcohol)
	calculations.Post("/alcohol/batch", calculatorHandler.CalculateAlcoholBatch)
	calculations.Post("/vehicle", calculatorHandler.CalculateVehicle)
	calculations.Post("/vehicle/batch", calculatorHandler.CalculateVehicleBatch)

	// Batch routes
	batches := router.Group("/batches")
	batches.Post("/upload", batchHandler.UploadBatch)
	batches.Get("/", batchHandler.GetBatches)
	batches.Get("/template", batchHandler.DownloadTemplate)
	batches.Get("/export", batchHandler.ExportSessions)
	batches.Get("/code/:code", batchHandler.GetBatchByCode)
	batches.Get("/:id", batchHandler.GetBatchDetail)
	batches.Get("/:id/rows", batchHandler.GetBatchRows)
	batches.Post("/:id/process", batchHandler.ProcessBatch)
	batches.Post("/:id/cancel", batchHandler.CancelBatch)
	batches.Get("/:id/export", batchHandler.ExportBatch)
	batches.Get("/:id/report", batchHandler.DownloadReport)
	batches.Delete("/:id", batchHandler.DeleteBatch)

	// Rate snapshot routes
	ratesGroup := router.Group("/rates")
	ratesGroup.Get("/", ratesHandler.GetActiveRates)
	ratesGroup.Put("/", ratesHandler.ImportRates)
	ratesGroup.Get("/versions", ratesHandler.GetVersions)
	ratesGroup.Get("/versions/:version", ratesHandler.GetVersion)
}
