package worker

import (
	"context"
	"customs-web/internal/config"
	"customs-web/internal/engine"
	"customs-web/internal/models"
	"customs-web/internal/repository"
	"customs-web/internal/service"
	"customs-web/internal/utils"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type BatchTaskHandler struct {
	db           *sqlx.DB
	redis        *redis.Client
	cfg          *config.Config
	batchRepo    *repository.BatchRepository
	resultRepo   *repository.ResultRepository
	ratesService *service.RatesService
	excelService *service.ExcelService
}

func NewBatchTaskHandler(db *sqlx.DB, redis *redis.Client, cfg *config.Config) *BatchTaskHandler {
	ratesRepo := repository.NewRatesRepository(db)

	return &BatchTaskHandler{
		db:           db,
		redis:        redis,
		cfg:          cfg,
		batchRepo:    repository.NewBatchRepository(db),
		resultRepo:   repository.NewResultRepository(db),
		ratesService: service.NewRatesService(ratesRepo, cfg.RatesPath, utils.GetLogger()),
		excelService: service.NewExcelService(),
	}
}

func (h *BatchTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload BatchCalculatePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log.Printf("Starting calculation for batch %s (ID: %d)", payload.BatchCode, payload.SessionID)

	// Get session
	session, err := h.batchRepo.GetSessionByID(payload.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	// Check if session has been canceled
	if session.Status == models.BatchStatusCanceled {
		log.Printf("Batch %s has been canceled, skipping calculation", payload.BatchCode)
		return nil
	}

	// Check if session is already completed or failed
	if session.Status == models.BatchStatusCompleted || session.Status == models.BatchStatusFailed {
		log.Printf("Batch %s is already %s, skipping calculation", payload.BatchCode, session.Status)
		return nil
	}

	if err := h.batchRepo.UpdateSessionStatus(session.ID, models.BatchStatusProcessing); err != nil {
		log.Printf("Failed to mark batch %s processing: %v", payload.BatchCode, err)
	}
	session.Status = models.BatchStatusProcessing

	// The snapshot version pinned at upload stays in force for every row,
	// even if rates are re-imported while the batch runs.
	snap, err := h.ratesService.SnapshotByVersion(session.SnapshotVersion)
	if err != nil {
		return h.fail(session, fmt.Errorf("failed to load rate snapshot: %w", err))
	}

	calc, err := engine.NewCalculator(snap, engine.Options{Workers: h.cfg.BatchWorkers})
	if err != nil {
		return h.fail(session, err)
	}

	records, err := h.excelService.ParseBatchFile(session.FilePath)
	if err != nil {
		return h.fail(session, fmt.Errorf("failed to parse batch file: %w", err))
	}

	// Rows from an earlier run of this session are replaced
	if err := h.resultRepo.DeleteRowsBySession(session.ID); err != nil {
		return h.fail(session, fmt.Errorf("failed to clear previous rows: %w", err))
	}

	// Process in chunks so progress stays visible on large files
	chunkSize := h.cfg.BatchSize
	if chunkSize <= 0 {
		chunkSize = len(records)
	}

	totalProcessed := 0
	totalFailed := 0
	totalCIF := decimal.Zero
	totalLanded := decimal.Zero

	for start := 0; start < len(records); start += chunkSize {
		end := start + chunkSize
		if end > len(records) {
			end = len(records)
		}

		var result *models.BatchResult
		switch session.Calculator {
		case models.CalculatorAlcohol:
			result, err = calc.ProcessAlcoholBatch(ctx, records[start:end])
		case models.CalculatorVehicle:
			result, err = calc.ProcessVehicleBatch(ctx, records[start:end])
		default:
			err = fmt.Errorf("unknown calculator %q", session.Calculator)
		}
		if err != nil {
			return h.fail(session, err)
		}

		rows := make([]models.BatchRowRecord, 0, len(result.Rows))
		for _, row := range result.Rows {
			record := models.BatchRowRecord{
				SessionID: session.ID,
				RowNum:    row.Row,
			}
			if row.Result != nil {
				rowPayload, merr := json.Marshal(row.Result)
				if merr != nil {
					return h.fail(session, fmt.Errorf("failed to encode row %d: %w", row.Row, merr))
				}
				record.Succeeded = true
				record.HSCode = row.Result.HSCode
				record.Description = row.Result.HSDescription
				record.CIFValue = row.Result.CIFValue
				record.TotalLandedCost = row.Result.TotalLandedCost
				record.Payload = rowPayload
			} else {
				record.ErrorMessage = row.Error
			}
			rows = append(rows, record)
		}

		if err := h.resultRepo.BulkInsertRows(rows); err != nil {
			return h.fail(session, fmt.Errorf("failed to store rows: %w", err))
		}

		totalProcessed += len(result.Rows)
		totalFailed += result.FailedCount
		totalCIF = totalCIF.Add(result.TotalCIF)
		totalLanded = totalLanded.Add(result.TotalLandedCost)

		// Update session progress
		session.ProcessedRows = totalProcessed
		session.FailedRows = totalFailed
		session.TotalCIF = totalCIF
		session.TotalLandedCost = totalLanded
		if err := h.batchRepo.UpdateSession(session); err != nil {
			log.Printf("Failed to update session progress: %v", err)
		}

		// Update progress in Redis
		progressKey := fmt.Sprintf("batch:progress:%d", session.ID)
		progress := float64(totalProcessed) / float64(len(records)) * 100
		h.redis.Set(ctx, progressKey, fmt.Sprintf("%.2f", progress), 0)

		log.Printf("Processed %d/%d rows (%.2f%%)", totalProcessed, len(records), progress)
	}

	// Mark session as completed
	session.Status = models.BatchStatusCompleted
	session.ErrorMessage = ""
	if err := h.batchRepo.UpdateSession(session); err != nil {
		log.Printf("Failed to update session status: %v", err)
	}

	log.Printf("Calculation completed for batch %s. Succeeded: %d, Failed: %d",
		payload.BatchCode, totalProcessed-totalFailed, totalFailed)

	return nil
}

// fail marks the session failed and returns the error so asynq records the
// task as failed. A retried task then hits the status guard and skips.
func (h *BatchTaskHandler) fail(session *models.BatchSession, err error) error {
	session.Status = models.BatchStatusFailed
	session.ErrorMessage = err.Error()
	if uerr := h.batchRepo.UpdateSession(session); uerr != nil {
		log.Printf("Failed to mark batch %s failed: %v", session.BatchCode, uerr)
	}
	return err
}
