package handler

import (
	"customs-web/internal/config"
	"customs-web/internal/models"
	"customs-web/internal/repository"
	"customs-web/internal/service"
	"customs-web/internal/utils"
	"customs-web/internal/worker"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type BatchHandler struct {
	batchRepo    *repository.BatchRepository
	resultRepo   *repository.ResultRepository
	ratesService *service.RatesService
	excelService *service.ExcelService
	pdfService   *service.PDFService
	asynqClient  *asynq.Client
	redisClient  *redis.Client
	cfg          *config.Config
}

func NewBatchHandler(
	batchRepo *repository.BatchRepository,
	resultRepo *repository.ResultRepository,
	ratesService *service.RatesService,
	asynqClient *asynq.Client,
	redisClient *redis.Client,
	cfg *config.Config,
) *BatchHandler {
	return &BatchHandler{
		batchRepo:    batchRepo,
		resultRepo:   resultRepo,
		ratesService: ratesService,
		excelService: service.NewExcelService(),
		pdfService:   service.NewPDFService(),
		asynqClient:  asynqClient,
		redisClient:  redisClient,
		cfg:          cfg,
	}
}

func (h *BatchHandler) UploadBatch(c *fiber.Ctx) error {
	calculator := c.FormValue("calculator")
	if calculator != models.CalculatorAlcohol && calculator != models.CalculatorVehicle {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Calculator must be 'alcohol' or 'vehicle'", nil)
	}

	// Get uploaded file
	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	// Validate file type
	ext := filepath.Ext(file.Filename)
	if ext != ".xlsx" && ext != ".xls" && ext != ".csv" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only Excel or CSV files (.xlsx, .xls, .csv) are allowed", nil)
	}

	// Validate file size
	if file.Size > int64(h.cfg.UploadMaxSize) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", nil)
	}

	// Generate batch code
	batchCode := fmt.Sprintf("BATCH-%s", uuid.New().String()[:8])

	// Save file
	filePath := filepath.Join(h.cfg.UploadPath, fmt.Sprintf("%s%s", batchCode, ext))
	if err := c.SaveFile(file, filePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
	}

	// Parse to count rows before anything is queued
	records, err := h.excelService.ParseBatchFile(filePath)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to parse batch file", err)
	}

	// Pin the active snapshot version now so later re-imports of the rate
	// table cannot change what this batch will be calculated against
	snap, err := h.ratesService.ActiveSnapshot()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load rate snapshot", err)
	}

	session := &models.BatchSession{
		BatchCode:       batchCode,
		Calculator:      calculator,
		Filename:        file.Filename,
		FilePath:        filePath,
		TotalRows:       len(records),
		Status:          models.BatchStatusUploaded,
		SnapshotVersion: snap.Version,
	}

	if err := h.batchRepo.CreateSession(session); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create batch session", err)
	}

	return utils.SuccessResponse(c, "File uploaded successfully", fiber.Map{
		"session":    session,
		"total_rows": len(records),
		"preview":    previewRecords(records, 10),
	})
}

func (h *BatchHandler) GetBatches(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	sessions, total, err := h.batchRepo.GetSessions(params.Limit, offset, c.Query("calculator"), c.Query("status"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve batches", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	responseData := fiber.Map{
		"sessions":   sessions,
		"pagination": pagination,
	}

	return utils.PaginatedResponseBuilder(c, "Batches retrieved successfully", responseData, pagination)
}

func (h *BatchHandler) GetBatchDetail(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid batch ID", err)
	}

	session, err := h.batchRepo.GetSessionByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Batch not found", err)
	}

	responseData := fiber.Map{
		"session": session,
	}

	// Progress is best effort; a missing key just means no run has started
	if h.redisClient != nil {
		progressKey := fmt.Sprintf("batch:progress:%d", session.ID)
		if progress, err := h.redisClient.Get(c.Context(), progressKey).Result(); err == nil {
			responseData["progress"] = progress
		}
	}

	return utils.SuccessResponse(c, "Batch retrieved successfully", responseData)
}

// GetBatchByCode resolves a session by its public batch code. Upload
// responses surface the code, so clients can poll without keeping the ID.
func (h *BatchHandler) GetBatchByCode(c *fiber.Ctx) error {
	session, err := h.batchRepo.GetSessionByCode(c.Params("code"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Batch not found", err)
	}

	return utils.SuccessResponse(c, "Batch retrieved successfully", fiber.Map{
		"session": session,
	})
}

func (h *BatchHandler) GetBatchRows(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid batch ID", err)
	}

	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	rows, total, err := h.resultRepo.GetRowsBySession(id, params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve rows", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	responseData := fiber.Map{
		"rows":       rows,
		"pagination": pagination,
	}

	return utils.PaginatedResponseBuilder(c, "Rows retrieved successfully", responseData, pagination)
}

func (h *BatchHandler) ProcessBatch(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid batch ID", err)
	}

	session, err := h.batchRepo.GetSessionByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Batch not found", err)
	}

	// Check if already processing, completed or canceled
	if session.Status == models.BatchStatusProcessing {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Batch is already being processed", nil)
	}
	if session.Status == models.BatchStatusCompleted {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Batch is already completed", nil)
	}
	if session.Status == models.BatchStatusCanceled {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Batch has been canceled", nil)
	}

	// Create calculation task
	if h.asynqClient == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background job processing is not available (Redis not connected)", nil)
	}

	task, err := worker.NewBatchCalculateTask(session.ID, session.BatchCode)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to queue calculation task", err)
	}

	info, err := h.asynqClient.Enqueue(task)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to queue calculation task", err)
	}

	// Mark processing now so a repeat process request is rejected rather
	// than enqueuing a duplicate task
	if err := h.batchRepo.UpdateSessionStatus(session.ID, models.BatchStatusProcessing); err == nil {
		session.Status = models.BatchStatusProcessing
	}

	return utils.SuccessResponse(c, "Calculation started", fiber.Map{
		"job_id":  info.ID,
		"session": session,
	})
}

func (h *BatchHandler) CancelBatch(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid batch ID", err)
	}

	session, err := h.batchRepo.GetSessionByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Batch not found", err)
	}

	if session.Status == models.BatchStatusCompleted || session.Status == models.BatchStatusFailed {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Batch has already finished", nil)
	}

	if err := h.batchRepo.UpdateSessionStatus(id, models.BatchStatusCanceled); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to cancel batch", err)
	}

	session.Status = models.BatchStatusCanceled
	return utils.SuccessResponse(c, "Batch canceled", session)
}

func (h *BatchHandler) DeleteBatch(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid batch ID", err)
	}

	session, err := h.batchRepo.GetSessionByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Batch not found", err)
	}

	if session.Status == models.BatchStatusProcessing {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Batch is being processed and cannot be deleted", nil)
	}

	if err := h.resultRepo.DeleteRowsBySession(id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete batch rows", err)
	}
	if err := h.batchRepo.DeleteSession(id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete batch", err)
	}

	// The uploaded file is disposable once the session is gone
	os.Remove(session.FilePath)

	return utils.SuccessResponse(c, "Batch deleted successfully", nil)
}

func (h *BatchHandler) ExportBatch(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid batch ID", err)
	}

	session, err := h.batchRepo.GetSessionByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Batch not found", err)
	}

	rows, err := h.resultRepo.GetAllRowsBySession(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve rows", err)
	}

	exportFileName := fmt.Sprintf("results_%s_%s.xlsx", session.BatchCode, time.Now().Format("20060102_150405"))
	exportPath := filepath.Join(h.cfg.ExportPath, exportFileName)

	if err := h.excelService.ExportBatchResults(session, rows, exportPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export results", err)
	}

	return c.Download(exportPath, exportFileName)
}

// ExportSessions downloads the batch session ledger as a workbook. The
// calculator and status query filters narrow it the same way the listing does.
func (h *BatchHandler) ExportSessions(c *fiber.Ctx) error {
	sessions, _, err := h.batchRepo.GetSessions(1000000, 0, c.Query("calculator"), c.Query("status"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve batches", err)
	}

	exportFileName := fmt.Sprintf("sessions_%s.xlsx", time.Now().Format("20060102_150405"))
	exportPath := filepath.Join(h.cfg.ExportPath, exportFileName)

	if err := h.excelService.ExportSessionsList(sessions, exportPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export sessions", err)
	}

	return c.Download(exportPath, exportFileName)
}

func (h *BatchHandler) DownloadReport(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid batch ID", err)
	}

	session, err := h.batchRepo.GetSessionByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Batch not found", err)
	}

	rows, err := h.resultRepo.GetAllRowsBySession(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve rows", err)
	}

	reportFileName := fmt.Sprintf("report_%s_%s.pdf", session.BatchCode, time.Now().Format("20060102_150405"))
	reportPath := filepath.Join(h.cfg.ExportPath, reportFileName)

	if err := h.pdfService.GenerateBatchReport(session, rows, reportPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate report", err)
	}

	return c.Download(reportPath, reportFileName)
}

func (h *BatchHandler) DownloadTemplate(c *fiber.Ctx) error {
	calculator := c.Query("calculator")

	templateFileName := fmt.Sprintf("%s_template.xlsx", calculator)
	templatePath := filepath.Join(h.cfg.ExportPath, templateFileName)

	var err error
	switch calculator {
	case models.CalculatorAlcohol:
		err = h.excelService.GenerateAlcoholTemplate(templatePath)
	case models.CalculatorVehicle:
		err = h.excelService.GenerateVehicleTemplate(templatePath)
	default:
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Calculator must be 'alcohol' or 'vehicle'", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}

	return c.Download(templatePath, templateFileName)
}

func previewRecords(records []models.RawRecord, limit int) []models.RawRecord {
	if len(records) > limit {
		return records[:limit]
	}
	return records
}
