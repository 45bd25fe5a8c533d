package handler

import (
	"customs-web/internal/config"
	"customs-web/internal/engine"
	"customs-web/internal/models"
	"customs-web/internal/service"
	"customs-web/internal/utils"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type CalculatorHandler struct {
	ratesService *service.RatesService
	cfg          *config.Config
}

func NewCalculatorHandler(ratesService *service.RatesService, cfg *config.Config) *CalculatorHandler {
	return &CalculatorHandler{
		ratesService: ratesService,
		cfg:          cfg,
	}
}

func (h *CalculatorHandler) CalculateAlcohol(c *fiber.Ctx) error {
	var item models.AlcoholItem
	if err := c.BodyParser(&item); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	calc, err := h.newCalculator(c.Query("version"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load rate snapshot", err)
	}

	result, err := calc.CalculateAlcohol(item)
	if err != nil {
		return calculationErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Calculation completed successfully", result)
}

func (h *CalculatorHandler) CalculateVehicle(c *fiber.Ctx) error {
	var item models.VehicleItem
	if err := c.BodyParser(&item); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	calc, err := h.newCalculator(c.Query("version"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load rate snapshot", err)
	}

	result, err := calc.CalculateVehicle(item)
	if err != nil {
		return calculationErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Calculation completed successfully", result)
}

// batchCalculationRequest carries ad-hoc batch rows posted as JSON. Values
// arrive untyped and are stringified before parsing, so the same column
// handling applies to JSON rows and spreadsheet rows.
type batchCalculationRequest struct {
	Rows []map[string]interface{} `json:"rows"`
}

func (h *CalculatorHandler) CalculateAlcoholBatch(c *fiber.Ctx) error {
	records, calc, err := h.parseBatchRequest(c)
	if err != nil {
		return err
	}

	result, err := calc.ProcessAlcoholBatch(c.Context(), records)
	if err != nil {
		return calculationErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Batch calculated successfully", result)
}

func (h *CalculatorHandler) CalculateVehicleBatch(c *fiber.Ctx) error {
	records, calc, err := h.parseBatchRequest(c)
	if err != nil {
		return err
	}

	result, err := calc.ProcessVehicleBatch(c.Context(), records)
	if err != nil {
		return calculationErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Batch calculated successfully", result)
}

func (h *CalculatorHandler) parseBatchRequest(c *fiber.Ctx) ([]models.RawRecord, *engine.Calculator, error) {
	var req batchCalculationRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, nil, utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if len(req.Rows) == 0 {
		return nil, nil, utils.ErrorResponse(c, fiber.StatusBadRequest, "At least one row is required", nil)
	}

	records := make([]models.RawRecord, 0, len(req.Rows))
	for i, row := range req.Rows {
		fields := make(map[string]string, len(row))
		for key, value := range row {
			if value == nil {
				continue
			}
			fields[key] = fmt.Sprint(value)
		}
		records = append(records, models.RawRecord{Row: i + 1, Fields: fields})
	}

	calc, err := h.newCalculator(c.Query("version"))
	if err != nil {
		return nil, nil, utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load rate snapshot", err)
	}

	return records, calc, nil
}

// newCalculator builds a calculator on the requested snapshot version, or on
// the active snapshot when no version is given.
func (h *CalculatorHandler) newCalculator(version string) (*engine.Calculator, error) {
	snap, err := h.ratesService.SnapshotByVersion(version)
	if err != nil {
		return nil, err
	}
	return engine.NewCalculator(snap, engine.Options{Workers: h.cfg.BatchWorkers})
}

// calculationErrorResponse maps engine errors to HTTP statuses. Bad input is
// the client's to fix; a snapshot missing an entry is not.
func calculationErrorResponse(c *fiber.Ctx, err error) error {
	var inputErr *engine.InvalidInputError
	if errors.As(err, &inputErr) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err)
	}

	var configErr *engine.ConfigurationError
	if errors.As(err, &configErr) {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Rate configuration error", err)
	}

	return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Calculation failed", err)
}
