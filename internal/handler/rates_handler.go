package handler

import (
	"customs-web/internal/rates"
	"customs-web/internal/service"
	"customs-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type RatesHandler struct {
	ratesService *service.RatesService
}

func NewRatesHandler(ratesService *service.RatesService) *RatesHandler {
	return &RatesHandler{ratesService: ratesService}
}

// GetActiveRates returns the rate table every new calculation runs against.
func (h *RatesHandler) GetActiveRates(c *fiber.Ctx) error {
	doc, err := h.ratesService.ActiveDocument()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load rates", err)
	}

	return utils.SuccessResponse(c, "Rates retrieved successfully", doc)
}

func (h *RatesHandler) GetVersions(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	versions, total, err := h.ratesService.Versions(params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve versions", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	responseData := fiber.Map{
		"versions":   versions,
		"pagination": pagination,
	}

	return utils.PaginatedResponseBuilder(c, "Versions retrieved successfully", responseData, pagination)
}

func (h *RatesHandler) GetVersion(c *fiber.Ctx) error {
	version := c.Params("version")

	doc, err := h.ratesService.DocumentByVersion(version)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Version not found", err)
	}

	return utils.SuccessResponse(c, "Rates retrieved successfully", doc)
}

// ImportRates replaces the active rate table. Batches pinned to an older
// version keep calculating against that version.
func (h *RatesHandler) ImportRates(c *fiber.Ctx) error {
	var doc rates.Document
	if err := c.BodyParser(&doc); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if doc.Version == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Version is required", nil)
	}

	// Validate before anything touches storage
	if _, err := rates.FromDocument(doc); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid rate document", err)
	}

	snap, err := h.ratesService.Import(doc)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to import rates", err)
	}

	return utils.SuccessResponse(c, "Rates imported successfully", fiber.Map{
		"version":      snap.Version,
		"last_updated": snap.LastUpdated,
	})
}
