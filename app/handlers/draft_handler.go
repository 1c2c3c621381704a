package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/salesloop/outreach/app/dto"
	"github.com/salesloop/outreach/app/middleware"
	businessflow "github.com/salesloop/outreach/business_flow"
)

// DraftHandlerInterface defines the contract for batch draft handlers
type DraftHandlerInterface interface {
	GenerateBatch(c fiber.Ctx) error
}

// DraftHandler handles batch draft generation HTTP requests
type DraftHandler struct {
	draftFlow businessflow.DraftFlow
	validator *validator.Validate
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(draftFlow businessflow.DraftFlow) *DraftHandler {
	return &DraftHandler{
		draftFlow: draftFlow,
		validator: validator.New(),
	}
}

// GenerateBatch generates message drafts for a batch of contacts
// @Summary Generate Batch Drafts
// @Description Generate one message draft per reachable contact in the batch
// @Tags Drafts
// @Accept json
// @Produce json
// @Param request body dto.GenerateBatchRequest true "Batch draft request"
// @Success 200 {object} dto.APIResponse{data=dto.GenerateBatchResponse} "Drafts generated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 502 {object} dto.APIResponse "Generation failed"
// @Router /api/v1/drafts/batch [post]
func (h *DraftHandler) GenerateBatch(c fiber.Ctx) error {
	var req dto.GenerateBatchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	customerID, ok := middleware.GetCustomerIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}
	req.CustomerID = customerID

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.draftFlow.GenerateBatch(createRequestContext(c, "/api/v1/drafts/batch"), &req, metadata)
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		if businessflow.IsAccountInactive(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Customer account is inactive", "ACCOUNT_INACTIVE", nil)
		}
		if businessflow.IsInvalidChannel(err) || businessflow.IsInvalidIntent(err) || businessflow.IsNoValidRecipients(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Batch draft validation failed", "BATCH_DRAFT_VALIDATION_FAILED", err.Error())
		}
		if businessflow.IsUpstreamError(err) {
			return errorResponse(c, fiber.StatusBadGateway, "Draft generation failed", "GENERATION_FAILED", nil)
		}

		log.Println("Failed to generate batch drafts", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to generate batch drafts", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Batch drafts generated successfully", result)
}
