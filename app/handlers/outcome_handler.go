package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/salesloop/outreach/app/dto"
	"github.com/salesloop/outreach/app/middleware"
	businessflow "github.com/salesloop/outreach/business_flow"
)

// OutcomeHandlerInterface defines the contract for outcome handlers
type OutcomeHandlerInterface interface {
	SetOutcome(c fiber.Ctx) error
}

// OutcomeHandler handles outcome-related HTTP requests
type OutcomeHandler struct {
	outcomeFlow businessflow.OutcomeFlow
	validator   *validator.Validate
}

// NewOutcomeHandler creates a new outcome handler
func NewOutcomeHandler(outcomeFlow businessflow.OutcomeFlow) *OutcomeHandler {
	return &OutcomeHandler{
		outcomeFlow: outcomeFlow,
		validator:   validator.New(),
	}
}

// SetOutcome records the outcome of a single send entry
// @Summary Set Outcome
// @Description Record the outcome of one send entry. Terminal outcomes lock the entry.
// @Tags Outcomes
// @Accept json
// @Produce json
// @Param uuid path string true "Campaign UUID"
// @Param index path int true "Entry index"
// @Param request body dto.SetOutcomeRequest true "Outcome data"
// @Success 200 {object} dto.APIResponse{data=dto.SetOutcomeResponse} "Outcome recorded"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Campaign belongs to another customer"
// @Failure 404 {object} dto.APIResponse "Campaign or entry not found"
// @Failure 409 {object} dto.APIResponse "Entry outcome already locked"
// @Router /api/v1/campaigns/{uuid}/entries/{index}/outcome [put]
func (h *OutcomeHandler) SetOutcome(c fiber.Ctx) error {
	campaignUUID := c.Params("uuid")
	if campaignUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required", "MISSING_CAMPAIGN_UUID", nil)
	}

	entryIndex, err := strconv.Atoi(c.Params("index"))
	if err != nil || entryIndex < 0 {
		return errorResponse(c, fiber.StatusBadRequest, "Entry index must be a non-negative integer", "INVALID_ENTRY_INDEX", nil)
	}

	var req dto.SetOutcomeRequest
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
	req.CampaignUUID = campaignUUID
	req.EntryIndex = entryIndex

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.outcomeFlow.SetOutcome(createRequestContext(c, "/api/v1/campaigns/"+campaignUUID+"/entries/"+c.Params("index")+"/outcome"), &req, metadata)
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		if businessflow.IsAccountInactive(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Customer account is inactive", "ACCOUNT_INACTIVE", nil)
		}
		if businessflow.IsInvalidOutcome(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid outcome value", "INVALID_OUTCOME", err.Error())
		}
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignAccessDenied(err) {
			return errorResponse(c, fiber.StatusForbidden, "Campaign access denied", "CAMPAIGN_ACCESS_DENIED", nil)
		}
		if businessflow.IsSendEntryNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Send entry not found", "SEND_ENTRY_NOT_FOUND", nil)
		}
		if businessflow.IsOutcomeLocked(err) {
			return errorResponse(c, fiber.StatusConflict, "Entry outcome is locked", "OUTCOME_LOCKED", nil)
		}

		log.Println("Failed to set outcome", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to set outcome", "INTERNAL_ERROR", nil)
	}

	middleware.RecordOutcome(req.Outcome)
	return successResponse(c, fiber.StatusOK, "Outcome recorded successfully", result)
}
