package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/salesloop/outreach/app/dto"
	"github.com/salesloop/outreach/app/middleware"
	businessflow "github.com/salesloop/outreach/business_flow"
)

// FollowUpHandlerInterface defines the contract for follow-up handlers
type FollowUpHandlerInterface interface {
	DraftFollowUp(c fiber.Ctx) error
	SendFollowUp(c fiber.Ctx) error
}

// FollowUpHandler handles follow-up HTTP requests
type FollowUpHandler struct {
	followUpFlow businessflow.FollowUpFlow
	validator    *validator.Validate
}

// NewFollowUpHandler creates a new follow-up handler
func NewFollowUpHandler(followUpFlow businessflow.FollowUpFlow) *FollowUpHandler {
	return &FollowUpHandler{
		followUpFlow: followUpFlow,
		validator:    validator.New(),
	}
}

// DraftFollowUp generates a follow-up draft tailored to a recorded outcome
// @Summary Draft Follow-up
// @Description Generate a follow-up message draft for a contact based on the outcome of a previous campaign
// @Tags FollowUps
// @Accept json
// @Produce json
// @Param request body dto.DraftFollowUpRequest true "Draft request"
// @Success 200 {object} dto.APIResponse{data=dto.DraftFollowUpResponse} "Draft generated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Contact or campaign not found"
// @Failure 502 {object} dto.APIResponse "Generation failed"
// @Router /api/v1/follow-ups/draft [post]
func (h *FollowUpHandler) DraftFollowUp(c fiber.Ctx) error {
	var req dto.DraftFollowUpRequest
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

	result, err := h.followUpFlow.DraftFollowUp(createRequestContext(c, "/api/v1/follow-ups/draft"), &req, metadata)
	if err != nil {
		return h.mapFollowUpError(c, err, "Failed to draft follow-up")
	}

	return successResponse(c, fiber.StatusOK, "Follow-up draft generated successfully", result)
}

// SendFollowUp dispatches a follow-up email and records it as a linked campaign
// @Summary Send Follow-up
// @Description Send a follow-up email and record it as a single-entry campaign linked to the original
// @Tags FollowUps
// @Accept json
// @Produce json
// @Param request body dto.SendFollowUpRequest true "Send request"
// @Success 201 {object} dto.APIResponse{data=dto.SendFollowUpResponse} "Follow-up sent"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Contact or campaign not found"
// @Failure 502 {object} dto.APIResponse "Dispatch failed"
// @Router /api/v1/follow-ups [post]
func (h *FollowUpHandler) SendFollowUp(c fiber.Ctx) error {
	var req dto.SendFollowUpRequest
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

	result, err := h.followUpFlow.SendFollowUp(createRequestContext(c, "/api/v1/follow-ups"), &req, metadata)
	if err != nil {
		return h.mapFollowUpError(c, err, "Failed to send follow-up")
	}

	return successResponse(c, fiber.StatusCreated, "Follow-up sent successfully", result)
}

// mapFollowUpError translates follow-up business errors into HTTP responses
func (h *FollowUpHandler) mapFollowUpError(c fiber.Ctx, err error, fallback string) error {
	if businessflow.IsCustomerNotFound(err) {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
	}
	if businessflow.IsAccountInactive(err) {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer account is inactive", "ACCOUNT_INACTIVE", nil)
	}
	if businessflow.IsInvalidOutcome(err) {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid outcome value", "INVALID_OUTCOME", err.Error())
	}
	if businessflow.IsContactNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Contact not found", "CONTACT_NOT_FOUND", nil)
	}
	if businessflow.IsParentCampaignNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Original campaign not found", "PARENT_CAMPAIGN_NOT_FOUND", nil)
	}
	if businessflow.IsParentCampaignForbidden(err) {
		return errorResponse(c, fiber.StatusForbidden, "Original campaign access denied", "PARENT_CAMPAIGN_FORBIDDEN", nil)
	}
	if businessflow.IsUpstreamError(err) {
		return errorResponse(c, fiber.StatusBadGateway, "Upstream service failed", "UPSTREAM_FAILURE", nil)
	}

	log.Println(fallback, err)
	return errorResponse(c, fiber.StatusInternalServerError, fallback, "INTERNAL_ERROR", nil)
}
