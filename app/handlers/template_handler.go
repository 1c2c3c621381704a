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

// TemplateHandlerInterface defines the contract for template handlers
type TemplateHandlerInterface interface {
	SaveTemplate(c fiber.Ctx) error
	DeleteTemplate(c fiber.Ctx) error
	ListTemplates(c fiber.Ctx) error
}

// TemplateHandler handles template-related HTTP requests
type TemplateHandler struct {
	templateFlow businessflow.TemplateFlow
	validator    *validator.Validate
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateFlow businessflow.TemplateFlow) *TemplateHandler {
	return &TemplateHandler{
		templateFlow: templateFlow,
		validator:    validator.New(),
	}
}

// SaveTemplate stores a reusable message template
// @Summary Save Template
// @Description Save a reusable message template for the authenticated customer
// @Tags Templates
// @Accept json
// @Produce json
// @Param request body dto.SaveTemplateRequest true "Template data"
// @Success 201 {object} dto.APIResponse{data=dto.SaveTemplateResponse} "Template saved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/templates [post]
func (h *TemplateHandler) SaveTemplate(c fiber.Ctx) error {
	var req dto.SaveTemplateRequest
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

	result, err := h.templateFlow.SaveTemplate(createRequestContext(c, "/api/v1/templates"), &req, metadata)
	if err != nil {
		if businessflow.IsTemplateFieldsMissing(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Template validation failed", "TEMPLATE_VALIDATION_FAILED", err.Error())
		}
		return h.mapTemplateError(c, err, "Failed to save template")
	}

	return successResponse(c, fiber.StatusCreated, "Template saved successfully", result)
}

// DeleteTemplate removes a stored template
// @Summary Delete Template
// @Description Delete a template. Deleting an unknown template is not an error.
// @Tags Templates
// @Produce json
// @Param uuid path string true "Template UUID"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteTemplateResponse} "Template deleted"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/templates/{uuid} [delete]
func (h *TemplateHandler) DeleteTemplate(c fiber.Ctx) error {
	templateUUID := c.Params("uuid")
	if templateUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Template UUID is required", "MISSING_TEMPLATE_UUID", nil)
	}

	customerID, ok := middleware.GetCustomerIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	req := &dto.DeleteTemplateRequest{UUID: templateUUID, CustomerID: customerID}

	result, err := h.templateFlow.DeleteTemplate(createRequestContext(c, "/api/v1/templates/"+templateUUID), req, metadata)
	if err != nil {
		return h.mapTemplateError(c, err, "Failed to delete template")
	}

	return successResponse(c, fiber.StatusOK, "Template deleted successfully", result)
}

// ListTemplates returns the customer's templates
// @Summary List Templates
// @Description List the authenticated customer's templates, newest first
// @Tags Templates
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListTemplatesResponse} "Templates"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/templates [get]
func (h *TemplateHandler) ListTemplates(c fiber.Ctx) error {
	customerID, ok := middleware.GetCustomerIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	req := &dto.ListTemplatesRequest{CustomerID: customerID, Page: page, PageSize: pageSize}

	result, err := h.templateFlow.ListTemplates(createRequestContext(c, "/api/v1/templates"), req, metadata)
	if err != nil {
		return h.mapTemplateError(c, err, "Failed to list templates")
	}

	return successResponse(c, fiber.StatusOK, "Templates retrieved successfully", result)
}

// mapTemplateError translates template business errors into HTTP responses
func (h *TemplateHandler) mapTemplateError(c fiber.Ctx, err error, fallback string) error {
	if businessflow.IsCustomerNotFound(err) {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
	}
	if businessflow.IsAccountInactive(err) {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer account is inactive", "ACCOUNT_INACTIVE", nil)
	}
	if businessflow.IsTemplateNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Template not found", "TEMPLATE_NOT_FOUND", nil)
	}

	log.Println(fallback, err)
	return errorResponse(c, fiber.StatusInternalServerError, fallback, "INTERNAL_ERROR", nil)
}
