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

// CampaignHandlerInterface defines the contract for campaign handlers
type CampaignHandlerInterface interface {
	CreateCampaign(c fiber.Ctx) error
	GetCampaign(c fiber.Ctx) error
	ListCampaigns(c fiber.Ctx) error
	ExportCampaignReport(c fiber.Ctx) error
}

// CampaignHandler handles campaign-related HTTP requests
type CampaignHandler struct {
	campaignFlow businessflow.CampaignFlow
	validator    *validator.Validate
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignFlow businessflow.CampaignFlow) *CampaignHandler {
	return &CampaignHandler{
		campaignFlow: campaignFlow,
		validator:    validator.New(),
	}
}

// CreateCampaign handles bulk campaign creation
// @Summary Create Campaign
// @Description Create a campaign and dispatch one message per reachable contact
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param request body dto.CreateCampaignRequest true "Campaign creation data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateCampaignResponse} "Campaign created"
// @Failure 400 {object} dto.APIResponse "Validation error or no reachable contact"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 502 {object} dto.APIResponse "Every dispatch failed"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns [post]
func (h *CampaignHandler) CreateCampaign(c fiber.Ctx) error {
	var req dto.CreateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	customerID, ok := middleware.GetCustomerIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}
	req.CustomerID = customerID

	result, err := h.campaignFlow.CreateCampaign(createRequestContext(c, "/api/v1/campaigns"), &req, metadata)
	if err == nil {
		for range result.Entries {
			middleware.RecordDispatch(req.Channel, true)
		}
		for range result.Failed {
			middleware.RecordDispatch(req.Channel, false)
		}
	}
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		if businessflow.IsAccountInactive(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Customer account is inactive", "ACCOUNT_INACTIVE", nil)
		}
		if businessflow.IsInvalidChannel(err) || businessflow.IsNoValidRecipients(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Campaign validation failed", "CAMPAIGN_VALIDATION_FAILED", err.Error())
		}
		if businessflow.IsUpstreamError(err) {
			return errorResponse(c, fiber.StatusBadGateway, "Campaign dispatch failed", "CAMPAIGN_DISPATCH_FAILED", nil)
		}

		log.Println("Campaign creation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Campaign creation failed", "CAMPAIGN_CREATION_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Campaign created successfully", result)
}

// GetCampaign returns a campaign with its send entries
// @Summary Get Campaign
// @Description Get a campaign's details and send entries
// @Tags Campaigns
// @Produce json
// @Param uuid path string true "Campaign UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GetCampaignResponse} "Campaign details"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Campaign belongs to another customer"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Router /api/v1/campaigns/{uuid} [get]
func (h *CampaignHandler) GetCampaign(c fiber.Ctx) error {
	campaignUUID := c.Params("uuid")
	if campaignUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required", "MISSING_CAMPAIGN_UUID", nil)
	}

	customerID, ok := middleware.GetCustomerIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	req := &dto.GetCampaignRequest{UUID: campaignUUID, CustomerID: customerID}

	result, err := h.campaignFlow.GetCampaign(createRequestContext(c, "/api/v1/campaigns/"+campaignUUID), req, metadata)
	if err != nil {
		return h.mapCampaignError(c, err, "Failed to get campaign")
	}

	return successResponse(c, fiber.StatusOK, "Campaign retrieved successfully", result)
}

// ListCampaigns returns the customer's campaigns
// @Summary List Campaigns
// @Description List the authenticated customer's campaigns, newest first
// @Tags Campaigns
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListCampaignsResponse} "Campaigns"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/campaigns [get]
func (h *CampaignHandler) ListCampaigns(c fiber.Ctx) error {
	customerID, ok := middleware.GetCustomerIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	req := &dto.ListCampaignsRequest{CustomerID: customerID, Page: page, PageSize: pageSize}

	result, err := h.campaignFlow.ListCampaigns(createRequestContext(c, "/api/v1/campaigns"), req, metadata)
	if err != nil {
		return h.mapCampaignError(c, err, "Failed to list campaigns")
	}

	return successResponse(c, fiber.StatusOK, "Campaigns retrieved successfully", result)
}

// ExportCampaignReport streams an xlsx report of a campaign's send entries
// @Summary Export Campaign Report
// @Description Download an xlsx report of the campaign's send entries and outcomes
// @Tags Campaigns
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param uuid path string true "Campaign UUID"
// @Success 200 {file} binary "Report file"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Router /api/v1/campaigns/{uuid}/report [get]
func (h *CampaignHandler) ExportCampaignReport(c fiber.Ctx) error {
	campaignUUID := c.Params("uuid")
	if campaignUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required", "MISSING_CAMPAIGN_UUID", nil)
	}

	customerID, ok := middleware.GetCustomerIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	req := &dto.ExportCampaignReportRequest{UUID: campaignUUID, CustomerID: customerID}

	result, err := h.campaignFlow.ExportCampaignReport(createRequestContext(c, "/api/v1/campaigns/"+campaignUUID+"/report"), req, metadata)
	if err != nil {
		return h.mapCampaignError(c, err, "Failed to export campaign report")
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	return c.Send(result.Content)
}

// mapCampaignError translates campaign business errors into HTTP responses
func (h *CampaignHandler) mapCampaignError(c fiber.Ctx, err error, fallback string) error {
	if businessflow.IsCustomerNotFound(err) {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
	}
	if businessflow.IsAccountInactive(err) {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer account is inactive", "ACCOUNT_INACTIVE", nil)
	}
	if businessflow.IsCampaignNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
	}
	if businessflow.IsCampaignAccessDenied(err) {
		return errorResponse(c, fiber.StatusForbidden, "Campaign access denied", "CAMPAIGN_ACCESS_DENIED", nil)
	}

	log.Println(fallback, err)
	return errorResponse(c, fiber.StatusInternalServerError, fallback, "INTERNAL_ERROR", nil)
}
