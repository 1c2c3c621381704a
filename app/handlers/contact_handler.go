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

// ContactHandlerInterface defines the contract for contact handlers
type ContactHandlerInterface interface {
	CreateContact(c fiber.Ctx) error
	GetContact(c fiber.Ctx) error
	ListActivities(c fiber.Ctx) error
	AddNote(c fiber.Ctx) error
	EditNote(c fiber.Ctx) error
	DeleteNote(c fiber.Ctx) error
}

// ContactHandler handles contact-related HTTP requests
type ContactHandler struct {
	contactFlow businessflow.ContactFlow
	validator   *validator.Validate
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactFlow businessflow.ContactFlow) *ContactHandler {
	return &ContactHandler{
		contactFlow: contactFlow,
		validator:   validator.New(),
	}
}

// CreateContact registers a new contact
// @Summary Create Contact
// @Description Create a contact for the authenticated customer
// @Tags Contacts
// @Accept json
// @Produce json
// @Param request body dto.CreateContactRequest true "Contact data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateContactResponse} "Contact created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/contacts [post]
func (h *ContactHandler) CreateContact(c fiber.Ctx) error {
	var req dto.CreateContactRequest
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

	result, err := h.contactFlow.CreateContact(createRequestContext(c, "/api/v1/contacts"), &req, metadata)
	if err != nil {
		return h.mapContactError(c, err, "Failed to create contact")
	}

	return successResponse(c, fiber.StatusCreated, "Contact created successfully", result)
}

// GetContact returns a single contact
// @Summary Get Contact
// @Description Get a contact's profile
// @Tags Contacts
// @Produce json
// @Param uuid path string true "Contact UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GetContactResponse} "Contact details"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Contact not found"
// @Router /api/v1/contacts/{uuid} [get]
func (h *ContactHandler) GetContact(c fiber.Ctx) error {
	contactUUID := c.Params("uuid")
	if contactUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Contact UUID is required", "MISSING_CONTACT_UUID", nil)
	}

	customerID, ok := middleware.GetCustomerIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	req := &dto.GetContactRequest{UUID: contactUUID, CustomerID: customerID}

	result, err := h.contactFlow.GetContact(createRequestContext(c, "/api/v1/contacts/"+contactUUID), req, metadata)
	if err != nil {
		return h.mapContactError(c, err, "Failed to get contact")
	}

	return successResponse(c, fiber.StatusOK, "Contact retrieved successfully", result)
}

// ListActivities returns a contact's activity timeline
// @Summary List Contact Activities
// @Description List a contact's activities, newest first
// @Tags Contacts
// @Produce json
// @Param uuid path string true "Contact UUID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListActivitiesResponse} "Activities"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Contact not found"
// @Router /api/v1/contacts/{uuid}/activities [get]
func (h *ContactHandler) ListActivities(c fiber.Ctx) error {
	contactUUID := c.Params("uuid")
	if contactUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Contact UUID is required", "MISSING_CONTACT_UUID", nil)
	}

	customerID, ok := middleware.GetCustomerIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	req := &dto.ListActivitiesRequest{ContactUUID: contactUUID, CustomerID: customerID, Page: page, PageSize: pageSize}

	result, err := h.contactFlow.ListActivities(createRequestContext(c, "/api/v1/contacts/"+contactUUID+"/activities"), req, metadata)
	if err != nil {
		return h.mapContactError(c, err, "Failed to list activities")
	}

	return successResponse(c, fiber.StatusOK, "Activities retrieved successfully", result)
}

// AddNote appends a note activity to a contact
// @Summary Add Note
// @Description Append a note to a contact's activity timeline
// @Tags Contacts
// @Accept json
// @Produce json
// @Param uuid path string true "Contact UUID"
// @Param request body dto.AddNoteRequest true "Note content"
// @Success 201 {object} dto.APIResponse{data=dto.NoteResponse} "Note added"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Contact not found"
// @Router /api/v1/contacts/{uuid}/notes [post]
func (h *ContactHandler) AddNote(c fiber.Ctx) error {
	contactUUID := c.Params("uuid")
	if contactUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Contact UUID is required", "MISSING_CONTACT_UUID", nil)
	}

	var req dto.AddNoteRequest
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
	req.ContactUUID = contactUUID

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.contactFlow.AddNote(createRequestContext(c, "/api/v1/contacts/"+contactUUID+"/notes"), &req, metadata)
	if err != nil {
		return h.mapContactError(c, err, "Failed to add note")
	}

	return successResponse(c, fiber.StatusCreated, "Note added successfully", result)
}

// EditNote records a note edit on a contact's timeline
// @Summary Edit Note
// @Description Record an edit to a contact note
// @Tags Contacts
// @Accept json
// @Produce json
// @Param uuid path string true "Contact UUID"
// @Param request body dto.EditNoteRequest true "Updated note content"
// @Success 200 {object} dto.APIResponse{data=dto.NoteResponse} "Note edited"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Contact not found"
// @Router /api/v1/contacts/{uuid}/notes [put]
func (h *ContactHandler) EditNote(c fiber.Ctx) error {
	contactUUID := c.Params("uuid")
	if contactUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Contact UUID is required", "MISSING_CONTACT_UUID", nil)
	}

	var req dto.EditNoteRequest
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
	req.ContactUUID = contactUUID

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.contactFlow.EditNote(createRequestContext(c, "/api/v1/contacts/"+contactUUID+"/notes"), &req, metadata)
	if err != nil {
		return h.mapContactError(c, err, "Failed to edit note")
	}

	return successResponse(c, fiber.StatusOK, "Note edited successfully", result)
}

// DeleteNote records a note deletion on a contact's timeline
// @Summary Delete Note
// @Description Record the deletion of a contact note
// @Tags Contacts
// @Produce json
// @Param uuid path string true "Contact UUID"
// @Success 200 {object} dto.APIResponse{data=dto.NoteResponse} "Note deleted"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Contact not found"
// @Router /api/v1/contacts/{uuid}/notes [delete]
func (h *ContactHandler) DeleteNote(c fiber.Ctx) error {
	contactUUID := c.Params("uuid")
	if contactUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Contact UUID is required", "MISSING_CONTACT_UUID", nil)
	}

	customerID, ok := middleware.GetCustomerIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	req := &dto.DeleteNoteRequest{ContactUUID: contactUUID, CustomerID: customerID}

	result, err := h.contactFlow.DeleteNote(createRequestContext(c, "/api/v1/contacts/"+contactUUID+"/notes"), req, metadata)
	if err != nil {
		return h.mapContactError(c, err, "Failed to delete note")
	}

	return successResponse(c, fiber.StatusOK, "Note deleted successfully", result)
}

// mapContactError translates contact business errors into HTTP responses
func (h *ContactHandler) mapContactError(c fiber.Ctx, err error, fallback string) error {
	if businessflow.IsCustomerNotFound(err) {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
	}
	if businessflow.IsAccountInactive(err) {
		return errorResponse(c, fiber.StatusUnauthorized, "Customer account is inactive", "ACCOUNT_INACTIVE", nil)
	}
	if businessflow.IsContactNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Contact not found", "CONTACT_NOT_FOUND", nil)
	}

	log.Println(fallback, err)
	return errorResponse(c, fiber.StatusInternalServerError, fallback, "INTERNAL_ERROR", nil)
}
