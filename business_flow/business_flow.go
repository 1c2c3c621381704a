// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"time"

	"github.com/salesloop/outreach/app/dto"
	"github.com/salesloop/outreach/models"
	"github.com/salesloop/outreach/repository"
	"github.com/salesloop/outreach/utils"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// loadActiveCustomer fetches a customer and verifies the account is active
func loadActiveCustomer(ctx context.Context, customerRepo repository.CustomerRepository, customerID uint) (*models.Customer, error) {
	customer, err := customerRepo.ByID(ctx, customerID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LOOKUP_FAILED", "Failed to lookup customer", err)
	}
	if customer == nil {
		return nil, NewBusinessError("CUSTOMER_NOT_FOUND", "Customer not found", ErrCustomerNotFound)
	}
	if !utils.IsTrue(customer.IsActive) {
		return nil, NewBusinessError("CUSTOMER_INACTIVE", "Customer account is inactive", ErrAccountInactive)
	}
	return customer, nil
}

// writeAuditLog records an audit entry; failures are the caller's choice to ignore
func writeAuditLog(ctx context.Context, auditRepo repository.AuditLogRepository, customer *models.Customer, action, description string, success bool, errorDetails *string, metadata *ClientMetadata) error {
	log := &models.AuditLog{
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		ErrorMessage: errorDetails,
		CreatedAt:    utils.UTCNow(),
	}
	if customer != nil {
		log.CustomerID = &customer.ID
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			log.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			log.UserAgent = &metadata.UserAgent
		}
		if metadata.RequestID != "" {
			log.RequestID = &metadata.RequestID
		}
	}
	return auditRepo.Save(ctx, log)
}

// ToContactDTO converts a contact model to its response DTO
func ToContactDTO(contact *models.Contact) dto.ContactDTO {
	return dto.ContactDTO{
		UUID:      contact.UUID.String(),
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Title:     contact.Title,
		Company:   contact.Company,
		Phone:     contact.Phone,
		Email:     contact.Email,
		CreatedAt: contact.CreatedAt,
	}
}

// ToTemplateDTO converts a template model to its response DTO
func ToTemplateDTO(template *models.Template) dto.TemplateDTO {
	d := dto.TemplateDTO{
		UUID:      template.UUID.String(),
		Name:      template.Name,
		Subject:   template.Subject,
		Body:      template.Body,
		Intent:    string(template.Intent),
		CreatedAt: template.CreatedAt,
	}
	if !template.UpdatedAt.IsZero() {
		d.UpdatedAt = utils.ToPtr(template.UpdatedAt)
	}
	return d
}

// ToSendRecordDTO converts a send record model to its response DTO
func ToSendRecordDTO(record *models.SendRecord) dto.SendRecordDTO {
	d := dto.SendRecordDTO{
		EntryIndex:        record.EntryIndex,
		Name:              record.Name,
		Destination:       record.Destination,
		Subject:           record.Subject,
		Body:              record.Body,
		Status:            string(record.Status),
		SentAt:            record.SentAt,
		ProviderMessageID: record.ProviderMessageID,
		OutcomeMarkedAt:   record.OutcomeMarkedAt,
		OutcomeLocked:     record.OutcomeLocked,
		OutcomeLockedAt:   record.OutcomeLockedAt,
	}
	if record.Outcome != nil {
		d.Outcome = utils.ToPtr(string(*record.Outcome))
	}
	return d
}

// buildPagination normalizes paging inputs and computes response metadata
func buildPagination(page, pageSize int, total int64) (int, int, dto.PaginationInfo) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return page, pageSize, dto.PaginationInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

func formatTime(t time.Time) string {
	return utils.TimeToUTC(t).Format(time.RFC3339)
}
