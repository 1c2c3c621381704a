// Package businessflow contains the core business logic and use cases for template management
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/salesloop/outreach/app/dto"
	"github.com/salesloop/outreach/models"
	"github.com/salesloop/outreach/repository"
	"gorm.io/gorm"
)

// TemplateFlow handles the template store business logic
type TemplateFlow interface {
	SaveTemplate(ctx context.Context, req *dto.SaveTemplateRequest, metadata *ClientMetadata) (*dto.SaveTemplateResponse, error)
	DeleteTemplate(ctx context.Context, req *dto.DeleteTemplateRequest, metadata *ClientMetadata) (*dto.DeleteTemplateResponse, error)
	ListTemplates(ctx context.Context, req *dto.ListTemplatesRequest, metadata *ClientMetadata) (*dto.ListTemplatesResponse, error)
}

// TemplateFlowImpl implements the template business flow
type TemplateFlowImpl struct {
	templateRepo repository.TemplateRepository
	customerRepo repository.CustomerRepository
	auditRepo    repository.AuditLogRepository
	db           *gorm.DB
}

// NewTemplateFlow creates a new template flow instance
func NewTemplateFlow(
	templateRepo repository.TemplateRepository,
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) TemplateFlow {
	return &TemplateFlowImpl{
		templateRepo: templateRepo,
		customerRepo: customerRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

// SaveTemplate validates and stores a new template. Timestamps are always
// server-assigned; whatever the client sends is ignored.
func (s *TemplateFlowImpl) SaveTemplate(ctx context.Context, req *dto.SaveTemplateRequest, metadata *ClientMetadata) (*dto.SaveTemplateResponse, error) {
	customer, err := loadActiveCustomer(ctx, s.customerRepo, req.CustomerID)
	if err != nil {
		return nil, err
	}

	template := &models.Template{
		CustomerID: customer.ID,
		Name:       strings.TrimSpace(req.Name),
		Subject:    strings.TrimSpace(req.Subject),
		Body:       req.Body,
		Intent:     models.EngagementIntent(req.Intent),
	}

	if missing := template.MissingFields(); len(missing) > 0 {
		return nil, NewBusinessErrorf("TEMPLATE_VALIDATION_FAILED",
			"Template validation failed: missing %s", ErrTemplateFieldsMissing, strings.Join(missing, ", "))
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, NewBusinessError("TEMPLATE_SAVE_FAILED", "Failed to save template", err)
	}

	msg := fmt.Sprintf("Template saved: %s", template.UUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, customer, models.AuditActionTemplateSaved, msg, true, nil, metadata)

	return &dto.SaveTemplateResponse{
		Message:  "Template saved successfully",
		Template: ToTemplateDTO(template),
	}, nil
}

// DeleteTemplate removes a template by UUID. Deleting a template that does
// not exist, or that belongs to another customer, succeeds without effect.
func (s *TemplateFlowImpl) DeleteTemplate(ctx context.Context, req *dto.DeleteTemplateRequest, metadata *ClientMetadata) (*dto.DeleteTemplateResponse, error) {
	customer, err := loadActiveCustomer(ctx, s.customerRepo, req.CustomerID)
	if err != nil {
		return nil, err
	}

	if err := s.templateRepo.DeleteByUUID(ctx, customer.ID, req.UUID); err != nil {
		return nil, NewBusinessError("TEMPLATE_DELETE_FAILED", "Failed to delete template", err)
	}

	msg := fmt.Sprintf("Template deleted: %s", req.UUID)
	_ = writeAuditLog(ctx, s.auditRepo, customer, models.AuditActionTemplateDeleted, msg, true, nil, metadata)

	return &dto.DeleteTemplateResponse{Message: "Template deleted successfully"}, nil
}

// ListTemplates returns the customer's templates, newest first
func (s *TemplateFlowImpl) ListTemplates(ctx context.Context, req *dto.ListTemplatesRequest, metadata *ClientMetadata) (*dto.ListTemplatesResponse, error) {
	customer, err := loadActiveCustomer(ctx, s.customerRepo, req.CustomerID)
	if err != nil {
		return nil, err
	}

	total, err := s.templateRepo.Count(ctx, models.TemplateFilter{CustomerID: &customer.ID})
	if err != nil {
		return nil, NewBusinessError("TEMPLATE_LOOKUP_FAILED", "Failed to count templates", err)
	}

	page, pageSize, pagination := buildPagination(req.Page, req.PageSize, total)
	templates, err := s.templateRepo.ListByCustomer(ctx, customer.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("TEMPLATE_LOOKUP_FAILED", "Failed to list templates", err)
	}

	dtos := make([]dto.TemplateDTO, 0, len(templates))
	for _, template := range templates {
		dtos = append(dtos, ToTemplateDTO(template))
	}

	return &dto.ListTemplatesResponse{
		Templates:  dtos,
		Pagination: pagination,
	}, nil
}
