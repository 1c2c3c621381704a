// Package businessflow contains the core business logic and use cases for batch draft generation
package businessflow

import (
	"context"
	"fmt"

	"github.com/salesloop/outreach/app/dto"
	"github.com/salesloop/outreach/app/services"
	"github.com/salesloop/outreach/models"
	"github.com/salesloop/outreach/repository"
	"github.com/salesloop/outreach/utils"
	"gorm.io/gorm"
)

// DraftFlow handles batch draft generation for a set of contacts
type DraftFlow interface {
	GenerateBatch(ctx context.Context, req *dto.GenerateBatchRequest, metadata *ClientMetadata) (*dto.GenerateBatchResponse, error)
}

// DraftFlowImpl implements the batch draft business flow
type DraftFlowImpl struct {
	contactRepo      repository.ContactRepository
	customerRepo     repository.CustomerRepository
	activityRepo     repository.ActivityRepository
	auditRepo        repository.AuditLogRepository
	generatorService services.GeneratorService
	db               *gorm.DB
}

// NewDraftFlow creates a new draft flow instance
func NewDraftFlow(
	contactRepo repository.ContactRepository,
	customerRepo repository.CustomerRepository,
	activityRepo repository.ActivityRepository,
	auditRepo repository.AuditLogRepository,
	generatorService services.GeneratorService,
	db *gorm.DB,
) DraftFlow {
	return &DraftFlowImpl{
		contactRepo:      contactRepo,
		customerRepo:     customerRepo,
		activityRepo:     activityRepo,
		auditRepo:        auditRepo,
		generatorService: generatorService,
		db:               db,
	}
}

// toneFor maps an engagement intent to generation guidance. Unrecognized
// intents fall back to a neutral professional tone instead of failing.
func toneFor(intent string) string {
	switch models.EngagementIntent(intent) {
	case models.EngagementIntentCold:
		return "Introduce yourself and the product. Respectful of their time, no assumed familiarity."
	case models.EngagementIntentWarm:
		return "Reference the earlier interaction and build on the existing interest."
	case models.EngagementIntentHot:
		return "Be direct and propose a concrete meeting or next step."
	case models.EngagementIntentFollowup:
		return "Briefly follow up on the previous message without repeating it."
	default:
		return "Use a neutral, professional tone."
	}
}

// GenerateBatch produces one draft per reachable contact. Contacts that do
// not exist, belong to another customer, or lack a destination for the text
// type are skipped and reported. The first generator failure aborts the whole
// batch; no partial result is returned.
func (s *DraftFlowImpl) GenerateBatch(ctx context.Context, req *dto.GenerateBatchRequest, metadata *ClientMetadata) (*dto.GenerateBatchResponse, error) {
	channel := models.CampaignChannel(req.TextType)
	if !channel.Valid() {
		return nil, NewBusinessError("DRAFT_VALIDATION_FAILED", "Draft validation failed", ErrInvalidChannel)
	}

	customer, err := loadActiveCustomer(ctx, s.customerRepo, req.CustomerID)
	if err != nil {
		return nil, err
	}

	maxLength := utils.EmailDraftMaxLength
	if channel == models.CampaignChannelSMS {
		maxLength = utils.SMSDraftMaxLength
	}
	tone := toneFor(req.Intent)

	drafts := make([]dto.BatchDraft, 0, len(req.ContactUUIDs))
	skipped := make([]string, 0)
	for _, contactUUID := range req.ContactUUIDs {
		contact, err := s.contactRepo.ByUUID(ctx, contactUUID)
		if err != nil {
			return nil, NewBusinessError("CONTACT_LOOKUP_FAILED", "Failed to lookup contact", err)
		}
		if contact == nil || contact.CustomerID != customer.ID {
			skipped = append(skipped, contactUUID)
			continue
		}
		destination, ok := contact.DestinationFor(channel)
		if !ok {
			skipped = append(skipped, contactUUID)
			continue
		}

		prompt := buildBatchPrompt(contact, req.TextType, tone)
		draft, err := s.generatorService.Generate(ctx, prompt, maxLength)
		if err != nil {
			errMsg := fmt.Sprintf("Batch draft aborted at %s: %s", contactUUID, err.Error())
			_ = writeAuditLog(ctx, s.auditRepo, customer, models.AuditActionBatchDraftFailed, errMsg, false, &errMsg, metadata)
			return nil, NewBusinessError("GENERATION_FAILED", "Batch draft generation failed",
				NewUpstreamError("generator", true, err))
		}

		if channel == models.CampaignChannelEmail {
			_ = s.activityRepo.Save(ctx, &models.Activity{
				ContactID: contact.ID,
				Type:      models.ActivityEmailDrafted,
				Details:   fmt.Sprintf("Batch draft generated (%s intent)", req.Intent),
			})
		}

		drafts = append(drafts, dto.BatchDraft{
			ContactUUID: contactUUID,
			Name:        contact.FullName(),
			Destination: destination,
			Draft:       draft,
		})
	}

	msg := fmt.Sprintf("Batch drafts generated: %d drafted, %d skipped", len(drafts), len(skipped))
	_ = writeAuditLog(ctx, s.auditRepo, customer, models.AuditActionBatchDraftGenerated, msg, true, nil, metadata)

	return &dto.GenerateBatchResponse{
		Drafts:  drafts,
		Skipped: skipped,
	}, nil
}

func buildBatchPrompt(contact *models.Contact, textType, tone string) string {
	company := utils.Deref(contact.Company)
	title := utils.Deref(contact.Title)
	return fmt.Sprintf(
		"Write an outreach %s to %s (%s at %s).\n%s",
		textType, contact.FullName(), title, company, tone,
	)
}
