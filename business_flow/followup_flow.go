// Package businessflow contains the core business logic and use cases for follow-up orchestration
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

// FollowUpFlow handles drafting and sending follow-up messages chained off an
// earlier campaign
type FollowUpFlow interface {
	DraftFollowUp(ctx context.Context, req *dto.DraftFollowUpRequest, metadata *ClientMetadata) (*dto.DraftFollowUpResponse, error)
	SendFollowUp(ctx context.Context, req *dto.SendFollowUpRequest, metadata *ClientMetadata) (*dto.SendFollowUpResponse, error)
}

// FollowUpFlowImpl implements the follow-up business flow
type FollowUpFlowImpl struct {
	campaignRepo     repository.CampaignRepository
	sendRecordRepo   repository.SendRecordRepository
	contactRepo      repository.ContactRepository
	customerRepo     repository.CustomerRepository
	activityRepo     repository.ActivityRepository
	auditRepo        repository.AuditLogRepository
	emailService     services.EmailService
	generatorService services.GeneratorService
	db               *gorm.DB
}

// NewFollowUpFlow creates a new follow-up flow instance
func NewFollowUpFlow(
	campaignRepo repository.CampaignRepository,
	sendRecordRepo repository.SendRecordRepository,
	contactRepo repository.ContactRepository,
	customerRepo repository.CustomerRepository,
	activityRepo repository.ActivityRepository,
	auditRepo repository.AuditLogRepository,
	emailService services.EmailService,
	generatorService services.GeneratorService,
	db *gorm.DB,
) FollowUpFlow {
	return &FollowUpFlowImpl{
		campaignRepo:     campaignRepo,
		sendRecordRepo:   sendRecordRepo,
		contactRepo:      contactRepo,
		customerRepo:     customerRepo,
		activityRepo:     activityRepo,
		auditRepo:        auditRepo,
		emailService:     emailService,
		generatorService: generatorService,
		db:               db,
	}
}

// DraftFollowUp generates a follow-up draft for a contact based on how they
// responded to the original campaign. The draft is returned to the caller and
// never persisted.
func (s *FollowUpFlowImpl) DraftFollowUp(ctx context.Context, req *dto.DraftFollowUpRequest, metadata *ClientMetadata) (*dto.DraftFollowUpResponse, error) {
	outcome := models.Outcome(req.Outcome)
	if !outcome.Valid() {
		return nil, NewBusinessError("FOLLOWUP_VALIDATION_FAILED", "Follow-up validation failed", ErrInvalidOutcome)
	}

	customer, err := loadActiveCustomer(ctx, s.customerRepo, req.CustomerID)
	if err != nil {
		return nil, err
	}

	contact, err := s.loadOwnedContact(ctx, req.ContactUUID, customer.ID)
	if err != nil {
		return nil, err
	}

	campaign, err := s.loadOriginalCampaign(ctx, req.OriginalCampaignUUID, customer.ID)
	if err != nil {
		return nil, err
	}

	prompt := buildFollowUpPrompt(contact, campaign, outcome, req.OriginalMessage)
	draft, err := s.generatorService.Generate(ctx, prompt, utils.EmailDraftMaxLength)
	if err != nil {
		return nil, NewBusinessError("GENERATION_FAILED", "Draft generation failed",
			NewUpstreamError("generator", true, err))
	}

	_ = s.activityRepo.Save(ctx, &models.Activity{
		ContactID: contact.ID,
		Type:      models.ActivityEmailDrafted,
		Details:   fmt.Sprintf("Follow-up drafted for campaign %s (%s)", campaign.UUID.String(), outcome),
	})

	return &dto.DraftFollowUpResponse{Draft: draft}, nil
}

// buildFollowUpPrompt translates the recorded outcome into generation guidance.
// The switch is exhaustive over the outcome enum so a new value fails loudly
// at review time rather than producing generic copy.
func buildFollowUpPrompt(contact *models.Contact, campaign *models.Campaign, outcome models.Outcome, originalMessage string) string {
	var guidance string
	switch outcome {
	case models.OutcomeNoResponse:
		guidance = "The contact never replied. Keep it brief, offer a new angle on the value proposition, and avoid any pressure."
	case models.OutcomeReplied:
		guidance = "The contact replied. Continue the conversation naturally and propose a concrete next step."
	case models.OutcomeMeetingBooked:
		guidance = "A meeting is already booked. Confirm the meeting briefly and share anything useful to prepare."
	case models.OutcomeOpportunityCreated:
		guidance = "An opportunity is open. Keep momentum with a short, specific check-in."
	case models.OutcomeUnsubscribed:
		guidance = "The contact unsubscribed. Write a short, courteous acknowledgement with no sales content."
	}

	company := utils.Deref(contact.Company)
	title := utils.Deref(contact.Title)

	return fmt.Sprintf(
		"Write a follow-up email to %s (%s at %s) for the %q campaign.\n%s\nOriginal message:\n%s",
		contact.FullName(), title, company, campaign.Name, guidance, originalMessage,
	)
}

// SendFollowUp dispatches a follow-up email and, only after the provider
// accepts it, records a new single-entry campaign chained to the original.
func (s *FollowUpFlowImpl) SendFollowUp(ctx context.Context, req *dto.SendFollowUpRequest, metadata *ClientMetadata) (*dto.SendFollowUpResponse, error) {
	customer, err := loadActiveCustomer(ctx, s.customerRepo, req.CustomerID)
	if err != nil {
		return nil, err
	}

	contact, err := s.loadOwnedContact(ctx, req.ContactUUID, customer.ID)
	if err != nil {
		return nil, err
	}

	original, err := s.loadOriginalCampaign(ctx, req.OriginalCampaignUUID, customer.ID)
	if err != nil {
		return nil, err
	}

	// Dispatch first. A provider failure must leave no ledger entry behind.
	toName := req.ToName
	if toName == "" {
		toName = contact.FullName()
	}
	providerMessageID, err := s.emailService.SendEmail(ctx, req.ToEmail, toName, req.Subject, req.Body)
	if err != nil {
		errMsg := fmt.Sprintf("Follow-up dispatch failed for %s: %s", contact.UUID.String(), err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, customer, models.AuditActionFollowUpFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("FOLLOWUP_DISPATCH_FAILED", "Follow-up dispatch failed",
			newDispatchError("email", err))
	}

	sentAt := utils.UTCNow()
	var campaign *models.Campaign

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		campaign = &models.Campaign{
			CustomerID:       customer.ID,
			Name:             fmt.Sprintf("Follow-up: %s", original.Name),
			Channel:          models.CampaignChannelEmail,
			EngagementIntent: models.EngagementIntentFollowup,
			ParentCampaignID: &original.ID,
		}
		if err := s.campaignRepo.Save(txCtx, campaign); err != nil {
			return err
		}

		record := &models.SendRecord{
			CampaignID:        campaign.ID,
			EntryIndex:        0,
			ContactID:         contact.ID,
			Name:              toName,
			Destination:       req.ToEmail,
			Subject:           req.Subject,
			Body:              req.Body,
			Status:            models.SendStatusSent,
			SentAt:            sentAt,
			ProviderMessageID: providerMessageID,
		}
		return s.sendRecordRepo.Save(txCtx, record)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Follow-up ledger write failed for %s: %s", contact.UUID.String(), err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, customer, models.AuditActionFollowUpFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("FOLLOWUP_RECORD_FAILED", "Failed to record follow-up campaign", err)
	}

	_ = s.activityRepo.Save(ctx, &models.Activity{
		ContactID: contact.ID,
		Type:      models.ActivityEmailSent,
		Details:   fmt.Sprintf("Follow-up %s: sent to %s", campaign.UUID.String(), req.ToEmail),
	})

	msg := fmt.Sprintf("Follow-up sent: %s (parent %s)", campaign.UUID.String(), original.UUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, customer, models.AuditActionFollowUpSent, msg, true, nil, metadata)

	return &dto.SendFollowUpResponse{
		Message:           "Follow-up sent successfully",
		CampaignUUID:      campaign.UUID.String(),
		ProviderMessageID: providerMessageID,
		SentAt:            formatTime(sentAt),
	}, nil
}

func (s *FollowUpFlowImpl) loadOwnedContact(ctx context.Context, contactUUID string, customerID uint) (*models.Contact, error) {
	contact, err := s.contactRepo.ByUUID(ctx, contactUUID)
	if err != nil {
		return nil, NewBusinessError("CONTACT_LOOKUP_FAILED", "Failed to lookup contact", err)
	}
	if contact == nil || contact.CustomerID != customerID {
		return nil, NewBusinessError("CONTACT_NOT_FOUND", "Contact not found", ErrContactNotFound)
	}
	return contact, nil
}

func (s *FollowUpFlowImpl) loadOriginalCampaign(ctx context.Context, campaignUUID string, customerID uint) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.ByUUID(ctx, campaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup original campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("PARENT_CAMPAIGN_NOT_FOUND", "Original campaign not found", ErrParentCampaignNotFound)
	}
	if campaign.CustomerID != customerID {
		return nil, NewBusinessError("PARENT_CAMPAIGN_FORBIDDEN", "Original campaign belongs to another customer", ErrParentCampaignForbidden)
	}
	return campaign, nil
}
