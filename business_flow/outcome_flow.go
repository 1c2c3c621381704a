// Package businessflow contains the core business logic and use cases for outcome tracking
package businessflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/salesloop/outreach/app/dto"
	"github.com/salesloop/outreach/app/services"
	"github.com/salesloop/outreach/models"
	"github.com/salesloop/outreach/repository"
	"github.com/salesloop/outreach/utils"
	"gorm.io/gorm"
)

// OutcomeFlow handles outcome classification on campaign send entries
type OutcomeFlow interface {
	SetOutcome(ctx context.Context, req *dto.SetOutcomeRequest, metadata *ClientMetadata) (*dto.SetOutcomeResponse, error)
}

// OutcomeFlowImpl implements the outcome business flow
type OutcomeFlowImpl struct {
	campaignRepo        repository.CampaignRepository
	sendRecordRepo      repository.SendRecordRepository
	customerRepo        repository.CustomerRepository
	auditRepo           repository.AuditLogRepository
	notificationService services.NotificationService
	db                  *gorm.DB
}

// NewOutcomeFlow creates a new outcome flow instance
func NewOutcomeFlow(
	campaignRepo repository.CampaignRepository,
	sendRecordRepo repository.SendRecordRepository,
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditLogRepository,
	notificationService services.NotificationService,
	db *gorm.DB,
) OutcomeFlow {
	return &OutcomeFlowImpl{
		campaignRepo:        campaignRepo,
		sendRecordRepo:      sendRecordRepo,
		customerRepo:        customerRepo,
		auditRepo:           auditRepo,
		notificationService: notificationService,
		db:                  db,
	}
}

// SetOutcome classifies one send entry. A locked entry is reported as a
// conflict, never silently ignored. Terminal outcomes lock the entry in the
// same row-locked transaction that records them, so of two racing calls
// exactly one wins.
func (s *OutcomeFlowImpl) SetOutcome(ctx context.Context, req *dto.SetOutcomeRequest, metadata *ClientMetadata) (*dto.SetOutcomeResponse, error) {
	outcome := models.Outcome(req.Outcome)
	if !outcome.Valid() {
		return nil, NewBusinessError("OUTCOME_VALIDATION_FAILED", "Outcome validation failed", ErrInvalidOutcome)
	}

	customer, err := loadActiveCustomer(ctx, s.customerRepo, req.CustomerID)
	if err != nil {
		return nil, err
	}

	campaign, err := s.campaignRepo.ByUUID(ctx, req.CampaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}
	if campaign.CustomerID != customer.ID {
		return nil, NewBusinessError("CAMPAIGN_ACCESS_DENIED", "Access denied: campaign belongs to another customer", ErrCampaignAccessDenied)
	}

	record, err := s.sendRecordRepo.MarkOutcome(ctx, campaign.ID, req.EntryIndex, outcome, utils.UTCNow())
	if err != nil {
		if errors.Is(err, repository.ErrSendRecordNotFound) {
			return nil, NewBusinessError("SEND_ENTRY_NOT_FOUND", "Send entry not found", ErrSendEntryNotFound)
		}
		if errors.Is(err, repository.ErrOutcomeAlreadyLocked) {
			errMsg := fmt.Sprintf("Outcome rejected for %s[%d]: already finalized", campaign.UUID.String(), req.EntryIndex)
			_ = writeAuditLog(ctx, s.auditRepo, customer, models.AuditActionOutcomeRejected, errMsg, false, &errMsg, metadata)
			return nil, NewBusinessError("OUTCOME_LOCKED", "Outcome already finalized", ErrOutcomeLocked)
		}
		return nil, NewBusinessError("OUTCOME_UPDATE_FAILED", "Failed to record outcome", err)
	}

	msg := fmt.Sprintf("Outcome %s recorded for %s[%d]", outcome, campaign.UUID.String(), req.EntryIndex)
	_ = writeAuditLog(ctx, s.auditRepo, customer, models.AuditActionOutcomeRecorded, msg, true, nil, metadata)

	if outcome.Terminal() && s.notificationService != nil {
		// Best effort: a publish failure must not fail the classification
		_ = s.notificationService.PublishOutcomeEvent(ctx, services.OutcomeEvent{
			CampaignUUID: campaign.UUID.String(),
			EntryIndex:   req.EntryIndex,
			Outcome:      string(outcome),
			Terminal:     true,
			MarkedAt:     *record.OutcomeMarkedAt,
		})
	}

	return &dto.SetOutcomeResponse{
		Message: "Outcome recorded successfully",
		Record:  ToSendRecordDTO(record),
	}, nil
}
