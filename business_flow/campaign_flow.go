// Package businessflow contains the core business logic and use cases for campaign workflows
package businessflow

import (
	"context"
	"fmt"
	"strconv"

	"github.com/salesloop/outreach/app/dto"
	"github.com/salesloop/outreach/app/services"
	"github.com/salesloop/outreach/models"
	"github.com/salesloop/outreach/repository"
	"github.com/salesloop/outreach/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// CampaignFlow handles the campaign ledger business logic
type CampaignFlow interface {
	CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CreateCampaignResponse, error)
	GetCampaign(ctx context.Context, req *dto.GetCampaignRequest, metadata *ClientMetadata) (*dto.GetCampaignResponse, error)
	ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest, metadata *ClientMetadata) (*dto.ListCampaignsResponse, error)
	ExportCampaignReport(ctx context.Context, req *dto.ExportCampaignReportRequest, metadata *ClientMetadata) (*dto.ExportCampaignReportResponse, error)
}

// CampaignFlowImpl implements the campaign business flow
type CampaignFlowImpl struct {
	campaignRepo   repository.CampaignRepository
	sendRecordRepo repository.SendRecordRepository
	contactRepo    repository.ContactRepository
	customerRepo   repository.CustomerRepository
	activityRepo   repository.ActivityRepository
	auditRepo      repository.AuditLogRepository
	emailService   services.EmailService
	smsService     services.SMSService
	db             *gorm.DB
}

// NewCampaignFlow creates a new campaign flow instance
func NewCampaignFlow(
	campaignRepo repository.CampaignRepository,
	sendRecordRepo repository.SendRecordRepository,
	contactRepo repository.ContactRepository,
	customerRepo repository.CustomerRepository,
	activityRepo repository.ActivityRepository,
	auditRepo repository.AuditLogRepository,
	emailService services.EmailService,
	smsService services.SMSService,
	db *gorm.DB,
) CampaignFlow {
	return &CampaignFlowImpl{
		campaignRepo:   campaignRepo,
		sendRecordRepo: sendRecordRepo,
		contactRepo:    contactRepo,
		customerRepo:   customerRepo,
		activityRepo:   activityRepo,
		auditRepo:      auditRepo,
		emailService:   emailService,
		smsService:     smsService,
		db:             db,
	}
}

// resolvedEntry pairs a contact that survived destination resolution with its
// message content
type resolvedEntry struct {
	contact     *models.Contact
	destination string
	subject     string
	body        string
}

// CreateCampaign handles the bulk campaign creation process. Contacts without
// a destination for the channel are dropped up front; each surviving entry is
// dispatched and committed independently so one provider failure cannot undo
// sends that already happened.
func (s *CampaignFlowImpl) CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CreateCampaignResponse, error) {
	channel := models.CampaignChannel(req.Channel)
	if !channel.Valid() {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", ErrInvalidChannel)
	}
	intent := models.EngagementIntent(req.Intent)
	if !intent.Valid() {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", ErrInvalidIntent)
	}

	customer, err := loadActiveCustomer(ctx, s.customerRepo, req.CustomerID)
	if err != nil {
		return nil, err
	}

	// Resolve contacts and drop the ones the channel cannot reach
	resolved := make([]resolvedEntry, 0, len(req.Entries))
	skipped := make([]string, 0)
	for _, entry := range req.Entries {
		contact, err := s.contactRepo.ByUUID(ctx, entry.ContactUUID)
		if err != nil {
			return nil, NewBusinessError("CONTACT_LOOKUP_FAILED", "Failed to lookup contact", err)
		}
		if contact == nil || contact.CustomerID != customer.ID {
			skipped = append(skipped, entry.ContactUUID)
			continue
		}
		destination, ok := contact.DestinationFor(channel)
		if !ok {
			skipped = append(skipped, entry.ContactUUID)
			continue
		}
		resolved = append(resolved, resolvedEntry{
			contact:     contact,
			destination: destination,
			subject:     entry.Subject,
			body:        entry.Body,
		})
	}

	if len(resolved) == 0 {
		return nil, NewBusinessError("NO_VALID_RECIPIENTS", "No contact has a destination for the channel", ErrNoValidRecipients)
	}

	// The campaign row must exist before any entry can reference it
	campaign := &models.Campaign{
		CustomerID:       customer.ID,
		Name:             req.Name,
		Channel:          channel,
		EngagementIntent: intent,
	}
	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		errMsg := fmt.Sprintf("Campaign creation failed: %s", err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, customer, models.AuditActionCampaignCreationFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("CAMPAIGN_CREATION_FAILED", "Campaign creation failed", err)
	}

	// Dispatch per contact, committing each send entry independently
	results := make([]dto.CampaignEntryResult, 0, len(resolved))
	failed := make([]string, 0)
	for i, entry := range resolved {
		providerMessageID, dispatchErr := s.dispatch(ctx, channel, entry, customer)
		if dispatchErr != nil {
			failed = append(failed, entry.contact.UUID.String())
			continue
		}

		sentAt := utils.UTCNow()
		record := &models.SendRecord{
			CampaignID:        campaign.ID,
			EntryIndex:        i,
			ContactID:         entry.contact.ID,
			Name:              entry.contact.FullName(),
			Destination:       entry.destination,
			Subject:           entry.subject,
			Body:              entry.body,
			Status:            models.SendStatusSent,
			SentAt:            sentAt,
			ProviderMessageID: providerMessageID,
		}
		if err := s.sendRecordRepo.Save(ctx, record); err != nil {
			failed = append(failed, entry.contact.UUID.String())
			continue
		}

		if channel == models.CampaignChannelEmail {
			_ = s.activityRepo.Save(ctx, &models.Activity{
				ContactID: entry.contact.ID,
				Type:      models.ActivityEmailSent,
				Details:   fmt.Sprintf("Campaign %s: sent to %s", campaign.UUID.String(), entry.destination),
			})
		}

		results = append(results, dto.CampaignEntryResult{
			EntryIndex:        i,
			ContactUUID:       entry.contact.UUID.String(),
			Destination:       entry.destination,
			ProviderMessageID: providerMessageID,
			SentAt:            formatTime(sentAt),
		})
	}

	// A campaign must never exist with zero entries
	if len(results) == 0 {
		_ = s.campaignRepo.Delete(ctx, campaign.ID)
		errMsg := "Campaign creation failed: every dispatch failed"
		_ = writeAuditLog(ctx, s.auditRepo, customer, models.AuditActionCampaignCreationFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("CAMPAIGN_DISPATCH_FAILED", "Campaign creation failed",
			NewUpstreamError(string(channel), true, ErrAllDispatchesFailed))
	}

	msg := fmt.Sprintf("Campaign created: %s (%d sent, %d skipped, %d failed)", campaign.UUID.String(), len(results), len(skipped), len(failed))
	_ = writeAuditLog(ctx, s.auditRepo, customer, models.AuditActionCampaignCreated, msg, true, nil, metadata)

	return &dto.CreateCampaignResponse{
		Message:   "Campaign created successfully",
		UUID:      campaign.UUID.String(),
		Channel:   string(campaign.Channel),
		Entries:   results,
		Skipped:   skipped,
		Failed:    failed,
		CreatedAt: formatTime(campaign.CreatedAt),
	}, nil
}

// dispatch routes a single entry to the channel's provider
func (s *CampaignFlowImpl) dispatch(ctx context.Context, channel models.CampaignChannel, entry resolvedEntry, customer *models.Customer) (string, error) {
	customerID := utils.ToPtr(int64(customer.ID))
	switch channel {
	case models.CampaignChannelEmail:
		id, err := s.emailService.SendEmail(ctx, entry.destination, entry.contact.FullName(), entry.subject, entry.body)
		if err != nil {
			return "", newDispatchError("email", err)
		}
		return id, nil
	case models.CampaignChannelSMS:
		id, err := s.smsService.SendSMS(ctx, entry.destination, entry.body, customerID)
		if err != nil {
			return "", newDispatchError("sms", err)
		}
		return id, nil
	default:
		return "", ErrInvalidChannel
	}
}

// GetCampaign returns a campaign with its send entries
func (s *CampaignFlowImpl) GetCampaign(ctx context.Context, req *dto.GetCampaignRequest, metadata *ClientMetadata) (*dto.GetCampaignResponse, error) {
	customer, err := loadActiveCustomer(ctx, s.customerRepo, req.CustomerID)
	if err != nil {
		return nil, err
	}

	campaign, err := s.loadOwnedCampaign(ctx, req.UUID, customer.ID)
	if err != nil {
		return nil, err
	}

	records, err := s.sendRecordRepo.ListByCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, NewBusinessError("SEND_RECORD_LOOKUP_FAILED", "Failed to list send entries", err)
	}

	entries := make([]dto.SendRecordDTO, 0, len(records))
	for _, record := range records {
		entries = append(entries, ToSendRecordDTO(record))
	}

	response := &dto.GetCampaignResponse{
		UUID:      campaign.UUID.String(),
		Name:      campaign.Name,
		Channel:   string(campaign.Channel),
		Intent:    string(campaign.EngagementIntent),
		Entries:   entries,
		CreatedAt: campaign.CreatedAt,
	}
	if campaign.ParentCampaignID != nil {
		parent, err := s.campaignRepo.ByID(ctx, *campaign.ParentCampaignID)
		if err == nil && parent != nil {
			response.ParentCampaignUUID = utils.ToPtr(parent.UUID.String())
		}
	}
	return response, nil
}

// ListCampaigns returns the customer's campaigns, newest first
func (s *CampaignFlowImpl) ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest, metadata *ClientMetadata) (*dto.ListCampaignsResponse, error) {
	customer, err := loadActiveCustomer(ctx, s.customerRepo, req.CustomerID)
	if err != nil {
		return nil, err
	}

	total, err := s.campaignRepo.Count(ctx, models.CampaignFilter{CustomerID: &customer.ID})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to count campaigns", err)
	}

	page, pageSize, pagination := buildPagination(req.Page, req.PageSize, total)
	campaigns, err := s.campaignRepo.ListByCustomer(ctx, customer.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to list campaigns", err)
	}

	summaries := make([]dto.CampaignSummaryDTO, 0, len(campaigns))
	for _, campaign := range campaigns {
		entryCount, err := s.sendRecordRepo.CountByCampaign(ctx, campaign.ID)
		if err != nil {
			return nil, NewBusinessError("SEND_RECORD_LOOKUP_FAILED", "Failed to count send entries", err)
		}
		summaries = append(summaries, dto.CampaignSummaryDTO{
			UUID:       campaign.UUID.String(),
			Name:       campaign.Name,
			Channel:    string(campaign.Channel),
			Intent:     string(campaign.EngagementIntent),
			EntryCount: entryCount,
			CreatedAt:  campaign.CreatedAt,
		})
	}

	return &dto.ListCampaignsResponse{
		Campaigns:  summaries,
		Pagination: pagination,
	}, nil
}

// ExportCampaignReport builds an xlsx workbook of the campaign's send entries
// and their outcomes
func (s *CampaignFlowImpl) ExportCampaignReport(ctx context.Context, req *dto.ExportCampaignReportRequest, metadata *ClientMetadata) (*dto.ExportCampaignReportResponse, error) {
	customer, err := loadActiveCustomer(ctx, s.customerRepo, req.CustomerID)
	if err != nil {
		return nil, err
	}

	campaign, err := s.loadOwnedCampaign(ctx, req.UUID, customer.ID)
	if err != nil {
		return nil, err
	}

	records, err := s.sendRecordRepo.ListByCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, NewBusinessError("SEND_RECORD_LOOKUP_FAILED", "Failed to list send entries", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := xl.GetSheetName(0)
	header := []string{"entry_index", "name", "destination", "subject", "status", "sent_at", "provider_message_id", "outcome", "outcome_marked_at", "outcome_locked", "outcome_locked_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, r := range records {
		outcome := ""
		if r.Outcome != nil {
			outcome = string(*r.Outcome)
		}
		markedAt := ""
		if r.OutcomeMarkedAt != nil {
			markedAt = formatTime(*r.OutcomeMarkedAt)
		}
		lockedAt := ""
		if r.OutcomeLockedAt != nil {
			lockedAt = formatTime(*r.OutcomeLockedAt)
		}
		row := []string{
			strconv.Itoa(r.EntryIndex),
			r.Name,
			r.Destination,
			r.Subject,
			string(r.Status),
			formatTime(r.SentAt),
			r.ProviderMessageID,
			outcome,
			markedAt,
			strconv.FormatBool(r.OutcomeLocked),
			lockedAt,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &row)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	return &dto.ExportCampaignReportResponse{
		FileName: fmt.Sprintf("campaign_%s_report.xlsx", campaign.UUID.String()),
		Content:  buf.Bytes(),
	}, nil
}

// loadOwnedCampaign fetches a campaign by UUID and verifies ownership
func (s *CampaignFlowImpl) loadOwnedCampaign(ctx context.Context, campaignUUID string, customerID uint) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.ByUUID(ctx, campaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}
	if campaign.CustomerID != customerID {
		return nil, NewBusinessError("CAMPAIGN_ACCESS_DENIED", "Access denied: campaign belongs to another customer", ErrCampaignAccessDenied)
	}
	return campaign, nil
}
