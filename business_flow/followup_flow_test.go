package businessflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesloop/outreach/app/dto"
	"github.com/salesloop/outreach/app/services"
	"github.com/salesloop/outreach/models"
)

type followUpFlowFixture struct {
	customerRepo     *memCustomerRepo
	contactRepo      *memContactRepo
	campaignRepo     *memCampaignRepo
	sendRecordRepo   *memSendRecordRepo
	activityRepo     *memActivityRepo
	auditRepo        *memAuditRepo
	emailService     *services.MockEmailService
	generatorService *services.MockGeneratorService
	flow             FollowUpFlow
	contact          *models.Contact
	original         *models.Campaign
}

func newFollowUpFlowFixture() *followUpFlowFixture {
	contact := reachableContact(1, 1)
	original := &models.Campaign{
		ID:               1,
		UUID:             uuid.New(),
		CustomerID:       1,
		Name:             "Q3 Product Launch",
		Channel:          models.CampaignChannelEmail,
		EngagementIntent: models.EngagementIntentCold,
	}

	f := &followUpFlowFixture{
		customerRepo:     newMemCustomerRepo(activeCustomer(1)),
		contactRepo:      newMemContactRepo(contact),
		campaignRepo:     newMemCampaignRepo(original),
		sendRecordRepo:   newMemSendRecordRepo(),
		activityRepo:     newMemActivityRepo(),
		auditRepo:        newMemAuditRepo(),
		emailService:     services.NewMockEmailService(),
		generatorService: services.NewMockGeneratorService(),
		contact:          contact,
		original:         original,
	}
	f.flow = NewFollowUpFlow(
		f.campaignRepo,
		f.sendRecordRepo,
		f.contactRepo,
		f.customerRepo,
		f.activityRepo,
		f.auditRepo,
		f.emailService,
		f.generatorService,
		nil,
	)
	return f
}

func (f *followUpFlowFixture) draftRequest(outcome string) *dto.DraftFollowUpRequest {
	return &dto.DraftFollowUpRequest{
		CustomerID:           1,
		ContactUUID:          f.contact.UUID.String(),
		OriginalCampaignUUID: f.original.UUID.String(),
		Outcome:              outcome,
		OriginalMessage:      "Hi Avery, wanted to reach out.",
	}
}

func (f *followUpFlowFixture) sendRequest() *dto.SendFollowUpRequest {
	return &dto.SendFollowUpRequest{
		CustomerID:           1,
		ContactUUID:          f.contact.UUID.String(),
		OriginalCampaignUUID: f.original.UUID.String(),
		Subject:              "Following up",
		Body:                 "Just circling back on my last note.",
		ToEmail:              *f.contact.Email,
	}
}

func TestDraftFollowUp(t *testing.T) {
	ctx := context.Background()

	t.Run("DraftReflectsOutcome", func(t *testing.T) {
		f := newFollowUpFlowFixture()

		resp, err := f.flow.DraftFollowUp(ctx, f.draftRequest("no_response"), testMetadata())
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Draft)

		require.Len(t, f.generatorService.Prompts, 1)
		prompt := f.generatorService.Prompts[0]
		assert.Contains(t, prompt, "Avery Kim")
		assert.Contains(t, prompt, "Q3 Product Launch")
		assert.Contains(t, prompt, "never replied")
		assert.Contains(t, prompt, "Hi Avery, wanted to reach out.")

		// Drafting is logged on the contact but persists no message
		assert.Len(t, f.activityRepo.byType(f.contact.ID, models.ActivityEmailDrafted), 1)
		assert.Empty(t, f.emailService.SentMessages)
	})

	t.Run("GuidanceVariesByOutcome", func(t *testing.T) {
		f := newFollowUpFlowFixture()

		for outcome, fragment := range map[string]string{
			"replied":             "replied",
			"meeting_booked":      "meeting is already booked",
			"opportunity_created": "opportunity is open",
			"unsubscribed":        "unsubscribed",
		} {
			_, err := f.flow.DraftFollowUp(ctx, f.draftRequest(outcome), testMetadata())
			require.NoError(t, err)
			assert.Contains(t, f.generatorService.Prompts[len(f.generatorService.Prompts)-1], fragment)
		}
	})

	t.Run("InvalidOutcome", func(t *testing.T) {
		f := newFollowUpFlowFixture()

		_, err := f.flow.DraftFollowUp(ctx, f.draftRequest("ghosted"), testMetadata())
		require.Error(t, err)
		assert.True(t, IsInvalidOutcome(err))
	})

	t.Run("GeneratorFailure", func(t *testing.T) {
		f := newFollowUpFlowFixture()
		f.generatorService.GenerateFunc = func(ctx context.Context, prompt string, maxLength int) (string, error) {
			return "", errors.New("model overloaded")
		}

		_, err := f.flow.DraftFollowUp(ctx, f.draftRequest("replied"), testMetadata())
		require.Error(t, err)
		assert.True(t, IsUpstreamError(err))
		assert.True(t, IsRetriableUpstream(err))
	})

	t.Run("UnknownContact", func(t *testing.T) {
		f := newFollowUpFlowFixture()

		req := f.draftRequest("replied")
		req.ContactUUID = uuid.New().String()
		_, err := f.flow.DraftFollowUp(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, IsContactNotFound(err))
	})

	t.Run("UnknownOriginalCampaign", func(t *testing.T) {
		f := newFollowUpFlowFixture()

		req := f.draftRequest("replied")
		req.OriginalCampaignUUID = uuid.New().String()
		_, err := f.flow.DraftFollowUp(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, IsParentCampaignNotFound(err))
	})

	t.Run("ForeignOriginalCampaign", func(t *testing.T) {
		f := newFollowUpFlowFixture()
		f.original.CustomerID = 99

		_, err := f.flow.DraftFollowUp(ctx, f.draftRequest("replied"), testMetadata())
		require.Error(t, err)
		assert.True(t, IsParentCampaignForbidden(err))
	})
}

func TestSendFollowUp(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesChainedSingleEntryCampaign", func(t *testing.T) {
		f := newFollowUpFlowFixture()

		resp, err := f.flow.SendFollowUp(ctx, f.sendRequest(), testMetadata())
		require.NoError(t, err)
		assert.NotEmpty(t, resp.CampaignUUID)
		assert.NotEmpty(t, resp.ProviderMessageID)

		require.Len(t, f.emailService.SentMessages, 1)
		assert.Equal(t, *f.contact.Email, f.emailService.SentMessages[0].ToEmail)
		assert.Equal(t, "Avery Kim", f.emailService.SentMessages[0].ToName)

		followUp, err := f.campaignRepo.ByUUID(ctx, resp.CampaignUUID)
		require.NoError(t, err)
		require.NotNil(t, followUp)
		assert.True(t, followUp.IsFollowUp())
		assert.Equal(t, f.original.ID, *followUp.ParentCampaignID)
		assert.Equal(t, models.CampaignChannelEmail, followUp.Channel)
		assert.Equal(t, models.EngagementIntentFollowup, followUp.EngagementIntent)
		assert.True(t, strings.HasPrefix(followUp.Name, "Follow-up: "))

		records, err := f.sendRecordRepo.ListByCampaign(ctx, followUp.ID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 0, records[0].EntryIndex)
		assert.Equal(t, resp.ProviderMessageID, records[0].ProviderMessageID)

		assert.Len(t, f.auditRepo.byAction(models.AuditActionFollowUpSent), 1)
	})

	t.Run("ExplicitRecipientNameWins", func(t *testing.T) {
		f := newFollowUpFlowFixture()

		req := f.sendRequest()
		req.ToName = "A. Kim"
		_, err := f.flow.SendFollowUp(ctx, req, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "A. Kim", f.emailService.SentMessages[0].ToName)
	})

	t.Run("DispatchFailureLeavesNoLedgerEntry", func(t *testing.T) {
		f := newFollowUpFlowFixture()
		f.emailService.FailFor = map[string]error{*f.contact.Email: errors.New("provider down")}

		_, err := f.flow.SendFollowUp(ctx, f.sendRequest(), testMetadata())
		require.Error(t, err)
		assert.True(t, IsUpstreamError(err))
		assert.True(t, IsRetriableUpstream(err))

		// Only the seeded original campaign remains
		assert.Len(t, f.campaignRepo.campaigns, 1)
		assert.Empty(t, f.sendRecordRepo.records)
		assert.Len(t, f.auditRepo.byAction(models.AuditActionFollowUpFailed), 1)
	})

	t.Run("ProviderRejectionIsNotRetriable", func(t *testing.T) {
		f := newFollowUpFlowFixture()
		f.emailService.FailFor = map[string]error{
			*f.contact.Email: fmt.Errorf("email delivery failed for %s: REJECTED (422): %w", *f.contact.Email, services.ErrDeliveryRejected),
		}

		_, err := f.flow.SendFollowUp(ctx, f.sendRequest(), testMetadata())
		require.Error(t, err)
		assert.True(t, IsUpstreamError(err))
		assert.False(t, IsRetriableUpstream(err))
		assert.Len(t, f.auditRepo.byAction(models.AuditActionFollowUpFailed), 1)
	})

	t.Run("LedgerFailureAfterDispatch", func(t *testing.T) {
		f := newFollowUpFlowFixture()
		f.sendRecordRepo.saveErr = errors.New("disk full")

		_, err := f.flow.SendFollowUp(ctx, f.sendRequest(), testMetadata())
		require.Error(t, err)
		var be *BusinessError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "FOLLOWUP_RECORD_FAILED", be.Code)

		// The provider call already happened; only the ledger write failed
		assert.Len(t, f.emailService.SentMessages, 1)
	})
}
