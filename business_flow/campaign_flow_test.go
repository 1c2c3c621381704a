package businessflow

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesloop/outreach/app/dto"
	"github.com/salesloop/outreach/app/services"
	"github.com/salesloop/outreach/models"
	"github.com/salesloop/outreach/utils"
)

type campaignFlowFixture struct {
	customerRepo   *memCustomerRepo
	contactRepo    *memContactRepo
	campaignRepo   *memCampaignRepo
	sendRecordRepo *memSendRecordRepo
	activityRepo   *memActivityRepo
	auditRepo      *memAuditRepo
	emailService   *services.MockEmailService
	smsService     *services.MockSMSService
	flow           CampaignFlow
}

func newCampaignFlowFixture(contacts ...*models.Contact) *campaignFlowFixture {
	f := &campaignFlowFixture{
		customerRepo:   newMemCustomerRepo(activeCustomer(1)),
		contactRepo:    newMemContactRepo(contacts...),
		campaignRepo:   newMemCampaignRepo(),
		sendRecordRepo: newMemSendRecordRepo(),
		activityRepo:   newMemActivityRepo(),
		auditRepo:      newMemAuditRepo(),
		emailService:   services.NewMockEmailService(),
		smsService:     services.NewMockSMSService(),
	}
	f.flow = NewCampaignFlow(
		f.campaignRepo,
		f.sendRecordRepo,
		f.contactRepo,
		f.customerRepo,
		f.activityRepo,
		f.auditRepo,
		f.emailService,
		f.smsService,
		nil,
	)
	return f
}

func campaignRequest(channel string, contacts ...*models.Contact) *dto.CreateCampaignRequest {
	entries := make([]dto.CampaignEntryRequest, 0, len(contacts))
	for _, c := range contacts {
		entries = append(entries, dto.CampaignEntryRequest{
			ContactUUID: c.UUID.String(),
			Subject:     "Quick question",
			Body:        "Hi " + c.FirstName + ", wanted to reach out.",
		})
	}
	return &dto.CreateCampaignRequest{
		CustomerID: 1,
		Name:       "Q3 Product Launch",
		Channel:    channel,
		Intent:     "cold",
		Entries:    entries,
	}
}

func TestCreateCampaign(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessfulEmailCampaign", func(t *testing.T) {
		first := reachableContact(1, 1)
		second := emailOnlyContact(2, 1)
		f := newCampaignFlowFixture(first, second)

		resp, err := f.flow.CreateCampaign(ctx, campaignRequest("email", first, second), testMetadata())
		require.NoError(t, err)

		assert.Equal(t, "email", resp.Channel)
		assert.Len(t, resp.Entries, 2)
		assert.Empty(t, resp.Skipped)
		assert.Empty(t, resp.Failed)
		assert.Equal(t, 0, resp.Entries[0].EntryIndex)
		assert.Equal(t, 1, resp.Entries[1].EntryIndex)
		assert.Equal(t, *first.Email, resp.Entries[0].Destination)
		assert.NotEmpty(t, resp.Entries[0].ProviderMessageID)

		require.Len(t, f.emailService.SentMessages, 2)
		assert.Equal(t, "Avery Kim", f.emailService.SentMessages[0].ToName)

		records, err := f.sendRecordRepo.ListByCampaign(ctx, 1)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, models.SendStatusSent, records[0].Status)
		assert.False(t, records[0].OutcomeLocked)
		assert.Nil(t, records[0].Outcome)

		// Email sends append to the contact history
		assert.Len(t, f.activityRepo.byType(first.ID, models.ActivityEmailSent), 1)
		assert.Len(t, f.auditRepo.byAction(models.AuditActionCampaignCreated), 1)
	})

	t.Run("SMSCampaignUsesPhoneDestination", func(t *testing.T) {
		contact := phoneOnlyContact(1, 1)
		f := newCampaignFlowFixture(contact)

		resp, err := f.flow.CreateCampaign(ctx, campaignRequest("sms", contact), testMetadata())
		require.NoError(t, err)

		require.Len(t, resp.Entries, 1)
		assert.Equal(t, *contact.Phone, resp.Entries[0].Destination)
		require.Len(t, f.smsService.SentMessages, 1)
		assert.Empty(t, f.emailService.SentMessages)

		// SMS sends do not produce email_sent activity entries
		assert.Empty(t, f.activityRepo.byType(contact.ID, models.ActivityEmailSent))
	})

	t.Run("UnreachableContactsSkipped", func(t *testing.T) {
		reachable := reachableContact(1, 1)
		noPhone := emailOnlyContact(2, 1)
		f := newCampaignFlowFixture(reachable, noPhone)

		resp, err := f.flow.CreateCampaign(ctx, campaignRequest("sms", reachable, noPhone), testMetadata())
		require.NoError(t, err)

		require.Len(t, resp.Entries, 1)
		assert.Equal(t, []string{noPhone.UUID.String()}, resp.Skipped)
	})

	t.Run("ForeignAndUnknownContactsSkipped", func(t *testing.T) {
		mine := reachableContact(1, 1)
		foreign := reachableContact(2, 99)
		f := newCampaignFlowFixture(mine, foreign)

		req := campaignRequest("email", mine, foreign)
		ghost := uuid.New().String()
		req.Entries = append(req.Entries, dto.CampaignEntryRequest{ContactUUID: ghost, Body: "hello"})

		resp, err := f.flow.CreateCampaign(ctx, req, testMetadata())
		require.NoError(t, err)

		require.Len(t, resp.Entries, 1)
		assert.ElementsMatch(t, []string{foreign.UUID.String(), ghost}, resp.Skipped)
	})

	t.Run("NoValidRecipients", func(t *testing.T) {
		noPhone := emailOnlyContact(1, 1)
		f := newCampaignFlowFixture(noPhone)

		_, err := f.flow.CreateCampaign(ctx, campaignRequest("sms", noPhone), testMetadata())
		require.Error(t, err)
		assert.True(t, IsNoValidRecipients(err))

		// No campaign row may survive a fully skipped batch
		assert.Empty(t, f.campaignRepo.campaigns)
	})

	t.Run("PartialDispatchFailure", func(t *testing.T) {
		ok := reachableContact(1, 1)
		broken := emailOnlyContact(2, 1)
		broken.Email = utils.ToPtr("bounce@example.com")
		third := emailOnlyContact(3, 1)
		third.Email = utils.ToPtr("third@example.com")
		f := newCampaignFlowFixture(ok, broken, third)
		f.emailService.FailFor = map[string]error{"bounce@example.com": errors.New("provider rejected")}

		resp, err := f.flow.CreateCampaign(ctx, campaignRequest("email", ok, broken, third), testMetadata())
		require.NoError(t, err)

		// The failed entry burns its index, leaving a gap
		require.Len(t, resp.Entries, 2)
		assert.Equal(t, 0, resp.Entries[0].EntryIndex)
		assert.Equal(t, 2, resp.Entries[1].EntryIndex)
		assert.Equal(t, []string{broken.UUID.String()}, resp.Failed)

		records, err := f.sendRecordRepo.ListByCampaign(ctx, 1)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, 0, records[0].EntryIndex)
		assert.Equal(t, 2, records[1].EntryIndex)
	})

	t.Run("AllDispatchesFailedDeletesCampaign", func(t *testing.T) {
		contact := reachableContact(1, 1)
		f := newCampaignFlowFixture(contact)
		f.emailService.FailFor = map[string]error{*contact.Email: errors.New("provider down")}

		_, err := f.flow.CreateCampaign(ctx, campaignRequest("email", contact), testMetadata())
		require.Error(t, err)
		assert.True(t, IsUpstreamError(err))
		assert.True(t, IsRetriableUpstream(err))
		assert.True(t, IsAllDispatchesFailed(err))

		assert.Empty(t, f.campaignRepo.campaigns)
		assert.Len(t, f.campaignRepo.deleted, 1)
		assert.NotEmpty(t, f.auditRepo.byAction(models.AuditActionCampaignCreationFailed))
	})

	t.Run("InvalidChannel", func(t *testing.T) {
		contact := reachableContact(1, 1)
		f := newCampaignFlowFixture(contact)

		req := campaignRequest("email", contact)
		req.Channel = "fax"
		_, err := f.flow.CreateCampaign(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, IsInvalidChannel(err))
	})

	t.Run("InvalidIntent", func(t *testing.T) {
		contact := reachableContact(1, 1)
		f := newCampaignFlowFixture(contact)

		req := campaignRequest("email", contact)
		req.Intent = "lukewarm"
		_, err := f.flow.CreateCampaign(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, IsInvalidIntent(err))
	})

	t.Run("InactiveCustomer", func(t *testing.T) {
		contact := reachableContact(1, 1)
		f := newCampaignFlowFixture(contact)
		f.customerRepo.customers[1].IsActive = utils.ToPtr(false)

		_, err := f.flow.CreateCampaign(ctx, campaignRequest("email", contact), testMetadata())
		require.Error(t, err)
		assert.True(t, IsAccountInactive(err))
	})

	t.Run("UnknownCustomer", func(t *testing.T) {
		contact := reachableContact(1, 1)
		f := newCampaignFlowFixture(contact)

		req := campaignRequest("email", contact)
		req.CustomerID = 42
		_, err := f.flow.CreateCampaign(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, IsCustomerNotFound(err))
	})
}

func TestGetCampaign(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsEntriesInOrder", func(t *testing.T) {
		contact := reachableContact(1, 1)
		f := newCampaignFlowFixture(contact)

		created, err := f.flow.CreateCampaign(ctx, campaignRequest("email", contact), testMetadata())
		require.NoError(t, err)

		resp, err := f.flow.GetCampaign(ctx, &dto.GetCampaignRequest{UUID: created.UUID, CustomerID: 1}, testMetadata())
		require.NoError(t, err)

		assert.Equal(t, created.UUID, resp.UUID)
		assert.Equal(t, "Q3 Product Launch", resp.Name)
		assert.Equal(t, "email", resp.Channel)
		assert.Equal(t, "cold", resp.Intent)
		assert.Nil(t, resp.ParentCampaignUUID)
		require.Len(t, resp.Entries, 1)
		assert.Equal(t, "Avery Kim", resp.Entries[0].Name)
	})

	t.Run("UnknownCampaign", func(t *testing.T) {
		f := newCampaignFlowFixture()
		_, err := f.flow.GetCampaign(ctx, &dto.GetCampaignRequest{UUID: uuid.New().String(), CustomerID: 1}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsCampaignNotFound(err))
	})

	t.Run("ForeignCampaignDenied", func(t *testing.T) {
		f := newCampaignFlowFixture()
		other := &models.Campaign{
			CustomerID:       99,
			Name:             "Not yours",
			Channel:          models.CampaignChannelEmail,
			EngagementIntent: models.EngagementIntentCold,
		}
		require.NoError(t, f.campaignRepo.Save(ctx, other))

		_, err := f.flow.GetCampaign(ctx, &dto.GetCampaignRequest{UUID: other.UUID.String(), CustomerID: 1}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsCampaignAccessDenied(err))
	})
}

func TestListCampaigns(t *testing.T) {
	ctx := context.Background()

	contact := reachableContact(1, 1)
	f := newCampaignFlowFixture(contact)

	for i := 0; i < 3; i++ {
		_, err := f.flow.CreateCampaign(ctx, campaignRequest("email", contact), testMetadata())
		require.NoError(t, err)
	}

	resp, err := f.flow.ListCampaigns(ctx, &dto.ListCampaignsRequest{CustomerID: 1, Page: 1, PageSize: 2}, testMetadata())
	require.NoError(t, err)

	assert.Len(t, resp.Campaigns, 2)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.Equal(t, int64(1), resp.Campaigns[0].EntryCount)

	second, err := f.flow.ListCampaigns(ctx, &dto.ListCampaignsRequest{CustomerID: 1, Page: 2, PageSize: 2}, testMetadata())
	require.NoError(t, err)
	assert.Len(t, second.Campaigns, 1)
}

func TestExportCampaignReport(t *testing.T) {
	ctx := context.Background()

	contact := reachableContact(1, 1)
	f := newCampaignFlowFixture(contact)

	created, err := f.flow.CreateCampaign(ctx, campaignRequest("email", contact), testMetadata())
	require.NoError(t, err)

	resp, err := f.flow.ExportCampaignReport(ctx, &dto.ExportCampaignReportRequest{UUID: created.UUID, CustomerID: 1}, testMetadata())
	require.NoError(t, err)

	assert.Equal(t, "campaign_"+created.UUID+"_report.xlsx", resp.FileName)
	assert.NotEmpty(t, resp.Content)
	// xlsx files are zip containers
	assert.Equal(t, []byte{0x50, 0x4b}, resp.Content[:2])
}
