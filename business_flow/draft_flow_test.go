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

type draftFlowFixture struct {
	customerRepo     *memCustomerRepo
	contactRepo      *memContactRepo
	activityRepo     *memActivityRepo
	auditRepo        *memAuditRepo
	generatorService *services.MockGeneratorService
	flow             DraftFlow
}

func newDraftFlowFixture(contacts ...*models.Contact) *draftFlowFixture {
	f := &draftFlowFixture{
		customerRepo:     newMemCustomerRepo(activeCustomer(1)),
		contactRepo:      newMemContactRepo(contacts...),
		activityRepo:     newMemActivityRepo(),
		auditRepo:        newMemAuditRepo(),
		generatorService: services.NewMockGeneratorService(),
	}
	f.flow = NewDraftFlow(f.contactRepo, f.customerRepo, f.activityRepo, f.auditRepo, f.generatorService, nil)
	return f
}

func batchRequest(textType, intent string, contacts ...*models.Contact) *dto.GenerateBatchRequest {
	uuids := make([]string, 0, len(contacts))
	for _, c := range contacts {
		uuids = append(uuids, c.UUID.String())
	}
	return &dto.GenerateBatchRequest{
		CustomerID:   1,
		ContactUUIDs: uuids,
		Intent:       intent,
		TextType:     textType,
	}
}

func TestGenerateBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("OneDraftPerReachableContact", func(t *testing.T) {
		first := reachableContact(1, 1)
		second := emailOnlyContact(2, 1)
		f := newDraftFlowFixture(first, second)

		resp, err := f.flow.GenerateBatch(ctx, batchRequest("email", "cold", first, second), testMetadata())
		require.NoError(t, err)

		require.Len(t, resp.Drafts, 2)
		assert.Empty(t, resp.Skipped)
		assert.Equal(t, first.UUID.String(), resp.Drafts[0].ContactUUID)
		assert.Equal(t, "Avery Kim", resp.Drafts[0].Name)
		assert.Equal(t, *first.Email, resp.Drafts[0].Destination)
		assert.NotEmpty(t, resp.Drafts[0].Draft)

		// Email drafts land in the contact history
		assert.Len(t, f.activityRepo.byType(first.ID, models.ActivityEmailDrafted), 1)
		assert.Len(t, f.auditRepo.byAction(models.AuditActionBatchDraftGenerated), 1)
	})

	t.Run("SMSBatchUsesPhoneAndSkipsHistory", func(t *testing.T) {
		contact := phoneOnlyContact(1, 1)
		f := newDraftFlowFixture(contact)

		resp, err := f.flow.GenerateBatch(ctx, batchRequest("sms", "warm", contact), testMetadata())
		require.NoError(t, err)

		require.Len(t, resp.Drafts, 1)
		assert.Equal(t, *contact.Phone, resp.Drafts[0].Destination)
		assert.Empty(t, f.activityRepo.byType(contact.ID, models.ActivityEmailDrafted))
	})

	t.Run("UnreachableAndForeignContactsSkipped", func(t *testing.T) {
		reachable := emailOnlyContact(1, 1)
		noEmail := phoneOnlyContact(2, 1)
		foreign := reachableContact(3, 99)
		f := newDraftFlowFixture(reachable, noEmail, foreign)

		req := batchRequest("email", "cold", reachable, noEmail, foreign)
		ghost := uuid.New().String()
		req.ContactUUIDs = append(req.ContactUUIDs, ghost)

		resp, err := f.flow.GenerateBatch(ctx, req, testMetadata())
		require.NoError(t, err)

		require.Len(t, resp.Drafts, 1)
		assert.ElementsMatch(t, []string{noEmail.UUID.String(), foreign.UUID.String(), ghost}, resp.Skipped)
	})

	t.Run("ToneFollowsIntent", func(t *testing.T) {
		contact := reachableContact(1, 1)
		f := newDraftFlowFixture(contact)

		_, err := f.flow.GenerateBatch(ctx, batchRequest("email", "hot", contact), testMetadata())
		require.NoError(t, err)

		require.Len(t, f.generatorService.Prompts, 1)
		prompt := f.generatorService.Prompts[0]
		assert.Contains(t, prompt, "Avery Kim")
		assert.Contains(t, prompt, "Northwind")
		assert.Contains(t, prompt, "Be direct")
	})

	t.Run("UnknownIntentFallsBackToNeutralTone", func(t *testing.T) {
		contact := reachableContact(1, 1)
		f := newDraftFlowFixture(contact)

		resp, err := f.flow.GenerateBatch(ctx, batchRequest("email", "somewhat-interested", contact), testMetadata())
		require.NoError(t, err)
		require.Len(t, resp.Drafts, 1)
		assert.Contains(t, f.generatorService.Prompts[0], "neutral, professional tone")
	})

	t.Run("GeneratorFailureAbortsBatch", func(t *testing.T) {
		first := reachableContact(1, 1)
		second := emailOnlyContact(2, 1)
		second.Email = utils.ToPtr("second@example.com")
		f := newDraftFlowFixture(first, second)

		calls := 0
		f.generatorService.GenerateFunc = func(ctx context.Context, prompt string, maxLength int) (string, error) {
			calls++
			if calls == 2 {
				return "", errors.New("model overloaded")
			}
			return "draft", nil
		}

		_, err := f.flow.GenerateBatch(ctx, batchRequest("email", "cold", first, second), testMetadata())
		require.Error(t, err)
		assert.True(t, IsUpstreamError(err))
		assert.True(t, IsRetriableUpstream(err))
		assert.Len(t, f.auditRepo.byAction(models.AuditActionBatchDraftFailed), 1)
	})

	t.Run("InvalidTextType", func(t *testing.T) {
		contact := reachableContact(1, 1)
		f := newDraftFlowFixture(contact)

		_, err := f.flow.GenerateBatch(ctx, batchRequest("fax", "cold", contact), testMetadata())
		require.Error(t, err)
		assert.True(t, IsInvalidChannel(err))
	})

	t.Run("AllContactsSkippedReturnsEmptyBatch", func(t *testing.T) {
		noPhone := emailOnlyContact(1, 1)
		f := newDraftFlowFixture(noPhone)

		resp, err := f.flow.GenerateBatch(ctx, batchRequest("sms", "cold", noPhone), testMetadata())
		require.NoError(t, err)
		assert.Empty(t, resp.Drafts)
		assert.Len(t, resp.Skipped, 1)
	})
}
