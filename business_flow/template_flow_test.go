package businessflow

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesloop/outreach/app/dto"
	"github.com/salesloop/outreach/models"
)

type templateFlowFixture struct {
	customerRepo *memCustomerRepo
	templateRepo *memTemplateRepo
	auditRepo    *memAuditRepo
	flow         TemplateFlow
}

func newTemplateFlowFixture() *templateFlowFixture {
	f := &templateFlowFixture{
		customerRepo: newMemCustomerRepo(activeCustomer(1)),
		templateRepo: newMemTemplateRepo(),
		auditRepo:    newMemAuditRepo(),
	}
	f.flow = NewTemplateFlow(f.templateRepo, f.customerRepo, f.auditRepo, nil)
	return f
}

func saveTemplateRequest() *dto.SaveTemplateRequest {
	return &dto.SaveTemplateRequest{
		CustomerID: 1,
		Name:       "Cold intro",
		Subject:    "Quick question",
		Body:       "Hi {{first_name}}, wanted to reach out.",
		Intent:     "cold",
	}
}

func TestSaveTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newTemplateFlowFixture()

		resp, err := f.flow.SaveTemplate(ctx, saveTemplateRequest(), testMetadata())
		require.NoError(t, err)

		assert.NotEmpty(t, resp.Template.UUID)
		assert.Equal(t, "Cold intro", resp.Template.Name)
		assert.Equal(t, "cold", resp.Template.Intent)
		assert.False(t, resp.Template.CreatedAt.IsZero())

		require.Len(t, f.templateRepo.templates, 1)
		assert.Len(t, f.auditRepo.byAction(models.AuditActionTemplateSaved), 1)
	})

	t.Run("TrimsNameAndSubject", func(t *testing.T) {
		f := newTemplateFlowFixture()

		req := saveTemplateRequest()
		req.Name = "  Cold intro  "
		req.Subject = " Quick question "
		resp, err := f.flow.SaveTemplate(ctx, req, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "Cold intro", resp.Template.Name)
		assert.Equal(t, "Quick question", resp.Template.Subject)
	})

	t.Run("MissingFieldsRejected", func(t *testing.T) {
		f := newTemplateFlowFixture()

		req := saveTemplateRequest()
		req.Subject = ""
		req.Body = ""
		_, err := f.flow.SaveTemplate(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, IsTemplateFieldsMissing(err))
		assert.Contains(t, err.Error(), "subject")
		assert.Contains(t, err.Error(), "body")
		assert.Empty(t, f.templateRepo.templates)
	})

	t.Run("WhitespaceOnlyNameRejected", func(t *testing.T) {
		f := newTemplateFlowFixture()

		req := saveTemplateRequest()
		req.Name = "   "
		_, err := f.flow.SaveTemplate(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, IsTemplateFieldsMissing(err))
	})
}

func TestDeleteTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("DeletesOwnedTemplate", func(t *testing.T) {
		f := newTemplateFlowFixture()

		saved, err := f.flow.SaveTemplate(ctx, saveTemplateRequest(), testMetadata())
		require.NoError(t, err)

		_, err = f.flow.DeleteTemplate(ctx, &dto.DeleteTemplateRequest{CustomerID: 1, UUID: saved.Template.UUID}, testMetadata())
		require.NoError(t, err)
		assert.Empty(t, f.templateRepo.templates)
		assert.Len(t, f.auditRepo.byAction(models.AuditActionTemplateDeleted), 1)
	})

	t.Run("DeleteUnknownTemplateSucceeds", func(t *testing.T) {
		f := newTemplateFlowFixture()

		_, err := f.flow.DeleteTemplate(ctx, &dto.DeleteTemplateRequest{CustomerID: 1, UUID: uuid.New().String()}, testMetadata())
		require.NoError(t, err)
	})

	t.Run("ForeignTemplateUntouched", func(t *testing.T) {
		f := newTemplateFlowFixture()
		f.customerRepo.customers[2] = activeCustomer(2)

		saved, err := f.flow.SaveTemplate(ctx, saveTemplateRequest(), testMetadata())
		require.NoError(t, err)

		_, err = f.flow.DeleteTemplate(ctx, &dto.DeleteTemplateRequest{CustomerID: 2, UUID: saved.Template.UUID}, testMetadata())
		require.NoError(t, err)
		assert.Len(t, f.templateRepo.templates, 1)
	})
}

func TestListTemplates(t *testing.T) {
	ctx := context.Background()

	f := newTemplateFlowFixture()
	for i := 0; i < 3; i++ {
		_, err := f.flow.SaveTemplate(ctx, saveTemplateRequest(), testMetadata())
		require.NoError(t, err)
	}

	resp, err := f.flow.ListTemplates(ctx, &dto.ListTemplatesRequest{CustomerID: 1, Page: 1, PageSize: 2}, testMetadata())
	require.NoError(t, err)
	assert.Len(t, resp.Templates, 2)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)

	second, err := f.flow.ListTemplates(ctx, &dto.ListTemplatesRequest{CustomerID: 1, Page: 2, PageSize: 2}, testMetadata())
	require.NoError(t, err)
	assert.Len(t, second.Templates, 1)
}
