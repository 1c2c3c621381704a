// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/salesloop/outreach/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// CustomerRepository defines operations for customers
type CustomerRepository interface {
	Repository[models.Customer, models.CustomerFilter]
	ByEmail(ctx context.Context, email string) (*models.Customer, error)
	ByUUID(ctx context.Context, uuid string) (*models.Customer, error)
}

// TemplateRepository defines operations for message templates
type TemplateRepository interface {
	Repository[models.Template, models.TemplateFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Template, error)
	ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Template, error)
	DeleteByUUID(ctx context.Context, customerID uint, uuid string) error
}

// CampaignRepository defines operations for campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Campaign, error)
	ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Campaign, error)
	ListChildren(ctx context.Context, campaignID uint) ([]*models.Campaign, error)
	Delete(ctx context.Context, campaignID uint) error
}

// SendRecordRepository defines operations for per-contact send entries
type SendRecordRepository interface {
	Repository[models.SendRecord, models.SendRecordFilter]
	ByCampaignAndIndex(ctx context.Context, campaignID uint, entryIndex int) (*models.SendRecord, error)
	ListByCampaign(ctx context.Context, campaignID uint) ([]*models.SendRecord, error)
	CountByCampaign(ctx context.Context, campaignID uint) (int64, error)
	// MarkOutcome performs the outcome write as a compare-and-set: the row is
	// locked, the existing lock flag is re-checked, and outcome plus lock
	// fields are written in one transaction. Returns ErrOutcomeAlreadyLocked
	// when the record was finalized earlier.
	MarkOutcome(ctx context.Context, campaignID uint, entryIndex int, outcome models.Outcome, markedAt time.Time) (*models.SendRecord, error)
}

// ContactRepository defines operations for contacts
type ContactRepository interface {
	Repository[models.Contact, models.ContactFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Contact, error)
	ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Contact, error)
}

// ActivityRepository defines append-only operations for contact activity logs
type ActivityRepository interface {
	Repository[models.Activity, models.ActivityFilter]
	ListByContact(ctx context.Context, contactID uint, limit, offset int) ([]*models.Activity, error)
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.AuditLog, error)
}
