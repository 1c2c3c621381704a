package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salesloop/outreach/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel errors for the outcome compare-and-set
var (
	ErrSendRecordNotFound   = errors.New("send record not found")
	ErrOutcomeAlreadyLocked = errors.New("outcome already locked")
)

// SendRecordRepositoryImpl implements SendRecordRepository
type SendRecordRepositoryImpl struct {
	*BaseRepository[models.SendRecord, models.SendRecordFilter]
}

func NewSendRecordRepository(db *gorm.DB) SendRecordRepository {
	return &SendRecordRepositoryImpl{BaseRepository: NewBaseRepository[models.SendRecord, models.SendRecordFilter](db)}
}

func (r *SendRecordRepositoryImpl) ByCampaignAndIndex(ctx context.Context, campaignID uint, entryIndex int) (*models.SendRecord, error) {
	db := r.getDB(ctx)
	var row models.SendRecord
	err := db.Where("campaign_id = ? AND entry_index = ?", campaignID, entryIndex).Last(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find send record: %w", err)
	}
	return &row, nil
}

func (r *SendRecordRepositoryImpl) ListByCampaign(ctx context.Context, campaignID uint) ([]*models.SendRecord, error) {
	filter := models.SendRecordFilter{CampaignID: &campaignID}
	return r.ByFilter(ctx, filter, "entry_index ASC", 0, 0)
}

func (r *SendRecordRepositoryImpl) CountByCampaign(ctx context.Context, campaignID uint) (int64, error) {
	filter := models.SendRecordFilter{CampaignID: &campaignID}
	return r.Count(ctx, filter)
}

// MarkOutcome records an outcome on a single send record as a
// compare-and-set. The row is taken with FOR UPDATE so concurrent callers
// serialize; the lock flag is re-checked under the row lock and the outcome
// plus lock fields are written in the same transaction. Exactly one of two
// racing calls succeeds, the other observes ErrOutcomeAlreadyLocked.
func (r *SendRecordRepositoryImpl) MarkOutcome(ctx context.Context, campaignID uint, entryIndex int, outcome models.Outcome, markedAt time.Time) (*models.SendRecord, error) {
	var updated *models.SendRecord

	run := func(txCtx context.Context) error {
		tx := r.getDB(txCtx)

		var row models.SendRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("campaign_id = ? AND entry_index = ?", campaignID, entryIndex).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSendRecordNotFound
			}
			return fmt.Errorf("failed to lock send record: %w", err)
		}

		if row.OutcomeLocked {
			return ErrOutcomeAlreadyLocked
		}

		row.Outcome = &outcome
		row.OutcomeMarkedAt = &markedAt
		if outcome.Terminal() {
			row.OutcomeLocked = true
			row.OutcomeLockedAt = &markedAt
		}
		row.UpdatedAt = markedAt

		if err := tx.Model(&models.SendRecord{}).
			Where("id = ?", row.ID).
			Updates(map[string]any{
				"outcome":           row.Outcome,
				"outcome_marked_at": row.OutcomeMarkedAt,
				"outcome_locked":    row.OutcomeLocked,
				"outcome_locked_at": row.OutcomeLockedAt,
				"updated_at":        row.UpdatedAt,
			}).Error; err != nil {
			return fmt.Errorf("failed to mark outcome: %w", err)
		}

		updated = &row
		return nil
	}

	// Reuse a caller-provided transaction when one is already in flight.
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		if err := run(ctx); err != nil {
			return nil, err
		}
		return updated, nil
	}

	if err := WithTransaction(ctx, r.DB, run); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *SendRecordRepositoryImpl) applyFilter(db *gorm.DB, f models.SendRecordFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.CampaignID != nil {
		db = db.Where("campaign_id = ?", *f.CampaignID)
	}
	if f.EntryIndex != nil {
		db = db.Where("entry_index = ?", *f.EntryIndex)
	}
	if f.ContactID != nil {
		db = db.Where("contact_id = ?", *f.ContactID)
	}
	if f.Outcome != nil {
		db = db.Where("outcome = ?", *f.Outcome)
	}
	if f.OutcomeLocked != nil {
		db = db.Where("outcome_locked = ?", *f.OutcomeLocked)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *SendRecordRepositoryImpl) ByFilter(ctx context.Context, filter models.SendRecordFilter, orderBy string, limit, offset int) ([]*models.SendRecord, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SendRecord{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.SendRecord
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SendRecordRepositoryImpl) Count(ctx context.Context, filter models.SendRecordFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SendRecord{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SendRecordRepositoryImpl) Exists(ctx context.Context, filter models.SendRecordFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
