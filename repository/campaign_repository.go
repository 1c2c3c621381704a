package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/salesloop/outreach/models"
	"gorm.io/gorm"
)

// CampaignRepositoryImpl implements CampaignRepository
type CampaignRepositoryImpl struct {
	*BaseRepository[models.Campaign, models.CampaignFilter]
}

func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &CampaignRepositoryImpl{BaseRepository: NewBaseRepository[models.Campaign, models.CampaignFilter](db)}
}

func (r *CampaignRepositoryImpl) ByUUID(ctx context.Context, campaignUUID string) (*models.Campaign, error) {
	parsed, err := uuid.Parse(campaignUUID)
	if err != nil {
		return nil, fmt.Errorf("invalid campaign UUID: %w", err)
	}

	db := r.getDB(ctx)
	var campaign models.Campaign
	if err := db.Where("uuid = ?", parsed).Last(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find campaign by UUID: %w", err)
	}
	return &campaign, nil
}

func (r *CampaignRepositoryImpl) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Campaign, error) {
	filter := models.CampaignFilter{CustomerID: &customerID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// ListChildren returns the follow-up campaigns chained off the given campaign.
func (r *CampaignRepositoryImpl) ListChildren(ctx context.Context, campaignID uint) ([]*models.Campaign, error) {
	filter := models.CampaignFilter{ParentCampaignID: &campaignID}
	return r.ByFilter(ctx, filter, "created_at ASC", 0, 0)
}

// Delete removes a campaign row. Used only to back out a ledger entry whose
// every dispatch failed, before any send record was committed.
func (r *CampaignRepositoryImpl) Delete(ctx context.Context, campaignID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Delete(&models.Campaign{}, campaignID).Error
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepositoryImpl) applyFilter(db *gorm.DB, f models.CampaignFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.CustomerID != nil {
		db = db.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Channel != nil {
		db = db.Where("channel = ?", *f.Channel)
	}
	if f.EngagementIntent != nil {
		db = db.Where("engagement_intent = ?", *f.EngagementIntent)
	}
	if f.ParentCampaignID != nil {
		db = db.Where("parent_campaign_id = ?", *f.ParentCampaignID)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *CampaignRepositoryImpl) ByFilter(ctx context.Context, filter models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Campaign{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Campaign
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CampaignRepositoryImpl) Count(ctx context.Context, filter models.CampaignFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Campaign{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CampaignRepositoryImpl) Exists(ctx context.Context, filter models.CampaignFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
