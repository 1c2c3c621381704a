package repository

import (
	"context"

	"github.com/salesloop/outreach/models"
	"gorm.io/gorm"
)

// ActivityRepositoryImpl implements ActivityRepository. Activities are
// append-only; there is no update or delete path.
type ActivityRepositoryImpl struct {
	*BaseRepository[models.Activity, models.ActivityFilter]
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &ActivityRepositoryImpl{BaseRepository: NewBaseRepository[models.Activity, models.ActivityFilter](db)}
}

func (r *ActivityRepositoryImpl) ListByContact(ctx context.Context, contactID uint, limit, offset int) ([]*models.Activity, error) {
	filter := models.ActivityFilter{ContactID: &contactID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

func (r *ActivityRepositoryImpl) applyFilter(db *gorm.DB, f models.ActivityFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.ContactID != nil {
		db = db.Where("contact_id = ?", *f.ContactID)
	}
	if f.Type != nil {
		db = db.Where("type = ?", *f.Type)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *ActivityRepositoryImpl) ByFilter(ctx context.Context, filter models.ActivityFilter, orderBy string, limit, offset int) ([]*models.Activity, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Activity{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var activities []*models.Activity
	if err := query.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *ActivityRepositoryImpl) Count(ctx context.Context, filter models.ActivityFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Activity{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ActivityRepositoryImpl) Exists(ctx context.Context, filter models.ActivityFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
