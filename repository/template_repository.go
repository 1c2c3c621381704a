package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/salesloop/outreach/models"
	"gorm.io/gorm"
)

// TemplateRepositoryImpl implements TemplateRepository
type TemplateRepositoryImpl struct {
	*BaseRepository[models.Template, models.TemplateFilter]
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &TemplateRepositoryImpl{BaseRepository: NewBaseRepository[models.Template, models.TemplateFilter](db)}
}

func (r *TemplateRepositoryImpl) ByUUID(ctx context.Context, templateUUID string) (*models.Template, error) {
	parsed, err := uuid.Parse(templateUUID)
	if err != nil {
		return nil, fmt.Errorf("invalid template UUID: %w", err)
	}

	db := r.getDB(ctx)
	var tpl models.Template
	if err := db.Where("uuid = ?", parsed).Last(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find template by UUID: %w", err)
	}
	return &tpl, nil
}

func (r *TemplateRepositoryImpl) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Template, error) {
	filter := models.TemplateFilter{CustomerID: &customerID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// DeleteByUUID removes a template owned by the given customer. Deleting a
// template that does not exist (or belongs to someone else) is a no-op, which
// makes the operation idempotent.
func (r *TemplateRepositoryImpl) DeleteByUUID(ctx context.Context, customerID uint, templateUUID string) error {
	parsed, err := uuid.Parse(templateUUID)
	if err != nil {
		return fmt.Errorf("invalid template UUID: %w", err)
	}

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

	err = db.Where("customer_id = ? AND uuid = ?", customerID, parsed).Delete(&models.Template{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

func (r *TemplateRepositoryImpl) applyFilter(db *gorm.DB, f models.TemplateFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.CustomerID != nil {
		db = db.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Name != nil {
		db = db.Where("name = ?", *f.Name)
	}
	if f.Intent != nil {
		db = db.Where("intent = ?", *f.Intent)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *TemplateRepositoryImpl) ByFilter(ctx context.Context, filter models.TemplateFilter, orderBy string, limit, offset int) ([]*models.Template, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Template{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Template
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *TemplateRepositoryImpl) Count(ctx context.Context, filter models.TemplateFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Template{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TemplateRepositoryImpl) Exists(ctx context.Context, filter models.TemplateFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
