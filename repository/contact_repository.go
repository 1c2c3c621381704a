package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/salesloop/outreach/models"
	"gorm.io/gorm"
)

// ContactRepositoryImpl implements ContactRepository
type ContactRepositoryImpl struct {
	*BaseRepository[models.Contact, models.ContactFilter]
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &ContactRepositoryImpl{BaseRepository: NewBaseRepository[models.Contact, models.ContactFilter](db)}
}

func (r *ContactRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Contact, error) {
	contactUUID, err := uuid.Parse(uuidStr)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID format: %w", err)
	}

	db := r.getDB(ctx)
	var contact models.Contact
	err = db.Where("uuid = ?", contactUUID).Last(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find contact by UUID: %w", err)
	}
	return &contact, nil
}

func (r *ContactRepositoryImpl) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Contact, error) {
	filter := models.ContactFilter{CustomerID: &customerID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

func (r *ContactRepositoryImpl) applyFilter(db *gorm.DB, f models.ContactFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.CustomerID != nil {
		db = db.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Email != nil {
		db = db.Where("email = ?", *f.Email)
	}
	if f.Phone != nil {
		db = db.Where("phone = ?", *f.Phone)
	}
	if f.Company != nil {
		db = db.Where("company = ?", *f.Company)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *ContactRepositoryImpl) ByFilter(ctx context.Context, filter models.ContactFilter, orderBy string, limit, offset int) ([]*models.Contact, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Contact{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var contacts []*models.Contact
	if err := query.Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *ContactRepositoryImpl) Count(ctx context.Context, filter models.ContactFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Contact{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ContactRepositoryImpl) Exists(ctx context.Context, filter models.ContactFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
