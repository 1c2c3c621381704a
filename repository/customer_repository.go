package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/salesloop/outreach/models"
	"gorm.io/gorm"
)

// CustomerRepositoryImpl implements CustomerRepository
type CustomerRepositoryImpl struct {
	*BaseRepository[models.Customer, models.CustomerFilter]
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &CustomerRepositoryImpl{BaseRepository: NewBaseRepository[models.Customer, models.CustomerFilter](db)}
}

func (r *CustomerRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Customer, error) {
	db := r.getDB(ctx)
	var customer models.Customer
	if err := db.Where("email = ?", email).Last(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find customer by email: %w", err)
	}
	return &customer, nil
}

func (r *CustomerRepositoryImpl) ByUUID(ctx context.Context, customerUUID string) (*models.Customer, error) {
	parsed, err := uuid.Parse(customerUUID)
	if err != nil {
		return nil, fmt.Errorf("invalid customer UUID: %w", err)
	}

	db := r.getDB(ctx)
	var customer models.Customer
	if err := db.Where("uuid = ?", parsed).Last(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find customer by UUID: %w", err)
	}
	return &customer, nil
}

func (r *CustomerRepositoryImpl) applyFilter(db *gorm.DB, f models.CustomerFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.Email != nil {
		db = db.Where("email = ?", *f.Email)
	}
	if f.IsActive != nil {
		db = db.Where("is_active = ?", *f.IsActive)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	if f.LastLoginAfter != nil {
		db = db.Where("last_login_at >= ?", *f.LastLoginAfter)
	}
	if f.LastLoginBefore != nil {
		db = db.Where("last_login_at < ?", *f.LastLoginBefore)
	}
	return db
}

func (r *CustomerRepositoryImpl) ByFilter(ctx context.Context, filter models.CustomerFilter, orderBy string, limit, offset int) ([]*models.Customer, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Customer{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Customer
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CustomerRepositoryImpl) Count(ctx context.Context, filter models.CustomerFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Customer{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CustomerRepositoryImpl) Exists(ctx context.Context, filter models.CustomerFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
