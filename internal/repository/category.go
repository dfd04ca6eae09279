package repository

import (
	"context"
	"errors"

	"paydrop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusCounts holds per-status submission totals for one category.
type StatusCounts struct {
	Pending   int64
	Confirmed int64
	Rejected  int64
}

// CategoryRepository defines persistence operations for payment categories.
// Ownership is always part of the lookup: a category that exists but belongs
// to another admin is reported exactly like one that does not exist.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Category, error)
	GetActiveByPublicToken(ctx context.Context, token string) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error)
	CountSubmissionsByStatus(ctx context.Context, categoryID uuid.UUID) (StatusCounts, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		// Includes public token collisions; 32 random bytes make those
		// practically unreachable, so they are not retried.
		return models.NewInternalError(err)
	}
	return nil
}

func (r *categoryRepository) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("id = ? AND admin_id = ?", id, ownerID).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category not found or access denied")
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

// GetActiveByPublicToken resolves the public submission link. Inactive
// categories are filtered here; expiry is the service's concern since it
// depends on request time.
func (r *categoryRepository) GetActiveByPublicToken(ctx context.Context, token string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("public_token = ? AND is_active = ?", token, true).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category not found or no longer active")
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *categoryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("admin_id = ?", ownerID).
		Order("created_at DESC").
		Find(&categories).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

func (r *categoryRepository) CountSubmissionsByStatus(ctx context.Context, categoryID uuid.UUID) (StatusCounts, error) {
	var rows []struct {
		Status models.SubmissionStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("status, count(*) as count").
		Where("category_id = ?", categoryID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return StatusCounts{}, models.NewInternalError(err)
	}

	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case models.SubmissionStatusPending:
			counts.Pending = row.Count
		case models.SubmissionStatusConfirmed:
			counts.Confirmed = row.Count
		case models.SubmissionStatusRejected:
			counts.Rejected = row.Count
		}
	}
	return counts, nil
}
