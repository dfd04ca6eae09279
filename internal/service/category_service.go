package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"paydrop/internal/models"
	"paydrop/internal/repository"
	"paydrop/internal/validation"

	"github.com/google/uuid"
)

// CreateCategoryInput carries the fields for creating a payment category.
type CreateCategoryInput struct {
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	AmountExpected *float64   `json:"amount_expected"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// UpdateCategoryInput patches a category. Nil fields are left unchanged;
// activation state has its own endpoint and is not patchable here.
type UpdateCategoryInput struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	AmountExpected *float64   `json:"amount_expected"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// CategoryService manages payment categories and their public tokens.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create makes a new category owned by adminID with a fresh public token.
func (s *CategoryService) Create(ctx context.Context, adminID uuid.UUID, input CreateCategoryInput) (*models.Category, error) {
	if err := validation.ValidateTitle(input.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if input.AmountExpected != nil {
		if err := validation.ValidateExpectedAmount(*input.AmountExpected); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	token, err := GeneratePublicToken()
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	category := &models.Category{
		AdminID:        adminID,
		Title:          input.Title,
		Description:    input.Description,
		AmountExpected: input.AmountExpected,
		PublicToken:    token,
		IsActive:       true,
		ExpiresAt:      input.ExpiresAt,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetOwned fetches a category, requiring ownership by adminID.
func (s *CategoryService) GetOwned(ctx context.Context, id, adminID uuid.UUID) (*models.Category, error) {
	return s.categoryRepo.GetByIDAndOwner(ctx, id, adminID)
}

// Update patches an owned category. The public token never changes over a
// category's lifetime.
func (s *CategoryService) Update(ctx context.Context, id, adminID uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByIDAndOwner(ctx, id, adminID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if err := validation.ValidateTitle(*input.Title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		category.Title = *input.Title
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if input.AmountExpected != nil {
		if err := validation.ValidateExpectedAmount(*input.AmountExpected); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		category.AmountExpected = input.AmountExpected
	}
	if input.ExpiresAt != nil {
		category.ExpiresAt = input.ExpiresAt
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// SetActive toggles whether the public link accepts submissions. Setting the
// current state again is a no-op, not an error.
func (s *CategoryService) SetActive(ctx context.Context, id, adminID uuid.UUID, active bool) (*models.Category, error) {
	category, err := s.categoryRepo.GetByIDAndOwner(ctx, id, adminID)
	if err != nil {
		return nil, err
	}
	if category.IsActive == active {
		return category, nil
	}
	category.IsActive = active
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ResolvePublic looks up the category behind a public token. Inactive and
// expired categories are indistinguishable from missing ones.
func (s *CategoryService) ResolvePublic(ctx context.Context, token string, now time.Time) (*models.Category, error) {
	category, err := s.categoryRepo.GetActiveByPublicToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if category.Expired(now) {
		return nil, models.NewNotFoundError("Category not found or no longer active")
	}
	return category, nil
}

// ListWithCounts returns the admin's categories, newest first, each with
// per-status submission counts.
func (s *CategoryService) ListWithCounts(ctx context.Context, adminID uuid.UUID) ([]models.CategoryWithCounts, error) {
	categories, err := s.categoryRepo.ListByOwner(ctx, adminID)
	if err != nil {
		return nil, err
	}

	result := make([]models.CategoryWithCounts, 0, len(categories))
	for _, category := range categories {
		counts, err := s.categoryRepo.CountSubmissionsByStatus(ctx, category.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, models.CategoryWithCounts{
			Category:       category,
			PendingCount:   counts.Pending,
			ConfirmedCount: counts.Confirmed,
			RejectedCount:  counts.Rejected,
		})
	}
	return result, nil
}

// GeneratePublicToken returns 32 bytes of randomness URL-safe encoded,
// yielding a 43-character unguessable token.
func GeneratePublicToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
