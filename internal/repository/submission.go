package repository

import (
	"context"
	"errors"
	"time"

	"paydrop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionRepository defines persistence operations for payment submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetReceiptKey(ctx context.Context, id uuid.UUID, key string) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID, statusFilter *models.SubmissionStatus) ([]models.Submission, error)
	ListByCategoryChronological(ctx context.Context, categoryID uuid.UUID) ([]models.Submission, error)
	MarkReviewed(ctx context.Context, id uuid.UUID, target models.SubmissionStatus, note *string, reviewer uuid.UUID, at time.Time) (bool, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository returns a new SubmissionRepository implementation.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete hard-deletes a submission row. It exists solely to compensate a
// failed receipt upload; reviewed submissions are never deleted.
func (r *submissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Submission{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *submissionRepository) SetReceiptKey(ctx context.Context, id uuid.UUID, key string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Update("receipt_key", key).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Submission not found")
		}
		return nil, models.NewInternalError(err)
	}
	if !submission.Status.Valid() {
		return nil, models.NewInternalError(errors.New("submission has unknown status " + string(submission.Status)))
	}
	return &submission, nil
}

func (r *submissionRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID, statusFilter *models.SubmissionStatus) ([]models.Submission, error) {
	query := r.db.WithContext(ctx).Where("category_id = ?", categoryID)
	if statusFilter != nil {
		query = query.Where("status = ?", *statusFilter)
	}

	var submissions []models.Submission
	if err := query.Order("submitted_at DESC").Find(&submissions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return submissions, nil
}

func (r *submissionRepository) ListByCategoryChronological(ctx context.Context, categoryID uuid.UUID) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("submitted_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return submissions, nil
}

// MarkReviewed applies the status transition and audit fields in a single
// conditional UPDATE guarded on status = 'pending', so a concurrent reviewer
// cannot produce a second transition or a partially-updated row. Returns
// false when the guard did not match (already reviewed or row missing).
func (r *submissionRepository) MarkReviewed(ctx context.Context, id uuid.UUID, target models.SubmissionStatus, note *string, reviewer uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ? AND status = ?", id, models.SubmissionStatusPending).
		Updates(map[string]interface{}{
			"status":      target,
			"admin_note":  note,
			"reviewed_at": at,
			"reviewed_by": reviewer,
		})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected == 1, nil
}
