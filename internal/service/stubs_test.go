package service

import (
	"context"
	"io"
	"time"

	"paydrop/internal/models"
	"paydrop/internal/repository"

	"github.com/google/uuid"
)

// adminRepoStub is a stub for repository.AdminRepository.
type adminRepoStub struct {
	getByIDFn    func(context.Context, uuid.UUID) (*models.Admin, error)
	getByEmailFn func(context.Context, string) (*models.Admin, error)
	createFn     func(context.Context, *models.Admin) error
}

func (s *adminRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	return s.getByIDFn(ctx, id)
}
func (s *adminRepoStub) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *adminRepoStub) Create(ctx context.Context, admin *models.Admin) error {
	return s.createFn(ctx, admin)
}

func noopAdminRepo() *adminRepoStub {
	return &adminRepoStub{
		getByIDFn:    func(_ context.Context, _ uuid.UUID) (*models.Admin, error) { return &models.Admin{}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.Admin, error) { return nil, nil },
		createFn: func(_ context.Context, admin *models.Admin) error {
			if admin.ID == uuid.Nil {
				admin.ID = uuid.New()
			}
			return nil
		},
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn           func(context.Context, *models.Category) error
	getByIDAndOwnerFn  func(context.Context, uuid.UUID, uuid.UUID) (*models.Category, error)
	getActiveByTokenFn func(context.Context, string) (*models.Category, error)
	updateFn           func(context.Context, *models.Category) error
	listByOwnerFn      func(context.Context, uuid.UUID) ([]models.Category, error)
	countByStatusFn    func(context.Context, uuid.UUID) (repository.StatusCounts, error)
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Category, error) {
	return s.getByIDAndOwnerFn(ctx, id, ownerID)
}
func (s *categoryRepoStub) GetActiveByPublicToken(ctx context.Context, token string) (*models.Category, error) {
	return s.getActiveByTokenFn(ctx, token)
}
func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	return s.updateFn(ctx, category)
}
func (s *categoryRepoStub) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error) {
	return s.listByOwnerFn(ctx, ownerID)
}
func (s *categoryRepoStub) CountSubmissionsByStatus(ctx context.Context, categoryID uuid.UUID) (repository.StatusCounts, error) {
	return s.countByStatusFn(ctx, categoryID)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn: func(_ context.Context, category *models.Category) error {
			if category.ID == uuid.Nil {
				category.ID = uuid.New()
			}
			return nil
		},
		getByIDAndOwnerFn: func(_ context.Context, _, _ uuid.UUID) (*models.Category, error) {
			return &models.Category{}, nil
		},
		getActiveByTokenFn: func(_ context.Context, _ string) (*models.Category, error) {
			return &models.Category{IsActive: true}, nil
		},
		updateFn:      func(_ context.Context, _ *models.Category) error { return nil },
		listByOwnerFn: func(_ context.Context, _ uuid.UUID) ([]models.Category, error) { return nil, nil },
		countByStatusFn: func(_ context.Context, _ uuid.UUID) (repository.StatusCounts, error) {
			return repository.StatusCounts{}, nil
		},
	}
}

// submissionRepoStub is a stub for repository.SubmissionRepository.
type submissionRepoStub struct {
	createFn        func(context.Context, *models.Submission) error
	deleteFn        func(context.Context, uuid.UUID) error
	setReceiptKeyFn func(context.Context, uuid.UUID, string) error
	getByIDFn       func(context.Context, uuid.UUID) (*models.Submission, error)
	listFn          func(context.Context, uuid.UUID, *models.SubmissionStatus) ([]models.Submission, error)
	listChronoFn    func(context.Context, uuid.UUID) ([]models.Submission, error)
	markReviewedFn  func(context.Context, uuid.UUID, models.SubmissionStatus, *string, uuid.UUID, time.Time) (bool, error)
}

func (s *submissionRepoStub) Create(ctx context.Context, submission *models.Submission) error {
	return s.createFn(ctx, submission)
}
func (s *submissionRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}
func (s *submissionRepoStub) SetReceiptKey(ctx context.Context, id uuid.UUID, key string) error {
	return s.setReceiptKeyFn(ctx, id, key)
}
func (s *submissionRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	return s.getByIDFn(ctx, id)
}
func (s *submissionRepoStub) ListByCategory(ctx context.Context, categoryID uuid.UUID, statusFilter *models.SubmissionStatus) ([]models.Submission, error) {
	return s.listFn(ctx, categoryID, statusFilter)
}
func (s *submissionRepoStub) ListByCategoryChronological(ctx context.Context, categoryID uuid.UUID) ([]models.Submission, error) {
	return s.listChronoFn(ctx, categoryID)
}
func (s *submissionRepoStub) MarkReviewed(ctx context.Context, id uuid.UUID, target models.SubmissionStatus, note *string, reviewer uuid.UUID, at time.Time) (bool, error) {
	return s.markReviewedFn(ctx, id, target, note, reviewer, at)
}

func noopSubmissionRepo() *submissionRepoStub {
	return &submissionRepoStub{
		createFn: func(_ context.Context, submission *models.Submission) error {
			if submission.ID == uuid.Nil {
				submission.ID = uuid.New()
			}
			return nil
		},
		deleteFn:        func(_ context.Context, _ uuid.UUID) error { return nil },
		setReceiptKeyFn: func(_ context.Context, _ uuid.UUID, _ string) error { return nil },
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Submission, error) {
			return &models.Submission{ID: id, Status: models.SubmissionStatusPending}, nil
		},
		listFn: func(_ context.Context, _ uuid.UUID, _ *models.SubmissionStatus) ([]models.Submission, error) {
			return nil, nil
		},
		listChronoFn: func(_ context.Context, _ uuid.UUID) ([]models.Submission, error) { return nil, nil },
		markReviewedFn: func(_ context.Context, _ uuid.UUID, _ models.SubmissionStatus, _ *string, _ uuid.UUID, _ time.Time) (bool, error) {
			return true, nil
		},
	}
}

// receiptStoreStub is a stub for ReceiptStore.
type receiptStoreStub struct {
	putFn     func(context.Context, string, io.Reader, int64, string) error
	signURLFn func(context.Context, string, time.Duration) (string, error)
	deleteFn  func(context.Context, string) error
}

func (s *receiptStoreStub) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	return s.putFn(ctx, key, body, size, contentType)
}
func (s *receiptStoreStub) SignURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return s.signURLFn(ctx, key, ttl)
}
func (s *receiptStoreStub) Delete(ctx context.Context, key string) error {
	return s.deleteFn(ctx, key)
}

func noopReceiptStore() *receiptStoreStub {
	return &receiptStoreStub{
		putFn: func(_ context.Context, _ string, _ io.Reader, _ int64, _ string) error { return nil },
		signURLFn: func(_ context.Context, key string, _ time.Duration) (string, error) {
			return "https://receipts.example.com/" + key, nil
		},
		deleteFn: func(_ context.Context, _ string) error { return nil },
	}
}
