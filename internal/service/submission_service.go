package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"paydrop/internal/middleware"
	"paydrop/internal/models"
	"paydrop/internal/repository"
	"paydrop/internal/storage"
	"paydrop/internal/validation"

	"github.com/google/uuid"
)

// ReceiptStore is the blob storage surface the submission flow needs.
// *storage.Client satisfies it; tests substitute a stub.
type ReceiptStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	SignURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// SubmitInput carries one student's payment proof.
type SubmitInput struct {
	StudentName  string
	StudentPhone string
	AmountPaid   float64
	Filename     string
	ContentType  string
	FileSize     int64
	File         io.Reader
}

// ReviewInput carries a confirm/reject decision.
type ReviewInput struct {
	AdminID uuid.UUID
	Note    *string
}

// SubmissionService handles the public submission flow and admin review.
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	categoryRepo   repository.CategoryRepository
	categories     *CategoryService
	store          ReceiptStore
	maxUploadBytes int64
	allowedExts    []string
	signTTL        time.Duration
}

// NewSubmissionService creates a SubmissionService.
func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	categoryRepo repository.CategoryRepository,
	categories *CategoryService,
	store ReceiptStore,
	maxUploadBytes int64,
	allowedExts []string,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		categoryRepo:   categoryRepo,
		categories:     categories,
		store:          store,
		maxUploadBytes: maxUploadBytes,
		allowedExts:    allowedExts,
		signTTL:        storage.DefaultSignTTL,
	}
}

// Submit accepts an unauthenticated payment proof against a public token.
// The row is created first so the receipt key can embed the submission ID;
// if the upload then fails, the row is deleted again so no submission ever
// points at a missing receipt.
func (s *SubmissionService) Submit(ctx context.Context, publicToken string, input SubmitInput) (*models.Submission, error) {
	category, err := s.categories.ResolvePublic(ctx, publicToken, time.Now())
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateStudentName(input.StudentName); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateStudentPhone(input.StudentPhone); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateAmountPaid(input.AmountPaid); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateFileExtension(input.Filename, s.allowedExts); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateFileSize(input.FileSize, s.maxUploadBytes); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	submission := &models.Submission{
		CategoryID:   category.ID,
		StudentName:  input.StudentName,
		StudentPhone: input.StudentPhone,
		AmountPaid:   input.AmountPaid,
		Status:       models.SubmissionStatusPending,
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, err
	}

	key := storage.BuildReceiptKey(category.ID, submission.ID, input.Filename, time.Now())
	if err := s.store.Put(ctx, key, input.File, input.FileSize, input.ContentType); err != nil {
		if delErr := s.submissionRepo.Delete(ctx, submission.ID); delErr != nil {
			middleware.Logger.ErrorContext(ctx, "failed to roll back submission after upload failure",
				"submission_id", submission.ID, "error", delErr)
		}
		return nil, models.NewValidationError("Failed to store the uploaded receipt. Please try again.")
	}
	if err := s.submissionRepo.SetReceiptKey(ctx, submission.ID, key); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			middleware.Logger.ErrorContext(ctx, "failed to remove orphaned receipt",
				"receipt_key", key, "error", delErr)
		}
		if delErr := s.submissionRepo.Delete(ctx, submission.ID); delErr != nil {
			middleware.Logger.ErrorContext(ctx, "failed to roll back submission after key update failure",
				"submission_id", submission.ID, "error", delErr)
		}
		return nil, err
	}
	submission.ReceiptKey = key

	return submission, nil
}

// List returns a category's submissions for its owner, newest first, each
// with a freshly signed receipt URL. Signed URLs are derived per request and
// never persisted.
func (s *SubmissionService) List(ctx context.Context, categoryID, adminID uuid.UUID, statusFilter *models.SubmissionStatus) ([]models.Submission, error) {
	if _, err := s.categoryRepo.GetByIDAndOwner(ctx, categoryID, adminID); err != nil {
		return nil, err
	}

	submissions, err := s.submissionRepo.ListByCategory(ctx, categoryID, statusFilter)
	if err != nil {
		return nil, err
	}
	for i := range submissions {
		s.attachSignedURL(ctx, &submissions[i])
	}
	return submissions, nil
}

// Get fetches one submission for the owning admin. The ownership walk goes
// submission -> category -> admin; any break in the chain reads as not found.
func (s *SubmissionService) Get(ctx context.Context, id, adminID uuid.UUID) (*models.Submission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByIDAndOwner(ctx, submission.CategoryID, adminID); err != nil {
		return nil, models.NewNotFoundError("Submission not found")
	}
	s.attachSignedURL(ctx, submission)
	return submission, nil
}

// Confirm marks a pending submission as confirmed. The note is optional.
func (s *SubmissionService) Confirm(ctx context.Context, id uuid.UUID, input ReviewInput) (*models.Submission, error) {
	return s.review(ctx, id, models.SubmissionStatusConfirmed, input)
}

// Reject marks a pending submission as rejected. A note explaining the
// rejection is required.
func (s *SubmissionService) Reject(ctx context.Context, id uuid.UUID, input ReviewInput) (*models.Submission, error) {
	if input.Note == nil || *input.Note == "" {
		return nil, models.NewValidationError("admin_note is required when rejecting a submission")
	}
	return s.review(ctx, id, models.SubmissionStatusRejected, input)
}

func (s *SubmissionService) review(ctx context.Context, id uuid.UUID, target models.SubmissionStatus, input ReviewInput) (*models.Submission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByIDAndOwner(ctx, submission.CategoryID, input.AdminID); err != nil {
		return nil, models.NewNotFoundError("Submission not found")
	}

	ok, err := s.submissionRepo.MarkReviewed(ctx, id, target, input.Note, input.AdminID, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race or already reviewed; re-read for the current status.
		current, err := s.submissionRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		verb := "confirm"
		action := "confirmed"
		if target == models.SubmissionStatusRejected {
			verb = "reject"
			action = "rejected"
		}
		return nil, models.NewValidationError(fmt.Sprintf(
			"Cannot %s submission with status '%s'. Only pending submissions can be %s.",
			verb, current.Status, action))
	}

	reviewed, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachSignedURL(ctx, reviewed)
	return reviewed, nil
}

// ExportCSV streams a category's submissions, oldest first, as CSV for the
// owning admin.
func (s *SubmissionService) ExportCSV(ctx context.Context, categoryID, adminID uuid.UUID, w io.Writer) error {
	if _, err := s.categoryRepo.GetByIDAndOwner(ctx, categoryID, adminID); err != nil {
		return err
	}
	submissions, err := s.submissionRepo.ListByCategoryChronological(ctx, categoryID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"ID", "Student Name", "Phone", "Amount Paid", "Status", "Submitted At", "Reviewed At", "Reviewed By", "Admin Note", "Receipt Key"}
	if err := cw.Write(header); err != nil {
		return models.NewInternalError(err)
	}
	for _, sub := range submissions {
		reviewedAt := ""
		if sub.ReviewedAt != nil {
			reviewedAt = sub.ReviewedAt.UTC().Format(time.RFC3339)
		}
		reviewedBy := ""
		if sub.ReviewedBy != nil {
			reviewedBy = sub.ReviewedBy.String()
		}
		note := ""
		if sub.AdminNote != nil {
			note = *sub.AdminNote
		}
		row := []string{
			sub.ID.String(),
			sub.StudentName,
			sub.StudentPhone,
			strconv.FormatFloat(sub.AmountPaid, 'f', 2, 64),
			string(sub.Status),
			sub.SubmittedAt.UTC().Format(time.RFC3339),
			reviewedAt,
			reviewedBy,
			note,
			sub.ReceiptKey,
		}
		if err := cw.Write(row); err != nil {
			return models.NewInternalError(err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// attachSignedURL fills the transient receipt URL. Signing failures degrade
// to an empty URL rather than failing the whole request.
func (s *SubmissionService) attachSignedURL(ctx context.Context, submission *models.Submission) {
	if submission.ReceiptKey == "" {
		return
	}
	url, err := s.store.SignURL(ctx, submission.ReceiptKey, s.signTTL)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "failed to sign receipt URL",
			"submission_id", submission.ID, "error", err)
		return
	}
	submission.SignedURL = url
}
