// Package seed fills the database with demo data for local development.
package seed

import (
	"fmt"
	"time"

	"paydrop/internal/models"
	"paydrop/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password for all seeded admin accounts.
const DemoPassword = "pw12345678"

// Options controls how much demo data gets created.
type Options struct {
	Admins                 int
	CategoriesPerAdmin     int
	SubmissionsPerCategory int
}

// DefaultOptions returns a small but representative dataset.
func DefaultOptions() Options {
	return Options{Admins: 2, CategoriesPerAdmin: 3, SubmissionsPerCategory: 8}
}

// Run seeds the database. It is not idempotent; run it against a fresh schema.
func Run(db *gorm.DB, opts Options) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}

	for a := 0; a < opts.Admins; a++ {
		admin := models.Admin{
			Name:         gofakeit.Name(),
			Email:        fmt.Sprintf("admin%d@example.com", a+1),
			PasswordHash: string(hash),
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("creating admin: %w", err)
		}

		for c := 0; c < opts.CategoriesPerAdmin; c++ {
			category, err := seedCategory(db, admin.ID)
			if err != nil {
				return err
			}
			if err := seedSubmissions(db, category, admin.ID, opts.SubmissionsPerCategory); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedCategory(db *gorm.DB, adminID uuid.UUID) (*models.Category, error) {
	token, err := service.GeneratePublicToken()
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	description := gofakeit.Sentence(12)
	amount := float64(gofakeit.Number(20, 500))
	category := models.Category{
		AdminID:        adminID,
		Title:          fmt.Sprintf("%s %s fees", gofakeit.MonthString(), gofakeit.NounAbstract()),
		Description:    &description,
		AmountExpected: &amount,
		PublicToken:    token,
		IsActive:       gofakeit.Number(0, 9) > 1,
	}
	if gofakeit.Bool() {
		expires := time.Now().AddDate(0, 1, 0)
		category.ExpiresAt = &expires
	}
	if err := db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return &category, nil
}

func seedSubmissions(db *gorm.DB, category *models.Category, reviewerID uuid.UUID, count int) error {
	statuses := []models.SubmissionStatus{
		models.SubmissionStatusPending,
		models.SubmissionStatusPending,
		models.SubmissionStatusConfirmed,
		models.SubmissionStatusRejected,
	}

	for i := 0; i < count; i++ {
		submission := models.Submission{
			ID:           uuid.New(),
			CategoryID:   category.ID,
			StudentName:  gofakeit.Name(),
			StudentPhone: gofakeit.Phone(),
			AmountPaid:   float64(gofakeit.Number(20, 500)),
			Status:       statuses[gofakeit.Number(0, len(statuses)-1)],
		}
		submission.ReceiptKey = fmt.Sprintf("receipts/%s/%s/%s_receipt.jpg",
			category.ID, submission.ID, time.Now().UTC().Format("20060102_150405"))

		if submission.Status.Terminal() {
			reviewedAt := time.Now().Add(-time.Duration(gofakeit.Number(1, 72)) * time.Hour)
			submission.ReviewedAt = &reviewedAt
			submission.ReviewedBy = &reviewerID
			if submission.Status == models.SubmissionStatusRejected {
				note := gofakeit.Sentence(8)
				submission.AdminNote = &note
			}
		}

		if err := db.Create(&submission).Error; err != nil {
			return fmt.Errorf("creating submission: %w", err)
		}
	}
	return nil
}
