package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionStatus is the review state of a payment submission.
// The only legal transitions are pending→confirmed and pending→rejected;
// once a submission leaves pending it is immutable (audit trail).
type SubmissionStatus string

const (
	SubmissionStatusPending   SubmissionStatus = "pending"
	SubmissionStatusConfirmed SubmissionStatus = "confirmed"
	SubmissionStatusRejected  SubmissionStatus = "rejected"
)

// Valid reports whether the status is one of the three known states.
// The persisted representation is plain text, so reads re-check it.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusConfirmed, SubmissionStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the status permits no further transitions.
func (s SubmissionStatus) Terminal() bool {
	return s == SubmissionStatusConfirmed || s == SubmissionStatusRejected
}

// ParseSubmissionStatus validates a raw status string, e.g. a query filter.
func ParseSubmissionStatus(raw string) (SubmissionStatus, error) {
	s := SubmissionStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown submission status %q", raw)
	}
	return s, nil
}

// Submission is one student's payment proof for a category. ReceiptKey is a
// reference into the blob store, not a fetchable URL; SignedURL is resolved
// from the key at read time and never persisted.
type Submission struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	StudentName  string           `gorm:"size:255;not null" json:"student_name"`
	StudentPhone string           `gorm:"size:20;not null" json:"student_phone"`
	AmountPaid   float64          `gorm:"type:numeric(10,2);not null" json:"amount_paid"`
	ReceiptKey   string           `gorm:"not null" json:"receipt_key"`
	Status       SubmissionStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	AdminNote    *string          `json:"admin_note"`
	SubmittedAt  time.Time        `gorm:"autoCreateTime" json:"submitted_at"`
	ReviewedAt   *time.Time       `json:"reviewed_at"`
	ReviewedBy   *uuid.UUID       `gorm:"type:uuid" json:"reviewed_by"`

	SignedURL string `gorm:"-" json:"receipt_signed_url,omitempty"`
}

// BeforeCreate assigns a UUID primary key if one was not set explicitly.
func (s *Submission) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
