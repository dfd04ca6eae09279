package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a payment collection event (e.g. "June Course Materials").
// Its public token grants unauthenticated submission access; the token is
// generated once at creation and never changes.
type Category struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"admin_id"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Description    *string    `json:"description"`
	AmountExpected *float64   `gorm:"type:numeric(10,2)" json:"amount_expected"`
	PublicToken    string     `gorm:"size:64;uniqueIndex;not null" json:"public_token"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// BeforeCreate assigns a UUID primary key if one was not set explicitly.
func (c *Category) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Expired reports whether the category's expiration, if any, is before now.
func (c *Category) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// CategoryWithCounts is a Category annotated with submission counts grouped
// by status. Counts are computed at read time, never denormalized.
type CategoryWithCounts struct {
	Category
	PendingCount   int64 `json:"pending_count"`
	ConfirmedCount int64 `json:"confirmed_count"`
	RejectedCount  int64 `json:"rejected_count"`
}
