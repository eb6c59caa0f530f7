package journal

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entry is one free-text journal entry; extracted records point back to it.
type Entry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_journal_entry_user_created,priority:1" json:"userId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	WordCount int       `gorm:"not null;default:0" json:"wordCount"`

	ExtractedAt          *time.Time `gorm:"index" json:"extractedAt,omitempty"`
	ExtractionConfidence *float64   `json:"extractionConfidence,omitempty"`

	CreatedAt time.Time      `gorm:"not null;index:idx_journal_entry_user_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Entry) TableName() string { return "journal_entry" }
