package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	DocumentStatusCompleted  = "completed"
	DocumentStatusDownloaded = "downloaded"
)

// Document is the metadata of a generated contract PDF. The file itself lives
// in object storage under StoragePath.
type Document struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	ContractID  string         `gorm:"type:varchar(36);index" json:"contract_id"`
	Filename    string         `gorm:"not null" json:"filename"`
	StoragePath string         `gorm:"not null" json:"storage_path"`
	FileSize    int64          `json:"file_size"`
	MimeType    string         `json:"mime_type"`
	PageCount   int            `json:"page_count"`
	Warnings    string         `gorm:"type:json" json:"warnings"` // JSON array of unresolved placeholders
	Status      string         `gorm:"default:'completed'" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Document) TableName() string {
	return "documents"
}
