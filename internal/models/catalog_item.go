package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogItem is a product record that the content pipeline transforms.
// Only the pipeline sets RewrittenText, ImageURL and AIGenerated.
type CatalogItem struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	AccountName   string         `gorm:"index;size:100;not null" json:"account_name"`
	Title         string         `gorm:"size:300" json:"title"`
	OriginalText  string         `gorm:"type:text" json:"original_text"`
	RewrittenText string         `gorm:"type:text" json:"rewritten_text"`
	ImageURL      string         `gorm:"size:500" json:"image_url"`
	AIGenerated   bool           `gorm:"default:false" json:"ai_generated"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CatalogItem) TableName() string { return "catalog_items" }

func (i *CatalogItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
