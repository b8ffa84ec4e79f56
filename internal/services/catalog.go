package services

import (
	"errors"

	"github.com/luowen/postpilot/internal/models"
	"gorm.io/gorm"
)

// CatalogService manages product records for the dashboard.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

type CatalogListRequest struct {
	Page        int    `form:"page" binding:"min=1"`
	PageSize    int    `form:"page_size" binding:"min=1,max=100"`
	AccountName string `form:"account_name"`
	Title       string `form:"title"`
	AIGenerated *bool  `form:"ai_generated"`
}

type CatalogListResponse struct {
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Items    []models.CatalogItem `json:"items"`
}

type CreateCatalogItemRequest struct {
	AccountName  string `json:"account_name" binding:"required"`
	Title        string `json:"title"`
	OriginalText string `json:"original_text" binding:"required"`
}

type UpdateCatalogItemRequest struct {
	Title         *string `json:"title"`
	OriginalText  *string `json:"original_text"`
	RewrittenText *string `json:"rewritten_text"`
	ImageURL      *string `json:"image_url"`
}

// List returns paginated catalog items, newest first
func (s *CatalogService) List(req *CatalogListRequest) (*CatalogListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	var items []models.CatalogItem
	var total int64

	query := s.db.Model(&models.CatalogItem{})
	if req.AccountName != "" {
		query = query.Where("account_name = ?", req.AccountName)
	}
	if req.Title != "" {
		query = query.Where("title LIKE ?", "%"+req.Title+"%")
	}
	if req.AIGenerated != nil {
		query = query.Where("ai_generated = ?", *req.AIGenerated)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return &CatalogListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// GetByID returns a catalog item by ID
func (s *CatalogService) GetByID(id string) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := s.db.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Create creates a new catalog item for an account
func (s *CatalogService) Create(req *CreateCatalogItemRequest) (*models.CatalogItem, error) {
	var count int64
	s.db.Model(&models.Account{}).Where("name = ?", req.AccountName).Count(&count)
	if count == 0 {
		return nil, errors.New("account not found")
	}

	item := models.CatalogItem{
		AccountName:  req.AccountName,
		Title:        req.Title,
		OriginalText: req.OriginalText,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update edits a catalog item manually. Manual edits clear the AI flag so
// the dashboard shows the item as hand-curated.
func (s *CatalogService) Update(id string, req *UpdateCatalogItemRequest) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := s.db.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.OriginalText != nil {
		updates["original_text"] = *req.OriginalText
	}
	if req.RewrittenText != nil {
		updates["rewritten_text"] = *req.RewrittenText
		updates["ai_generated"] = false
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
		updates["ai_generated"] = false
	}

	if len(updates) > 0 {
		if err := s.db.Model(&item).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	s.db.Where("id = ?", id).First(&item)
	return &item, nil
}

// Delete deletes a catalog item
func (s *CatalogService) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.CatalogItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
