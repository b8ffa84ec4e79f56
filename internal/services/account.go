package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/luowen/postpilot/internal/models"
	"gorm.io/gorm"
)

// AccountService manages storefront accounts and exposes their queues in
// decoded form for the dashboard.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

type AccountListRequest struct {
	Page        int    `form:"page" binding:"min=1"`
	PageSize    int    `form:"page_size" binding:"min=1,max=100"`
	Name        string `form:"name"`
	AutoEnabled *bool  `form:"auto_enabled"`
}

type AccountListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Account `json:"items"`
}

type CreateAccountRequest struct {
	Name             string   `json:"name" binding:"required"`
	AutoEnabled      bool     `json:"auto_enabled"`
	ItemsPerDay      int      `json:"items_per_day"`
	ScheduleTemplate []string `json:"schedule_template"`
	CopyPrompt       string   `json:"copy_prompt"`
	Country          string   `json:"country"`
	WorkdaysOnly     bool     `json:"workdays_only"`
	LLMConfigID      *uint    `json:"llm_config_id"`
}

type UpdateAccountRequest struct {
	AutoEnabled      *bool     `json:"auto_enabled"`
	ItemsPerDay      *int      `json:"items_per_day"`
	ScheduleTemplate *[]string `json:"schedule_template"`
	CopyPrompt       *string   `json:"copy_prompt"`
	Country          *string   `json:"country"`
	WorkdaysOnly     *bool     `json:"workdays_only"`
	LLMConfigID      *uint     `json:"llm_config_id"`
}

// AccountQueues is the decoded view of an account's two queues.
type AccountQueues struct {
	Pending  []models.PendingItem  `json:"pending"`
	Deployed []models.DeployedItem `json:"deployed"`
}

// List returns paginated accounts
func (s *AccountService) List(req *AccountListRequest) (*AccountListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	var accounts []models.Account
	var total int64

	query := s.db.Model(&models.Account{})
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.AutoEnabled != nil {
		query = query.Where("auto_enabled = ?", *req.AutoEnabled)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, err
	}

	return &AccountListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    accounts,
	}, nil
}

// GetByID returns an account by ID
func (s *AccountService) GetByID(id uint) (*models.Account, error) {
	var acct models.Account
	if err := s.db.First(&acct, id).Error; err != nil {
		return nil, err
	}
	return &acct, nil
}

// GetQueues returns the decoded queues for an account. The deployed queue
// is sanitized on the way out but the stored column is left as-is; only the
// scheduler rewrites it.
func (s *AccountService) GetQueues(id uint) (*AccountQueues, error) {
	acct, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &AccountQueues{
		Pending:  models.DecodePendingQueue(acct.PendingQueue),
		Deployed: models.SanitizeDeployedQueue(acct.DeployedQueue),
	}, nil
}

// Create creates a new account
func (s *AccountService) Create(req *CreateAccountRequest) (*models.Account, error) {
	if req.ItemsPerDay == 0 {
		req.ItemsPerDay = 1
	}
	if req.Country == "" {
		req.Country = "NONE"
	}

	template := ""
	if len(req.ScheduleTemplate) > 0 {
		b, _ := json.Marshal(req.ScheduleTemplate)
		template = string(b)
	}

	acct := models.Account{
		Name:             req.Name,
		AutoEnabled:      req.AutoEnabled,
		ItemsPerDay:      req.ItemsPerDay,
		ScheduleTemplate: template,
		PendingQueue:     "[]",
		DeployedQueue:    "[]",
		CopyPrompt:       req.CopyPrompt,
		Country:          req.Country,
		WorkdaysOnly:     req.WorkdaysOnly,
		LLMConfigID:      req.LLMConfigID,
	}

	if err := s.db.Create(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("account name already exists")
		}
		return nil, err
	}
	return &acct, nil
}

// Update updates an account
func (s *AccountService) Update(id uint, req *UpdateAccountRequest) (*models.Account, error) {
	var acct models.Account
	if err := s.db.First(&acct, id).Error; err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.AutoEnabled != nil {
		updates["auto_enabled"] = *req.AutoEnabled
	}
	if req.ItemsPerDay != nil {
		updates["items_per_day"] = *req.ItemsPerDay
	}
	if req.ScheduleTemplate != nil {
		b, _ := json.Marshal(*req.ScheduleTemplate)
		updates["schedule_template"] = string(b)
	}
	if req.CopyPrompt != nil {
		updates["copy_prompt"] = *req.CopyPrompt
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.WorkdaysOnly != nil {
		updates["workdays_only"] = *req.WorkdaysOnly
	}
	if req.LLMConfigID != nil {
		updates["llm_config_id"] = *req.LLMConfigID
	}

	updates["updated_at"] = time.Now()
	if err := s.db.Model(&acct).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.db.First(&acct, id)
	return &acct, nil
}

// Delete deletes an account and its lock row, if any.
func (s *AccountService) Delete(id uint) error {
	var acct models.Account
	if err := s.db.First(&acct, id).Error; err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_name = ?", acct.Name).Delete(&models.AccountLock{}).Error; err != nil {
			return err
		}
		return tx.Delete(&acct).Error
	})
}
