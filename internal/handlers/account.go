package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/luowen/postpilot/internal/services"
	"github.com/luowen/postpilot/pkg/response"
	"gorm.io/gorm"
)

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(db *gorm.DB) *AccountHandler {
	return &AccountHandler{
		accountService: services.NewAccountService(db),
	}
}

func (h *AccountHandler) List(c *gin.Context) {
	var req services.AccountListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.accountService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

func (h *AccountHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid account id")
		return
	}

	acct, err := h.accountService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "account not found")
		return
	}

	response.Success(c, acct)
}

// GetQueues returns the decoded pending and deployed queues of an account.
func (h *AccountHandler) GetQueues(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid account id")
		return
	}

	queues, err := h.accountService.GetQueues(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "account not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, queues)
}

func (h *AccountHandler) Create(c *gin.Context) {
	var req services.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	acct, err := h.accountService.Create(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Created(c, acct)
}

func (h *AccountHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid account id")
		return
	}

	var req services.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	acct, err := h.accountService.Update(uint(id), &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "account not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, acct)
}

func (h *AccountHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid account id")
		return
	}

	if err := h.accountService.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "account not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"message": "account deleted successfully"})
}
