package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/luowen/postpilot/internal/services"
	"github.com/luowen/postpilot/pkg/response"
	"gorm.io/gorm"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{
		catalogService: services.NewCatalogService(db),
	}
}

func (h *CatalogHandler) List(c *gin.Context) {
	var req services.CatalogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.catalogService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

func (h *CatalogHandler) GetByID(c *gin.Context) {
	item, err := h.catalogService.GetByID(c.Param("id"))
	if err != nil {
		response.NotFound(c, "catalog item not found")
		return
	}

	response.Success(c, item)
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req services.CreateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.catalogService.Create(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Created(c, item)
}

func (h *CatalogHandler) Update(c *gin.Context) {
	var req services.UpdateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.catalogService.Update(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "catalog item not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, item)
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.catalogService.Delete(c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "catalog item not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"message": "catalog item deleted successfully"})
}
