package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/moneyflow-ledger/internal/api_gateway/service"
	"github.com/moneyflow-ledger/internal/domain/category"
)

// CategoryHandler handles HTTP requests for the category registry
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *slog.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(logger *slog.Logger, categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	parentID, err := parseOptionalUUID(req.ParentID)
	if err != nil {
		RespondBadRequest(c, "Invalid parent ID")
		return
	}

	created, err := h.categoryService.CreateCategory(c.Request.Context(), req.Name, req.Type, parentID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create category")
		return
	}

	RespondCreated(c, created)
}

func (h *CategoryHandler) List(c *gin.Context) {
	var query CategoryListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := category.Filter{ActiveOnly: query.ActiveOnly}
	if query.Type != "" {
		t := category.Type(query.Type)
		filter.Type = &t
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list categories")
		return
	}

	RespondOK(c, categories)
}

func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}

	found, err := h.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to get category")
		return
	}

	RespondOK(c, found)
}

// Update patches the category. A type change leaves already posted transactions untouched.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	parentID, err := parseOptionalUUID(req.ParentID)
	if err != nil {
		RespondBadRequest(c, "Invalid parent ID")
		return
	}

	updated, err := h.categoryService.UpdateCategory(c.Request.Context(), id, category.Patch{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: parentID,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to update category")
		return
	}

	RespondOK(c, updated)
}

func (h *CategoryHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}

	updated, err := h.categoryService.DeactivateCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to deactivate category")
		return
	}

	RespondOK(c, updated)
}
