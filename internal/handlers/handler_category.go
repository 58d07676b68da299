package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/gin-gonic/gin"
)

type categoryHandler struct {
	categoryService portssvc.CategorySvcFacade
}

func registerCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvcFacade) {
	h := &categoryHandler{categoryService: categoryService}

	categories := rg.Group("/categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("", h.listCategories)
		categories.GET("/:category_id", h.getCategory)
		categories.PUT("/:category_id", h.updateCategory)
	}
}

// createCategory godoc
// @Summary Create an income or expense category
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Category name already used"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/categories [post]
func (h *categoryHandler) createCategory(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), scope, actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

// listCategories godoc
// @Summary List categories
// @Tags categories
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   type query string false "INCOME or EXPENSE"
// @Param   includeInactive query bool false "Include deactivated categories"
// @Success 200 {object} dto.ListCategoriesResponse
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/categories [get]
func (h *categoryHandler) listCategories(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListCategoriesParams
	if !bindQuery(c, &params) {
		return
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), scope, actor, params)
	if err != nil {
		respondWithError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCategoriesResponse(categories))
}

// getCategory godoc
// @Summary Get a category by ID
// @Tags categories
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   category_id path string true "Category ID"
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/categories/{category_id} [get]
func (h *categoryHandler) getCategory(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), scope, actor, c.Param("category_id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve category")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}

// updateCategory godoc
// @Summary Update a category
// @Description The category type cannot change
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   category_id path string true "Category ID"
// @Param   category body dto.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} dto.CategoryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/categories/{category_id} [put]
func (h *categoryHandler) updateCategory(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), scope, actor, c.Param("category_id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}
