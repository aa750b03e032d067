package handlers

import (
	"net/http"

	"answerhub/internal/db"
	"answerhub/internal/services"
	"answerhub/internal/utils"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	tags        *services.TagService
	departments *services.DepartmentService
}

func NewTagHandler() *TagHandler {
	return &TagHandler{
		tags:        services.NewTagService(db.DB),
		departments: services.NewDepartmentService(db.DB),
	}
}

// All GET /api/tags
func (h *TagHandler) All(c *gin.Context) {
	tags, err := h.tags.All()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tags})
}

// Popular GET /api/tags/popular
func (h *TagHandler) Popular(c *gin.Context) {
	tags, err := h.tags.Popular(utils.StringToInt(c.DefaultQuery("limit", "20")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tags})
}

// Search GET /api/tags/search?q=...
func (h *TagHandler) Search(c *gin.Context) {
	tags, err := h.tags.Search(c.Query("q"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tags})
}

type createTagRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create POST /api/tags 取已有同名标签或新建
func (h *TagHandler) Create(c *gin.Context) {
	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body")
		return
	}

	tag, err := h.tags.GetOrCreate(req.Name, req.Description)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// Departments GET /api/departments
func (h *TagHandler) Departments(c *gin.Context) {
	departments, err := h.departments.All()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": departments})
}
