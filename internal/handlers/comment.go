package handlers

import (
	"net/http"

	"answerhub/internal/db"
	"answerhub/internal/models"
	"answerhub/internal/services"
	"answerhub/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{comments: services.NewCommentService(db.DB)}
}

func renderCommentTree(tree []*models.Comment) {
	for _, c := range tree {
		c.BodyHTML = utils.RenderMarkdown(c.Body)
		renderCommentTree(c.Replies)
	}
}

// ListForQuestion GET /api/questions/:id/comments
func (h *CommentHandler) ListForQuestion(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	tree, err := h.comments.ListForQuestion(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	renderCommentTree(tree)
	c.JSON(http.StatusOK, gin.H{"data": tree})
}

// ListForAnswer GET /api/answers/:id/comments
func (h *CommentHandler) ListForAnswer(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	tree, err := h.comments.ListForAnswer(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	renderCommentTree(tree)
	c.JSON(http.StatusOK, gin.H{"data": tree})
}

type commentRequest struct {
	Body            string  `json:"body"`
	ParentCommentID *string `json:"parentCommentId"`
}

// CreateForQuestion POST /api/questions/:id/comments
func (h *CommentHandler) CreateForQuestion(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body")
		return
	}

	id, ok := uuidParam(c)
	if !ok {
		return
	}
	comment, err := h.comments.CreateForQuestion(CurrentAuth(c), id, req.Body, req.ParentCommentID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// CreateForAnswer POST /api/answers/:id/comments
func (h *CommentHandler) CreateForAnswer(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body")
		return
	}

	id, ok := uuidParam(c)
	if !ok {
		return
	}
	comment, err := h.comments.CreateForAnswer(CurrentAuth(c), id, req.Body, req.ParentCommentID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Update PUT /api/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body")
		return
	}

	id, ok := uuidParam(c)
	if !ok {
		return
	}
	comment, err := h.comments.Update(CurrentAuth(c), id, req.Body)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	if err := h.comments.Delete(CurrentAuth(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
