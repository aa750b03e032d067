package handlers

import (
	"net/http"

	"answerhub/internal/db"
	"answerhub/internal/services"
	"answerhub/internal/utils"

	"github.com/gin-gonic/gin"
)

type AnswerHandler struct {
	answers  *services.AnswerService
	comments *services.CommentService
}

func NewAnswerHandler() *AnswerHandler {
	return &AnswerHandler{
		answers:  services.NewAnswerService(db.DB),
		comments: services.NewCommentService(db.DB),
	}
}

// ListForQuestion GET /api/questions/:id/answers
func (h *AnswerHandler) ListForQuestion(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	answers, err := h.answers.ListForQuestion(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	for i := range answers {
		answers[i].BodyHTML = utils.RenderMarkdown(answers[i].Body)
	}
	c.JSON(http.StatusOK, gin.H{"data": answers})
}

// Get GET /api/answers/:id
func (h *AnswerHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	answer, err := h.answers.Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	answer.BodyHTML = utils.RenderMarkdown(answer.Body)

	comments, err := h.comments.ListForAnswer(answer.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	answer.Comments = comments

	c.JSON(http.StatusOK, answer)
}

type answerBodyRequest struct {
	Body string `json:"body"`
}

// Create POST /api/questions/:id/answers
func (h *AnswerHandler) Create(c *gin.Context) {
	var req answerBodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body")
		return
	}

	id, ok := uuidParam(c)
	if !ok {
		return
	}
	answer, err := h.answers.Create(CurrentAuth(c), id, req.Body)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// 作者声望变了，异步校一遍余额
	services.GetReconcileService().ScheduleUser(answer.AuthorID)

	c.JSON(http.StatusCreated, answer)
}

// Update PUT /api/answers/:id
func (h *AnswerHandler) Update(c *gin.Context) {
	var req answerBodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body")
		return
	}

	id, ok := uuidParam(c)
	if !ok {
		return
	}
	answer, err := h.answers.Update(CurrentAuth(c), id, req.Body)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

// Delete DELETE /api/answers/:id
func (h *AnswerHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	if err := h.answers.Delete(CurrentAuth(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Accept POST /api/answers/:id/accept
func (h *AnswerHandler) Accept(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	answer, err := h.answers.Accept(CurrentAuth(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	services.GetReconcileService().ScheduleUser(answer.AuthorID)

	c.JSON(http.StatusOK, answer)
}
