package handlers

import (
	"net/http"
	"time"

	"answerhub/internal/db"
	"answerhub/internal/models"
	"answerhub/internal/services"
	"answerhub/internal/utils"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questions *services.QuestionService
	answers   *services.AnswerService
	comments  *services.CommentService
}

func NewQuestionHandler() *QuestionHandler {
	return &QuestionHandler{
		questions: services.NewQuestionService(db.DB),
		answers:   services.NewAnswerService(db.DB),
		comments:  services.NewCommentService(db.DB),
	}
}

// 无过滤条件的首页列表短暂缓存，问题有写入时失效
const questionListCacheKey = "questions:first-page"
const questionListCacheTTL = 30 * time.Second

// List GET /api/questions
func (h *QuestionHandler) List(c *gin.Context) {
	filters := services.QuestionFilters{
		DepartmentID: c.Query("departmentId"),
		Status:       models.QuestionStatus(c.Query("status")),
		TagID:        c.Query("tagId"),
		AuthorID:     c.Query("authorId"),
		Search:       c.Query("search"),
	}
	pagination := parsePagination(c)

	cacheable := filters == (services.QuestionFilters{}) && pagination.Page <= 1 && pagination.Limit == 20
	if cacheable {
		if cached := utils.GetCache().Get(questionListCacheKey); cached != nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	page, err := h.questions.List(filters, pagination)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if cacheable {
		utils.GetCache().Set(questionListCacheKey, page, questionListCacheTTL)
	}
	c.JSON(http.StatusOK, page)
}

// Get GET /api/questions/:id 问题详情，浏览量 +1，
// 附带渲染后的正文、回答列表和两级评论树
func (h *QuestionHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	question, err := h.questions.Get(id, true)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	question.BodyHTML = utils.RenderMarkdown(question.Body)

	answers, err := h.answers.ListForQuestion(question.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	for i := range answers {
		answers[i].BodyHTML = utils.RenderMarkdown(answers[i].Body)
		comments, err := h.comments.ListForAnswer(answers[i].ID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		answers[i].Comments = comments
	}
	question.Answers = answers

	comments, err := h.comments.ListForQuestion(question.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	question.Comments = comments

	c.JSON(http.StatusOK, question)
}

type createQuestionRequest struct {
	Title        string   `json:"title"`
	Body         string   `json:"body"`
	DepartmentID string   `json:"departmentId"`
	TagIDs       []string `json:"tagIds"`
}

// Create POST /api/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body")
		return
	}

	question, err := h.questions.Create(CurrentAuth(c), services.CreateQuestionInput{
		Title:        req.Title,
		Body:         req.Body,
		DepartmentID: req.DepartmentID,
		TagIDs:       req.TagIDs,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.GetCache().Delete(questionListCacheKey)
	c.JSON(http.StatusCreated, question)
}

type updateQuestionRequest struct {
	Title        *string  `json:"title"`
	Body         *string  `json:"body"`
	DepartmentID *string  `json:"departmentId"`
	TagIDs       []string `json:"tagIds"`
}

// Update PUT /api/questions/:id
func (h *QuestionHandler) Update(c *gin.Context) {
	var req updateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body")
		return
	}

	id, ok := uuidParam(c)
	if !ok {
		return
	}
	question, err := h.questions.Update(CurrentAuth(c), id, services.UpdateQuestionInput{
		Title:        req.Title,
		Body:         req.Body,
		DepartmentID: req.DepartmentID,
		TagIDs:       req.TagIDs,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.GetCache().Delete(questionListCacheKey)
	c.JSON(http.StatusOK, question)
}

// Delete DELETE /api/questions/:id
func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	if err := h.questions.Delete(CurrentAuth(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	utils.GetCache().Delete(questionListCacheKey)
	c.Status(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus PATCH /api/questions/:id/status
func (h *QuestionHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body")
		return
	}

	id, ok := uuidParam(c)
	if !ok {
		return
	}
	question, err := h.questions.UpdateStatus(CurrentAuth(c), id, models.QuestionStatus(req.Status))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// Similar GET /api/questions/similar?q=...
// 提问前查重用，按词重叠度返回最相近的问题
func (h *QuestionHandler) Similar(c *gin.Context) {
	results, err := h.questions.Similar(c.Query("q"), utils.StringToInt(c.DefaultQuery("limit", "5")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": results})
}
