package handlers

import (
	"net/http"

	"answerhub/internal/db"
	"answerhub/internal/models"
	"answerhub/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{votes: services.NewVoteService(db.DB)}
}

type voteRequest struct {
	VoteType string `json:"voteType"`
}

// VoteOnQuestion POST /api/questions/:id/vote
func (h *VoteHandler) VoteOnQuestion(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body")
		return
	}

	questionID, ok := uuidParam(c)
	if !ok {
		return
	}
	result, err := h.votes.VoteOnQuestion(CurrentAuth(c), questionID, models.VoteType(req.VoteType))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// 异步对账缓存分数与票记录
	services.GetReconcileService().ScheduleQuestion(questionID)

	c.JSON(http.StatusOK, result)
}

// VoteOnAnswer POST /api/answers/:id/vote
func (h *VoteHandler) VoteOnAnswer(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body")
		return
	}

	answerID, ok := uuidParam(c)
	if !ok {
		return
	}
	result, err := h.votes.VoteOnAnswer(CurrentAuth(c), answerID, models.VoteType(req.VoteType))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	services.GetReconcileService().ScheduleAnswer(answerID)

	c.JSON(http.StatusOK, result)
}
