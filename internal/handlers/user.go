package handlers

import (
	"net/http"

	"answerhub/internal/db"
	"answerhub/internal/middleware"
	"answerhub/internal/models"
	"answerhub/internal/services"
	"answerhub/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users      *services.UserService
	reputation *services.ReputationService
}

func NewUserHandler() *UserHandler {
	return &UserHandler{
		users:      services.NewUserService(db.DB),
		reputation: services.NewReputationService(db.DB),
	}
}

// Me GET /api/me 当前用户，LoadUser 已完成建档
func (h *UserHandler) Me(c *gin.Context) {
	user, exists := c.Get(middleware.CheckUserKey)
	if !exists {
		errorJSON(c, http.StatusUnauthorized, "authentication required, set the X-User-Id header")
		return
	}
	c.JSON(http.StatusOK, user.(*models.User))
}

// Get GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	user, err := h.users.Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ReputationHistory GET /api/users/:id/reputation-history
func (h *UserHandler) ReputationHistory(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}

	// 先确认用户存在，停用账号视同不存在
	if _, err := h.users.Get(id); err != nil {
		writeServiceError(c, err)
		return
	}

	logs, err := h.reputation.History(id, utils.StringToInt(c.DefaultQuery("limit", "50")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": logs})
}
