package handlers

import (
	"fmt"
	"net/http"
	"time"

	"answerhub/internal/db"
	"answerhub/internal/services"
	"answerhub/internal/utils"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboard *services.LeaderboardService
}

func NewLeaderboardHandler() *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: services.NewLeaderboardService(db.DB)}
}

const leaderboardCacheTTL = time.Minute

// Top GET /api/leaderboard 全组织声望榜，本地缓存 1 分钟
func (h *LeaderboardHandler) Top(c *gin.Context) {
	limit := utils.StringToInt(c.DefaultQuery("limit", "10"))

	cacheKey := fmt.Sprintf("leaderboard:org:%d", limit)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		c.JSON(http.StatusOK, gin.H{"data": cached})
		return
	}

	entries, err := h.leaderboard.Top(limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.GetCache().Set(cacheKey, entries, leaderboardCacheTTL)
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// TopByDepartment GET /api/leaderboard/:departmentId
func (h *LeaderboardHandler) TopByDepartment(c *gin.Context) {
	departmentID, ok := uuidParamNamed(c, "departmentId")
	if !ok {
		return
	}
	limit := utils.StringToInt(c.DefaultQuery("limit", "10"))

	cacheKey := fmt.Sprintf("leaderboard:dept:%s:%d", departmentID, limit)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		c.JSON(http.StatusOK, gin.H{"data": cached})
		return
	}

	entries, err := h.leaderboard.TopByDepartment(departmentID, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.GetCache().Set(cacheKey, entries, leaderboardCacheTTL)
	c.JSON(http.StatusOK, gin.H{"data": entries})
}
