package router

import (
	"net/http"

	"answerhub/internal/handlers"
	"answerhub/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	questionHandler := handlers.NewQuestionHandler()
	answerHandler := handlers.NewAnswerHandler()
	commentHandler := handlers.NewCommentHandler()
	voteHandler := handlers.NewVoteHandler()
	tagHandler := handlers.NewTagHandler()
	userHandler := handlers.NewUserHandler()
	leaderboardHandler := handlers.NewLeaderboardHandler()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// 公共路由 (Public Routes)
	api.GET("/questions", questionHandler.List)
	api.GET("/questions/similar", questionHandler.Similar) // 提问前查重
	api.GET("/questions/:id", questionHandler.Get)
	api.GET("/questions/:id/answers", answerHandler.ListForQuestion)
	api.GET("/questions/:id/comments", commentHandler.ListForQuestion)
	api.GET("/answers/:id", answerHandler.Get)
	api.GET("/answers/:id/comments", commentHandler.ListForAnswer)

	api.GET("/tags", tagHandler.All)
	api.GET("/tags/popular", tagHandler.Popular)
	api.GET("/tags/search", tagHandler.Search)
	api.GET("/departments", tagHandler.Departments)

	api.GET("/users/:id", userHandler.Get)
	api.GET("/users/:id/reputation-history", userHandler.ReputationHistory)

	api.GET("/leaderboard", leaderboardHandler.Top)
	api.GET("/leaderboard/:departmentId", leaderboardHandler.TopByDepartment)

	// 受保护路由 (Protected Routes)
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/me", userHandler.Me)

		authorized.POST("/questions", questionHandler.Create)
		authorized.PUT("/questions/:id", questionHandler.Update)
		authorized.DELETE("/questions/:id", questionHandler.Delete)
		authorized.PATCH("/questions/:id/status", questionHandler.UpdateStatus)
		authorized.POST("/questions/:id/vote", voteHandler.VoteOnQuestion)
		authorized.POST("/questions/:id/answers", answerHandler.Create)
		authorized.POST("/questions/:id/comments", commentHandler.CreateForQuestion)

		authorized.PUT("/answers/:id", answerHandler.Update)
		authorized.DELETE("/answers/:id", answerHandler.Delete)
		authorized.POST("/answers/:id/accept", answerHandler.Accept)
		authorized.POST("/answers/:id/vote", voteHandler.VoteOnAnswer)
		authorized.POST("/answers/:id/comments", commentHandler.CreateForAnswer)

		authorized.PUT("/comments/:id", commentHandler.Update)
		authorized.DELETE("/comments/:id", commentHandler.Delete)

		authorized.POST("/tags", tagHandler.Create)
	}
}
