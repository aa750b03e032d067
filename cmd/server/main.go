package main

import (
	"log"
	"os"
	"strings"

	"answerhub/internal/db"
	"answerhub/internal/middleware"
	"answerhub/internal/router"
	"answerhub/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// 初始化异步对账服务并启动夜间全量对账
	reconcile := services.GetReconcileService()
	reconcile.StartNightlySweep()

	// Initialize Gin
	r := gin.Default()

	// CORS：前端单页应用跨域访问
	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173"}
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders,
		middleware.HeaderUserID, middleware.HeaderUserEmail,
		middleware.HeaderUserName, middleware.HeaderDepartmentID)
	r.Use(cors.New(corsConfig))

	// Middleware
	r.Use(middleware.LoadUser())

	// Routes
	router.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("AnswerHub server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
