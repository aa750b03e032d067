package db

import (
	"log"
	"os"

	"answerhub/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=answerhub port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	// Seed reference data
	seedDepartments()
	seedTags()
}

// Migrate runs AutoMigrate for the full schema. Exposed so tests can
// build the same schema on their own database handle.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.Department{},
		&models.User{},
		&models.Tag{},
		&models.Question{},
		&models.QuestionTag{},
		&models.Answer{},
		&models.Comment{},
		&models.Vote{},
		&models.ReputationLog{},
	)
}

func seedDepartments() {
	// 已有部门数据则跳过
	var count int64
	DB.Model(&models.Department{}).Count(&count)
	if count > 0 {
		log.Println("Departments already seeded, skipping")
		return
	}

	departments := []models.Department{
		{Name: "Engineering", Description: "Software development and infrastructure"},
		{Name: "Product", Description: "Product management and strategy"},
		{Name: "Design", Description: "UX, UI and brand design"},
		{Name: "Operations", Description: "People, finance and internal tooling"},
	}

	for _, dept := range departments {
		if err := DB.Create(&dept).Error; err != nil {
			log.Printf("Failed to create department %s: %v", dept.Name, err)
		}
	}
	log.Println("Initial departments created successfully")
}

func seedTags() {
	var count int64
	DB.Model(&models.Tag{}).Count(&count)
	if count > 0 {
		log.Println("Tags already seeded, skipping")
		return
	}

	tags := []models.Tag{
		{Name: "onboarding", Description: "Getting started at the company"},
		{Name: "tooling", Description: "Internal tools and workflows"},
		{Name: "process", Description: "How we work"},
		{Name: "infrastructure", Description: "Servers, networking, deployments"},
	}

	for _, tag := range tags {
		if err := DB.Create(&tag).Error; err != nil {
			log.Printf("Failed to create tag %s: %v", tag.Name, err)
		}
	}
	log.Println("Initial tags created successfully")
}
