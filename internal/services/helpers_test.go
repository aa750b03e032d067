package services

import (
	"fmt"
	"strings"
	"testing"

	"answerhub/internal/db"
	"answerhub/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存库，共享缓存保证连接池里是同一份数据
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return conn
}

func createTestUser(t *testing.T, conn *gorm.DB, name string) *models.User {
	t.Helper()
	user := models.User{
		Email:       fmt.Sprintf("%s@example.com", name),
		DisplayName: name,
		IsActive:    true,
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return &user
}

func createTestQuestion(t *testing.T, conn *gorm.DB, author *models.User, title string) *models.Question {
	t.Helper()
	question := models.Question{
		Title:    title,
		Body:     "body of " + title,
		AuthorID: author.ID,
		Status:   models.QuestionStatusOpen,
	}
	if err := conn.Create(&question).Error; err != nil {
		t.Fatalf("create question %s: %v", title, err)
	}
	return &question
}

func createTestAnswer(t *testing.T, conn *gorm.DB, question *models.Question, author *models.User) *models.Answer {
	t.Helper()
	answer := models.Answer{
		QuestionID: question.ID,
		AuthorID:   author.ID,
		Body:       "an answer",
	}
	if err := conn.Create(&answer).Error; err != nil {
		t.Fatalf("create answer: %v", err)
	}
	return &answer
}

func authFor(user *models.User) AuthContext {
	return AuthContext{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
}

func reputationOf(t *testing.T, conn *gorm.DB, userID string) int {
	t.Helper()
	var user models.User
	if err := conn.First(&user, "id = ?", userID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	return user.Reputation
}

func questionScore(t *testing.T, conn *gorm.DB, questionID string) int {
	t.Helper()
	var question models.Question
	if err := conn.First(&question, "id = ?", questionID).Error; err != nil {
		t.Fatalf("load question: %v", err)
	}
	return question.VoteScore
}
