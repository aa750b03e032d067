package services

import (
	"testing"

	"answerhub/internal/models"
)

func TestAwardWritesLogAndBalance(t *testing.T) {
	conn := newTestDB(t)
	user := createTestUser(t, conn, "scholar")

	svc := NewReputationService(conn)
	points, err := svc.Award(user.ID, models.ActionAnswerAccepted, "ref-1")
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if points != 25 {
		t.Errorf("points = %d, want 25", points)
	}

	if got := reputationOf(t, conn, user.ID); got != 25 {
		t.Errorf("reputation = %d, want 25", got)
	}

	var entry models.ReputationLog
	if err := conn.First(&entry, "user_id = ?", user.ID).Error; err != nil {
		t.Fatalf("load log: %v", err)
	}
	if entry.Action != models.ActionAnswerAccepted || entry.Points != 25 {
		t.Errorf("log = %s/%d, want answer_accepted/25", entry.Action, entry.Points)
	}
	if entry.ReferenceID == nil || *entry.ReferenceID != "ref-1" {
		t.Errorf("reference = %v, want ref-1", entry.ReferenceID)
	}
}

func TestAwardAccumulates(t *testing.T) {
	conn := newTestDB(t)
	user := createTestUser(t, conn, "scholar")

	svc := NewReputationService(conn)
	actions := []models.ReputationAction{
		models.ActionQuestionUpvoted,   // +5
		models.ActionAnswerPosted,      // +10
		models.ActionQuestionDownvoted, // -2
	}
	for _, action := range actions {
		if _, err := svc.Award(user.ID, action, ""); err != nil {
			t.Fatalf("award %s: %v", action, err)
		}
	}

	if got := reputationOf(t, conn, user.ID); got != 13 {
		t.Errorf("reputation = %d, want 13", got)
	}
}

// Recalculate 以流水为准修复漂移的余额
func TestRecalculateFixesDrift(t *testing.T) {
	conn := newTestDB(t)
	user := createTestUser(t, conn, "drifted")

	svc := NewReputationService(conn)
	if _, err := svc.Award(user.ID, models.ActionAnswerUpvoted, ""); err != nil {
		t.Fatalf("award: %v", err)
	}

	// 人为制造余额漂移
	if err := conn.Model(&models.User{}).Where("id = ?", user.ID).Update("reputation", 999).Error; err != nil {
		t.Fatalf("corrupt balance: %v", err)
	}

	total, err := svc.Recalculate(user.ID)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if total != 10 {
		t.Errorf("total = %d, want 10", total)
	}
	if got := reputationOf(t, conn, user.ID); got != 10 {
		t.Errorf("reputation = %d, want 10", got)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	conn := newTestDB(t)
	user := createTestUser(t, conn, "historic")

	svc := NewReputationService(conn)
	for i := 0; i < 3; i++ {
		if _, err := svc.Award(user.ID, models.ActionAnswerPosted, ""); err != nil {
			t.Fatalf("award: %v", err)
		}
	}

	logs, err := svc.History(user.ID, 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("len = %d, want 2", len(logs))
	}
	if logs[0].CreatedAt.Before(logs[1].CreatedAt) {
		t.Error("history not ordered newest first")
	}
}

func TestPointsForTable(t *testing.T) {
	cases := map[models.ReputationAction]int{
		models.ActionQuestionUpvoted:       5,
		models.ActionQuestionDownvoted:     -2,
		models.ActionAnswerUpvoted:         10,
		models.ActionAnswerDownvoted:       -2,
		models.ActionAnswerAccepted:        25,
		models.ActionAnswerPosted:          10,
		models.ActionDocumentationApproved: 15,
	}
	for action, want := range cases {
		if got := PointsFor(action); got != want {
			t.Errorf("PointsFor(%s) = %d, want %d", action, got, want)
		}
	}
}
