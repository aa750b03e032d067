package services

import (
	"errors"
	"testing"

	"answerhub/internal/models"
)

func TestGetOrProvisionCreatesUser(t *testing.T) {
	conn := newTestDB(t)
	svc := NewUserService(conn)

	auth := AuthContext{
		UserID:      "11111111-1111-1111-1111-111111111111",
		Email:       "new@example.com",
		DisplayName: "Newcomer",
	}
	user, err := svc.GetOrProvision(auth)
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if user.ID != auth.UserID {
		t.Errorf("id = %s, want header id", user.ID)
	}
	if user.Reputation != 0 {
		t.Errorf("reputation = %d, want 0", user.Reputation)
	}

	// 二次调用拿回同一条，不重复建档
	again, err := svc.GetOrProvision(auth)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if again.ID != user.ID {
		t.Error("provisioned twice")
	}
	var count int64
	conn.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("user rows = %d, want 1", count)
	}
}

func TestGetIgnoresInactive(t *testing.T) {
	conn := newTestDB(t)
	user := createTestUser(t, conn, "leaver")
	conn.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false)

	svc := NewUserService(conn)
	if _, err := svc.Get(user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
