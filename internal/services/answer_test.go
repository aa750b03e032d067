package services

import (
	"errors"
	"testing"

	"answerhub/internal/models"
)

func TestCreateAnswer(t *testing.T) {
	conn := newTestDB(t)
	asker := createTestUser(t, conn, "asker")
	answerer := createTestUser(t, conn, "answerer")
	question := createTestQuestion(t, conn, asker, "needs answer")

	svc := NewAnswerService(conn)
	answer, err := svc.Create(authFor(answerer), question.ID, "use a load balancer")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if answer.QuestionID != question.ID {
		t.Errorf("questionID = %s, want %s", answer.QuestionID, question.ID)
	}

	// 发回答 +10 声望，问题回答数 +1
	if got := reputationOf(t, conn, answerer.ID); got != 10 {
		t.Errorf("answerer reputation = %d, want 10", got)
	}
	var q models.Question
	conn.First(&q, "id = ?", question.ID)
	if q.AnswerCount != 1 {
		t.Errorf("answer_count = %d, want 1", q.AnswerCount)
	}
}

func TestCreateAnswerValidation(t *testing.T) {
	conn := newTestDB(t)
	asker := createTestUser(t, conn, "asker")
	question := createTestQuestion(t, conn, asker, "empty answer")

	svc := NewAnswerService(conn)
	if _, err := svc.Create(authFor(asker), question.ID, "   "); !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
	if _, err := svc.Create(authFor(asker), "missing-question", "body"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAcceptAnswer(t *testing.T) {
	conn := newTestDB(t)
	asker := createTestUser(t, conn, "asker")
	answerer := createTestUser(t, conn, "answerer")
	question := createTestQuestion(t, conn, asker, "accept me")
	answer := createTestAnswer(t, conn, question, answerer)

	svc := NewAnswerService(conn)
	accepted, err := svc.Accept(authFor(asker), answer.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if !accepted.IsAccepted {
		t.Error("answer not marked accepted")
	}

	var q models.Question
	conn.First(&q, "id = ?", question.ID)
	if q.Status != models.QuestionStatusSolved {
		t.Errorf("status = %s, want solved", q.Status)
	}
	if q.AcceptedAnswerID == nil || *q.AcceptedAnswerID != answer.ID {
		t.Errorf("accepted_answer_id = %v, want %s", q.AcceptedAnswerID, answer.ID)
	}
	if got := reputationOf(t, conn, answerer.ID); got != 25 {
		t.Errorf("answerer reputation = %d, want 25", got)
	}
}

func TestAcceptOnlyQuestionAuthor(t *testing.T) {
	conn := newTestDB(t)
	asker := createTestUser(t, conn, "asker")
	answerer := createTestUser(t, conn, "answerer")
	stranger := createTestUser(t, conn, "stranger")
	question := createTestQuestion(t, conn, asker, "protected accept")
	answer := createTestAnswer(t, conn, question, answerer)

	svc := NewAnswerService(conn)
	if _, err := svc.Accept(authFor(stranger), answer.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Accept(authFor(answerer), answer.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("answerer accept err = %v, want ErrForbidden", err)
	}
}

// 换采纳时旧的采纳标记必须清掉，同一问题同时最多一个被采纳回答
func TestAcceptSwitchesAcceptedAnswer(t *testing.T) {
	conn := newTestDB(t)
	asker := createTestUser(t, conn, "asker")
	first := createTestUser(t, conn, "first")
	second := createTestUser(t, conn, "second")
	question := createTestQuestion(t, conn, asker, "re-accept")
	answerA := createTestAnswer(t, conn, question, first)
	answerB := createTestAnswer(t, conn, question, second)

	svc := NewAnswerService(conn)
	if _, err := svc.Accept(authFor(asker), answerA.ID); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if _, err := svc.Accept(authFor(asker), answerB.ID); err != nil {
		t.Fatalf("second accept: %v", err)
	}

	var count int64
	conn.Model(&models.Answer{}).Where("question_id = ? AND is_accepted = ?", question.ID, true).Count(&count)
	if count != 1 {
		t.Errorf("accepted answers = %d, want 1", count)
	}

	var q models.Question
	conn.First(&q, "id = ?", question.ID)
	if q.AcceptedAnswerID == nil || *q.AcceptedAnswerID != answerB.ID {
		t.Errorf("accepted_answer_id = %v, want %s", q.AcceptedAnswerID, answerB.ID)
	}
}

func TestUpdateAnswerAuthorOnly(t *testing.T) {
	conn := newTestDB(t)
	asker := createTestUser(t, conn, "asker")
	answerer := createTestUser(t, conn, "answerer")
	question := createTestQuestion(t, conn, asker, "edit answer")
	answer := createTestAnswer(t, conn, question, answerer)

	svc := NewAnswerService(conn)
	if _, err := svc.Update(authFor(asker), answer.ID, "hijacked"); !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}

	updated, err := svc.Update(authFor(answerer), answer.ID, "improved answer")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Body != "improved answer" {
		t.Errorf("body = %q", updated.Body)
	}
}

func TestDeleteAcceptedAnswerClearsQuestion(t *testing.T) {
	conn := newTestDB(t)
	asker := createTestUser(t, conn, "asker")
	answerer := createTestUser(t, conn, "answerer")
	question := createTestQuestion(t, conn, asker, "delete accepted")
	answer := createTestAnswer(t, conn, question, answerer)
	conn.Model(&models.Question{}).Where("id = ?", question.ID).Update("answer_count", 1)

	svc := NewAnswerService(conn)
	if _, err := svc.Accept(authFor(asker), answer.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := svc.Delete(authFor(answerer), answer.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var q models.Question
	conn.First(&q, "id = ?", question.ID)
	if q.AcceptedAnswerID != nil {
		t.Errorf("accepted_answer_id = %v, want nil", q.AcceptedAnswerID)
	}
	if q.AnswerCount != 0 {
		t.Errorf("answer_count = %d, want 0", q.AnswerCount)
	}

	// 软删后列表不再返回
	answers, err := svc.ListForQuestion(question.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(answers) != 0 {
		t.Errorf("answers = %d, want 0", len(answers))
	}
}

func TestListForQuestionOrder(t *testing.T) {
	conn := newTestDB(t)
	asker := createTestUser(t, conn, "asker")
	u1 := createTestUser(t, conn, "u1")
	u2 := createTestUser(t, conn, "u2")
	u3 := createTestUser(t, conn, "u3")
	question := createTestQuestion(t, conn, asker, "ordering")

	low := createTestAnswer(t, conn, question, u1)
	high := createTestAnswer(t, conn, question, u2)
	accepted := createTestAnswer(t, conn, question, u3)

	conn.Model(&models.Answer{}).Where("id = ?", low.ID).Update("vote_score", 1)
	conn.Model(&models.Answer{}).Where("id = ?", high.ID).Update("vote_score", 7)

	svc := NewAnswerService(conn)
	if _, err := svc.Accept(authFor(asker), accepted.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	answers, err := svc.ListForQuestion(question.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(answers) != 3 {
		t.Fatalf("answers = %d, want 3", len(answers))
	}
	// 被采纳的置顶，之后按分数降序
	if answers[0].ID != accepted.ID {
		t.Errorf("answers[0] = %s, want accepted", answers[0].ID)
	}
	if answers[1].ID != high.ID || answers[2].ID != low.ID {
		t.Errorf("score ordering wrong: %s, %s", answers[1].ID, answers[2].ID)
	}
}
