package services

import (
	"errors"
	"fmt"

	"answerhub/internal/models"

	"gorm.io/gorm"
)

// VoteService 处理问题/回答的投票状态机：
// 无票 → 创建，同类型 → 撤销，反类型 → 切换。
// 票记录、缓存分数、作者声望三者必须在同一事务内落库。
type VoteService struct {
	db         *gorm.DB
	reputation *ReputationService
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db, reputation: NewReputationService(db)}
}

type VoteResult struct {
	Vote     models.Vote `json:"vote"`
	NewScore int         `json:"newScore"`
}

type voteOp int

const (
	voteOpCreate voteOp = iota
	voteOpRetract
	voteOpSwitch
)

type voteTransition struct {
	op         voteOp
	scoreDelta int
	awards     []models.ReputationAction
}

// voteAction 投票方向对应的声望动作
func voteAction(voteType models.VoteType, onQuestion bool) models.ReputationAction {
	if onQuestion {
		if voteType == models.VoteTypeUp {
			return models.ActionQuestionUpvoted
		}
		return models.ActionQuestionDownvoted
	}
	if voteType == models.VoteTypeUp {
		return models.ActionAnswerUpvoted
	}
	return models.ActionAnswerDownvoted
}

func oppositeVote(t models.VoteType) models.VoteType {
	if t == models.VoteTypeUp {
		return models.VoteTypeDown
	}
	return models.VoteTypeUp
}

// resolveTransition 六态转移表（2 种票型 × 创建/撤销/切换），纯函数。
// 注意撤销和切换的声望冲正用的是"反方向动作"的常量而不是原动作的相反数，
// 上游产品如此定义，升降分值不对称时一来一回不归零，这里如实保留。
func resolveTransition(existing *models.VoteType, requested models.VoteType, onQuestion bool) voteTransition {
	if existing == nil {
		delta := 1
		if requested == models.VoteTypeDown {
			delta = -1
		}
		return voteTransition{
			op:         voteOpCreate,
			scoreDelta: delta,
			awards:     []models.ReputationAction{voteAction(requested, onQuestion)},
		}
	}

	if *existing == requested {
		// 同方向再投一次 = 撤票
		delta := -1
		if requested == models.VoteTypeDown {
			delta = 1
		}
		return voteTransition{
			op:         voteOpRetract,
			scoreDelta: delta,
			awards:     []models.ReputationAction{voteAction(oppositeVote(requested), onQuestion)},
		}
	}

	// 反方向 = 切换，分数一撤一立共 ±2，声望记两笔：冲正旧票 + 应用新票
	delta := 2
	if requested == models.VoteTypeDown {
		delta = -2
	}
	return voteTransition{
		op:         voteOpSwitch,
		scoreDelta: delta,
		awards: []models.ReputationAction{
			voteAction(oppositeVote(*existing), onQuestion),
			voteAction(requested, onQuestion),
		},
	}
}

// VoteOnQuestion casts, retracts or switches the caller's vote on a question
// and returns the resulting vote plus the post-update score.
func (s *VoteService) VoteOnQuestion(auth AuthContext, questionID string, voteType models.VoteType) (*VoteResult, error) {
	if !models.ValidVoteType(voteType) {
		return nil, fmt.Errorf("%w: invalid vote type %q", ErrValidation, voteType)
	}

	var question models.Question
	if err := s.db.Where("id = ? AND is_deleted = ?", questionID, false).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %w", ErrNotFound)
		}
		return nil, err
	}

	if question.AuthorID == auth.UserID {
		return nil, fmt.Errorf("%w: cannot vote on your own question", ErrForbidden)
	}

	var result VoteResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findVote(tx, "question_id", auth.UserID, questionID)
		if err != nil {
			return err
		}

		var existingType *models.VoteType
		if existing != nil {
			existingType = &existing.VoteType
		}
		tr := resolveTransition(existingType, voteType, true)

		newVote := models.Vote{UserID: auth.UserID, VoteType: voteType, QuestionID: &question.ID}
		vote, err := applyVoteOp(tx, tr.op, existing, newVote, voteType)
		if err != nil {
			return err
		}
		result.Vote = vote

		if err := tx.Model(&models.Question{}).
			Where("id = ?", questionID).
			UpdateColumn("vote_score", gorm.Expr("vote_score + ?", tr.scoreDelta)).
			Error; err != nil {
			return err
		}

		for _, action := range tr.awards {
			if _, err := s.reputation.AwardTx(tx, question.AuthorID, action, questionID); err != nil {
				return err
			}
		}

		// 基于进入事务前读到的分数计算，不回读；并发写入时以库内累加值为准
		result.NewScore = question.VoteScore + tr.scoreDelta
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// VoteOnAnswer is the answer-side twin of VoteOnQuestion.
func (s *VoteService) VoteOnAnswer(auth AuthContext, answerID string, voteType models.VoteType) (*VoteResult, error) {
	if !models.ValidVoteType(voteType) {
		return nil, fmt.Errorf("%w: invalid vote type %q", ErrValidation, voteType)
	}

	var answer models.Answer
	if err := s.db.Where("id = ? AND is_deleted = ?", answerID, false).First(&answer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("answer %w", ErrNotFound)
		}
		return nil, err
	}

	if answer.AuthorID == auth.UserID {
		return nil, fmt.Errorf("%w: cannot vote on your own answer", ErrForbidden)
	}

	var result VoteResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findVote(tx, "answer_id", auth.UserID, answerID)
		if err != nil {
			return err
		}

		var existingType *models.VoteType
		if existing != nil {
			existingType = &existing.VoteType
		}
		tr := resolveTransition(existingType, voteType, false)

		newVote := models.Vote{UserID: auth.UserID, VoteType: voteType, AnswerID: &answer.ID}
		vote, err := applyVoteOp(tx, tr.op, existing, newVote, voteType)
		if err != nil {
			return err
		}
		result.Vote = vote

		if err := tx.Model(&models.Answer{}).
			Where("id = ?", answerID).
			UpdateColumn("vote_score", gorm.Expr("vote_score + ?", tr.scoreDelta)).
			Error; err != nil {
			return err
		}

		for _, action := range tr.awards {
			if _, err := s.reputation.AwardTx(tx, answer.AuthorID, action, answerID); err != nil {
				return err
			}
		}

		result.NewScore = answer.VoteScore + tr.scoreDelta
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func findVote(tx *gorm.DB, targetColumn, userID, targetID string) (*models.Vote, error) {
	var vote models.Vote
	err := tx.Where("user_id = ? AND "+targetColumn+" = ?", userID, targetID).First(&vote).Error
	if err == nil {
		return &vote, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}

// applyVoteOp 执行转移动作对应的票记录写入，撤销时返回被删除的记录供审计
func applyVoteOp(tx *gorm.DB, op voteOp, existing *models.Vote, newVote models.Vote, requested models.VoteType) (models.Vote, error) {
	switch op {
	case voteOpCreate:
		if err := tx.Create(&newVote).Error; err != nil {
			return models.Vote{}, err
		}
		return newVote, nil
	case voteOpRetract:
		if err := tx.Delete(&models.Vote{}, "id = ?", existing.ID).Error; err != nil {
			return models.Vote{}, err
		}
		return *existing, nil
	default: // voteOpSwitch
		if err := tx.Model(&models.Vote{}).
			Where("id = ?", existing.ID).
			Update("vote_type", requested).Error; err != nil {
			return models.Vote{}, err
		}
		updated := *existing
		updated.VoteType = requested
		return updated, nil
	}
}
