package services

import (
	"log"
	"sync"
	"time"

	"answerhub/internal/db"
	"answerhub/internal/models"
)

type reconcileKind int

const (
	reconcileQuestion reconcileKind = iota
	reconcileAnswer
	reconcileUser
)

type reconcileTask struct {
	kind reconcileKind
	id   string
}

// ReconcileService 异步对账服务：
// 以票记录重算问题/回答的缓存分数，以声望流水重算用户声望余额，
// 修复并发或历史数据造成的偏差。
type ReconcileService struct {
	queue   chan reconcileTask
	pending map[reconcileTask]bool
	mu      sync.Mutex
}

var (
	reconcileService *ReconcileService
	reconcileOnce    sync.Once
)

// GetReconcileService 获取单例对账服务
func GetReconcileService() *ReconcileService {
	reconcileOnce.Do(func() {
		reconcileService = &ReconcileService{
			queue:   make(chan reconcileTask, 1000), // 缓冲队列，防止阻塞
			pending: make(map[reconcileTask]bool),
		}
		// 启动后台 worker
		go reconcileService.worker()
	})
	return reconcileService
}

// ScheduleQuestion 把问题加入对账队列（异步）
func (s *ReconcileService) ScheduleQuestion(questionID string) {
	s.schedule(reconcileTask{kind: reconcileQuestion, id: questionID})
}

// ScheduleAnswer 把回答加入对账队列（异步）
func (s *ReconcileService) ScheduleAnswer(answerID string) {
	s.schedule(reconcileTask{kind: reconcileAnswer, id: answerID})
}

// ScheduleUser 把用户声望加入对账队列（异步）
func (s *ReconcileService) ScheduleUser(userID string) {
	s.schedule(reconcileTask{kind: reconcileUser, id: userID})
}

// schedule 去重入队，避免短时间内重复计算同一目标
func (s *ReconcileService) schedule(task reconcileTask) {
	s.mu.Lock()
	if s.pending[task] {
		// 已在队列中，跳过
		s.mu.Unlock()
		return
	}
	s.pending[task] = true
	s.mu.Unlock()

	// 非阻塞发送到队列
	select {
	case s.queue <- task:
		// 成功加入队列
	default:
		// 队列满了，移除 pending 标记
		s.mu.Lock()
		delete(s.pending, task)
		s.mu.Unlock()
		log.Printf("对账队列已满，跳过 %d:%s", task.kind, task.id)
	}
}

// worker 后台处理队列中的对账请求
func (s *ReconcileService) worker() {
	// 批量处理：收集一批请求后统一处理
	batch := make([]reconcileTask, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond) // 每 500ms 处理一批
	defer ticker.Stop()

	for {
		select {
		case task := <-s.queue:
			batch = append(batch, task)
			if len(batch) >= 50 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			// 定时处理剩余的
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *ReconcileService) processBatch(tasks []reconcileTask) {
	for _, task := range tasks {
		s.run(task)

		// 清除 pending 状态
		s.mu.Lock()
		delete(s.pending, task)
		s.mu.Unlock()
	}
}

func (s *ReconcileService) run(task reconcileTask) {
	switch task.kind {
	case reconcileQuestion:
		s.reconcileVoteScore(&models.Question{}, "question_id", task.id)
	case reconcileAnswer:
		s.reconcileVoteScore(&models.Answer{}, "answer_id", task.id)
	case reconcileUser:
		if _, err := NewReputationService(db.DB).Recalculate(task.id); err != nil {
			log.Printf("重算用户 %s 声望失败: %v", task.id, err)
		}
	}
}

// reconcileVoteScore 按票记录重算缓存分数（up 记 +1，down 记 -1）并覆盖
func (s *ReconcileService) reconcileVoteScore(model interface{}, targetColumn, targetID string) {
	var up, down int64
	db.DB.Model(&models.Vote{}).
		Where(targetColumn+" = ? AND vote_type = ?", targetID, models.VoteTypeUp).
		Count(&up)
	db.DB.Model(&models.Vote{}).
		Where(targetColumn+" = ? AND vote_type = ?", targetID, models.VoteTypeDown).
		Count(&down)

	score := int(up - down)
	if err := db.DB.Model(model).
		Where("id = ?", targetID).
		UpdateColumn("vote_score", score).Error; err != nil {
		log.Printf("重算 %s=%s 分数失败: %v", targetColumn, targetID, err)
	}
}

// StartNightlySweep 启动每天凌晨 3 点的全量对账任务
func (s *ReconcileService) StartNightlySweep() {
	go func() {
		for {
			// 计算到下一个凌晨 3 点的时间
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, now.Location())
			if now.After(next) {
				next = next.Add(24 * time.Hour)
			}
			time.Sleep(time.Until(next))

			log.Println("开始全量对账...")
			s.sweep()
			log.Println("全量对账完成")
		}
	}()
}

// sweep 重算最近 7 天有投票的问题/回答分数和全部活跃用户的声望
func (s *ReconcileService) sweep() {
	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	count := 0

	var votes []models.Vote
	db.DB.Where("created_at >= ?", sevenDaysAgo).
		Select("question_id", "answer_id").Find(&votes)

	seen := make(map[reconcileTask]bool)
	for _, v := range votes {
		var task reconcileTask
		if v.QuestionID != nil {
			task = reconcileTask{kind: reconcileQuestion, id: *v.QuestionID}
		} else if v.AnswerID != nil {
			task = reconcileTask{kind: reconcileAnswer, id: *v.AnswerID}
		} else {
			continue
		}
		if seen[task] {
			continue
		}
		seen[task] = true
		s.run(task)
		count++
	}

	var users []models.User
	db.DB.Where("is_active = ?", true).Select("id").Find(&users)
	for _, u := range users {
		s.run(reconcileTask{kind: reconcileUser, id: u.ID})
		count++
	}

	log.Printf("本次对账 %d 个目标", count)
}
