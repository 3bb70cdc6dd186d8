package service

import (
	"time"

	"fittrack_backend/internal/model"
	"fittrack_backend/internal/repository"
	"fittrack_backend/internal/util"
	"fittrack_backend/pkg/logger"
	"fittrack_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WorkoutService 训练与组的生命周期编排。
// 每个变更操作在一个事务内完成组写入与PR后果评估；
// streak/成就/挑战等下游效果在事务提交后独立执行，互不拖垮
type WorkoutService struct {
	SessionRepo    *repository.SessionRepository
	ExerciseRepo   *repository.ExerciseRepository
	ActivityRepo   *repository.ActivityRepository
	RecordSvc      *RecordService
	AchievementSvc *AchievementService
	ChallengeSvc   *ChallengeService
	LeaderboardSvc *LeaderboardService
	DB             *gorm.DB
}

func NewWorkoutService(
	sessionRepo *repository.SessionRepository,
	exerciseRepo *repository.ExerciseRepository,
	activityRepo *repository.ActivityRepository,
	recordSvc *RecordService,
	achievementSvc *AchievementService,
	challengeSvc *ChallengeService,
	leaderboardSvc *LeaderboardService,
	db *gorm.DB,
) *WorkoutService {
	return &WorkoutService{
		SessionRepo:    sessionRepo,
		ExerciseRepo:   exerciseRepo,
		ActivityRepo:   activityRepo,
		RecordSvc:      recordSvc,
		AchievementSvc: achievementSvc,
		ChallengeSvc:   challengeSvc,
		LeaderboardSvc: leaderboardSvc,
		DB:             db,
	}
}

type LogSetRequest struct {
	SessionID   uint     `json:"sessionId" binding:"required"`
	ExerciseID  uint     `json:"exerciseId" binding:"required"`
	Weight      *float64 `json:"weight"`
	Reps        *int     `json:"reps"`
	TimeSeconds *int     `json:"timeSeconds"`
	IsWarmup    bool     `json:"isWarmup"`
	IsDropset   bool     `json:"isDropset"`
}

type UpdateSetRequest struct {
	Weight      *float64 `json:"weight"`
	Reps        *int     `json:"reps"`
	TimeSeconds *int     `json:"timeSeconds"`
	IsWarmup    bool     `json:"isWarmup"`
	IsDropset   bool     `json:"isDropset"`
}

// StartSession 开始一次训练
func (s *WorkoutService) StartSession(userID uint, name string) (*model.WorkoutSession, error) {
	session := &model.WorkoutSession{
		UserID:    userID,
		Name:      name,
		Status:    model.SessionInProgress,
		StartedAt: time.Now(),
	}
	if err := s.SessionRepo.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *WorkoutService) ownedSession(userID, sessionID uint) (*model.WorkoutSession, error) {
	session, err := s.SessionRepo.FindSessionByID(sessionID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return session, nil
}

func (s *WorkoutService) ownedSet(userID, setID uint) (*model.LoggedSet, error) {
	set, err := s.SessionRepo.FindSetByID(setID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrSetNotFound
	}
	if err != nil {
		return nil, err
	}
	if set.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return set, nil
}

// LogSet 记录一组。组的插入与PR增量评估同事务提交，
// 不存在组可见而PR未评估的中间状态
func (s *WorkoutService) LogSet(userID uint, req LogSetRequest) (*model.LoggedSet, *PRResult, error) {
	session, err := s.ownedSession(userID, req.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.Status != model.SessionInProgress {
		return nil, nil, util.ErrSessionNotActive
	}

	exercise, err := s.ExerciseRepo.FindByID(req.ExerciseID)
	if err != nil {
		return nil, nil, util.ErrExerciseNotFound
	}
	if req.Reps == nil && req.TimeSeconds == nil {
		return nil, nil, util.ErrSetMissingEffort
	}

	set := &model.LoggedSet{
		SessionID:   session.ID,
		UserID:      userID,
		ExerciseID:  exercise.ID,
		Weight:      req.Weight,
		Reps:        req.Reps,
		TimeSeconds: req.TimeSeconds,
		IsWarmup:    req.IsWarmup,
		IsDropset:   req.IsDropset,
		CompletedAt: time.Now(),
	}

	var pr *PRResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.SessionRepo.Tx(tx).CreateSet(set); err != nil {
			return err
		}
		pr, err = s.RecordSvc.ApplyNewSet(tx, set, exercise)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return set, pr, nil
}

// UpdateSet 编辑一组后全量重算该动作的纪录。动作本身不可改，
// 改动作等价于删一组再记一组
func (s *WorkoutService) UpdateSet(userID, setID uint, req UpdateSetRequest) (*model.LoggedSet, error) {
	set, err := s.ownedSet(userID, setID)
	if err != nil {
		return nil, err
	}
	if req.Reps == nil && req.TimeSeconds == nil {
		return nil, util.ErrSetMissingEffort
	}

	set.Weight = req.Weight
	set.Reps = req.Reps
	set.TimeSeconds = req.TimeSeconds
	set.IsWarmup = req.IsWarmup
	set.IsDropset = req.IsDropset

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.SessionRepo.Tx(tx).UpdateSet(set); err != nil {
			return err
		}
		_, err := s.RecordSvc.Recalculate(tx, userID, set.ExerciseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// DeleteSet 删除一组并重算该动作的纪录
func (s *WorkoutService) DeleteSet(userID, setID uint) error {
	set, err := s.ownedSet(userID, setID)
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.SessionRepo.Tx(tx).DeleteSet(set.ID); err != nil {
			return err
		}
		_, err := s.RecordSvc.Recalculate(tx, userID, set.ExerciseID)
		return err
	})
}

// CompleteSession 完成训练：主事务内置状态、写活动流；
// 提交后触发成就评估、挑战进度与排行榜刷新
func (s *WorkoutService) CompleteSession(userID, sessionID uint, notes string) (*model.WorkoutSession, error) {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionInProgress {
		return nil, util.ErrSessionNotActive
	}

	sets, err := s.SessionRepo.ListSetsBySession(session.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session.Status = model.SessionCompleted
	session.CompletedAt = &now
	if notes != "" {
		session.Notes = notes
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.SessionRepo.Tx(tx).UpdateSession(session); err != nil {
			return err
		}
		return s.ActivityRepo.Tx(tx).Append(userID, model.ActivityWorkoutCompleted, session.ID, map[string]any{
			"sessionId": session.ID,
			"name":      session.Name,
			"setCount":  len(sets),
			"duration":  now.Sub(session.StartedAt).Round(time.Second).String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.runPostCommit(userID,
		postCommitEffect{"achievements", func() error {
			return s.AchievementSvc.EvaluateAll(userID, "session_completed", now)
		}},
		postCommitEffect{"challenges", func() error {
			return s.ChallengeSvc.ApplySession(userID, session, sets)
		}},
		postCommitEffect{"leaderboard", func() error {
			return s.LeaderboardSvc.AddSessionVolume(userID, now, sessionVolume(sets))
		}},
	)

	return session, nil
}

// DiscardSession 放弃进行中的训练：删掉全部组并重算涉及的动作
func (s *WorkoutService) DiscardSession(userID, sessionID uint) error {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return err
	}
	if session.Status != model.SessionInProgress {
		return util.ErrSessionNotActive
	}
	return s.removeSessionSets(session, model.SessionDiscarded)
}

// DeleteSession 删除历史训练（级联删组），随后逐动作重算纪录
func (s *WorkoutService) DeleteSession(userID, sessionID uint) error {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return err
	}

	sets, err := s.SessionRepo.ListSetsBySession(session.ID)
	if err != nil {
		return err
	}
	exercises := distinctExercises(sets)

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.SessionRepo.Tx(tx).DeleteSession(session.ID); err != nil {
			return err
		}
		for _, exerciseID := range exercises {
			if _, err := s.RecordSvc.Recalculate(tx, userID, exerciseID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *WorkoutService) removeSessionSets(session *model.WorkoutSession, status model.SessionStatus) error {
	sets, err := s.SessionRepo.ListSetsBySession(session.ID)
	if err != nil {
		return err
	}
	exercises := distinctExercises(sets)

	return s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.SessionRepo.Tx(tx)
		for i := range sets {
			if err := repo.DeleteSet(sets[i].ID); err != nil {
				return err
			}
		}
		session.Status = status
		if err := repo.UpdateSession(session); err != nil {
			return err
		}
		for _, exerciseID := range exercises {
			if _, err := s.RecordSvc.Recalculate(tx, session.UserID, exerciseID); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListSessions 训练历史
func (s *WorkoutService) ListSessions(userID uint, limit int) ([]model.WorkoutSession, error) {
	return s.SessionRepo.ListSessions(userID, limit)
}

// GetSession 单次训练及其组
func (s *WorkoutService) GetSession(userID, sessionID uint) (*model.WorkoutSession, error) {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	sets, err := s.SessionRepo.ListSetsBySession(session.ID)
	if err != nil {
		return nil, err
	}
	session.Sets = sets
	return session, nil
}

// postCommitEffect 主事务提交后的下游效果。
// 每个效果幂等、可单独重试，失败只记日志与指标
type postCommitEffect struct {
	name string
	run  func() error
}

func (s *WorkoutService) runPostCommit(userID uint, effects ...postCommitEffect) {
	for _, e := range effects {
		if err := e.run(); err != nil {
			monitoring.PostCommitFailures.WithLabelValues(e.name).Inc()
			logger.Log.Error("post-commit effect failed",
				zap.String("effect", e.name),
				zap.Uint("userId", userID),
				zap.Error(err))
		}
	}
}

// sessionVolume 排行榜口径的容量：非热身组 重量×次数 之和
func sessionVolume(sets []model.LoggedSet) float64 {
	var volume float64
	for i := range sets {
		if sets[i].IsWarmup {
			continue
		}
		volume += sets[i].WeightValue() * float64(sets[i].RepsValue())
	}
	return volume
}

func distinctExercises(sets []model.LoggedSet) []uint {
	seen := make(map[uint]bool)
	var ids []uint
	for i := range sets {
		if !seen[sets[i].ExerciseID] {
			seen[sets[i].ExerciseID] = true
			ids = append(ids, sets[i].ExerciseID)
		}
	}
	return ids
}
