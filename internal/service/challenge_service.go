package service

import (
	"time"

	"fittrack_backend/internal/model"
	"fittrack_backend/internal/repository"
	"fittrack_backend/internal/util"
	"fittrack_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChallengeService 把完成的训练换算成各挑战的进度增量。
// 每个参赛记录独立入账：一条失败只记日志，不影响其余挑战
type ChallengeService struct {
	ChallengeRepo *repository.ChallengeRepository
	ActivityRepo  *repository.ActivityRepository
	DB            *gorm.DB
}

func NewChallengeService(challengeRepo *repository.ChallengeRepository, activityRepo *repository.ActivityRepository, db *gorm.DB) *ChallengeService {
	return &ChallengeService{
		ChallengeRepo: challengeRepo,
		ActivityRepo:  activityRepo,
		DB:            db,
	}
}

// sessionDelta 按挑战类型计算一次训练的增量。
// 挑战口径只剔除热身组，递减组照常计入
func sessionDelta(challenge *model.Challenge, sets []model.LoggedSet) float64 {
	switch challenge.Type {
	case model.ChallengeWorkoutCount:
		return 1

	case model.ChallengeTotalVolume:
		var volume float64
		for i := range sets {
			if sets[i].IsWarmup {
				continue
			}
			volume += sets[i].WeightValue() * float64(sets[i].RepsValue())
		}
		return volume

	case model.ChallengeTotalSets:
		var count float64
		for i := range sets {
			if !sets[i].IsWarmup {
				count++
			}
		}
		return count

	case model.ChallengeExerciseVolume:
		if challenge.ExerciseID == nil {
			return 0
		}
		var volume float64
		for i := range sets {
			if sets[i].IsWarmup || sets[i].ExerciseID != *challenge.ExerciseID {
				continue
			}
			volume += sets[i].WeightValue() * float64(sets[i].RepsValue())
		}
		return volume
	}

	logger.Log.Warn("unknown challenge type, skipping",
		zap.Uint("challengeId", challenge.ID),
		zap.String("type", string(challenge.Type)))
	return 0
}

// ApplySession 把一次完成的训练记入用户全部进行中的挑战。
// 零增量不写库；达标时 completedAt 仅置位一次，重复调用不会再触发
func (s *ChallengeService) ApplySession(userID uint, session *model.WorkoutSession, sets []model.LoggedSet) error {
	memberships, err := s.ChallengeRepo.ActiveMemberships(userID)
	if err != nil {
		return err
	}

	for _, m := range memberships {
		delta := sessionDelta(&m.Challenge, sets)
		if delta <= 0 {
			continue
		}
		if err := s.applyDelta(&m, delta, session.ID); err != nil {
			logger.Log.Error("challenge progress update failed",
				zap.Uint("challengeId", m.Challenge.ID),
				zap.Uint("userId", userID),
				zap.Error(err))
		}
	}
	return nil
}

// applyDelta 持锁累加单条参赛记录的进度并判定完成
func (s *ChallengeService) applyDelta(m *repository.Membership, delta float64, sessionID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		p, err := s.ChallengeRepo.FindParticipantForUpdate(tx, m.Participant.ID)
		if err != nil {
			return err
		}
		// 并发路径可能已先行完成
		if p.CompletedAt != nil {
			return nil
		}

		p.Progress += delta
		justCompleted := p.Progress >= m.Challenge.Target
		if justCompleted {
			now := time.Now()
			p.CompletedAt = &now
		}

		if err := tx.Save(p).Error; err != nil {
			return err
		}

		if justCompleted {
			return s.ActivityRepo.Tx(tx).Append(p.UserID, model.ActivityChallengeCompleted, m.Challenge.ID, map[string]any{
				"challengeId":   m.Challenge.ID,
				"challengeName": m.Challenge.Name,
				"target":        m.Challenge.Target,
				"sessionId":     sessionID,
			})
		}
		return nil
	})
}

// ListActive 可加入的挑战列表
func (s *ChallengeService) ListActive() ([]model.Challenge, error) {
	return s.ChallengeRepo.ListActive()
}

// Join 加入挑战，重复加入返回业务错误
func (s *ChallengeService) Join(userID, challengeID uint) (*model.ChallengeParticipant, error) {
	challenge, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		return nil, util.ErrChallengeNotFound
	}
	if challenge.Status != model.ChallengeActive {
		return nil, util.ErrChallengeNotActive
	}

	if _, err := s.ChallengeRepo.FindParticipant(challengeID, userID); err == nil {
		return nil, util.ErrChallengeJoined
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	participant := &model.ChallengeParticipant{
		ChallengeID: challengeID,
		UserID:      userID,
		JoinedAt:    time.Now(),
	}
	if err := s.ChallengeRepo.Join(participant); err != nil {
		return nil, err
	}
	return participant, nil
}

// Create 管理端创建挑战
func (s *ChallengeService) Create(challenge *model.Challenge) error {
	return s.ChallengeRepo.Create(challenge)
}

// MyProgress 用户全部参赛记录及挑战详情（含已完成）
func (s *ChallengeService) MyProgress(userID uint) ([]repository.Membership, error) {
	return s.ChallengeRepo.Memberships(userID)
}
