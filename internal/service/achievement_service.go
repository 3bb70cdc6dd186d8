package service

import (
	"strconv"
	"strings"
	"time"

	"fittrack_backend/internal/model"
	"fittrack_backend/internal/repository"
	"fittrack_backend/pkg/logger"

	"go.uber.org/zap"
)

// AchievementService 按成就目录评估阈值规则并发放一次性解锁。
// 阈值编码在目录 code 的末段数字里（如 TOTAL_WORKOUTS_50），
// MUSCLE_FOCUS 另在中段携带肌群名（如 MUSCLE_CHEST_100）。
// 无法解析的条目跳过并告警，绝不因一条坏数据中断整批评估
type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	SessionRepo     *repository.SessionRepository
	RecordRepo      *repository.RecordRepository
	ActivityRepo    *repository.ActivityRepository
	Streak          *StreakService
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	sessionRepo *repository.SessionRepository,
	recordRepo *repository.RecordRepository,
	activityRepo *repository.ActivityRepository,
	streak *StreakService,
) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		SessionRepo:     sessionRepo,
		RecordRepo:      recordRepo,
		ActivityRepo:    activityRepo,
		Streak:          streak,
	}
}

// userStats 目录规则依赖的聚合量，评估前一次取齐
type userStats struct {
	TotalWorkouts     int64
	TotalRecords      int64
	TotalVolume       float64
	CurrentStreak     int
	ConsistencyStreak int
	MuscleSetCounts   map[model.MuscleGroup]int64
}

func (s *AchievementService) collectStats(userID uint, now time.Time) (*userStats, error) {
	workouts, err := s.SessionRepo.CountCompletedSessions(userID)
	if err != nil {
		return nil, err
	}
	records, err := s.RecordRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	volume, err := s.SessionRepo.TotalVolume(userID)
	if err != nil {
		return nil, err
	}
	times, err := s.SessionRepo.ListCompletedAt(userID)
	if err != nil {
		return nil, err
	}
	muscles, err := s.SessionRepo.CountSetsByMuscleGroup(userID)
	if err != nil {
		return nil, err
	}

	return &userStats{
		TotalWorkouts:     workouts,
		TotalRecords:      records,
		TotalVolume:       volume,
		CurrentStreak:     weeklyStreak(times, now, 1),
		ConsistencyStreak: weeklyStreak(times, now, consistencyMinSessions),
		MuscleSetCounts:   muscles,
	}, nil
}

// EvaluateAll 对用户评估整个目录。已解锁条目天然跳过，重复调用无副作用。
// trigger 仅用于日志定位是哪类事件触发的评估
func (s *AchievementService) EvaluateAll(userID uint, trigger string, now time.Time) error {
	stats, err := s.collectStats(userID, now)
	if err != nil {
		return err
	}

	catalog, err := s.AchievementRepo.ListCatalog()
	if err != nil {
		return err
	}
	earned, err := s.AchievementRepo.EarnedIDs(userID)
	if err != nil {
		return err
	}

	for i := range catalog {
		entry := &catalog[i]
		if _, already := earned[entry.ID]; already {
			continue
		}

		met, ok := s.evaluate(entry, stats)
		if !ok {
			logger.Log.Warn("skipping malformed achievement catalog entry",
				zap.String("code", entry.Code),
				zap.String("category", string(entry.Category)))
			continue
		}
		if !met {
			continue
		}

		activity, err := s.ActivityRepo.BuildEntry(userID, model.ActivityAchievementEarned, entry.ID, map[string]any{
			"code":     entry.Code,
			"name":     entry.Name,
			"category": entry.Category,
			"trigger":  trigger,
		})
		if err != nil {
			return err
		}
		if err := s.AchievementRepo.Award(userID, entry, activity); err != nil {
			return err
		}
		logger.Log.Info("achievement earned",
			zap.Uint("userId", userID),
			zap.String("code", entry.Code),
			zap.String("trigger", trigger))
	}
	return nil
}

// evaluate 对单条目录评估阈值。第二个返回值为 false 表示条目无法解析
func (s *AchievementService) evaluate(a *model.Achievement, stats *userStats) (met bool, ok bool) {
	threshold, ok := parseThreshold(a.Code)
	if !ok {
		return false, false
	}

	switch a.Category {
	case model.CategoryMilestone:
		return float64(stats.TotalWorkouts) >= threshold, true
	case model.CategoryPersonalRecord:
		return float64(stats.TotalRecords) >= threshold, true
	case model.CategoryVolume:
		return stats.TotalVolume >= threshold, true
	case model.CategoryStreak:
		return float64(stats.CurrentStreak) >= threshold, true
	case model.CategoryConsistency:
		return float64(stats.ConsistencyStreak) >= threshold, true
	case model.CategoryMuscleFocus:
		group, ok := parseMuscleGroup(a.Code)
		if !ok {
			return false, false
		}
		return float64(stats.MuscleSetCounts[group]) >= threshold, true
	default:
		return false, false
	}
}

// parseThreshold 取 code 末段的正数作为阈值
func parseThreshold(code string) (float64, bool) {
	idx := strings.LastIndex(code, "_")
	if idx < 0 || idx == len(code)-1 {
		return 0, false
	}
	v, err := strconv.ParseFloat(code[idx+1:], 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// parseMuscleGroup 解析 MUSCLE_<group>_<n> 形式的中段肌群名
func parseMuscleGroup(code string) (model.MuscleGroup, bool) {
	parts := strings.Split(code, "_")
	if len(parts) < 3 || parts[0] != "MUSCLE" {
		return "", false
	}
	group := model.MuscleGroup(strings.ToLower(strings.Join(parts[1:len(parts)-1], "_")))
	switch group {
	case model.MuscleChest, model.MuscleBack, model.MuscleLegs,
		model.MuscleShoulders, model.MuscleArms, model.MuscleCore, model.MuscleFullBody:
		return group, true
	}
	return "", false
}

// ListWithStatus 成就页：目录加解锁状态
func (s *AchievementService) ListWithStatus(userID uint) ([]model.AchievementWithStatus, error) {
	return s.AchievementRepo.ListWithStatus(userID)
}
