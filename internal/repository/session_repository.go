package repository

import (
	"time"

	"fittrack_backend/internal/model"

	"gorm.io/gorm"
)

// SessionRepository 训练与组数据的仓库
type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Tx(tx *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: tx}
}

func (r *SessionRepository) CreateSession(session *model.WorkoutSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindSessionByID(sessionID uint) (*model.WorkoutSession, error) {
	var session model.WorkoutSession
	err := r.DB.First(&session, sessionID).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) UpdateSession(session *model.WorkoutSession) error {
	return r.DB.Save(session).Error
}

// DeleteSession 删除训练及其全部组（级联），PR重算由调用方负责
func (r *SessionRepository) DeleteSession(sessionID uint) error {
	if err := r.DB.Where("session_id = ?", sessionID).Delete(&model.LoggedSet{}).Error; err != nil {
		return err
	}
	return r.DB.Delete(&model.WorkoutSession{}, sessionID).Error
}

// ListSessions 按开始时间倒序列出用户的训练
func (r *SessionRepository) ListSessions(userID uint, limit int) ([]model.WorkoutSession, error) {
	var sessions []model.WorkoutSession
	q := r.DB.Where("user_id = ?", userID).Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) CreateSet(set *model.LoggedSet) error {
	return r.DB.Create(set).Error
}

func (r *SessionRepository) FindSetByID(setID uint) (*model.LoggedSet, error) {
	var set model.LoggedSet
	err := r.DB.First(&set, setID).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *SessionRepository) UpdateSet(set *model.LoggedSet) error {
	return r.DB.Save(set).Error
}

func (r *SessionRepository) DeleteSet(setID uint) error {
	return r.DB.Delete(&model.LoggedSet{}, setID).Error
}

// ListSetsBySession 按完成时间升序列出一次训练内的全部组
func (r *SessionRepository) ListSetsBySession(sessionID uint) ([]model.LoggedSet, error) {
	var sets []model.LoggedSet
	err := r.DB.Where("session_id = ?", sessionID).
		Order("completed_at asc, id asc").
		Find(&sets).Error
	return sets, err
}

// ListQualifyingSets 列出用户在某动作下全部可记分的组：
// 跨所有训练，剔除热身组与递减组，按完成时间升序。
// 重算引擎依赖这个顺序在同分时保留最早达成者
func (r *SessionRepository) ListQualifyingSets(userID, exerciseID uint) ([]model.LoggedSet, error) {
	var sets []model.LoggedSet
	err := r.DB.Where("user_id = ? AND exercise_id = ? AND is_warmup = ? AND is_dropset = ?",
		userID, exerciseID, false, false).
		Order("completed_at asc, id asc").
		Find(&sets).Error
	return sets, err
}

// CountCompletedSessions 已完成训练总数
func (r *SessionRepository) CountCompletedSessions(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.WorkoutSession{}).
		Where("user_id = ? AND status = ?", userID, model.SessionCompleted).
		Count(&count).Error
	return count, err
}

// ListCompletedAt 已完成训练的完成时间，连续周streak的输入
func (r *SessionRepository) ListCompletedAt(userID uint) ([]time.Time, error) {
	var sessions []model.WorkoutSession
	err := r.DB.Select("completed_at").
		Where("user_id = ? AND status = ? AND completed_at IS NOT NULL", userID, model.SessionCompleted).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, 0, len(sessions))
	for _, s := range sessions {
		if s.CompletedAt != nil {
			times = append(times, *s.CompletedAt)
		}
	}
	return times, nil
}

// TotalVolume 用户累计容量：非热身非递减组的 重量×次数 之和
func (r *SessionRepository) TotalVolume(userID uint) (float64, error) {
	var total float64
	err := r.DB.Model(&model.LoggedSet{}).
		Select("COALESCE(SUM(weight * reps), 0)").
		Where("user_id = ? AND is_warmup = ? AND is_dropset = ? AND weight IS NOT NULL AND reps IS NOT NULL",
			userID, false, false).
		Scan(&total).Error
	return total, err
}

// CountSetsByMuscleGroup 按肌群统计正式组数（剔除热身组）
func (r *SessionRepository) CountSetsByMuscleGroup(userID uint) (map[model.MuscleGroup]int64, error) {
	type row struct {
		MuscleGroup model.MuscleGroup
		Count       int64
	}
	var rows []row
	err := r.DB.Model(&model.LoggedSet{}).
		Select("exercises.muscle_group as muscle_group, COUNT(*) as count").
		Joins("JOIN exercises ON exercises.id = logged_sets.exercise_id").
		Where("logged_sets.user_id = ? AND logged_sets.is_warmup = ?", userID, false).
		Group("exercises.muscle_group").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.MuscleGroup]int64, len(rows))
	for _, r := range rows {
		counts[r.MuscleGroup] = r.Count
	}
	return counts, nil
}
