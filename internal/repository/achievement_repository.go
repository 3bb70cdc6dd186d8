package repository

import (
	"errors"
	"time"

	"fittrack_backend/internal/model"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

// ListCatalog 成就目录，引擎只读
func (r *AchievementRepository) ListCatalog() ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Order("category asc, code asc").Find(&achievements).Error
	return achievements, err
}

// EarnedIDs 用户已解锁的成就ID集合
func (r *AchievementRepository) EarnedIDs(userID uint) (map[uint]time.Time, error) {
	var rows []model.UserAchievement
	err := r.DB.Where("user_id = ?", userID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	earned := make(map[uint]time.Time, len(rows))
	for _, row := range rows {
		earned[row.AchievementID] = row.EarnedAt
	}
	return earned, nil
}

// Award 在一个事务里写入解锁记录与活动流条目。
// (user,achievement) 唯一索引保证重复评估不会二次解锁：
// 已存在时视为无操作
func (r *AchievementRepository) Award(userID uint, achievement *model.Achievement, entry *model.ActivityEntry) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.UserAchievement
		err := tx.Where("user_id = ? AND achievement_id = ?", userID, achievement.ID).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		ua := model.UserAchievement{
			UserID:        userID,
			AchievementID: achievement.ID,
			EarnedAt:      time.Now(),
		}
		if err := tx.Create(&ua).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// ListWithStatus 目录联表用户解锁状态，成就页展示用
func (r *AchievementRepository) ListWithStatus(userID uint) ([]model.AchievementWithStatus, error) {
	catalog, err := r.ListCatalog()
	if err != nil {
		return nil, err
	}
	earned, err := r.EarnedIDs(userID)
	if err != nil {
		return nil, err
	}

	result := make([]model.AchievementWithStatus, 0, len(catalog))
	for _, a := range catalog {
		entry := model.AchievementWithStatus{Achievement: a}
		if at, ok := earned[a.ID]; ok {
			entry.Earned = true
			t := at
			entry.EarnedAt = &t
		}
		result = append(result, entry)
	}
	return result, nil
}
