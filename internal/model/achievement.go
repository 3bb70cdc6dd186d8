package model

import (
	"time"
)

type AchievementCategory string

const (
	CategoryMilestone      AchievementCategory = "MILESTONE"
	CategoryStreak         AchievementCategory = "STREAK"
	CategoryPersonalRecord AchievementCategory = "PERSONAL_RECORD"
	CategoryVolume         AchievementCategory = "VOLUME"
	CategoryConsistency    AchievementCategory = "CONSISTENCY"
	CategoryMuscleFocus    AchievementCategory = "MUSCLE_FOCUS"
)

// Achievement 成就目录条目。阈值编码在 Code 的末段数字中，
// 例如 TOTAL_WORKOUTS_50、MUSCLE_CHEST_100
// swagger:model Achievement
type Achievement struct {
	BaseModel
	Code        string              `gorm:"size:60;uniqueIndex;not null" json:"code"`
	Name        string              `gorm:"size:100;not null" json:"name"`
	Description string              `gorm:"size:255" json:"description"`
	Category    AchievementCategory `gorm:"size:20;index;not null" json:"category"`
	Icon        string              `gorm:"size:255" json:"icon"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement 一次性解锁记录，(用户,成就)唯一
// swagger:model UserAchievement
type UserAchievement struct {
	BaseModel
	UserID        uint      `gorm:"uniqueIndex:idx_user_achievement;type:bigint unsigned;not null" json:"userId"`
	AchievementID uint      `gorm:"uniqueIndex:idx_user_achievement;type:bigint unsigned;not null" json:"achievementId"`
	EarnedAt      time.Time `gorm:"not null" json:"earnedAt"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}

// AchievementWithStatus 目录条目加上当前用户的解锁状态
// swagger:model AchievementWithStatus
type AchievementWithStatus struct {
	Achievement
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earnedAt,omitempty"`
}
