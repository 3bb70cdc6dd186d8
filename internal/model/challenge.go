package model

import (
	"time"
)

type ChallengeType string

const (
	ChallengeWorkoutCount   ChallengeType = "WORKOUT_COUNT"   // 完成训练次数
	ChallengeTotalVolume    ChallengeType = "TOTAL_VOLUME"    // 累计容量(重量×次数)
	ChallengeTotalSets      ChallengeType = "TOTAL_SETS"      // 累计正式组数
	ChallengeExerciseVolume ChallengeType = "EXERCISE_VOLUME" // 指定动作的累计容量
)

type ChallengeStatus string

const (
	ChallengeActive    ChallengeStatus = "active"
	ChallengeEnded     ChallengeStatus = "ended"
	ChallengeCancelled ChallengeStatus = "cancelled"
)

// swagger:model Challenge
type Challenge struct {
	BaseModel
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"size:500" json:"description"`
	Type        ChallengeType   `gorm:"size:20;not null" json:"type"`
	Target      float64         `gorm:"not null" json:"target"`
	ExerciseID  *uint           `gorm:"type:bigint unsigned" json:"exerciseId"` // 仅 EXERCISE_VOLUME 使用
	Status      ChallengeStatus `gorm:"size:20;default:'active';index" json:"status"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	CreatedBy   uint            `gorm:"type:bigint unsigned" json:"createdBy"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// ChallengeParticipant 参赛记录。CompletedAt 达标后置位一次，不再清空
// swagger:model ChallengeParticipant
type ChallengeParticipant struct {
	BaseModel
	ChallengeID uint       `gorm:"uniqueIndex:idx_challenge_user;type:bigint unsigned;not null" json:"challengeId"`
	UserID      uint       `gorm:"uniqueIndex:idx_challenge_user;type:bigint unsigned;not null" json:"userId"`
	Progress    float64    `gorm:"default:0" json:"progress"`
	CompletedAt *time.Time `json:"completedAt"`
	JoinedAt    time.Time  `gorm:"not null" json:"joinedAt"`
}

func (ChallengeParticipant) TableName() string {
	return "challenge_participants"
}
