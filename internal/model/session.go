package model

import (
	"time"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionDiscarded  SessionStatus = "discarded"
)

// WorkoutSession 一次训练。完成时间为空表示进行中
// swagger:model WorkoutSession
type WorkoutSession struct {
	BaseModel
	UserID      uint          `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Name        string        `gorm:"size:100" json:"name"`
	Status      SessionStatus `gorm:"size:20;default:'in_progress';index" json:"status"`
	StartedAt   time.Time     `gorm:"not null" json:"startedAt"`
	CompletedAt *time.Time    `gorm:"index" json:"completedAt"`
	Notes       string        `gorm:"size:1000" json:"notes"`

	Sets []LoggedSet `gorm:"foreignKey:SessionID" json:"sets,omitempty"`
}

func (WorkoutSession) TableName() string {
	return "workout_sessions"
}

// LoggedSet 一组完成的训练数据。Weight/Reps/TimeSeconds 允许为空，
// 热身组与递减组不参与PR记分
// swagger:model LoggedSet
type LoggedSet struct {
	BaseModel
	SessionID   uint      `gorm:"index;type:bigint unsigned;not null" json:"sessionId"`
	UserID      uint      `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	ExerciseID  uint      `gorm:"index:idx_user_exercise;type:bigint unsigned;not null" json:"exerciseId"`
	Weight      *float64  `json:"weight"`
	Reps        *int      `json:"reps"`
	TimeSeconds *int      `json:"timeSeconds"`
	IsWarmup    bool      `gorm:"default:false" json:"isWarmup"`
	IsDropset   bool      `gorm:"default:false" json:"isDropset"`
	CompletedAt time.Time `gorm:"not null;index" json:"completedAt"`
}

func (LoggedSet) TableName() string {
	return "logged_sets"
}

// WeightValue 返回重量，空值视为0
func (s *LoggedSet) WeightValue() float64 {
	if s.Weight == nil {
		return 0
	}
	return *s.Weight
}

// RepsValue 返回次数，空值视为0
func (s *LoggedSet) RepsValue() int {
	if s.Reps == nil {
		return 0
	}
	return *s.Reps
}

// TimeValue 返回持续秒数，空值视为0
func (s *LoggedSet) TimeValue() int {
	if s.TimeSeconds == nil {
		return 0
	}
	return *s.TimeSeconds
}
