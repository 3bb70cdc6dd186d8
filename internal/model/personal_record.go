package model

import (
	"time"
)

// RecordKind 个人纪录的维度
type RecordKind string

const (
	RecordMaxVolume RecordKind = "MAX_VOLUME" // 重量×次数 或 重量×时间
	RecordMaxTime   RecordKind = "MAX_TIME"   // 自重计时
	RecordMaxReps   RecordKind = "MAX_REPS"   // 自重次数
	RecordMaxWeight RecordKind = "MAX_WEIGHT" // 旧数据，仅重量
)

// RecordKindsOrdered 按展示优先级从高到低排列，展示选择与压制判断共用这一份定义
var RecordKindsOrdered = []RecordKind{
	RecordMaxVolume,
	RecordMaxTime,
	RecordMaxReps,
	RecordMaxWeight,
}

// Tier 返回优先级层级，数值越小优先级越高。MAX_TIME 与 MAX_REPS 同层
func (k RecordKind) Tier() int {
	switch k {
	case RecordMaxVolume:
		return 0
	case RecordMaxTime, RecordMaxReps:
		return 1
	case RecordMaxWeight:
		return 2
	default:
		return 3
	}
}

// Dominates 判断 k 是否压制 other：仅当 k 处于更高层级
func (k RecordKind) Dominates(other RecordKind) bool {
	return k.Tier() < other.Tier()
}

// PersonalRecord 每个(用户,动作,维度)至多一行，表示当前最好成绩而非历史
// swagger:model PersonalRecord
type PersonalRecord struct {
	BaseModel
	UserID        uint       `gorm:"uniqueIndex:idx_user_exercise_kind;type:bigint unsigned;not null" json:"userId"`
	ExerciseID    uint       `gorm:"uniqueIndex:idx_user_exercise_kind;type:bigint unsigned;not null" json:"exerciseId"`
	RecordKind    RecordKind `gorm:"uniqueIndex:idx_user_exercise_kind;size:20;not null" json:"recordKind"`
	Value         float64    `gorm:"not null" json:"value"`
	SourceSetID   uint       `gorm:"type:bigint unsigned;not null" json:"sourceSetId"`
	PreviousValue *float64   `json:"previousValue"`
	AchievedAt    time.Time  `gorm:"not null" json:"achievedAt"`
}

func (PersonalRecord) TableName() string {
	return "personal_records"
}
