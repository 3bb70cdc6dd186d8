package model

type ActivityType string

const (
	ActivityWorkoutCompleted   ActivityType = "WORKOUT_COMPLETED"
	ActivityPersonalRecord     ActivityType = "PERSONAL_RECORD"
	ActivityAchievementEarned  ActivityType = "ACHIEVEMENT_EARNED"
	ActivityChallengeCompleted ActivityType = "CHALLENGE_COMPLETED"
)

// ActivityEntry 追加式活动流条目，引擎只写不读。
// Metadata 为序列化后的JSON，内容随 ActivityType 而不同
// swagger:model ActivityEntry
type ActivityEntry struct {
	UUIDBase
	UserID       uint         `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	ActivityType ActivityType `gorm:"size:30;index;not null" json:"activityType"`
	ReferenceID  uint         `gorm:"type:bigint unsigned" json:"referenceId"`
	Metadata     string       `gorm:"type:json" json:"metadata"`
}

func (ActivityEntry) TableName() string {
	return "activity_entries"
}
