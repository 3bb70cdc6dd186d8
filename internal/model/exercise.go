package model

type MuscleGroup string

const (
	MuscleChest     MuscleGroup = "chest"
	MuscleBack      MuscleGroup = "back"
	MuscleLegs      MuscleGroup = "legs"
	MuscleShoulders MuscleGroup = "shoulders"
	MuscleArms      MuscleGroup = "arms"
	MuscleCore      MuscleGroup = "core"
	MuscleFullBody  MuscleGroup = "full_body"
)

func ValidMuscleGroup(g MuscleGroup) bool {
	switch g {
	case MuscleChest, MuscleBack, MuscleLegs, MuscleShoulders, MuscleArms, MuscleCore, MuscleFullBody:
		return true
	}
	return false
}

// Exercise 动作库条目。IsTimed 决定记分走计时分支还是次数分支
// swagger:model Exercise
type Exercise struct {
	BaseModel
	Name        string      `gorm:"size:100;not null;uniqueIndex" json:"name"`
	MuscleGroup MuscleGroup `gorm:"size:30;index" json:"muscleGroup"`
	IsTimed     bool        `gorm:"default:false" json:"isTimed"`
	Description string      `gorm:"size:500" json:"description"`
	VideoURL    string      `gorm:"size:255" json:"videoUrl"`
	CreatedBy   uint        `gorm:"index;type:bigint unsigned" json:"createdBy"`
}

func (Exercise) TableName() string {
	return "exercises"
}
