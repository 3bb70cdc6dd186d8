package database

import (
	"fmt"
	"log"

	"fittrack_backend/internal/config"
	"fittrack_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 建表并灌入默认的动作库与成就目录
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Exercise{},
		&model.WorkoutSession{},
		&model.LoggedSet{},
		&model.PersonalRecord{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.Challenge{},
		&model.ChallengeParticipant{},
		&model.ActivityEntry{},
	)
	if err != nil {
		return err
	}

	seedExercises(db)
	seedAchievements(db)
	return nil
}

// 默认动作库
func seedExercises(db *gorm.DB) {
	var count int64
	db.Model(&model.Exercise{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Exercise{
		{Name: "卧推", MuscleGroup: model.MuscleChest},
		{Name: "深蹲", MuscleGroup: model.MuscleLegs},
		{Name: "硬拉", MuscleGroup: model.MuscleBack},
		{Name: "引体向上", MuscleGroup: model.MuscleBack},
		{Name: "肩推", MuscleGroup: model.MuscleShoulders},
		{Name: "俯卧撑", MuscleGroup: model.MuscleChest},
		{Name: "平板支撑", MuscleGroup: model.MuscleCore, IsTimed: true},
		{Name: "农夫行走", MuscleGroup: model.MuscleFullBody, IsTimed: true},
	}
	for _, e := range defaults {
		db.Create(&e)
	}
}

// 默认成就目录。阈值编码在 code 末段
func seedAchievements(db *gorm.DB) {
	var count int64
	db.Model(&model.Achievement{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Achievement{
		{Code: "TOTAL_WORKOUTS_1", Name: "第一次训练", Category: model.CategoryMilestone},
		{Code: "TOTAL_WORKOUTS_10", Name: "小试牛刀", Category: model.CategoryMilestone},
		{Code: "TOTAL_WORKOUTS_50", Name: "健身常客", Category: model.CategoryMilestone},
		{Code: "TOTAL_WORKOUTS_200", Name: "铁馆老兵", Category: model.CategoryMilestone},
		{Code: "STREAK_WEEKS_4", Name: "坚持一月", Category: model.CategoryStreak},
		{Code: "STREAK_WEEKS_12", Name: "风雨无阻", Category: model.CategoryStreak},
		{Code: "PR_COUNT_1", Name: "首个纪录", Category: model.CategoryPersonalRecord},
		{Code: "PR_COUNT_10", Name: "纪录收藏家", Category: model.CategoryPersonalRecord},
		{Code: "TOTAL_VOLUME_100000", Name: "十万公斤俱乐部", Category: model.CategoryVolume},
		{Code: "CONSISTENCY_WEEKS_4", Name: "稳定输出", Category: model.CategoryConsistency},
		{Code: "MUSCLE_CHEST_100", Name: "胸肌专注", Category: model.CategoryMuscleFocus},
		{Code: "MUSCLE_LEGS_100", Name: "练腿日从不缺席", Category: model.CategoryMuscleFocus},
	}
	for _, a := range defaults {
		db.Create(&a)
	}
}
