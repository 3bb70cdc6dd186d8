package service

import (
	"testing"
	"time"

	"fittrack_backend/internal/model"
	"fittrack_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试独立的内存库，建表并灌入默认目录
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func createTestUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hashed",
		Role:     model.Athlete,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func exerciseByName(t *testing.T, db *gorm.DB, name string) *model.Exercise {
	t.Helper()
	var exercise model.Exercise
	require.NoError(t, db.Where("name = ?", name).First(&exercise).Error)
	return &exercise
}

func createSession(t *testing.T, db *gorm.DB, userID uint, status model.SessionStatus, completedAt *time.Time) *model.WorkoutSession {
	t.Helper()
	started := time.Now().Add(-time.Hour)
	if completedAt != nil {
		started = completedAt.Add(-time.Hour)
	}
	session := &model.WorkoutSession{
		UserID:      userID,
		Name:        "测试训练",
		Status:      status,
		StartedAt:   started,
		CompletedAt: completedAt,
	}
	require.NoError(t, db.Create(session).Error)
	return session
}

type setSpec struct {
	weight      *float64
	reps        *int
	timeSeconds *int
	warmup      bool
	dropset     bool
	completedAt time.Time
}

func createSet(t *testing.T, db *gorm.DB, session *model.WorkoutSession, exerciseID uint, spec setSpec) *model.LoggedSet {
	t.Helper()
	completedAt := spec.completedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}
	set := &model.LoggedSet{
		SessionID:   session.ID,
		UserID:      session.UserID,
		ExerciseID:  exerciseID,
		Weight:      spec.weight,
		Reps:        spec.reps,
		TimeSeconds: spec.timeSeconds,
		IsWarmup:    spec.warmup,
		IsDropset:   spec.dropset,
		CompletedAt: completedAt,
	}
	require.NoError(t, db.Create(set).Error)
	return set
}
