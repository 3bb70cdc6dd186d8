package service

import (
	"testing"
	"time"

	"fittrack_backend/internal/model"
	"fittrack_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordFixture struct {
	db       *gorm.DB
	svc      *RecordService
	sessions *repository.SessionRepository
	records  *repository.RecordRepository
	user     *model.User
	bench    *model.Exercise // 卧推，非计时
	plank    *model.Exercise // 平板支撑，计时
}

func newRecordFixture(t *testing.T) *recordFixture {
	db := newTestDB(t)
	sessions := repository.NewSessionRepository(db)
	records := repository.NewRecordRepository(db)
	svc := NewRecordService(
		records,
		sessions,
		repository.NewExerciseRepository(db),
		repository.NewActivityRepository(db),
	)
	return &recordFixture{
		db:       db,
		svc:      svc,
		sessions: sessions,
		records:  records,
		user:     createTestUser(t, db, "alice"),
		bench:    exerciseByName(t, db, "卧推"),
		plank:    exerciseByName(t, db, "平板支撑"),
	}
}

// applySet 走与线上一致的路径：插组和PR评估共用一个事务
func (f *recordFixture) applySet(t *testing.T, session *model.WorkoutSession, exercise *model.Exercise, spec setSpec) (*model.LoggedSet, *PRResult) {
	t.Helper()
	set := createSet(t, f.db, session, exercise.ID, spec)
	var pr *PRResult
	err := f.db.Transaction(func(tx *gorm.DB) error {
		var err error
		pr, err = f.svc.ApplyNewSet(tx, set, exercise)
		return err
	})
	require.NoError(t, err)
	return set, pr
}

func (f *recordFixture) storedRecord(t *testing.T, exerciseID uint, kind model.RecordKind) *model.PersonalRecord {
	t.Helper()
	rec, err := f.records.FindBest(f.user.ID, exerciseID, kind)
	require.NoError(t, err)
	return rec
}

func TestApplyNewSetFirstRecord(t *testing.T) {
	f := newRecordFixture(t)
	session := createSession(t, f.db, f.user.ID, model.SessionInProgress, nil)

	set, pr := f.applySet(t, session, f.bench, setSpec{weight: floatPtr(100), reps: intPtr(5)})

	assert.True(t, pr.IsNewPR)
	assert.Equal(t, model.RecordMaxVolume, pr.RecordKind)
	assert.Nil(t, pr.PreviousRecord)

	stored := f.storedRecord(t, f.bench.ID, model.RecordMaxVolume)
	require.NotNil(t, stored)
	assert.Equal(t, 500.0, stored.Value)
	assert.Equal(t, set.ID, stored.SourceSetID)
	assert.Nil(t, stored.PreviousValue)
}

func TestApplyNewSetImprovement(t *testing.T) {
	f := newRecordFixture(t)
	s1 := createSession(t, f.db, f.user.ID, model.SessionInProgress, nil)
	f.applySet(t, s1, f.bench, setSpec{weight: floatPtr(100), reps: intPtr(5)})

	s2 := createSession(t, f.db, f.user.ID, model.SessionInProgress, nil)
	set2, pr := f.applySet(t, s2, f.bench, setSpec{weight: floatPtr(120), reps: intPtr(5)})

	assert.True(t, pr.IsNewPR)
	require.NotNil(t, pr.PreviousRecord)
	assert.Equal(t, 500.0, *pr.PreviousRecord)

	stored := f.storedRecord(t, f.bench.ID, model.RecordMaxVolume)
	assert.Equal(t, 600.0, stored.Value)
	assert.Equal(t, set2.ID, stored.SourceSetID)
	require.NotNil(t, stored.PreviousValue)
	assert.Equal(t, 500.0, *stored.PreviousValue)
}

func TestApplyNewSetTieIsNotARecord(t *testing.T) {
	f := newRecordFixture(t)
	session := createSession(t, f.db, f.user.ID, model.SessionInProgress, nil)
	first, _ := f.applySet(t, session, f.bench, setSpec{weight: floatPtr(100), reps: intPtr(5)})
	_, pr := f.applySet(t, session, f.bench, setSpec{weight: floatPtr(100), reps: intPtr(5)})

	assert.False(t, pr.IsNewPR)
	stored := f.storedRecord(t, f.bench.ID, model.RecordMaxVolume)
	assert.Equal(t, first.ID, stored.SourceSetID, "平分保留最早达成者")
}

func TestApplyNewSetWarmupAndDropsetIgnored(t *testing.T) {
	f := newRecordFixture(t)
	session := createSession(t, f.db, f.user.ID, model.SessionInProgress, nil)

	_, pr := f.applySet(t, session, f.bench, setSpec{weight: floatPtr(200), reps: intPtr(5), warmup: true})
	assert.False(t, pr.IsNewPR)
	_, pr = f.applySet(t, session, f.bench, setSpec{weight: floatPtr(200), reps: intPtr(5), dropset: true})
	assert.False(t, pr.IsNewPR)

	stored := f.storedRecord(t, f.bench.ID, model.RecordMaxVolume)
	assert.Nil(t, stored)
}

// 同场连破纪录时，previousValue 锚定在开练前的成绩
func TestApplyNewSetSameSessionLineage(t *testing.T) {
	f := newRecordFixture(t)
	s1 := createSession(t, f.db, f.user.ID, model.SessionInProgress, nil)
	f.applySet(t, s1, f.bench, setSpec{weight: floatPtr(100), reps: intPtr(5)}) // 500

	s2 := createSession(t, f.db, f.user.ID, model.SessionInProgress, nil)
	_, pr2 := f.applySet(t, s2, f.bench, setSpec{weight: floatPtr(120), reps: intPtr(5)}) // 600
	require.NotNil(t, pr2.PreviousRecord)
	assert.Equal(t, 500.0, *pr2.PreviousRecord)

	// 同场再破：被顶掉的600出自本场，基线沿用500
	_, pr3 := f.applySet(t, s2, f.bench, setSpec{weight: floatPtr(140), reps: intPtr(5)}) // 700
	require.NotNil(t, pr3.PreviousRecord)
	assert.Equal(t, 500.0, *pr3.PreviousRecord)

	stored := f.storedRecord(t, f.bench.ID, model.RecordMaxVolume)
	assert.Equal(t, 700.0, stored.Value)
	require.NotNil(t, stored.PreviousValue)
	assert.Equal(t, 500.0, *stored.PreviousValue)
}

func TestApplyNewSetTimedExercise(t *testing.T) {
	f := newRecordFixture(t)
	session := createSession(t, f.db, f.user.ID, model.SessionInProgress, nil)

	_, pr := f.applySet(t, session, f.plank, setSpec{timeSeconds: intPtr(60)})
	assert.True(t, pr.IsNewPR)
	assert.Equal(t, model.RecordMaxTime, pr.RecordKind)

	// 负重计时走 MAX_VOLUME，与 MAX_TIME 并存
	_, pr = f.applySet(t, session, f.plank, setSpec{weight: floatPtr(20), timeSeconds: intPtr(60)})
	assert.True(t, pr.IsNewPR)
	assert.Equal(t, model.RecordMaxVolume, pr.RecordKind)

	assert.NotNil(t, f.storedRecord(t, f.plank.ID, model.RecordMaxTime))
	assert.NotNil(t, f.storedRecord(t, f.plank.ID, model.RecordMaxVolume))
}

func TestApplyNewSetWritesActivityEntry(t *testing.T) {
	f := newRecordFixture(t)
	session := createSession(t, f.db, f.user.ID, model.SessionInProgress, nil)
	f.applySet(t, session, f.bench, setSpec{weight: floatPtr(100), reps: intPtr(5)})

	var count int64
	f.db.Model(&model.ActivityEntry{}).
		Where("user_id = ? AND activity_type = ?", f.user.ID, model.ActivityPersonalRecord).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestBestForExercisePrefersVolume(t *testing.T) {
	f := newRecordFixture(t)
	session := createSession(t, f.db, f.user.ID, model.SessionInProgress, nil)

	f.applySet(t, session, f.bench, setSpec{reps: intPtr(12)})                          // MAX_REPS
	f.applySet(t, session, f.bench, setSpec{weight: floatPtr(60), reps: intPtr(10)})    // MAX_VOLUME

	best, err := f.svc.BestForExercise(f.user.ID, f.bench.ID)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, model.RecordMaxVolume, best.RecordKind)
	assert.Equal(t, 600.0, best.Value)
}

func TestRecalculateAfterLoweringSet(t *testing.T) {
	f := newRecordFixture(t)
	session := createSession(t, f.db, f.user.ID, model.SessionInProgress, nil)
	set, _ := f.applySet(t, session, f.bench, setSpec{weight: floatPtr(100), reps: intPtr(5)})

	// 把唯一的组改小，纪录应随之下调
	set.Weight = floatPtr(80)
	require.NoError(t, f.sessions.UpdateSet(set))

	var res RecalcResult
	err := f.db.Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = f.svc.Recalculate(tx, f.user.ID, f.bench.ID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Upserts)
	assert.Equal(t, 0, res.Deletes)

	stored := f.storedRecord(t, f.bench.ID, model.RecordMaxVolume)
	assert.Equal(t, 400.0, stored.Value)
	require.NotNil(t, stored.PreviousValue)
	assert.Equal(t, 500.0, *stored.PreviousValue)
}

func TestRecalculateRemovesOrphanedRecord(t *testing.T) {
	f := newRecordFixture(t)
	session := createSession(t, f.db, f.user.ID, model.SessionInProgress, nil)
	set, _ := f.applySet(t, session, f.bench, setSpec{weight: floatPtr(100), reps: intPtr(5)})

	require.NoError(t, f.sessions.DeleteSet(set.ID))

	var res RecalcResult
	err := f.db.Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = f.svc.Recalculate(tx, f.user.ID, f.bench.ID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Deletes)
	assert.Nil(t, f.storedRecord(t, f.bench.ID, model.RecordMaxVolume))
}

func TestRecalculateIsIdempotent(t *testing.T) {
	f := newRecordFixture(t)
	session := createSession(t, f.db, f.user.ID, model.SessionInProgress, nil)
	f.applySet(t, session, f.bench, setSpec{weight: floatPtr(100), reps: intPtr(5)})
	f.applySet(t, session, f.bench, setSpec{weight: floatPtr(120), reps: intPtr(5)})

	// 增量路径已是最新状态，重算不应产生任何写操作
	var res RecalcResult
	err := f.db.Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = f.svc.Recalculate(tx, f.user.ID, f.bench.ID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, RecalcResult{}, res)

	// 再来一次，结果相同
	err = f.db.Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = f.svc.Recalculate(tx, f.user.ID, f.bench.ID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, RecalcResult{}, res)
}

func TestRecalculateTieKeepsEarliestSet(t *testing.T) {
	f := newRecordFixture(t)
	session := createSession(t, f.db, f.user.ID, model.SessionInProgress, nil)
	base := time.Now().Add(-time.Hour)

	early := createSet(t, f.db, session, f.bench.ID, setSpec{weight: floatPtr(100), reps: intPtr(5), completedAt: base})
	createSet(t, f.db, session, f.bench.ID, setSpec{weight: floatPtr(100), reps: intPtr(5), completedAt: base.Add(10 * time.Minute)})

	err := f.db.Transaction(func(tx *gorm.DB) error {
		_, err := f.svc.Recalculate(tx, f.user.ID, f.bench.ID)
		return err
	})
	require.NoError(t, err)

	stored := f.storedRecord(t, f.bench.ID, model.RecordMaxVolume)
	require.NotNil(t, stored)
	assert.Equal(t, early.ID, stored.SourceSetID)
}

// 增量路径与重算路径必须给出同一答案
func TestIncrementalMatchesRecalculation(t *testing.T) {
	f := newRecordFixture(t)
	session := createSession(t, f.db, f.user.ID, model.SessionInProgress, nil)

	specs := []setSpec{
		{weight: floatPtr(60), reps: intPtr(5), warmup: true},
		{weight: floatPtr(100), reps: intPtr(5)},
		{weight: floatPtr(110), reps: intPtr(3)},
		{weight: floatPtr(90), reps: intPtr(8)},
		{weight: floatPtr(105), reps: intPtr(5), dropset: true},
		{reps: intPtr(15)},
	}
	for _, spec := range specs {
		f.applySet(t, session, f.bench, spec)
	}

	incremental, err := f.records.ListByUserExercise(f.user.ID, f.bench.ID)
	require.NoError(t, err)

	var res RecalcResult
	err = f.db.Transaction(func(tx *gorm.DB) error {
		res, err = f.svc.Recalculate(tx, f.user.ID, f.bench.ID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, RecalcResult{}, res, "增量结果与全量重算一致时不应有写操作")

	recalculated, err := f.records.ListByUserExercise(f.user.ID, f.bench.ID)
	require.NoError(t, err)
	require.Len(t, recalculated, len(incremental))
	for i := range incremental {
		assert.Equal(t, incremental[i].Value, recalculated[i].Value)
		assert.Equal(t, incremental[i].SourceSetID, recalculated[i].SourceSetID)
	}
}
