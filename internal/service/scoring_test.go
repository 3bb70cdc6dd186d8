package service

import (
	"testing"

	"fittrack_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestScoreSetWeightedReps(t *testing.T) {
	scored, ok := ScoreSet(false, 100, 5, 0)
	assert.True(t, ok)
	assert.Equal(t, model.RecordMaxVolume, scored.Kind)
	assert.Equal(t, 500.0, scored.Score)
}

func TestScoreSetBodyweightReps(t *testing.T) {
	scored, ok := ScoreSet(false, 0, 12, 0)
	assert.True(t, ok)
	assert.Equal(t, model.RecordMaxReps, scored.Kind)
	assert.Equal(t, 12.0, scored.Score)
}

func TestScoreSetTimedWithWeight(t *testing.T) {
	scored, ok := ScoreSet(true, 20, 0, 60)
	assert.True(t, ok)
	assert.Equal(t, model.RecordMaxVolume, scored.Kind)
	assert.Equal(t, 1200.0, scored.Score)
}

func TestScoreSetTimedBodyweight(t *testing.T) {
	scored, ok := ScoreSet(true, 0, 0, 90)
	assert.True(t, ok)
	assert.Equal(t, model.RecordMaxTime, scored.Kind)
	assert.Equal(t, 90.0, scored.Score)
}

func TestScoreSetNoQualifyingData(t *testing.T) {
	_, ok := ScoreSet(false, 100, 0, 0)
	assert.False(t, ok, "只有重量没有次数不具备PR资格")

	_, ok = ScoreSet(true, 50, 0, 0)
	assert.False(t, ok, "计时动作没有时间不具备PR资格")

	_, ok = ScoreSet(false, 0, 0, 0)
	assert.False(t, ok)
}

func TestScoreLoggedSetFiltersWarmupAndDropset(t *testing.T) {
	warmup := &model.LoggedSet{Weight: floatPtr(60), Reps: intPtr(5), IsWarmup: true}
	_, ok := ScoreLoggedSet(warmup, false)
	assert.False(t, ok)

	dropset := &model.LoggedSet{Weight: floatPtr(60), Reps: intPtr(5), IsDropset: true}
	_, ok = ScoreLoggedSet(dropset, false)
	assert.False(t, ok)

	working := &model.LoggedSet{Weight: floatPtr(60), Reps: intPtr(5)}
	scored, ok := ScoreLoggedSet(working, false)
	assert.True(t, ok)
	assert.Equal(t, 300.0, scored.Score)
}

func TestRecordKindTiers(t *testing.T) {
	assert.True(t, model.RecordMaxVolume.Dominates(model.RecordMaxTime))
	assert.True(t, model.RecordMaxVolume.Dominates(model.RecordMaxWeight))
	assert.True(t, model.RecordMaxTime.Dominates(model.RecordMaxWeight))
	assert.True(t, model.RecordMaxReps.Dominates(model.RecordMaxWeight))

	// MAX_TIME 与 MAX_REPS 同层，互不压制
	assert.False(t, model.RecordMaxTime.Dominates(model.RecordMaxReps))
	assert.False(t, model.RecordMaxReps.Dominates(model.RecordMaxTime))
	assert.False(t, model.RecordMaxWeight.Dominates(model.RecordMaxVolume))
}

func TestSelectDisplayRecord(t *testing.T) {
	assert.Nil(t, SelectDisplayRecord(nil))

	records := []model.PersonalRecord{
		{RecordKind: model.RecordMaxWeight, Value: 140},
		{RecordKind: model.RecordMaxVolume, Value: 600},
		{RecordKind: model.RecordMaxReps, Value: 12},
	}
	best := SelectDisplayRecord(records)
	assert.Equal(t, model.RecordMaxVolume, best.RecordKind)

	// 无 MAX_VOLUME 时同层取先出现者
	records = []model.PersonalRecord{
		{RecordKind: model.RecordMaxReps, Value: 12},
		{RecordKind: model.RecordMaxTime, Value: 90},
	}
	best = SelectDisplayRecord(records)
	assert.Equal(t, model.RecordMaxReps, best.RecordKind)
}

func TestIsDominated(t *testing.T) {
	existing := []model.PersonalRecord{{RecordKind: model.RecordMaxVolume, Value: 500}}
	assert.True(t, IsDominated(model.RecordMaxWeight, existing))
	assert.True(t, IsDominated(model.RecordMaxReps, existing))
	assert.False(t, IsDominated(model.RecordMaxVolume, existing))

	existing = []model.PersonalRecord{{RecordKind: model.RecordMaxReps, Value: 12}}
	assert.False(t, IsDominated(model.RecordMaxTime, existing))
}
