package service

import (
	"testing"
	"time"

	"fittrack_backend/internal/model"
	"fittrack_backend/internal/repository"
	"fittrack_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type challengeFixture struct {
	db   *gorm.DB
	svc  *ChallengeService
	repo *repository.ChallengeRepository
	user *model.User
}

func newChallengeFixture(t *testing.T) *challengeFixture {
	db := newTestDB(t)
	repo := repository.NewChallengeRepository(db)
	svc := NewChallengeService(repo, repository.NewActivityRepository(db), db)
	return &challengeFixture{
		db:   db,
		svc:  svc,
		repo: repo,
		user: createTestUser(t, db, "bob"),
	}
}

func (f *challengeFixture) createChallenge(t *testing.T, challengeType model.ChallengeType, target float64, exerciseID *uint) *model.Challenge {
	t.Helper()
	challenge := &model.Challenge{
		Name:       "测试挑战",
		Type:       challengeType,
		Target:     target,
		ExerciseID: exerciseID,
		Status:     model.ChallengeActive,
		StartDate:  time.Now().AddDate(0, 0, -7),
		EndDate:    time.Now().AddDate(0, 0, 7),
	}
	require.NoError(t, f.repo.Create(challenge))
	return challenge
}

func (f *challengeFixture) participant(t *testing.T, challengeID uint) *model.ChallengeParticipant {
	t.Helper()
	p, err := f.repo.FindParticipant(challengeID, f.user.ID)
	require.NoError(t, err)
	return p
}

func completedTestSession(t *testing.T, db *gorm.DB, userID uint) *model.WorkoutSession {
	t.Helper()
	now := time.Now()
	return createSession(t, db, userID, model.SessionCompleted, &now)
}

func TestSessionDeltaExcludesOnlyWarmups(t *testing.T) {
	challenge := &model.Challenge{Type: model.ChallengeTotalVolume}
	sets := []model.LoggedSet{
		{Weight: floatPtr(60), Reps: intPtr(5), IsWarmup: true},    // 不计
		{Weight: floatPtr(100), Reps: intPtr(12)},                  // 1200
		{Weight: floatPtr(100), Reps: intPtr(12), IsDropset: true}, // 递减组照常计入
	}
	assert.Equal(t, 2400.0, sessionDelta(challenge, sets))
}

func TestSessionDeltaWorkoutCount(t *testing.T) {
	challenge := &model.Challenge{Type: model.ChallengeWorkoutCount}
	assert.Equal(t, 1.0, sessionDelta(challenge, nil))
}

func TestSessionDeltaTotalSets(t *testing.T) {
	challenge := &model.Challenge{Type: model.ChallengeTotalSets}
	sets := []model.LoggedSet{
		{Weight: floatPtr(60), Reps: intPtr(5), IsWarmup: true},
		{Weight: floatPtr(100), Reps: intPtr(5)},
		{Weight: floatPtr(100), Reps: intPtr(5), IsDropset: true},
	}
	assert.Equal(t, 2.0, sessionDelta(challenge, sets))
}

func TestSessionDeltaExerciseVolume(t *testing.T) {
	exerciseID := uint(7)
	challenge := &model.Challenge{Type: model.ChallengeExerciseVolume, ExerciseID: &exerciseID}
	sets := []model.LoggedSet{
		{ExerciseID: 7, Weight: floatPtr(100), Reps: intPtr(5)},
		{ExerciseID: 3, Weight: floatPtr(200), Reps: intPtr(5)}, // 其他动作不计
	}
	assert.Equal(t, 500.0, sessionDelta(challenge, sets))

	// 配置缺失时增量为0
	broken := &model.Challenge{Type: model.ChallengeExerciseVolume}
	assert.Equal(t, 0.0, sessionDelta(broken, sets))
}

func TestApplySessionAccumulatesProgress(t *testing.T) {
	f := newChallengeFixture(t)
	challenge := f.createChallenge(t, model.ChallengeTotalVolume, 10000, nil)
	_, err := f.svc.Join(f.user.ID, challenge.ID)
	require.NoError(t, err)

	session := completedTestSession(t, f.db, f.user.ID)
	sets := []model.LoggedSet{
		{Weight: floatPtr(60), Reps: intPtr(5), IsWarmup: true},
		{Weight: floatPtr(100), Reps: intPtr(12)},
		{Weight: floatPtr(100), Reps: intPtr(12), IsDropset: true},
	}
	require.NoError(t, f.svc.ApplySession(f.user.ID, session, sets))

	p := f.participant(t, challenge.ID)
	assert.Equal(t, 2400.0, p.Progress)
	assert.Nil(t, p.CompletedAt)
}

func TestApplySessionCompletesOnce(t *testing.T) {
	f := newChallengeFixture(t)
	challenge := f.createChallenge(t, model.ChallengeTotalVolume, 2000, nil)
	_, err := f.svc.Join(f.user.ID, challenge.ID)
	require.NoError(t, err)

	session := completedTestSession(t, f.db, f.user.ID)
	sets := []model.LoggedSet{{Weight: floatPtr(100), Reps: intPtr(12)}, {Weight: floatPtr(100), Reps: intPtr(12)}}

	require.NoError(t, f.svc.ApplySession(f.user.ID, session, sets))
	p := f.participant(t, challenge.ID)
	assert.Equal(t, 2400.0, p.Progress)
	require.NotNil(t, p.CompletedAt, "达到目标后 completedAt 置位")

	// 已完成的挑战不再入账
	require.NoError(t, f.svc.ApplySession(f.user.ID, session, sets))
	p = f.participant(t, challenge.ID)
	assert.Equal(t, 2400.0, p.Progress)

	var count int64
	f.db.Model(&model.ActivityEntry{}).
		Where("user_id = ? AND activity_type = ?", f.user.ID, model.ActivityChallengeCompleted).
		Count(&count)
	assert.EqualValues(t, 1, count, "完成事件只发一次")
}

func TestApplySessionSkipsZeroDelta(t *testing.T) {
	f := newChallengeFixture(t)
	challenge := f.createChallenge(t, model.ChallengeTotalVolume, 2000, nil)
	_, err := f.svc.Join(f.user.ID, challenge.ID)
	require.NoError(t, err)

	session := completedTestSession(t, f.db, f.user.ID)
	sets := []model.LoggedSet{{Weight: floatPtr(60), Reps: intPtr(5), IsWarmup: true}}
	require.NoError(t, f.svc.ApplySession(f.user.ID, session, sets))

	p := f.participant(t, challenge.ID)
	assert.Equal(t, 0.0, p.Progress)
}

func TestApplySessionIsolatesMemberships(t *testing.T) {
	f := newChallengeFixture(t)
	volume := f.createChallenge(t, model.ChallengeTotalVolume, 10000, nil)
	count := f.createChallenge(t, model.ChallengeWorkoutCount, 10, nil)
	_, err := f.svc.Join(f.user.ID, volume.ID)
	require.NoError(t, err)
	_, err = f.svc.Join(f.user.ID, count.ID)
	require.NoError(t, err)

	session := completedTestSession(t, f.db, f.user.ID)
	sets := []model.LoggedSet{{Weight: floatPtr(100), Reps: intPtr(10)}}
	require.NoError(t, f.svc.ApplySession(f.user.ID, session, sets))

	assert.Equal(t, 1000.0, f.participant(t, volume.ID).Progress)
	assert.Equal(t, 1.0, f.participant(t, count.ID).Progress)
}

func TestJoinDuplicate(t *testing.T) {
	f := newChallengeFixture(t)
	challenge := f.createChallenge(t, model.ChallengeWorkoutCount, 10, nil)

	_, err := f.svc.Join(f.user.ID, challenge.ID)
	require.NoError(t, err)
	_, err = f.svc.Join(f.user.ID, challenge.ID)
	assert.ErrorIs(t, err, util.ErrChallengeJoined)
}

func TestJoinInactiveChallenge(t *testing.T) {
	f := newChallengeFixture(t)
	challenge := f.createChallenge(t, model.ChallengeWorkoutCount, 10, nil)
	require.NoError(t, f.db.Model(challenge).Update("status", model.ChallengeEnded).Error)

	_, err := f.svc.Join(f.user.ID, challenge.ID)
	assert.ErrorIs(t, err, util.ErrChallengeNotActive)
}

func TestMyProgressIncludesCompleted(t *testing.T) {
	f := newChallengeFixture(t)
	challenge := f.createChallenge(t, model.ChallengeWorkoutCount, 1, nil)
	_, err := f.svc.Join(f.user.ID, challenge.ID)
	require.NoError(t, err)

	session := completedTestSession(t, f.db, f.user.ID)
	require.NoError(t, f.svc.ApplySession(f.user.ID, session, nil))

	memberships, err := f.svc.MyProgress(f.user.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.NotNil(t, memberships[0].Participant.CompletedAt)
	assert.Equal(t, challenge.ID, memberships[0].Challenge.ID)
}
