package service

import (
	"strconv"
	"testing"
	"time"

	"fittrack_backend/internal/model"
	"fittrack_backend/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLeaderboardFixture(t *testing.T) (*LeaderboardService, *miniredis.Miniredis, *repository.UserRepository) {
	db := newTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	userRepo := repository.NewUserRepository(db)
	return NewLeaderboardService(rdb, userRepo), mr, userRepo
}

func createLeaderboardUser(t *testing.T, users *repository.UserRepository, name string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: name + "@example.com", Password: "hashed", Role: model.Athlete}
	require.NoError(t, users.Create(user))
	return user
}

func TestAddSessionVolumeAccumulates(t *testing.T) {
	svc, mr, users := newLeaderboardFixture(t)
	user := createLeaderboardUser(t, users, "eve")
	now := time.Now()

	require.NoError(t, svc.AddSessionVolume(user.ID, now, 1500))
	require.NoError(t, svc.AddSessionVolume(user.ID, now, 500))

	key := weeklyKey(now)
	score, err := mr.ZScore(key, strconv.FormatUint(uint64(user.ID), 10))
	require.NoError(t, err)
	assert.Equal(t, 2000.0, score)
	assert.Greater(t, mr.TTL(key), time.Duration(0), "周榜键必须有过期时间")
}

func TestAddSessionVolumeIgnoresNonPositive(t *testing.T) {
	svc, mr, users := newLeaderboardFixture(t)
	user := createLeaderboardUser(t, users, "frank")

	require.NoError(t, svc.AddSessionVolume(user.ID, time.Now(), 0))
	assert.False(t, mr.Exists(weeklyKey(time.Now())))
}

func TestAddSessionVolumeBucketsByWeek(t *testing.T) {
	svc, mr, users := newLeaderboardFixture(t)
	user := createLeaderboardUser(t, users, "grace")
	now := time.Now()
	lastWeek := now.AddDate(0, 0, -7)

	require.NoError(t, svc.AddSessionVolume(user.ID, now, 1000))
	require.NoError(t, svc.AddSessionVolume(user.ID, lastWeek, 800))

	member := strconv.FormatUint(uint64(user.ID), 10)
	score, err := mr.ZScore(weeklyKey(now), member)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, score)
	score, err = mr.ZScore(weeklyKey(lastWeek), member)
	require.NoError(t, err)
	assert.Equal(t, 800.0, score)
}

func TestTopResolvesNamesAndRanks(t *testing.T) {
	svc, _, users := newLeaderboardFixture(t)
	heavy := createLeaderboardUser(t, users, "heavy")
	light := createLeaderboardUser(t, users, "light")
	now := time.Now()

	require.NoError(t, svc.AddSessionVolume(heavy.ID, now, 5000))
	require.NoError(t, svc.AddSessionVolume(light.ID, now, 1200))

	entries, err := svc.Top(now, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, heavy.ID, entries[0].UserID)
	assert.Equal(t, "heavy", entries[0].Name)
	assert.Equal(t, 5000.0, entries[0].Volume)

	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, light.ID, entries[1].UserID)
}

func TestTopRespectsLimit(t *testing.T) {
	svc, _, users := newLeaderboardFixture(t)
	now := time.Now()
	for i := 0; i < 5; i++ {
		u := createLeaderboardUser(t, users, "user"+strconv.Itoa(i))
		require.NoError(t, svc.AddSessionVolume(u.ID, now, float64(1000+i)))
	}

	entries, err := svc.Top(now, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestUserRank(t *testing.T) {
	svc, _, users := newLeaderboardFixture(t)
	heavy := createLeaderboardUser(t, users, "heavy")
	light := createLeaderboardUser(t, users, "light")
	now := time.Now()

	require.NoError(t, svc.AddSessionVolume(heavy.ID, now, 5000))
	require.NoError(t, svc.AddSessionVolume(light.ID, now, 1200))

	entry, err := svc.UserRank(light.ID, now)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 2, entry.Rank)
	assert.Equal(t, 1200.0, entry.Volume)
	assert.Equal(t, "light", entry.Name)
}

func TestUserRankUnranked(t *testing.T) {
	svc, _, users := newLeaderboardFixture(t)
	user := createLeaderboardUser(t, users, "idle")

	entry, err := svc.UserRank(user.ID, time.Now())
	require.NoError(t, err)
	assert.Nil(t, entry)
}
