package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fittrack_backend/internal/repository"

	"github.com/go-redis/redis/v8"
)

// leaderboardTTL 周榜保留5周后过期
const leaderboardTTL = 5 * 7 * 24 * time.Hour

// LeaderboardService 周容量排行榜，Redis有序集合实现。
// 训练完成的事务落库后由post-commit效果把容量计入当周榜单；
// 榜单是可再生的缓存，丢失后随新训练自然重建
type LeaderboardService struct {
	Redis    *redis.Client
	UserRepo *repository.UserRepository
}

func NewLeaderboardService(rdb *redis.Client, userRepo *repository.UserRepository) *LeaderboardService {
	return &LeaderboardService{Redis: rdb, UserRepo: userRepo}
}

func weeklyKey(t time.Time) string {
	return fmt.Sprintf("leaderboard:volume:%s", WeekStart(t).Format("2006-01-02"))
}

// AddSessionVolume 把一次训练的容量累加进完成时间所在周的榜单
func (s *LeaderboardService) AddSessionVolume(userID uint, completedAt time.Time, volume float64) error {
	if volume <= 0 {
		return nil
	}
	ctx := context.Background()
	key := weeklyKey(completedAt)
	if err := s.Redis.ZIncrBy(ctx, key, volume, strconv.FormatUint(uint64(userID), 10)).Err(); err != nil {
		return err
	}
	return s.Redis.Expire(ctx, key, leaderboardTTL).Err()
}

// LeaderboardEntry 周榜条目
// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	Rank   int     `json:"rank"`
	UserID uint    `json:"userId"`
	Name   string  `json:"name"`
	Avatar string  `json:"avatar,omitempty"`
	Volume float64 `json:"volume"`
}

// Top 当周容量前 limit 名
func (s *LeaderboardService) Top(now time.Time, limit int) ([]LeaderboardEntry, error) {
	ctx := context.Background()
	members, err := s.Redis.ZRevRangeWithScores(ctx, weeklyKey(now), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m.Member.(string), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	users, err := s.UserRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]struct{ name, avatar string }, len(users))
	for _, u := range users {
		names[u.ID] = struct{ name, avatar string }{u.Name, u.Avatar}
	}

	entries := make([]LeaderboardEntry, 0, len(members))
	for i, m := range members {
		id, err := strconv.ParseUint(m.Member.(string), 10, 64)
		if err != nil {
			continue
		}
		entry := LeaderboardEntry{
			Rank:   i + 1,
			UserID: uint(id),
			Volume: m.Score,
		}
		if u, ok := names[uint(id)]; ok {
			entry.Name = u.name
			entry.Avatar = u.avatar
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// UserRank 当周排名，未上榜返回 (nil, nil)
func (s *LeaderboardService) UserRank(userID uint, now time.Time) (*LeaderboardEntry, error) {
	ctx := context.Background()
	key := weeklyKey(now)
	member := strconv.FormatUint(uint64(userID), 10)

	rank, err := s.Redis.ZRevRank(ctx, key, member).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	score, err := s.Redis.ZScore(ctx, key, member).Result()
	if err != nil {
		return nil, err
	}

	entry := &LeaderboardEntry{
		Rank:   int(rank) + 1,
		UserID: userID,
		Volume: score,
	}
	if user, err := s.UserRepo.FindByID(userID); err == nil {
		entry.Name = user.Name
		entry.Avatar = user.Avatar
	}
	return entry, nil
}
