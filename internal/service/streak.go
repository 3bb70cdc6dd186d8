package service

import (
	"sort"
	"time"

	"fittrack_backend/internal/repository"
)

// consistencyMinSessions 一周至少几次训练才算"稳定训练周"
const consistencyMinSessions = 3

// StreakService 从训练完成时间计算连续周streak，结果即时派生不落库
type StreakService struct {
	SessionRepo *repository.SessionRepository
}

func NewStreakService(sessionRepo *repository.SessionRepository) *StreakService {
	return &StreakService{SessionRepo: sessionRepo}
}

// WeekStart 返回 t 所在ISO周的周一零点（t 的时区）。
// 周日往回退6天，其余退 weekday-1 天
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(day.Weekday())
	if weekday == 0 {
		return day.AddDate(0, 0, -6)
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// weeklyStreak 周分桶后的连续周计数。
// 最近一个达标周必须是本周或上一周（边界上恰好宽限一个缺勤周），
// 否则为0；随后逐周回溯，遇到第一个空缺即停
func weeklyStreak(times []time.Time, now time.Time, minPerWeek int) int {
	counts := make(map[int64]int)
	for _, t := range times {
		counts[WeekStart(t).Unix()]++
	}

	weeks := make([]int64, 0, len(counts))
	for week, n := range counts {
		if n >= minPerWeek {
			weeks = append(weeks, week)
		}
	}
	if len(weeks) == 0 {
		return 0
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i] > weeks[j] })

	currentWeek := WeekStart(now)
	previousWeek := currentWeek.AddDate(0, 0, -7)
	latest := time.Unix(weeks[0], 0).In(now.Location())
	if !latest.Equal(currentWeek) && !latest.Equal(previousWeek) {
		return 0
	}

	streak := 1
	prev := latest
	for _, w := range weeks[1:] {
		week := time.Unix(w, 0).In(now.Location())
		if !week.Equal(prev.AddDate(0, 0, -7)) {
			break
		}
		streak++
		prev = week
	}
	return streak
}

// CurrentStreak 普通streak：每周≥1次完成的训练
func (s *StreakService) CurrentStreak(userID uint, now time.Time) (int, error) {
	times, err := s.SessionRepo.ListCompletedAt(userID)
	if err != nil {
		return 0, err
	}
	return weeklyStreak(times, now, 1), nil
}

// ConsistencyStreak 稳定性streak：每周≥3次完成的训练才计入。
// 与 CurrentStreak 是同一个分桶原语的两次实例化，只差周内最小次数
func (s *StreakService) ConsistencyStreak(userID uint, now time.Time) (int, error) {
	times, err := s.SessionRepo.ListCompletedAt(userID)
	if err != nil {
		return 0, err
	}
	return weeklyStreak(times, now, consistencyMinSessions), nil
}

// StreakSummary streak查询接口的返回体
// swagger:model StreakSummary
type StreakSummary struct {
	Current     int `json:"current"`
	Consistency int `json:"consistency"`
}

// Summary 两种streak一次取齐
func (s *StreakService) Summary(userID uint, now time.Time) (*StreakSummary, error) {
	times, err := s.SessionRepo.ListCompletedAt(userID)
	if err != nil {
		return nil, err
	}
	return &StreakSummary{
		Current:     weeklyStreak(times, now, 1),
		Consistency: weeklyStreak(times, now, consistencyMinSessions),
	}, nil
}
