package service

import (
	"fittrack_backend/internal/model"
)

// ScoredSet 一次记分的结果：分值与所属纪录维度
type ScoredSet struct {
	Score float64
	Kind  model.RecordKind
}

// ScoreSet 纯记分函数，增量路径与重算路径共用同一份实现。
// 返回 false 表示该组数据不具备PR资格。
// 规则按顺序判定：
//   - 计时动作且有重量有时间 → 重量×秒数, MAX_VOLUME
//   - 计时动作仅有时间       → 秒数, MAX_TIME
//   - 非计时且有重量有次数   → 重量×次数, MAX_VOLUME
//   - 非计时仅有次数         → 次数, MAX_REPS
func ScoreSet(isTimed bool, weight float64, reps int, timeSeconds int) (ScoredSet, bool) {
	switch {
	case isTimed && weight > 0 && timeSeconds > 0:
		return ScoredSet{Score: weight * float64(timeSeconds), Kind: model.RecordMaxVolume}, true
	case isTimed && timeSeconds > 0:
		return ScoredSet{Score: float64(timeSeconds), Kind: model.RecordMaxTime}, true
	case !isTimed && weight > 0 && reps > 0:
		return ScoredSet{Score: weight * float64(reps), Kind: model.RecordMaxVolume}, true
	case !isTimed && reps > 0:
		return ScoredSet{Score: float64(reps), Kind: model.RecordMaxReps}, true
	}
	return ScoredSet{}, false
}

// ScoreLoggedSet 在 ScoreSet 之上套用资格过滤：热身组与递减组一律不记分
func ScoreLoggedSet(set *model.LoggedSet, isTimed bool) (ScoredSet, bool) {
	if set.IsWarmup || set.IsDropset {
		return ScoredSet{}, false
	}
	return ScoreSet(isTimed, set.WeightValue(), set.RepsValue(), set.TimeValue())
}

// SelectDisplayRecord 按维度优先级挑选用于展示的纪录。
// 同一层级内取先出现的维度（RecordKindsOrdered 中靠前者）
func SelectDisplayRecord(records []model.PersonalRecord) *model.PersonalRecord {
	var best *model.PersonalRecord
	for i := range records {
		r := &records[i]
		if best == nil || r.RecordKind.Tier() < best.RecordKind.Tier() {
			best = r
		}
	}
	return best
}

// IsDominated 判断某维度的候选PR是否被已有纪录压制：
// 任何更高层级维度的既有纪录都会压制它，同层级不压制
func IsDominated(kind model.RecordKind, existing []model.PersonalRecord) bool {
	for i := range existing {
		if existing[i].RecordKind.Dominates(kind) {
			return true
		}
	}
	return false
}
