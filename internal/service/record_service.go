package service

import (
	"fittrack_backend/internal/model"
	"fittrack_backend/internal/repository"
	"fittrack_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// RecordService 维护个人纪录的派生状态。
// 新组走增量路径，编辑/删除走全量重算，两条路径共用 ScoreSet
type RecordService struct {
	RecordRepo   *repository.RecordRepository
	SessionRepo  *repository.SessionRepository
	ExerciseRepo *repository.ExerciseRepository
	ActivityRepo *repository.ActivityRepository
}

func NewRecordService(
	recordRepo *repository.RecordRepository,
	sessionRepo *repository.SessionRepository,
	exerciseRepo *repository.ExerciseRepository,
	activityRepo *repository.ActivityRepository,
) *RecordService {
	return &RecordService{
		RecordRepo:   recordRepo,
		SessionRepo:  sessionRepo,
		ExerciseRepo: exerciseRepo,
		ActivityRepo: activityRepo,
	}
}

// PRResult 增量路径的返回值，庆祝弹窗直接消费
type PRResult struct {
	IsNewPR        bool                  `json:"isNewPr"`
	RecordKind     model.RecordKind      `json:"recordKind,omitempty"`
	NewRecord      *model.PersonalRecord `json:"newRecord,omitempty"`
	PreviousRecord *float64              `json:"previousRecord,omitempty"`
	Weight         *float64              `json:"weight,omitempty"`
	Reps           *int                  `json:"reps,omitempty"`
	TimeSeconds    *int                  `json:"timeSeconds,omitempty"`
}

// prActivityMeta PERSONAL_RECORD 活动条目的 metadata
type prActivityMeta struct {
	ExerciseID   uint             `json:"exerciseId"`
	ExerciseName string           `json:"exerciseName"`
	RecordKind   model.RecordKind `json:"recordKind"`
	Score        float64          `json:"score"`
	Weight       *float64         `json:"weight,omitempty"`
	Reps         *int             `json:"reps,omitempty"`
	TimeSeconds  *int             `json:"timeSeconds,omitempty"`
}

// ApplyNewSet 增量更新：新组记分后与当前纪录比较，只有严格超过才落新纪录。
// 必须与插入组的写操作共用同一个事务句柄 tx，
// 否则组可见而PR未评估的窗口会破坏一致性。
//
// previousValue 的取法有意区分同场与跨场：被顶掉的纪录若出自
// 本场训练，则沿用它自己的 previousValue，这样一场内连破三次PR
// 时展示的基线仍是开练前的成绩
func (s *RecordService) ApplyNewSet(tx *gorm.DB, set *model.LoggedSet, exercise *model.Exercise) (*PRResult, error) {
	scored, ok := ScoreLoggedSet(set, exercise.IsTimed)
	if !ok {
		return &PRResult{IsNewPR: false}, nil
	}

	recordRepo := s.RecordRepo.Tx(tx)
	existing, err := recordRepo.FindBestForUpdate(set.UserID, set.ExerciseID, scored.Kind)
	if err != nil {
		return nil, err
	}

	// 平分或更低不产生新纪录
	if existing != nil && scored.Score <= existing.Value {
		return &PRResult{IsNewPR: false}, nil
	}

	var previous *float64
	rec := &model.PersonalRecord{
		UserID:     set.UserID,
		ExerciseID: set.ExerciseID,
		RecordKind: scored.Kind,
	}
	if existing != nil {
		rec = existing
		sameSession, err := s.displacedInSession(tx, existing, set.SessionID)
		if err != nil {
			return nil, err
		}
		if sameSession {
			previous = existing.PreviousValue
		} else {
			v := existing.Value
			previous = &v
		}
	}

	rec.Value = scored.Score
	rec.SourceSetID = set.ID
	rec.PreviousValue = previous
	rec.AchievedAt = set.CompletedAt

	if err := recordRepo.UpsertBest(rec); err != nil {
		return nil, err
	}
	monitoring.RecordUpserts.WithLabelValues(string(scored.Kind)).Inc()

	meta := prActivityMeta{
		ExerciseID:   exercise.ID,
		ExerciseName: exercise.Name,
		RecordKind:   scored.Kind,
		Score:        scored.Score,
		Weight:       set.Weight,
		Reps:         set.Reps,
		TimeSeconds:  set.TimeSeconds,
	}
	if err := s.ActivityRepo.Tx(tx).Append(set.UserID, model.ActivityPersonalRecord, set.ID, meta); err != nil {
		return nil, err
	}

	return &PRResult{
		IsNewPR:        true,
		RecordKind:     scored.Kind,
		NewRecord:      rec,
		PreviousRecord: previous,
		Weight:         set.Weight,
		Reps:           set.Reps,
		TimeSeconds:    set.TimeSeconds,
	}, nil
}

// displacedInSession 判断被顶掉的纪录是否由给定训练内的组达成
func (s *RecordService) displacedInSession(tx *gorm.DB, rec *model.PersonalRecord, sessionID uint) (bool, error) {
	sourceSet, err := s.SessionRepo.Tx(tx).FindSetByID(rec.SourceSetID)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sourceSet.SessionID == sessionID, nil
}

// RecalcResult 重算写入统计，幂等性检查依赖它
type RecalcResult struct {
	Upserts int
	Deletes int
}

type recalcCandidate struct {
	score float64
	set   model.LoggedSet
}

// Recalculate 对(用户,动作)从原始组数据全量重建纪录集合。
// 编辑组、删除组、删除训练后调用；对同一份数据重复执行不产生写操作。
// 纪录的胜者只看分值，升序扫描配合严格大于使同分时最早达成者保留。
// 值与来源组都未变化的纪录保持原 previousValue/achievedAt，
// 重算不会为既有纪录伪造新的达成时刻
func (s *RecordService) Recalculate(tx *gorm.DB, userID, exerciseID uint) (RecalcResult, error) {
	var res RecalcResult

	exercise, err := s.ExerciseRepo.FindByID(exerciseID)
	if err != nil {
		return res, err
	}

	sessionRepo := s.SessionRepo.Tx(tx)
	recordRepo := s.RecordRepo.Tx(tx)

	sets, err := sessionRepo.ListQualifyingSets(userID, exerciseID)
	if err != nil {
		return res, err
	}

	best := make(map[model.RecordKind]*recalcCandidate)
	for _, set := range sets {
		scored, ok := ScoreLoggedSet(&set, exercise.IsTimed)
		if !ok {
			continue
		}
		if cur, exists := best[scored.Kind]; !exists || scored.Score > cur.score {
			best[scored.Kind] = &recalcCandidate{score: scored.Score, set: set}
		}
	}

	stored, err := recordRepo.ListByUserExercise(userID, exerciseID)
	if err != nil {
		return res, err
	}
	storedByKind := make(map[model.RecordKind]*model.PersonalRecord, len(stored))
	for i := range stored {
		storedByKind[stored[i].RecordKind] = &stored[i]
	}

	for _, kind := range model.RecordKindsOrdered {
		winner := best[kind]
		current := storedByKind[kind]

		switch {
		case winner == nil && current == nil:
			continue

		case winner == nil:
			// 该维度已无可记分的组，纪录随之删除
			if err := recordRepo.DeleteBest(userID, exerciseID, kind); err != nil {
				return res, err
			}
			res.Deletes++

		case current == nil:
			rec := &model.PersonalRecord{
				UserID:      userID,
				ExerciseID:  exerciseID,
				RecordKind:  kind,
				Value:       winner.score,
				SourceSetID: winner.set.ID,
				AchievedAt:  winner.set.CompletedAt,
			}
			if err := recordRepo.UpsertBest(rec); err != nil {
				return res, err
			}
			res.Upserts++

		default:
			if current.Value == winner.score && current.SourceSetID == winner.set.ID {
				continue
			}
			if current.Value != winner.score {
				displaced := current.Value
				current.PreviousValue = &displaced
			}
			current.Value = winner.score
			current.SourceSetID = winner.set.ID
			current.AchievedAt = winner.set.CompletedAt
			if err := recordRepo.UpsertBest(current); err != nil {
				return res, err
			}
			res.Upserts++
		}
	}

	monitoring.Recalculations.Inc()
	return res, nil
}

// ListRecords 用户全部现有纪录
func (s *RecordService) ListRecords(userID uint) ([]model.PersonalRecord, error) {
	return s.RecordRepo.ListByUser(userID)
}

// BestForExercise 某动作按展示优先级选出的那条纪录
func (s *RecordService) BestForExercise(userID, exerciseID uint) (*model.PersonalRecord, error) {
	records, err := s.RecordRepo.ListByUserExercise(userID, exerciseID)
	if err != nil {
		return nil, err
	}
	return SelectDisplayRecord(records), nil
}
