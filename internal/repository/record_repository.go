package repository

import (
	"errors"

	"fittrack_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordRepository 当前最好成绩表的读写入口。
// PersonalRecord 行只由引擎维护，外部不直接修改
type RecordRepository struct {
	DB *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{DB: db}
}

// Tx 返回绑定到事务句柄的仓库副本，便于在一次事务内组合调用
func (r *RecordRepository) Tx(tx *gorm.DB) *RecordRepository {
	return &RecordRepository{DB: tx}
}

// FindBest 查询(用户,动作,维度)的当前纪录，不存在时返回 (nil, nil)
func (r *RecordRepository) FindBest(userID, exerciseID uint, kind model.RecordKind) (*model.PersonalRecord, error) {
	var rec model.PersonalRecord
	err := r.DB.Where("user_id = ? AND exercise_id = ? AND record_kind = ?", userID, exerciseID, kind).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindBestForUpdate 与 FindBest 相同，但对行加 FOR UPDATE 锁，
// 用于串行化同一用户同一动作的并发提交
func (r *RecordRepository) FindBestForUpdate(userID, exerciseID uint, kind model.RecordKind) (*model.PersonalRecord, error) {
	var rec model.PersonalRecord
	err := r.DB.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND exercise_id = ? AND record_kind = ?", userID, exerciseID, kind).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByUserExercise 列出该动作下全部维度的现有纪录
func (r *RecordRepository) ListByUserExercise(userID, exerciseID uint) ([]model.PersonalRecord, error) {
	var recs []model.PersonalRecord
	err := r.DB.Where("user_id = ? AND exercise_id = ?", userID, exerciseID).Find(&recs).Error
	return recs, err
}

// ListByUser 列出用户的全部纪录
func (r *RecordRepository) ListByUser(userID uint) ([]model.PersonalRecord, error) {
	var recs []model.PersonalRecord
	err := r.DB.Where("user_id = ?", userID).
		Order("exercise_id asc, record_kind asc").
		Find(&recs).Error
	return recs, err
}

// UpsertBest 写入新的最好成绩（新建或覆盖更新同一主键行）
func (r *RecordRepository) UpsertBest(rec *model.PersonalRecord) error {
	return r.DB.Save(rec).Error
}

// DeleteBest 删除某维度的纪录。纪录是派生数据，物理删除，
// 避免软删行占住 (user,exercise,kind) 唯一索引
func (r *RecordRepository) DeleteBest(userID, exerciseID uint, kind model.RecordKind) error {
	return r.DB.Unscoped().
		Where("user_id = ? AND exercise_id = ? AND record_kind = ?", userID, exerciseID, kind).
		Delete(&model.PersonalRecord{}).Error
}

// CountByUser 用户持有的纪录总数，成就评估用
func (r *RecordRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.PersonalRecord{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
