package repository

import (
	"encoding/json"

	"fittrack_backend/internal/model"

	"gorm.io/gorm"
)

// ActivityRepository 活动流只追加的写入口，PR引擎与成就/挑战评估器是生产者
type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Tx(tx *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: tx}
}

// Append 追加一条活动。metadata 序列化失败属于编程错误，此处直接上抛
func (r *ActivityRepository) Append(userID uint, activityType model.ActivityType, referenceID uint, metadata any) error {
	payload, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	entry := model.ActivityEntry{
		UserID:       userID,
		ActivityType: activityType,
		ReferenceID:  referenceID,
		Metadata:     string(payload),
	}
	return r.DB.Create(&entry).Error
}

// BuildEntry 构造条目但不落库，供需要与其它写操作同事务提交的调用方使用
func (r *ActivityRepository) BuildEntry(userID uint, activityType model.ActivityType, referenceID uint, metadata any) (*model.ActivityEntry, error) {
	payload, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}
	return &model.ActivityEntry{
		UserID:       userID,
		ActivityType: activityType,
		ReferenceID:  referenceID,
		Metadata:     string(payload),
	}, nil
}

// ListRecent 用户最近的活动，按时间倒序
func (r *ActivityRepository) ListRecent(userID uint, limit int) ([]model.ActivityEntry, error) {
	var entries []model.ActivityEntry
	q := r.DB.Where("user_id = ?", userID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&entries).Error
	return entries, err
}
