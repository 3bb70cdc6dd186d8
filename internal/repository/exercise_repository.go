package repository

import (
	"fittrack_backend/internal/model"

	"gorm.io/gorm"
)

type ExerciseRepository struct {
	DB *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{DB: db}
}

func (r *ExerciseRepository) FindByID(id uint) (*model.Exercise, error) {
	var exercise model.Exercise
	err := r.DB.First(&exercise, id).Error
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (r *ExerciseRepository) List() ([]model.Exercise, error) {
	var exercises []model.Exercise
	err := r.DB.Order("name asc").Find(&exercises).Error
	return exercises, err
}

func (r *ExerciseRepository) ListByMuscleGroup(group model.MuscleGroup) ([]model.Exercise, error) {
	var exercises []model.Exercise
	err := r.DB.Where("muscle_group = ?", group).Order("name asc").Find(&exercises).Error
	return exercises, err
}

func (r *ExerciseRepository) Create(exercise *model.Exercise) error {
	return r.DB.Create(exercise).Error
}
