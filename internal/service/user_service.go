package service

import (
	"time"

	"fittrack_backend/internal/model"
	"fittrack_backend/internal/repository"
	"fittrack_backend/internal/util"
)

// UserService 处理用户资料相关的业务逻辑
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}

type ProfileUpdate struct {
	Name       string  `json:"name"`
	Bodyweight float64 `json:"bodyweight"`
	Avatar     string  `json:"avatar"`
}

// UpdateProfile 更新资料，体重用于自重动作的展示换算
func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if update.Name != "" {
		user.Name = update.Name
	}
	if update.Bodyweight > 0 {
		user.Bodyweight = update.Bodyweight
	}
	if update.Avatar != "" {
		user.Avatar = update.Avatar
	}
	user.UpdatedAt = time.Now()

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
