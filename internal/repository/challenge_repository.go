package repository

import (
	"fittrack_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) Create(challenge *model.Challenge) error {
	return r.DB.Create(challenge).Error
}

func (r *ChallengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.First(&challenge, id).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *ChallengeRepository) ListActive() ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.Where("status = ?", model.ChallengeActive).
		Order("end_date asc").
		Find(&challenges).Error
	return challenges, err
}

func (r *ChallengeRepository) Join(participant *model.ChallengeParticipant) error {
	return r.DB.Create(participant).Error
}

func (r *ChallengeRepository) FindParticipant(challengeID, userID uint) (*model.ChallengeParticipant, error) {
	var p model.ChallengeParticipant
	err := r.DB.Where("challenge_id = ? AND user_id = ?", challengeID, userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Membership 参赛记录及其所属挑战
type Membership struct {
	Participant model.ChallengeParticipant
	Challenge   model.Challenge
}

// ActiveMemberships 用户参与中且尚未完成的挑战：
// 挑战状态为 active、参赛记录 completed_at 为空
func (r *ChallengeRepository) ActiveMemberships(userID uint) ([]Membership, error) {
	var participants []model.ChallengeParticipant
	err := r.DB.
		Joins("JOIN challenges ON challenges.id = challenge_participants.challenge_id").
		Where("challenge_participants.user_id = ? AND challenge_participants.completed_at IS NULL", userID).
		Where("challenges.status = ?", model.ChallengeActive).
		Find(&participants).Error
	if err != nil {
		return nil, err
	}

	memberships := make([]Membership, 0, len(participants))
	for _, p := range participants {
		var challenge model.Challenge
		if err := r.DB.First(&challenge, p.ChallengeID).Error; err != nil {
			return nil, err
		}
		memberships = append(memberships, Membership{Participant: p, Challenge: challenge})
	}
	return memberships, nil
}

// Memberships 用户全部参赛记录（含已完成），进度页展示用
func (r *ChallengeRepository) Memberships(userID uint) ([]Membership, error) {
	var participants []model.ChallengeParticipant
	err := r.DB.Where("user_id = ?", userID).Order("joined_at desc").Find(&participants).Error
	if err != nil {
		return nil, err
	}

	memberships := make([]Membership, 0, len(participants))
	for _, p := range participants {
		var challenge model.Challenge
		if err := r.DB.First(&challenge, p.ChallengeID).Error; err != nil {
			return nil, err
		}
		memberships = append(memberships, Membership{Participant: p, Challenge: challenge})
	}
	return memberships, nil
}

// FindParticipantForUpdate 对参赛行加锁，进度累加在持锁状态下进行
func (r *ChallengeRepository) FindParticipantForUpdate(tx *gorm.DB, participantID uint) (*model.ChallengeParticipant, error) {
	var p model.ChallengeParticipant
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, participantID).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListParticipants 挑战内的全部参赛者，按进度倒序
func (r *ChallengeRepository) ListParticipants(challengeID uint) ([]model.ChallengeParticipant, error) {
	var participants []model.ChallengeParticipant
	err := r.DB.Where("challenge_id = ?", challengeID).
		Order("progress desc").
		Find(&participants).Error
	return participants, err
}
