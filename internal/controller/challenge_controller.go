package controller

import (
	"time"

	"fittrack_backend/internal/model"
	"fittrack_backend/internal/service"
	"fittrack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ChallengeService *service.ChallengeService
}

func NewChallengeController(challengeService *service.ChallengeService) *ChallengeController {
	return &ChallengeController{ChallengeService: challengeService}
}

type CreateChallengeRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Type        string    `json:"type" binding:"required"`
	Target      float64   `json:"target" binding:"required,gt=0"`
	ExerciseID  *uint     `json:"exerciseId"`
	StartDate   time.Time `json:"startDate" binding:"required"`
	EndDate     time.Time `json:"endDate" binding:"required"`
}

// @Summary 进行中的挑战
// @Tags 挑战
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /challenges [get]
func (c *ChallengeController) ListActive(ctx *gin.Context) {
	challenges, err := c.ChallengeService.ListActive()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, challenges)
}

// @Summary 加入挑战
// @Tags 挑战
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "挑战ID"
// @Success 201 {object} util.Response
// @Router /challenges/{id}/join [post]
func (c *ChallengeController) Join(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	challengeID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	participant, err := c.ChallengeService.Join(claims.UserID, challengeID)
	if err != nil {
		switch err {
		case util.ErrChallengeNotFound:
			util.NotFound(ctx)
		case util.ErrChallengeNotActive, util.ErrChallengeJoined:
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, participant)
}

// @Summary 我的挑战进度
// @Description 已加入的挑战及各自进度
// @Tags 挑战
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /challenges/mine [get]
func (c *ChallengeController) MyProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	memberships, err := c.ChallengeService.MyProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, memberships)
}

// @Summary 创建挑战
// @Description 管理员创建新挑战
// @Tags 挑战
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateChallengeRequest true "挑战"
// @Success 201 {object} util.Response
// @Router /admin/challenges [post]
func (c *ChallengeController) Create(ctx *gin.Context) {
	var req CreateChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challengeType := model.ChallengeType(req.Type)
	switch challengeType {
	case model.ChallengeWorkoutCount, model.ChallengeTotalVolume, model.ChallengeTotalSets:
	case model.ChallengeExerciseVolume:
		if req.ExerciseID == nil {
			util.BadRequest(ctx, "exerciseId is required for EXERCISE_VOLUME challenges")
			return
		}
	default:
		util.BadRequest(ctx, "unknown challenge type")
		return
	}
	if !req.EndDate.After(req.StartDate) {
		util.BadRequest(ctx, "endDate must be after startDate")
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	challenge := &model.Challenge{
		Name:        req.Name,
		Description: req.Description,
		Type:        challengeType,
		Target:      req.Target,
		ExerciseID:  req.ExerciseID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      model.ChallengeActive,
		CreatedBy:   claims.UserID,
	}
	if err := c.ChallengeService.Create(challenge); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, challenge)
}
