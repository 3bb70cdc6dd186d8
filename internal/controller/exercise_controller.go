package controller

import (
	"strconv"

	"fittrack_backend/internal/model"
	"fittrack_backend/internal/repository"
	"fittrack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExerciseController struct {
	ExerciseRepo *repository.ExerciseRepository
}

func NewExerciseController(exerciseRepo *repository.ExerciseRepository) *ExerciseController {
	return &ExerciseController{ExerciseRepo: exerciseRepo}
}

type CreateExerciseRequest struct {
	Name        string `json:"name" binding:"required"`
	MuscleGroup string `json:"muscleGroup" binding:"required"`
	IsTimed     bool   `json:"isTimed"`
}

// @Summary 动作列表
// @Description 按肌群筛选动作库
// @Tags 动作
// @Produce json
// @Security ApiKeyAuth
// @Param muscleGroup query string false "肌群"
// @Success 200 {object} util.Response
// @Router /exercises [get]
func (c *ExerciseController) List(ctx *gin.Context) {
	var (
		exercises []model.Exercise
		err       error
	)
	if group := ctx.Query("muscleGroup"); group != "" {
		exercises, err = c.ExerciseRepo.ListByMuscleGroup(model.MuscleGroup(group))
	} else {
		exercises, err = c.ExerciseRepo.List()
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, exercises)
}

// @Summary 动作详情
// @Tags 动作
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "动作ID"
// @Success 200 {object} util.Response
// @Router /exercises/{id} [get]
func (c *ExerciseController) Get(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid exercise id")
		return
	}
	exercise, err := c.ExerciseRepo.FindByID(uint(id))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, exercise)
}

// @Summary 新建动作
// @Description 管理员向动作库添加动作
// @Tags 动作
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateExerciseRequest true "动作"
// @Success 201 {object} util.Response
// @Router /admin/exercises [post]
func (c *ExerciseController) Create(ctx *gin.Context) {
	var req CreateExerciseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group := model.MuscleGroup(req.MuscleGroup)
	if !model.ValidMuscleGroup(group) {
		util.BadRequest(ctx, "unknown muscle group")
		return
	}

	exercise := &model.Exercise{
		Name:        req.Name,
		MuscleGroup: group,
		IsTimed:     req.IsTimed,
	}
	if err := c.ExerciseRepo.Create(exercise); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, exercise)
}
