package controller

import (
	"strconv"

	"fittrack_backend/internal/service"
	"fittrack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WorkoutController struct {
	WorkoutService *service.WorkoutService
}

func NewWorkoutController(workoutService *service.WorkoutService) *WorkoutController {
	return &WorkoutController{WorkoutService: workoutService}
}

type StartSessionRequest struct {
	Name string `json:"name"`
}

type CompleteSessionRequest struct {
	Notes string `json:"notes"`
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// workoutError 把服务层哨兵错误映射到HTTP状态
func workoutError(ctx *gin.Context, err error) {
	switch err {
	case util.ErrSessionNotFound, util.ErrSetNotFound, util.ErrExerciseNotFound:
		util.NotFound(ctx)
	case util.ErrPermissionDenied:
		util.Forbidden(ctx)
	case util.ErrSessionNotActive, util.ErrSetMissingEffort:
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary 开始训练
// @Tags 训练
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body StartSessionRequest true "会话信息"
// @Success 201 {object} util.Response
// @Router /workouts [post]
func (c *WorkoutController) StartSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.WorkoutService.StartSession(claims.UserID, req.Name)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// @Summary 记录一组
// @Description 向进行中的会话追加一组，同事务内更新个人纪录
// @Tags 训练
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.LogSetRequest true "组信息"
// @Success 201 {object} util.Response
// @Router /workouts/sets [post]
func (c *WorkoutController) LogSet(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.LogSetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	set, pr, err := c.WorkoutService.LogSet(claims.UserID, req)
	if err != nil {
		workoutError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"set": set, "personalRecord": pr})
}

// @Summary 修改一组
// @Description 修改已记录的一组并重算受影响动作的纪录
// @Tags 训练
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "组ID"
// @Param body body service.UpdateSetRequest true "组信息"
// @Success 200 {object} util.Response
// @Router /workouts/sets/{id} [put]
func (c *WorkoutController) UpdateSet(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	setID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req service.UpdateSetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	set, err := c.WorkoutService.UpdateSet(claims.UserID, setID, req)
	if err != nil {
		workoutError(ctx, err)
		return
	}
	util.Success(ctx, set)
}

// @Summary 删除一组
// @Tags 训练
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "组ID"
// @Success 200 {object} util.Response
// @Router /workouts/sets/{id} [delete]
func (c *WorkoutController) DeleteSet(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	setID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.WorkoutService.DeleteSet(claims.UserID, setID); err != nil {
		workoutError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 完成训练
// @Description 完成会话并触发成就、挑战与排行榜更新
// @Tags 训练
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "会话ID"
// @Param body body CompleteSessionRequest false "备注"
// @Success 200 {object} util.Response
// @Router /workouts/{id}/complete [post]
func (c *WorkoutController) CompleteSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	sessionID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req CompleteSessionRequest
	_ = ctx.ShouldBindJSON(&req)

	session, err := c.WorkoutService.CompleteSession(claims.UserID, sessionID, req.Notes)
	if err != nil {
		workoutError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// @Summary 放弃训练
// @Description 放弃进行中的会话，已记录的组不再计入任何统计
// @Tags 训练
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "会话ID"
// @Success 200 {object} util.Response
// @Router /workouts/{id}/discard [post]
func (c *WorkoutController) DiscardSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	sessionID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.WorkoutService.DiscardSession(claims.UserID, sessionID); err != nil {
		workoutError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 删除训练
// @Description 删除历史会话并重算受影响动作的纪录
// @Tags 训练
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "会话ID"
// @Success 200 {object} util.Response
// @Router /workouts/{id} [delete]
func (c *WorkoutController) DeleteSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	sessionID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.WorkoutService.DeleteSession(claims.UserID, sessionID); err != nil {
		workoutError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 训练列表
// @Tags 训练
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "数量上限" default(20)
// @Success 200 {object} util.Response
// @Router /workouts [get]
func (c *WorkoutController) ListSessions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	sessions, err := c.WorkoutService.ListSessions(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}

// @Summary 训练详情
// @Tags 训练
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "会话ID"
// @Success 200 {object} util.Response
// @Router /workouts/{id} [get]
func (c *WorkoutController) GetSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	sessionID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	session, err := c.WorkoutService.GetSession(claims.UserID, sessionID)
	if err != nil {
		workoutError(ctx, err)
		return
	}
	util.Success(ctx, session)
}
