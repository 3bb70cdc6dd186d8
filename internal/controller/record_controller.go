package controller

import (
	"time"

	"fittrack_backend/internal/service"
	"fittrack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RecordController struct {
	RecordService *service.RecordService
	StreakService *service.StreakService
}

func NewRecordController(recordService *service.RecordService, streakService *service.StreakService) *RecordController {
	return &RecordController{RecordService: recordService, StreakService: streakService}
}

// @Summary 个人纪录列表
// @Description 当前用户全部动作的各类最佳纪录
// @Tags 纪录
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /records [get]
func (c *RecordController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	records, err := c.RecordService.ListRecords(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, records)
}

// @Summary 单动作最佳纪录
// @Description 按展示优先级返回该动作的一条最佳纪录
// @Tags 纪录
// @Produce json
// @Security ApiKeyAuth
// @Param exerciseId path int true "动作ID"
// @Success 200 {object} util.Response
// @Router /records/exercises/{exerciseId} [get]
func (c *RecordController) BestForExercise(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	exerciseID, ok := pathID(ctx, "exerciseId")
	if !ok {
		return
	}

	record, err := c.RecordService.BestForExercise(claims.UserID, exerciseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if record == nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, record)
}

// @Summary 连续打卡
// @Description 当前连续训练周数及每周三练的连续周数
// @Tags 纪录
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /streaks [get]
func (c *RecordController) Streaks(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.StreakService.Summary(claims.UserID, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
