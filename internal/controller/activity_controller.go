package controller

import (
	"strconv"

	"fittrack_backend/internal/repository"
	"fittrack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ActivityController struct {
	ActivityRepo *repository.ActivityRepository
}

func NewActivityController(activityRepo *repository.ActivityRepository) *ActivityController {
	return &ActivityController{ActivityRepo: activityRepo}
}

// @Summary 活动流
// @Description 当前用户最近的训练、纪录、成就与挑战动态
// @Tags 活动
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "数量上限" default(50)
// @Success 200 {object} util.Response
// @Router /activities [get]
func (c *ActivityController) Recent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}

	entries, err := c.ActivityRepo.ListRecent(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
