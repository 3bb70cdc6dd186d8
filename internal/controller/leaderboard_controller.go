package controller

import (
	"strconv"
	"time"

	"fittrack_backend/internal/service"
	"fittrack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

// @Summary 周容量排行榜
// @Description 当周训练容量前N名
// @Tags 排行榜
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "数量上限" default(10)
// @Success 200 {object} util.Response
// @Router /leaderboard [get]
func (c *LeaderboardController) Top(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}

	entries, err := c.LeaderboardService.Top(time.Now(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// @Summary 我的排名
// @Description 当前用户在本周排行榜中的名次与容量
// @Tags 排行榜
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /leaderboard/me [get]
func (c *LeaderboardController) MyRank(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	entry, err := c.LeaderboardService.UserRank(claims.UserID, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if entry == nil {
		util.Success(ctx, gin.H{"ranked": false})
		return
	}
	util.Success(ctx, entry)
}
