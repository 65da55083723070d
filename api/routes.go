package api

import (
	"github.com/five-manager/five-mvp-backend/internal/identity"
	"github.com/five-manager/five-mvp-backend/internal/leaderboard"
	"github.com/five-manager/five-mvp-backend/internal/match"
	"github.com/five-manager/five-mvp-backend/internal/roster"
	"github.com/five-manager/five-mvp-backend/internal/vote"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 比赛相关的路由组 /api/matches
		matchRoutes := api.Group("/matches")
		{
			matchRoutes.POST("", identity.LoadVoterMiddleware(), match.CreateMatchHandler)
			matchRoutes.GET("/:id", identity.LoadVoterMiddleware(), match.GetMatchHandler)
			matchRoutes.DELETE("/:id", identity.LoadVoterMiddleware(), match.DeleteMatchHandler)
			matchRoutes.PATCH("/:id/score", identity.LoadVoterMiddleware(), match.SetScoreHandler)

			// 名单管理
			matchRoutes.POST("/:id/lineup", identity.LoadVoterMiddleware(), match.JoinLineupHandler)
			matchRoutes.POST("/:id/lineup/guests", identity.LoadVoterMiddleware(), match.AddGuestHandler)
			matchRoutes.DELETE("/:id/lineup/:entryId", identity.LoadVoterMiddleware(), match.RemoveLineupEntryHandler)

			// 候选人名单与投票
			matchRoutes.GET("/:id/roster", roster.GetRosterHandler)
			matchRoutes.POST("/:id/ballot", identity.LoadVoterMiddleware(), vote.SubmitRankingHandler)
			matchRoutes.GET("/:id/ballot", identity.LoadVoterMiddleware(), vote.GetBallotStatusHandler)

			// 积分榜与分享，查看榜单前确保访问者已有匿名身份
			matchRoutes.GET("/:id/leaderboard", identity.EnsureVoterCookieMiddleware(), leaderboard.GetLeaderboardHandler)
			matchRoutes.GET("/:id/share", leaderboard.GetShareSummaryHandler)
		}

		// 邀请链接相关的路由 /api/join
		api.GET("/join/:token", match.GetMatchByTokenHandler)
		api.POST("/join/:token", identity.LoadVoterMiddleware(), match.JoinByTokenHandler)
	}
}
