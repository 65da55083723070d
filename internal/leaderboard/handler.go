package leaderboard

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/five-manager/five-mvp-backend/internal/match"
	"github.com/gin-gonic/gin"
)

// GetLeaderboardHandler 返回一场比赛的实时积分榜
func GetLeaderboardHandler(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "比赛ID格式错误"})
		return
	}

	entries, err := GetLeaderboard(uint(matchID))
	if err != nil {
		if errors.Is(err, match.ErrMatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "计算积分榜失败"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetShareSummaryHandler 返回一场比赛的分享摘要
func GetShareSummaryHandler(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "比赛ID格式错误"})
		return
	}

	summary, err := GetShareSummary(uint(matchID))
	if err != nil {
		if errors.Is(err, match.ErrMatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成分享摘要失败"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
