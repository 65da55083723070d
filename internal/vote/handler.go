package vote

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/five-manager/five-mvp-backend/internal/identity"
	"github.com/five-manager/five-mvp-backend/internal/match"
	"github.com/gin-gonic/gin"
)

// SubmitRankingRequestBody 定义了提交排名API的请求体
type SubmitRankingRequestBody struct {
	// Ranking 是按表现从高到低排序的候选人标识列表
	Ranking []string `json:"ranking" binding:"required"`
}

// SubmitRankingHandler 处理一次完整排名的提交
func SubmitRankingHandler(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "比赛ID格式错误"})
		return
	}

	var body SubmitRankingRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体: " + err.Error()})
		return
	}

	// 1. 解析投票者身份（会员账号或签名匿名标识）
	voterID := identity.CurrentVoterID(c)
	if voterID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrUnidentifiedVoter.Error()})
		return
	}

	// 2. IP频率限制，Redis不可用时静默放行
	count, compensator, err := IncrementSubmitCount(c.ClientIP(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取提交频率"})
		return
	}
	if compensator != nil {
		defer compensator.RollbackUnlessCommitted()
		if count > MaxSubmitsPerWindow {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "提交过于频繁，请稍后再试"})
			return
		}
	}

	// 3. 提交排名
	if err := SubmitRanking(uint(matchID), voterID, body.Ranking); err != nil {
		abortWithSubmitError(c, err)
		return
	}
	compensator.Commit()

	c.JSON(http.StatusCreated, gin.H{"message": "投票成功"})
}

// GetBallotStatusHandler 返回当前投票者是否已为这场比赛提交过排名
func GetBallotStatusHandler(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "比赛ID格式错误"})
		return
	}

	voterID := identity.CurrentVoterID(c)
	if voterID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrUnidentifiedVoter.Error()})
		return
	}

	voted, err := HasVoted(uint(matchID), voterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询投票状态失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hasVoted": voted})
}

// abortWithSubmitError 把提交流程的错误映射为HTTP响应
func abortWithSubmitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, match.ErrMatchNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrDuplicateVote):
		c.JSON(http.StatusConflict, gin.H{"error": "你已经为这场比赛投过票了"})
	case errors.Is(err, ErrEmptyRanking),
		errors.Is(err, ErrUnknownCandidate),
		errors.Is(err, ErrDuplicateTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrUnidentifiedVoter):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "提交排名失败，请稍后重试"})
	}
}
