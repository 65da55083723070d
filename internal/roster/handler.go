package roster

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/five-manager/five-mvp-backend/internal/match"
	"github.com/gin-gonic/gin"
)

// CandidateResponse 是候选人的API响应模型
type CandidateResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	IsGuest     bool   `json:"isGuest"`
}

// GetRosterHandler 返回一场比赛的完整候选人名单
func GetRosterHandler(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "比赛ID格式错误"})
		return
	}

	candidates, err := ResolveRoster(uint(matchID))
	if err != nil {
		if errors.Is(err, match.ErrMatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取比赛名单失败"})
		return
	}

	responses := make([]CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		responses = append(responses, CandidateResponse{
			ID:          candidate.ID.String(),
			DisplayName: candidate.DisplayName,
			IsGuest:     candidate.IsGuest,
		})
	}
	c.JSON(http.StatusOK, responses)
}
