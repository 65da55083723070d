package match

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/five-manager/five-mvp-backend/internal/identity"
	"github.com/gin-gonic/gin"
)

// CreateMatchRequestBody 定义了创建比赛时请求体的JSON结构
type CreateMatchRequestBody struct {
	Date     time.Time `json:"date" binding:"required"`
	Location string    `json:"location" binding:"required"`
}

// AddGuestRequestBody 定义了添加散客时请求体的JSON结构
type AddGuestRequestBody struct {
	Name string `json:"name" binding:"required"`
	Team string `json:"team" binding:"required,oneof=A B"`
}

// JoinLineupRequestBody 定义了会员进入/切换队伍时请求体的JSON结构
type JoinLineupRequestBody struct {
	Team string `json:"team" binding:"required,oneof=A B"`
}

// SetScoreRequestBody 定义了录入比分时请求体的JSON结构
type SetScoreRequestBody struct {
	ScoreTeamA *int `json:"score_team_a" binding:"required,min=0"`
	ScoreTeamB *int `json:"score_team_b" binding:"required,min=0"`
}

// MatchResponse 是比赛详情的API响应模型
type MatchResponse struct {
	ID         uint          `json:"id"`
	Date       time.Time     `json:"date"`
	Location   string        `json:"location"`
	Status     MatchStatus   `json:"status"`
	ScoreTeamA int           `json:"scoreTeamA"`
	ScoreTeamB int           `json:"scoreTeamB"`
	CreatedBy  string        `json:"createdBy"`
	JoinToken  string        `json:"joinToken,omitempty"`
	Lineup     []LineupEntry `json:"lineup,omitempty"`
}

// parseMatchID 从路径参数中解析比赛ID
func parseMatchID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "比赛ID格式错误"})
		return 0, false
	}
	return uint(id), true
}

// abortWithServiceError 把service层的错误翻译为HTTP响应
func abortWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMatchNotFound), errors.Is(err, ErrEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrMemberRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotCreator):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
	}
}

// CreateMatchHandler 处理创建比赛的请求
func CreateMatchHandler(c *gin.Context) {
	var body CreateMatchRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	m, err := CreateMatch(identity.CurrentVoterID(c), body.Date, body.Location)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	// 创建者需要拿到邀请令牌用于分享
	c.JSON(http.StatusCreated, MatchResponse{
		ID:         m.ID,
		Date:       m.Date,
		Location:   m.Location,
		Status:     m.Status,
		ScoreTeamA: m.ScoreTeamA,
		ScoreTeamB: m.ScoreTeamB,
		CreatedBy:  m.CreatedBy,
		JoinToken:  m.JoinToken,
	})
}

// GetMatchHandler 处理查询比赛详情的请求，附带完整名单
func GetMatchHandler(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	m, err := GetMatchByID(matchID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	lineup, err := GetLineup(matchID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	resp := MatchResponse{
		ID:         m.ID,
		Date:       m.Date,
		Location:   m.Location,
		Status:     m.Status,
		ScoreTeamA: m.ScoreTeamA,
		ScoreTeamB: m.ScoreTeamB,
		CreatedBy:  m.CreatedBy,
		Lineup:     lineup,
	}
	// 邀请令牌只展示给创建者
	if identity.CurrentVoterID(c) == m.CreatedBy {
		resp.JoinToken = m.JoinToken
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteMatchHandler 处理删除比赛的请求（级联删除名单与选票）
func DeleteMatchHandler(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	if err := DeleteMatch(matchID, identity.CurrentVoterID(c)); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "比赛已删除"})
}

// SetScoreHandler 处理录入比分的请求
func SetScoreHandler(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	var body SetScoreRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	if err := SetScore(matchID, identity.CurrentVoterID(c), *body.ScoreTeamA, *body.ScoreTeamB); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "比分已更新"})
}

// AddGuestHandler 处理创建者添加散客的请求
func AddGuestHandler(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	var body AddGuestRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	entry, err := AddGuest(matchID, identity.CurrentVoterID(c), body.Name, body.Team)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// JoinLineupHandler 处理会员进入/切换队伍的请求
func JoinLineupHandler(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	var body JoinLineupRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	entry, err := AddMember(matchID, identity.CurrentVoterID(c), body.Team)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// RemoveLineupEntryHandler 处理移除名单记录的请求
func RemoveLineupEntryHandler(c *gin.Context) {
	entryID, err := strconv.ParseUint(c.Param("entryId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "名单记录ID格式错误"})
		return
	}

	if err := RemoveEntry(uint(entryID), identity.CurrentVoterID(c)); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "名单记录已移除"})
}

// GetMatchByTokenHandler 处理凭邀请令牌查看比赛的请求
func GetMatchByTokenHandler(c *gin.Context) {
	m, err := GetMatchByToken(c.Param("token"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MatchResponse{
		ID:         m.ID,
		Date:       m.Date,
		Location:   m.Location,
		Status:     m.Status,
		ScoreTeamA: m.ScoreTeamA,
		ScoreTeamB: m.ScoreTeamB,
		CreatedBy:  m.CreatedBy,
	})
}

// JoinByTokenHandler 处理凭邀请令牌加入比赛的请求
func JoinByTokenHandler(c *gin.Context) {
	m, err := JoinByToken(c.Param("token"), identity.CurrentVoterID(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已加入比赛", "matchId": m.ID})
}
