package leaderboard

import (
	"sort"
	"time"

	"github.com/five-manager/five-mvp-backend/internal/match"
	"github.com/five-manager/five-mvp-backend/internal/roster"
	"github.com/five-manager/five-mvp-backend/internal/vote"
)

// Entry 是积分榜上的一行。
type Entry struct {
	CandidateID string `json:"id"`
	DisplayName string `json:"displayName"`
	IsGuest     bool   `json:"isGuest"`

	// Score 是该候选人收到的全部分值之和，没有收到投票时为0
	Score int `json:"score"`

	// Rank 从1开始严格递增到N。同分不共享名次，
	// 排在前面的行（候选人标识更小）拿到更靠前的名次。
	Rank int `json:"rank"`
}

// MVP 是一场比赛的最有价值球员评定结果。
type MVP struct {
	CandidateID string  `json:"id"`
	DisplayName string  `json:"displayName"`
	IsGuest     bool    `json:"isGuest"`
	MeanRating  float64 `json:"meanRating"`
}

// ShareSummary 是用于对外分享的比赛摘要。
type ShareSummary struct {
	MatchID    uint      `json:"matchId"`
	Date       time.Time `json:"date"`
	Location   string    `json:"location"`
	Status     string    `json:"status"`
	ScoreTeamA int       `json:"scoreTeamA"`
	ScoreTeamB int       `json:"scoreTeamB"`

	// MVP 在比赛尚无任何投票时为nil
	MVP *MVP `json:"mvp"`

	TotalBallots int `json:"totalBallots"`
}

// BuildLeaderboard 由候选人名单和计分记录拼装积分榜。
// 纯函数，不触达存储层。
// 榜单恰好包含每位候选人一行，没有收到投票的计0分；
// 按总分降序排列，同分时按候选人标识升序，保证输出稳定可复现。
func BuildLeaderboard(candidates []roster.Candidate, votes []vote.Vote) []Entry {
	// 1. 累加每位候选人的得分
	scores := make(map[string]int, len(candidates))
	for _, v := range votes {
		scores[v.TargetID] += v.Rating
	}

	entries := make([]Entry, 0, len(candidates))
	for _, candidate := range candidates {
		id := candidate.ID.String()
		entries = append(entries, Entry{
			CandidateID: id,
			DisplayName: candidate.DisplayName,
			IsGuest:     candidate.IsGuest,
			Score:       scores[id],
		})
	}

	// 2. 总分降序，同分按标识升序
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].CandidateID < entries[j].CandidateID
	})

	// 3. 赋名次：1到N严格递增，同分也不共享名次
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// ComputeMVP 从计分记录中评出MVP：平均得分最高者胜出。
// 只有实际收到过投票的候选人参与评定；均分相同时，
// 在稳定遍历顺序中先出现的候选人胜出。没有任何投票时返回空标识。
func ComputeMVP(votes []vote.Vote) (string, float64) {
	if len(votes) == 0 {
		return "", 0
	}

	type tally struct {
		sum   int
		count int
	}
	tallies := make(map[string]*tally)
	// order 记录候选人首次出现的顺序，用于决胜
	var order []string
	for _, v := range votes {
		t, ok := tallies[v.TargetID]
		if !ok {
			t = &tally{}
			tallies[v.TargetID] = t
			order = append(order, v.TargetID)
		}
		t.sum += v.Rating
		t.count++
	}

	bestID := ""
	bestMean := 0.0
	for _, id := range order {
		t := tallies[id]
		mean := float64(t.sum) / float64(t.count)
		if bestID == "" || mean > bestMean {
			bestID = id
			bestMean = mean
		}
	}
	return bestID, bestMean
}

// GetLeaderboard 即时计算一场比赛的积分榜。
// 每次读取都从权威存储重算，不做任何缓存，结果永远反映当前全部选票。
func GetLeaderboard(matchID uint) ([]Entry, error) {
	candidates, err := roster.ResolveRoster(matchID)
	if err != nil {
		return nil, err
	}
	votes, err := vote.GetVotesForMatch(matchID)
	if err != nil {
		return nil, err
	}
	return BuildLeaderboard(candidates, votes), nil
}

// GetShareSummary 拼装一场比赛的分享摘要，带短TTL的Redis缓存。
// 摘要是对外展示物料，允许一分钟内的轻微滞后。
func GetShareSummary(matchID uint) (*ShareSummary, error) {
	if cached, ok := getCachedSummary(matchID); ok {
		return cached, nil
	}

	m, err := match.GetMatchByID(matchID)
	if err != nil {
		return nil, err
	}
	candidates, err := roster.ResolveRoster(matchID)
	if err != nil {
		return nil, err
	}
	votes, err := vote.GetVotesForMatch(matchID)
	if err != nil {
		return nil, err
	}

	summary := &ShareSummary{
		MatchID:    m.ID,
		Date:       m.Date,
		Location:   m.Location,
		Status:     string(m.Status),
		ScoreTeamA: m.ScoreTeamA,
		ScoreTeamB: m.ScoreTeamB,
	}

	// 统计选票批次数：同一投票者的多条计分记录只算一份
	voters := make(map[string]bool)
	for _, v := range votes {
		voters[v.VoterID] = true
	}
	summary.TotalBallots = len(voters)

	if mvpID, mean := ComputeMVP(votes); mvpID != "" {
		mvp := &MVP{CandidateID: mvpID, MeanRating: mean}
		for _, candidate := range candidates {
			if candidate.ID.String() == mvpID {
				mvp.DisplayName = candidate.DisplayName
				mvp.IsGuest = candidate.IsGuest
				break
			}
		}
		summary.MVP = mvp
	}

	setCachedSummary(matchID, summary)
	return summary, nil
}
