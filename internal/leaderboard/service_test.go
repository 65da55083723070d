package leaderboard

import (
	"fmt"
	"testing"

	"github.com/five-manager/five-mvp-backend/internal/match"
	"github.com/five-manager/five-mvp-backend/internal/platform/database"
	"github.com/five-manager/five-mvp-backend/internal/profile"
	"github.com/five-manager/five-mvp-backend/internal/roster"
	"github.com/five-manager/five-mvp-backend/internal/vote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&profile.Profile{}, &match.Match{}, &match.LineupEntry{},
		&vote.Ballot{}, &vote.Vote{},
	))

	database.DB = db
	database.UpdateStatus(false, "")
}

func memberCandidate(id, name string) roster.Candidate {
	return roster.Candidate{ID: roster.MemberID(id), DisplayName: name}
}

func guestCandidate(entryID uint, name string) roster.Candidate {
	return roster.Candidate{ID: roster.GuestID(entryID), DisplayName: name, IsGuest: true}
}

func TestBuildLeaderboardSumsAndSorts(t *testing.T) {
	candidates := []roster.Candidate{
		memberCandidate("uuid-a", "阿明"),
		memberCandidate("uuid-b", "阿强"),
		guestCandidate(7, "散客"),
	}
	votes := []vote.Vote{
		{TargetID: "uuid-a", Rating: 10},
		{TargetID: "uuid-b", Rating: 9},
		{TargetID: "uuid-a", Rating: 9},
		{TargetID: "guest-7", Rating: 10},
	}

	entries := BuildLeaderboard(candidates, votes)
	require.Len(t, entries, 3)

	assert.Equal(t, "uuid-a", entries[0].CandidateID)
	assert.Equal(t, 19, entries[0].Score)
	assert.Equal(t, 1, entries[0].Rank)

	assert.Equal(t, "guest-7", entries[1].CandidateID)
	assert.Equal(t, 10, entries[1].Score)
	assert.Equal(t, 2, entries[1].Rank)

	assert.Equal(t, "uuid-b", entries[2].CandidateID)
	assert.Equal(t, 9, entries[2].Score)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestBuildLeaderboardIncludesZeroScoreCandidates(t *testing.T) {
	candidates := []roster.Candidate{
		memberCandidate("uuid-a", "阿明"),
		memberCandidate("uuid-b", "阿强"),
	}
	votes := []vote.Vote{{TargetID: "uuid-a", Rating: 10}}

	entries := BuildLeaderboard(candidates, votes)
	require.Len(t, entries, 2)
	assert.Equal(t, "uuid-b", entries[1].CandidateID)
	assert.Zero(t, entries[1].Score)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestBuildLeaderboardTieBreakByCandidateID(t *testing.T) {
	candidates := []roster.Candidate{
		memberCandidate("uuid-c", "丙"),
		memberCandidate("uuid-a", "甲"),
		memberCandidate("uuid-b", "乙"),
	}
	votes := []vote.Vote{
		{TargetID: "uuid-c", Rating: 8},
		{TargetID: "uuid-a", Rating: 8},
		{TargetID: "uuid-b", Rating: 3},
	}

	entries := BuildLeaderboard(candidates, votes)
	require.Len(t, entries, 3)

	// 同分按候选人标识升序，名次不共享，严格按行递增
	assert.Equal(t, "uuid-a", entries[0].CandidateID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "uuid-c", entries[1].CandidateID)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "uuid-b", entries[2].CandidateID)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestBuildLeaderboardRanksAreStrictlySequential(t *testing.T) {
	candidates := []roster.Candidate{
		memberCandidate("uuid-a", "甲"),
		memberCandidate("uuid-b", "乙"),
		memberCandidate("uuid-c", "丙"),
	}
	votes := []vote.Vote{
		{TargetID: "uuid-a", Rating: 8},
		{TargetID: "uuid-b", Rating: 8},
		{TargetID: "uuid-c", Rating: 3},
	}

	// 无论多少人同分，名次序列恒为1..N
	entries := BuildLeaderboard(candidates, votes)
	require.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Rank)
	}
}

func TestBuildLeaderboardEmptyInputs(t *testing.T) {
	assert.Empty(t, BuildLeaderboard(nil, nil))

	entries := BuildLeaderboard([]roster.Candidate{memberCandidate("uuid-a", "甲")}, nil)
	require.Len(t, entries, 1)
	assert.Zero(t, entries[0].Score)
	assert.Equal(t, 1, entries[0].Rank)
}

func TestComputeMVPHighestMean(t *testing.T) {
	votes := []vote.Vote{
		// uuid-a: 总分18, 均分9; uuid-b: 总分10, 均分10
		{TargetID: "uuid-a", Rating: 10},
		{TargetID: "uuid-b", Rating: 10},
		{TargetID: "uuid-a", Rating: 8},
	}

	mvpID, mean := ComputeMVP(votes)
	assert.Equal(t, "uuid-b", mvpID)
	assert.InDelta(t, 10.0, mean, 1e-9)
}

func TestComputeMVPTieBreakFirstEncountered(t *testing.T) {
	votes := []vote.Vote{
		{TargetID: "uuid-b", Rating: 9},
		{TargetID: "uuid-a", Rating: 9},
	}

	// 均分相同，先出现在计分记录中的候选人胜出
	mvpID, mean := ComputeMVP(votes)
	assert.Equal(t, "uuid-b", mvpID)
	assert.InDelta(t, 9.0, mean, 1e-9)
}

func TestComputeMVPNoVotes(t *testing.T) {
	mvpID, mean := ComputeMVP(nil)
	assert.Empty(t, mvpID)
	assert.Zero(t, mean)
}

func TestGetLeaderboardFromStorage(t *testing.T) {
	setupTestDB(t)

	m := match.Match{Location: "测试球场", Status: match.StatusScheduled, CreatedBy: "creator", JoinToken: "token-1"}
	require.NoError(t, database.DB.Create(&m).Error)

	memberID := "00000000-0000-7000-8000-000000000001"
	require.NoError(t, database.DB.Create(&profile.Profile{ID: memberID, Username: "阿明"}).Error)
	memberEntry := match.LineupEntry{MatchID: m.ID, Team: match.TeamA, UserID: &memberID}
	require.NoError(t, database.DB.Create(&memberEntry).Error)

	guestName := "散客"
	guestEntry := match.LineupEntry{MatchID: m.ID, Team: match.TeamB, GuestName: &guestName}
	require.NoError(t, database.DB.Create(&guestEntry).Error)
	guestID := fmt.Sprintf("guest-%d", guestEntry.ID)

	require.NoError(t, vote.SubmitRanking(m.ID, "anon-abc123xyz", []string{memberID, guestID}))
	require.NoError(t, vote.SubmitRanking(m.ID, "anon-def456uvw", []string{guestID, memberID}))

	entries, err := GetLeaderboard(m.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// 两人各得 10+9=19 分，同分按标识升序，名次仍为1和2
	assert.Equal(t, 19, entries[0].Score)
	assert.Equal(t, 19, entries[1].Score)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Less(t, entries[0].CandidateID, entries[1].CandidateID)
}

func TestGetLeaderboardMatchNotFound(t *testing.T) {
	setupTestDB(t)

	_, err := GetLeaderboard(404)
	assert.ErrorIs(t, err, match.ErrMatchNotFound)
}

func TestGetShareSummary(t *testing.T) {
	setupTestDB(t)

	m := match.Match{Location: "测试球场", Status: match.StatusFinished, ScoreTeamA: 5, ScoreTeamB: 3, CreatedBy: "creator", JoinToken: "token-2"}
	require.NoError(t, database.DB.Create(&m).Error)

	memberID := "00000000-0000-7000-8000-000000000002"
	require.NoError(t, database.DB.Create(&profile.Profile{ID: memberID, Username: "阿强"}).Error)
	entry := match.LineupEntry{MatchID: m.ID, Team: match.TeamA, UserID: &memberID}
	require.NoError(t, database.DB.Create(&entry).Error)

	require.NoError(t, vote.SubmitRanking(m.ID, "anon-abc123xyz", []string{memberID}))

	summary, err := GetShareSummary(m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, summary.MatchID)
	assert.Equal(t, 5, summary.ScoreTeamA)
	assert.Equal(t, 3, summary.ScoreTeamB)
	assert.Equal(t, 1, summary.TotalBallots)

	require.NotNil(t, summary.MVP)
	assert.Equal(t, memberID, summary.MVP.CandidateID)
	assert.Equal(t, "阿强", summary.MVP.DisplayName)
	assert.InDelta(t, 10.0, summary.MVP.MeanRating, 1e-9)
}

func TestGetShareSummaryWithoutVotes(t *testing.T) {
	setupTestDB(t)

	m := match.Match{Location: "测试球场", Status: match.StatusScheduled, CreatedBy: "creator", JoinToken: "token-3"}
	require.NoError(t, database.DB.Create(&m).Error)

	summary, err := GetShareSummary(m.ID)
	require.NoError(t, err)
	assert.Nil(t, summary.MVP)
	assert.Zero(t, summary.TotalBallots)
}
