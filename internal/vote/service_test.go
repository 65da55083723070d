package vote

import (
	"fmt"
	"testing"

	"github.com/five-manager/five-mvp-backend/internal/match"
	"github.com/five-manager/five-mvp-backend/internal/platform/database"
	"github.com/five-manager/five-mvp-backend/internal/profile"
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
		&Ballot{}, &Vote{},
	))

	database.DB = db
	// 测试环境没有Redis，关闭全部快速路径
	database.UpdateStatus(false, "")
}

// seedSequence 让每场测试比赛拿到不同的邀请令牌，避开唯一索引
var seedSequence int

// fixture 描述一场已就绪的测试比赛
type fixture struct {
	matchID   uint
	memberIDs []string // 会员候选人标识（账号UUID）
	guestIDs  []string // 散客候选人标识（guest-<名单记录ID>）
}

// seedMatch 建一场比赛：memberCount名会员加guestCount名散客
func seedMatch(t *testing.T, memberCount, guestCount int) fixture {
	t.Helper()

	seedSequence++
	m := match.Match{
		Location:  "测试球场",
		Status:    match.StatusScheduled,
		CreatedBy: "creator",
		JoinToken: fmt.Sprintf("token-%d", seedSequence),
	}
	require.NoError(t, database.DB.Create(&m).Error)

	f := fixture{matchID: m.ID}
	for i := 0; i < memberCount; i++ {
		p := profile.Profile{
			ID:       fmt.Sprintf("00000000-0000-7000-8000-%012d", seedSequence*100+i),
			Username: "会员" + string(rune('A'+i)),
		}
		require.NoError(t, database.DB.Create(&p).Error)
		userID := p.ID
		entry := match.LineupEntry{MatchID: m.ID, Team: match.TeamA, UserID: &userID}
		require.NoError(t, database.DB.Create(&entry).Error)
		f.memberIDs = append(f.memberIDs, p.ID)
	}
	for i := 0; i < guestCount; i++ {
		name := "散客" + string(rune('A'+i))
		entry := match.LineupEntry{MatchID: m.ID, Team: match.TeamB, GuestName: &name}
		require.NoError(t, database.DB.Create(&entry).Error)
		f.guestIDs = append(f.guestIDs, formatGuestID(entry.ID))
	}
	return f
}

func formatGuestID(entryID uint) string {
	return fmt.Sprintf("guest-%d", entryID)
}

func TestPointsForPosition(t *testing.T) {
	assert.Equal(t, 10, PointsForPosition(0))
	assert.Equal(t, 9, PointsForPosition(1))
	assert.Equal(t, 2, PointsForPosition(8))
	assert.Equal(t, 1, PointsForPosition(9))
	// 超长名单不会出现零分或负分
	assert.Equal(t, 1, PointsForPosition(10))
	assert.Equal(t, 1, PointsForPosition(20))
}

func TestSubmitRankingValidation(t *testing.T) {
	setupTestDB(t)
	f := seedMatch(t, 2, 1)

	err := SubmitRanking(f.matchID, "", []string{f.memberIDs[0]})
	assert.ErrorIs(t, err, ErrUnidentifiedVoter)

	err = SubmitRanking(f.matchID, "anon-abc123xyz", nil)
	assert.ErrorIs(t, err, ErrEmptyRanking)

	err = SubmitRanking(f.matchID, "anon-abc123xyz", []string{"guest-99999"})
	assert.ErrorIs(t, err, ErrUnknownCandidate)

	err = SubmitRanking(f.matchID, "anon-abc123xyz", []string{f.memberIDs[0], f.memberIDs[0]})
	assert.ErrorIs(t, err, ErrDuplicateTarget)

	err = SubmitRanking(f.matchID+1000, "anon-abc123xyz", []string{f.memberIDs[0]})
	assert.ErrorIs(t, err, match.ErrMatchNotFound)

	// 全部被拒绝的提交不留下任何痕迹
	var ballotCount, voteCount int64
	database.DB.Model(&Ballot{}).Count(&ballotCount)
	database.DB.Model(&Vote{}).Count(&voteCount)
	assert.Zero(t, ballotCount)
	assert.Zero(t, voteCount)
}

func TestSubmitRankingPersistsRatings(t *testing.T) {
	setupTestDB(t)
	f := seedMatch(t, 2, 1)

	ranking := []string{f.guestIDs[0], f.memberIDs[1], f.memberIDs[0]}
	require.NoError(t, SubmitRanking(f.matchID, "anon-abc123xyz", ranking))

	votes, err := GetVotesForMatch(f.matchID)
	require.NoError(t, err)
	require.Len(t, votes, 3)

	// 名次按 max(1, 10-i) 换算，入库顺序与排名顺序一致
	assert.Equal(t, f.guestIDs[0], votes[0].TargetID)
	assert.Equal(t, 10, votes[0].Rating)
	assert.Equal(t, f.memberIDs[1], votes[1].TargetID)
	assert.Equal(t, 9, votes[1].Rating)
	assert.Equal(t, f.memberIDs[0], votes[2].TargetID)
	assert.Equal(t, 8, votes[2].Rating)

	for _, v := range votes {
		assert.Equal(t, "anon-abc123xyz", v.VoterID)
		assert.Equal(t, f.matchID, v.MatchID)
	}
}

func TestSubmitRankingAllowsPartialRanking(t *testing.T) {
	setupTestDB(t)
	f := seedMatch(t, 3, 0)

	// 只排出一部分候选人也是合法提交
	require.NoError(t, SubmitRanking(f.matchID, "anon-abc123xyz", []string{f.memberIDs[2]}))

	votes, err := GetVotesForMatch(f.matchID)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, 10, votes[0].Rating)
}

func TestSubmitRankingRejectsSecondBallot(t *testing.T) {
	setupTestDB(t)
	f := seedMatch(t, 2, 0)

	require.NoError(t, SubmitRanking(f.matchID, "anon-abc123xyz", []string{f.memberIDs[0]}))

	err := SubmitRanking(f.matchID, "anon-abc123xyz", []string{f.memberIDs[1]})
	assert.ErrorIs(t, err, ErrDuplicateVote)

	// 被拒绝的提交不产生任何新的计分记录
	votes, err := GetVotesForMatch(f.matchID)
	require.NoError(t, err)
	assert.Len(t, votes, 1)

	voted, err := HasVoted(f.matchID, "anon-abc123xyz")
	require.NoError(t, err)
	assert.True(t, voted)
}

func TestSubmitRankingIsPerMatch(t *testing.T) {
	setupTestDB(t)
	f1 := seedMatch(t, 1, 0)
	f2 := seedMatch(t, 1, 0)

	// 同一个投票者可以在不同比赛各投一次
	require.NoError(t, SubmitRanking(f1.matchID, "anon-abc123xyz", []string{f1.memberIDs[0]}))
	require.NoError(t, SubmitRanking(f2.matchID, "anon-abc123xyz", []string{f2.memberIDs[0]}))

	voted, err := HasVoted(f2.matchID, "anon-abc123xyz")
	require.NoError(t, err)
	assert.True(t, voted)
}

func TestSubmitRankingSelfVote(t *testing.T) {
	setupTestDB(t)
	f := seedMatch(t, 2, 0)

	// 会员给自己投票是允许的
	require.NoError(t, SubmitRanking(f.matchID, f.memberIDs[0], []string{f.memberIDs[0], f.memberIDs[1]}))

	votes, err := GetVotesForMatch(f.matchID)
	require.NoError(t, err)
	require.Len(t, votes, 2)
	assert.Equal(t, f.memberIDs[0], votes[0].VoterID)
	assert.Equal(t, f.memberIDs[0], votes[0].TargetID)
}

func TestPurgeMatchRemovesAllBallotData(t *testing.T) {
	setupTestDB(t)
	f := seedMatch(t, 2, 1)

	require.NoError(t, SubmitRanking(f.matchID, "anon-abc123xyz", []string{f.memberIDs[0], f.guestIDs[0]}))
	require.NoError(t, SubmitRanking(f.matchID, "anon-def456uvw", []string{f.guestIDs[0]}))

	require.NoError(t, database.DB.Transaction(func(tx *gorm.DB) error {
		return PurgeMatch(tx, f.matchID)
	}))

	var ballotCount, voteCount int64
	database.DB.Model(&Ballot{}).Where("match_id = ?", f.matchID).Count(&ballotCount)
	database.DB.Model(&Vote{}).Where("match_id = ?", f.matchID).Count(&voteCount)
	assert.Zero(t, ballotCount)
	assert.Zero(t, voteCount)
}
