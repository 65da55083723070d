package roster

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
	require.NoError(t, db.AutoMigrate(&profile.Profile{}, &match.Match{}, &match.LineupEntry{}))

	database.DB = db
	database.UpdateStatus(false, "")
}

func TestCandidateIDString(t *testing.T) {
	assert.Equal(t, "uuid-1", MemberID("uuid-1").String())
	assert.Equal(t, "guest-42", GuestID(42).String())
}

func TestResolveRosterMergesMembersAndGuests(t *testing.T) {
	setupTestDB(t)

	m := match.Match{Location: "测试球场", Status: match.StatusScheduled, CreatedBy: "creator", JoinToken: "token-1"}
	require.NoError(t, database.DB.Create(&m).Error)

	memberID := "00000000-0000-7000-8000-000000000001"
	require.NoError(t, database.DB.Create(&profile.Profile{ID: memberID, Username: "阿明"}).Error)
	memberEntry := match.LineupEntry{MatchID: m.ID, Team: match.TeamA, UserID: &memberID}
	require.NoError(t, database.DB.Create(&memberEntry).Error)

	guestName := "临时门将"
	guestEntry := match.LineupEntry{MatchID: m.ID, Team: match.TeamB, GuestName: &guestName}
	require.NoError(t, database.DB.Create(&guestEntry).Error)

	candidates, err := ResolveRoster(m.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	// 名单顺序与加入顺序一致
	assert.Equal(t, memberID, candidates[0].ID.String())
	assert.Equal(t, "阿明", candidates[0].DisplayName)
	assert.False(t, candidates[0].IsGuest)

	assert.Equal(t, fmt.Sprintf("guest-%d", guestEntry.ID), candidates[1].ID.String())
	assert.Equal(t, "临时门将", candidates[1].DisplayName)
	assert.True(t, candidates[1].IsGuest)
}

func TestResolveRosterFallbackNameForMissingProfile(t *testing.T) {
	setupTestDB(t)

	m := match.Match{Location: "测试球场", Status: match.StatusScheduled, CreatedBy: "creator", JoinToken: "token-2"}
	require.NoError(t, database.DB.Create(&m).Error)

	// 名单引用了一个没有资料记录的账号
	orphanID := "00000000-0000-7000-8000-00000000dead"
	entry := match.LineupEntry{MatchID: m.ID, Team: match.TeamA, UserID: &orphanID}
	require.NoError(t, database.DB.Create(&entry).Error)

	candidates, err := ResolveRoster(m.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, unknownMemberName, candidates[0].DisplayName)
}

func TestResolveRosterEmptyLineup(t *testing.T) {
	setupTestDB(t)

	m := match.Match{Location: "测试球场", Status: match.StatusScheduled, CreatedBy: "creator", JoinToken: "token-3"}
	require.NoError(t, database.DB.Create(&m).Error)

	candidates, err := ResolveRoster(m.ID)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestResolveRosterMatchNotFound(t *testing.T) {
	setupTestDB(t)

	_, err := ResolveRoster(404)
	assert.ErrorIs(t, err, match.ErrMatchNotFound)
}

func TestResolveRosterGuestIDsAreStable(t *testing.T) {
	setupTestDB(t)

	m := match.Match{Location: "测试球场", Status: match.StatusScheduled, CreatedBy: "creator", JoinToken: "token-4"}
	require.NoError(t, database.DB.Create(&m).Error)

	guestName := "散客"
	entry := match.LineupEntry{MatchID: m.ID, Team: match.TeamA, GuestName: &guestName}
	require.NoError(t, database.DB.Create(&entry).Error)

	first, err := ResolveRoster(m.ID)
	require.NoError(t, err)
	second, err := ResolveRoster(m.ID)
	require.NoError(t, err)

	// 散客标识派生自名单记录ID，多次解析保持不变
	assert.Equal(t, first[0].ID.String(), second[0].ID.String())
}
