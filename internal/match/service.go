package match

import (
	"errors"
	"fmt"
	"time"

	"github.com/five-manager/five-mvp-backend/internal/platform/database"
	"github.com/five-manager/five-mvp-backend/pkg/token"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrMatchNotFound 表示目标比赛不存在（或已被删除）
	ErrMatchNotFound = errors.New("找不到指定的比赛")
	// ErrNotCreator 表示操作者不是比赛的创建者
	ErrNotCreator = errors.New("只有比赛创建者可以执行此操作")
	// ErrMemberRequired 表示该操作需要登录的会员身份，匿名投票者不可用
	ErrMemberRequired = errors.New("该操作需要登录的会员身份")
	// ErrEntryNotFound 表示目标名单记录不存在
	ErrEntryNotFound = errors.New("找不到指定的名单记录")
)

// CascadeFunc 是比赛被删除时需要级联清理的回调。
// 它在删除比赛的同一个事务中执行，任何一个失败都会使整个删除回滚。
type CascadeFunc func(tx *gorm.DB, matchID uint) error

// cascades 由其他模块（如vote）在初始化时注册。
// 注册发生在启动阶段的单goroutine环境中，运行期只读，无需加锁。
var cascades []CascadeFunc

// RegisterCascade 注册一个比赛删除时的级联清理回调。
func RegisterCascade(fn CascadeFunc) {
	cascades = append(cascades, fn)
}

// requireMember 确认一个投票者标识是登录会员而不是匿名身份。
func requireMember(requesterID string) error {
	if requesterID == "" || token.IsAnonymousID(requesterID) {
		return ErrMemberRequired
	}
	return nil
}

// CreateMatch 创建一场新比赛，创建者自动成为比赛管理员。
// 邀请令牌使用UUID v7，不可猜测且大致按时间有序。
func CreateMatch(creatorID string, date time.Time, location string) (*Match, error) {
	if err := requireMember(creatorID); err != nil {
		return nil, err
	}

	joinToken, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成邀请令牌: %w", err)
	}

	m := Match{
		Date:      date,
		Location:  location,
		Status:    StatusScheduled,
		CreatedBy: creatorID,
		JoinToken: joinToken.String(),
	}
	if err := database.DB.Create(&m).Error; err != nil {
		return nil, fmt.Errorf("无法创建比赛: %w", err)
	}
	return &m, nil
}

// GetMatchByID 查询单场比赛。
func GetMatchByID(id uint) (*Match, error) {
	var m Match
	err := database.DB.First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询比赛失败: %w", err)
	}
	return &m, nil
}

// GetMatchByToken 通过邀请令牌查询比赛。
func GetMatchByToken(joinToken string) (*Match, error) {
	var m Match
	err := database.DB.Where("join_token = ?", joinToken).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询比赛失败: %w", err)
	}
	return &m, nil
}

// GetLineup 返回一场比赛的全部名单记录，按加入顺序排列。
func GetLineup(matchID uint) ([]LineupEntry, error) {
	var entries []LineupEntry
	err := database.DB.Where("match_id = ?", matchID).Order("id asc").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("查询比赛名单失败: %w", err)
	}
	return entries, nil
}

// SetScore 更新比分并把比赛标记为已结束。仅创建者可操作。
func SetScore(matchID uint, requesterID string, scoreA, scoreB int) error {
	m, err := GetMatchByID(matchID)
	if err != nil {
		return err
	}
	if m.CreatedBy != requesterID {
		return ErrNotCreator
	}

	updates := map[string]interface{}{
		"score_team_a": scoreA,
		"score_team_b": scoreB,
		"status":       StatusFinished,
	}
	if err := database.DB.Model(&Match{}).Where("id = ?", matchID).Updates(updates).Error; err != nil {
		return fmt.Errorf("更新比分失败: %w", err)
	}
	return nil
}

// AddGuest 向名单中加入一名散客。仅创建者可操作。
func AddGuest(matchID uint, requesterID, guestName, team string) (*LineupEntry, error) {
	m, err := GetMatchByID(matchID)
	if err != nil {
		return nil, err
	}
	if m.CreatedBy != requesterID {
		return nil, ErrNotCreator
	}

	entry := LineupEntry{
		MatchID:   matchID,
		Team:      team,
		GuestName: &guestName,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("无法添加散客: %w", err)
	}
	return &entry, nil
}

// AddMember 把一名会员放进指定队伍。
// 与原型行为一致：先移除该会员在本场的旧记录，再插入新记录，因此也用于换队。
func AddMember(matchID uint, userID, team string) (*LineupEntry, error) {
	if err := requireMember(userID); err != nil {
		return nil, err
	}
	if _, err := GetMatchByID(matchID); err != nil {
		return nil, err
	}

	var entry LineupEntry
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("match_id = ? AND user_id = ?", matchID, userID).Delete(&LineupEntry{}).Error; err != nil {
			return err
		}
		entry = LineupEntry{
			MatchID: matchID,
			Team:    team,
			UserID:  &userID,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, fmt.Errorf("无法更新名单: %w", err)
	}
	return &entry, nil
}

// RemoveEntry 从名单中移除一条记录。创建者可以移除任何人，会员可以移除自己。
func RemoveEntry(entryID uint, requesterID string) error {
	var entry LineupEntry
	err := database.DB.First(&entry, entryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEntryNotFound
	}
	if err != nil {
		return fmt.Errorf("查询名单记录失败: %w", err)
	}

	m, err := GetMatchByID(entry.MatchID)
	if err != nil {
		return err
	}
	isSelf := entry.UserID != nil && *entry.UserID == requesterID
	if m.CreatedBy != requesterID && !isSelf {
		return ErrNotCreator
	}

	if err := database.DB.Delete(&entry).Error; err != nil {
		return fmt.Errorf("移除名单记录失败: %w", err)
	}
	return nil
}

// JoinByToken 凭邀请令牌加入比赛。
// 已在名单中的会员直接视为成功；新加入者默认进入A队，之后可以自行换队。
func JoinByToken(joinToken, userID string) (*Match, error) {
	if err := requireMember(userID); err != nil {
		return nil, err
	}

	m, err := GetMatchByToken(joinToken)
	if err != nil {
		return nil, err
	}

	// 先查重，避免重复加入
	var existing LineupEntry
	err = database.DB.Where("match_id = ? AND user_id = ?", m.ID, userID).First(&existing).Error
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询名单失败: %w", err)
	}

	entry := LineupEntry{
		MatchID: m.ID,
		Team:    TeamA,
		UserID:  &userID,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("加入比赛失败: %w", err)
	}
	return m, nil
}

// DeleteMatch 删除一场比赛及其全部关联数据。仅创建者可操作。
// 名单与各模块注册的级联数据（选票等）在同一个事务中清理，要么全删要么不删。
func DeleteMatch(matchID uint, requesterID string) error {
	m, err := GetMatchByID(matchID)
	if err != nil {
		return err
	}
	if m.CreatedBy != requesterID {
		return ErrNotCreator
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		// 1. 先执行其他模块注册的级联清理
		for _, fn := range cascades {
			if err := fn(tx, matchID); err != nil {
				return err
			}
		}

		// 2. 清理名单
		if err := tx.Where("match_id = ?", matchID).Delete(&LineupEntry{}).Error; err != nil {
			return err
		}

		// 3. 最后删除比赛本身
		return tx.Delete(&Match{}, matchID).Error
	})
}
