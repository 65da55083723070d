package vote

import (
	"errors"
	"fmt"

	"github.com/five-manager/five-mvp-backend/internal/platform/database"
	"github.com/five-manager/five-mvp-backend/internal/roster"
	"gorm.io/gorm"
)

var (
	// ErrEmptyRanking 表示提交的排名为空，没有可入库的内容
	ErrEmptyRanking = errors.New("排名列表为空")
	// ErrUnknownCandidate 表示排名中出现了不在本场名单上的候选人
	ErrUnknownCandidate = errors.New("排名中包含不在比赛名单上的候选人")
	// ErrDuplicateTarget 表示同一候选人在排名中出现了多次
	ErrDuplicateTarget = errors.New("排名中包含重复的候选人")
	// ErrUnidentifiedVoter 表示无法识别投票者身份。
	// 身份解析理论上永不失败（见identity模块），这里做防御性检查。
	ErrUnidentifiedVoter = errors.New("无法识别投票者身份")
	// ErrDuplicateVote 表示该投票者已经为这场比赛提交过排名
	ErrDuplicateVote = errors.New("该投票者已为本场比赛提交过排名")
	// ErrStorageUnavailable 表示存储层故障，调用方可提示稍后重试
	ErrStorageUnavailable = errors.New("存储服务暂时不可用")
)

// maxPoints 是第一名获得的分值
const maxPoints = 10

// minPoints 是任何名次保底获得的分值。
// 换算永不产出零分或负分，被排进名单就有正向积分。
const minPoints = 1

// PointsForPosition 把排名位置（0为最佳）换算为分值: max(1, 10-i)。
// 这是固定策略，不随请求配置。
func PointsForPosition(position int) int {
	points := maxPoints - position
	if points < minPoints {
		return minPoints
	}
	return points
}

// SubmitRanking 接收一位投票者对一场比赛的完整排名，折算分值后原子入库。
// 一份排名产出多条计分记录，要么全部提交要么全部失败；
// 同一 (比赛, 投票者) 的第二次提交由唯一索引拒绝并返回ErrDuplicateVote。
func SubmitRanking(matchID uint, voterID string, ranking []string) error {
	// 1. 校验在任何写入尝试之前完成
	if voterID == "" {
		return ErrUnidentifiedVoter
	}
	if len(ranking) == 0 {
		return ErrEmptyRanking
	}

	// 2. 解析当前名单，它是候选人资格的唯一权威
	candidates, err := roster.ResolveRoster(matchID)
	if err != nil {
		return err
	}
	eligible := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		eligible[candidate.ID.String()] = true
	}

	seen := make(map[string]bool, len(ranking))
	for _, targetID := range ranking {
		if !eligible[targetID] {
			return fmt.Errorf("%w: %s", ErrUnknownCandidate, targetID)
		}
		if seen[targetID] {
			return fmt.Errorf("%w: %s", ErrDuplicateTarget, targetID)
		}
		seen[targetID] = true
	}

	// 3. Redis快速路径：已知投过票的直接拒绝，省一次注定失败的写入。
	// 这只是加速，不是权威。权威永远是下面的唯一索引。
	if database.IsRedisHealthy() {
		voted, err := HasVotedCached(matchID, voterID)
		if err == nil && voted {
			return ErrDuplicateVote
		}
	}

	// 4. 在单个事务中创建选票批次和全部计分记录
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		ballot := Ballot{MatchID: matchID, VoterID: voterID}
		if err := tx.Create(&ballot).Error; err != nil {
			// 唯一索引冲突是重复投票的权威信号
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateVote
			}
			return err
		}

		votes := make([]Vote, len(ranking))
		for i, targetID := range ranking {
			votes[i] = Vote{
				BallotID: ballot.ID,
				MatchID:  matchID,
				VoterID:  voterID,
				TargetID: targetID,
				Rating:   PointsForPosition(i),
			}
		}
		return tx.Create(&votes).Error
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateVote) {
			return ErrDuplicateVote
		}
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	// 5. 提交成功后，尽力刷新Redis中的已投票缓存
	MarkVotedCached(matchID, voterID)

	return nil
}

// GetVotesForMatch 按入库顺序返回一场比赛的全部计分记录。
// 顺序稳定对均值MVP的"先出现者优先"决胜规则有意义。
func GetVotesForMatch(matchID uint) ([]Vote, error) {
	var votes []Vote
	err := database.DB.Where("match_id = ?", matchID).Order("id asc").Find(&votes).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return votes, nil
}

// HasVoted 查询存储层确认某投票者是否已为某场比赛提交过排名。
func HasVoted(matchID uint, voterID string) (bool, error) {
	var count int64
	err := database.DB.Model(&Ballot{}).
		Where("match_id = ? AND voter_id = ?", matchID, voterID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return count > 0, nil
}

// PurgeMatch 在删除整场比赛的事务中清理其全部选票数据。
// 由match模块的级联删除机制调用，这是计分记录唯一的删除路径。
func PurgeMatch(tx *gorm.DB, matchID uint) error {
	if err := tx.Where("match_id = ?", matchID).Delete(&Vote{}).Error; err != nil {
		return fmt.Errorf("清理计分记录失败: %w", err)
	}
	if err := tx.Where("match_id = ?", matchID).Delete(&Ballot{}).Error; err != nil {
		return fmt.Errorf("清理选票批次失败: %w", err)
	}
	return nil
}
