package vote

import (
	"fmt"

	"github.com/five-manager/five-mvp-backend/internal/platform/database"
)

// votedSetKeyPrefix 是Redis中"已投票者"集合的键名前缀，每场比赛一个SET
const votedSetKeyPrefix = "vote:voted:"

func votedSetKey(matchID uint) string {
	return fmt.Sprintf("%s%d", votedSetKeyPrefix, matchID)
}

// HasVotedCached 查询Redis集合判断某投票者是否已为某场比赛投过票。
// 这是快速路径，不是权威：缓存缺失时返回false，由数据库唯一索引兜底。
func HasVotedCached(matchID uint, voterID string) (bool, error) {
	return database.RDB.SIsMember(database.Ctx, votedSetKey(matchID), voterID).Result()
}

// MarkVotedCached 在选票入库成功后，尽力把投票者加入已投票集合。
// 失败只打印警告，不影响主流程。
func MarkVotedCached(matchID uint, voterID string) {
	if !database.IsRedisHealthy() {
		return
	}
	if err := database.RDB.SAdd(database.Ctx, votedSetKey(matchID), voterID).Err(); err != nil {
		fmt.Printf("警告: 更新已投票缓存失败 (比赛 %d): %v\n", matchID, err)
	}
}

// RemoveVotedCached 在比赛被删除后清理其已投票集合。
func RemoveVotedCached(matchID uint) {
	if !database.IsRedisHealthy() {
		return
	}
	if err := database.RDB.Del(database.Ctx, votedSetKey(matchID)).Err(); err != nil {
		fmt.Printf("警告: 清理已投票缓存失败 (比赛 %d): %v\n", matchID, err)
	}
}

// WarmupVotedCache 从数据库重建所有比赛的已投票集合。
// 在应用启动和Redis故障恢复后调用，保证快速路径与权威数据一致。
func WarmupVotedCache() error {
	fmt.Println("正在从数据库重建已投票缓存...")

	var ballots []Ballot
	if err := database.DB.Select("match_id", "voter_id").Find(&ballots).Error; err != nil {
		return fmt.Errorf("无法从数据库读取选票批次: %w", err)
	}

	// 1. 按比赛分组，减少Pipeline调用次数
	grouped := make(map[uint][]interface{})
	for _, ballot := range ballots {
		grouped[ballot.MatchID] = append(grouped[ballot.MatchID], ballot.VoterID)
	}

	// 2. 批量写回Redis
	pipe := database.RDB.Pipeline()
	for matchID, voters := range grouped {
		pipe.Del(database.Ctx, votedSetKey(matchID))
		pipe.SAdd(database.Ctx, votedSetKey(matchID), voters...)
	}
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("批量写回已投票缓存失败: %w", err)
	}

	fmt.Printf("已投票缓存：成功恢复了 %d 场比赛的数据。\n", len(grouped))
	return nil
}
