package leaderboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/five-manager/five-mvp-backend/internal/platform/database"
	"github.com/redis/go-redis/v9"
)

const (
	// shareCacheKeyPrefix 是分享摘要在Redis中的键名前缀
	shareCacheKeyPrefix = "share:summary:"
	// shareCacheTTL 是分享摘要缓存的生存时间。
	// 分享页允许短暂滞后，TTL过期后自然回源重算。
	shareCacheTTL = time.Minute
)

func shareCacheKey(matchID uint) string {
	return fmt.Sprintf("%s%d", shareCacheKeyPrefix, matchID)
}

// getCachedSummary 尝试从Redis读取分享摘要缓存。
// Redis不可用或缓存未命中时返回ok为false，由调用方回源。
func getCachedSummary(matchID uint) (*ShareSummary, bool) {
	if !database.IsRedisHealthy() {
		return nil, false
	}

	raw, err := database.RDB.Get(database.Ctx, shareCacheKey(matchID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			fmt.Printf("警告: 读取分享摘要缓存失败 (比赛 %d): %v\n", matchID, err)
		}
		return nil, false
	}

	var summary ShareSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		fmt.Printf("警告: 解析分享摘要缓存失败 (比赛 %d): %v\n", matchID, err)
		return nil, false
	}
	return &summary, true
}

// setCachedSummary 尽力把分享摘要写入Redis，失败只打印警告。
func setCachedSummary(matchID uint, summary *ShareSummary) {
	if !database.IsRedisHealthy() {
		return
	}

	raw, err := json.Marshal(summary)
	if err != nil {
		fmt.Printf("警告: 序列化分享摘要失败 (比赛 %d): %v\n", matchID, err)
		return
	}
	if err := database.RDB.Set(database.Ctx, shareCacheKey(matchID), raw, shareCacheTTL).Err(); err != nil {
		fmt.Printf("警告: 写入分享摘要缓存失败 (比赛 %d): %v\n", matchID, err)
	}
}

// InvalidateSummary 在比赛数据发生变化后删除其分享摘要缓存。
func InvalidateSummary(matchID uint) {
	if !database.IsRedisHealthy() {
		return
	}
	if err := database.RDB.Del(database.Ctx, shareCacheKey(matchID)).Err(); err != nil {
		fmt.Printf("警告: 清理分享摘要缓存失败 (比赛 %d): %v\n", matchID, err)
	}
}
