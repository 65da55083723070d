package database

import (
	"context"
	"fmt"

	"github.com/five-manager/five-mvp-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// RDB 是全局的Redis客户端。
// Redis在本服务中承担会话查询、已投票快速路径、IP频率限制和分享摘要缓存，
// 权威数据始终在主数据库里。
var RDB *redis.Client

// Ctx 是Redis操作使用的全局上下文
var Ctx = context.Background()

// InitRedis 按配置建立Redis连接并确认其可达。
// 启动阶段连不上直接panic：虽然运行期允许Redis掉线降级，
// 但启动时就不可达通常意味着配置写错了。
func InitRedis(cfg config.RedisConfig) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := RDB.Ping(Ctx).Err(); err != nil {
		panic(fmt.Sprintf("无法连接到Redis (%s): %v", cfg.Address, err))
	}

	fmt.Printf("Redis连接成功 (%s, db=%d)。\n", cfg.Address, cfg.DB)
}
