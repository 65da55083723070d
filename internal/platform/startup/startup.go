package startup

import (
	"fmt"

	"github.com/five-manager/five-mvp-backend/internal/leaderboard"
	"github.com/five-manager/five-mvp-backend/internal/match"
	"github.com/five-manager/five-mvp-backend/internal/profile"
	"github.com/five-manager/five-mvp-backend/internal/vote"
)

// InitializeApplication 是应用首次启动时执行的总入口
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := profile.PrimeDB(); err != nil {
		return err
	}
	if err := match.PrimeDB(); err != nil {
		return err
	}
	if err := vote.PrimeCachedDB(); err != nil {
		return err
	}
	leaderboard.Prime()

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 是一个专门用于在运行时热重建Redis缓存的函数。
// Redis重启后其中的快速路径数据全部丢失，需要从权威数据库恢复。
func RebuildCache() error {
	fmt.Println("开始缓存热重建...")

	if err := vote.WarmupVotedCache(); err != nil {
		return err
	}

	fmt.Println("缓存热重建完成。")
	return nil
}
