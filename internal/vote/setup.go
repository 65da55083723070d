package vote

import (
	"fmt"

	"github.com/five-manager/five-mvp-backend/internal/match"
	"github.com/five-manager/five-mvp-backend/internal/platform/database"
	"gorm.io/gorm"
)

// PrimeDB 迁移选票相关的表结构，并向match模块注册级联清理。
// 注册发生在这里而不是match模块里，避免反向依赖。
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Ballot{}, &Vote{}); err != nil {
		return fmt.Errorf("无法迁移选票数据库表: %w", err)
	}

	match.RegisterCascade(func(tx *gorm.DB, matchID uint) error {
		if err := PurgeMatch(tx, matchID); err != nil {
			return err
		}
		RemoveVotedCached(matchID)
		return nil
	})

	return nil
}

// PrimeCachedDB 完成选票模块的全部初始化：表迁移加缓存预热。
func PrimeCachedDB() error {
	if err := PrimeDB(); err != nil {
		return err
	}
	if err := WarmupVotedCache(); err != nil {
		return fmt.Errorf("无法预热已投票缓存: %w", err)
	}
	return nil
}
