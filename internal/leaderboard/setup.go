package leaderboard

import (
	"github.com/five-manager/five-mvp-backend/internal/match"
	"gorm.io/gorm"
)

// Prime 向match模块注册级联清理：比赛被删除时一并丢弃其分享摘要缓存。
func Prime() {
	match.RegisterCascade(func(tx *gorm.DB, matchID uint) error {
		InvalidateSummary(matchID)
		return nil
	})
}
