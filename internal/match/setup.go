package match

import (
	"fmt"

	"github.com/five-manager/five-mvp-backend/internal/platform/database"
)

// PrimeDB 负责自动迁移match模块的表结构
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Match{}, &LineupEntry{}); err != nil {
		return fmt.Errorf("无法迁移match相关表: %w", err)
	}
	fmt.Println("Match数据库表迁移成功。")
	return nil
}
