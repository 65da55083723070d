package profile

import (
	"fmt"

	"github.com/five-manager/five-mvp-backend/internal/platform/database"
)

// PrimeDB 负责自动迁移profile表结构
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Profile{}); err != nil {
		return fmt.Errorf("无法迁移profile表: %w", err)
	}
	fmt.Println("Profile数据库表迁移成功。")
	return nil
}
