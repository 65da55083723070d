package profile

import (
	"errors"
	"fmt"

	"github.com/five-manager/five-mvp-backend/internal/platform/database"
	"gorm.io/gorm"
)

// GetByID 查询单个会员资料，未找到时返回nil而不是错误。
func GetByID(id string) (*Profile, error) {
	var p Profile
	err := database.DB.Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询会员资料失败: %w", err)
	}
	return &p, nil
}

// GetByIDs 批量查询会员资料，返回以账号UUID为键的映射。
// 名单解析需要在一次查询中取回全部上场会员的展示名。
func GetByIDs(ids []string) (map[string]Profile, error) {
	result := make(map[string]Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var profiles []Profile
	if err := database.DB.Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("批量查询会员资料失败: %w", err)
	}
	for _, p := range profiles {
		result[p.ID] = p
	}
	return result, nil
}
