package profile

import (
	"time"

	"gorm.io/gorm"
)

// Profile 定义了注册会员在数据库中的持久化模型。
// 账号的创建与登录由外部认证服务负责，本服务只消费其结果。
type Profile struct {
	// ID 是会员的主键，来自认证服务分配的账号UUID。
	ID string `gorm:"primarykey;type:varchar(36)"`

	// Username 是会员的展示名。
	Username string

	// AvatarURL 是头像地址，可以为空。
	AvatarURL string

	// 部分gorm.Model，由GORM自动管理
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
