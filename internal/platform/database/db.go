package database

import (
	"fmt"
	"log"
	"os"

	"github.com/five-manager/five-mvp-backend/internal/platform/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的GORM实例，供项目其他部分使用
var DB *gorm.DB

// InitDB 根据配置初始化主数据库连接
// 支持sqlite（默认）和postgres两种驱动
func InitDB(cfg config.DatabaseConfig) {
	var err error

	// GORM日志配置
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent, // 在生产环境中可以设为Silent
			Colorful:      true,
		},
	)

	// TranslateError必须开启：
	// 唯一索引冲突需要被统一转换为gorm.ErrDuplicatedKey，
	// 它是"同一投票者重复提交"判定的唯一权威信号
	gormConfig := &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	}

	switch cfg.Driver {
	case "postgres":
		DB, err = gorm.Open(postgres.Open(cfg.Postgres.DSN), gormConfig)
	default:
		DB, err = gorm.Open(sqlite.Open(cfg.Sqlite.Path), gormConfig)
	}

	if err != nil {
		fmt.Println("连接数据库失败", err)
		panic(err)
	}

	fmt.Println("数据库连接成功！")
}
