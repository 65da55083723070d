package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/five-manager/five-mvp-backend/api"
	"github.com/five-manager/five-mvp-backend/internal/platform/config"
	"github.com/five-manager/five-mvp-backend/internal/platform/database"
	"github.com/five-manager/five-mvp-backend/internal/platform/health"
	"github.com/five-manager/five-mvp-backend/internal/platform/shutdown"
	"github.com/five-manager/five-mvp-backend/internal/platform/startup"
	"github.com/five-manager/five-mvp-backend/pkg/lifecycle"
	"github.com/five-manager/five-mvp-backend/pkg/token"
	"github.com/joho/godotenv"
)

func main() {
	// .env仅用于本地开发，不存在时忽略
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("无法加载配置: %v", err))
	}

	token.InitSecretKey(cfg.Server.Secret)
	database.InitDB(cfg.Database)
	database.InitRedis(cfg.Database.Redis)

	// 1. 阻塞式获取初始Run ID
	health.InitializeRunID()

	// 2. 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 3. 阻塞式执行一次启动后健康检查
	fmt.Println("正在执行启动后健康检查...")
	health.PerformCheck()

	// 4. 创建生命周期管理器，异步启动后台的持续健康检查器
	gracefulMgr := lifecycle.NewManager()
	forcefulMgr := lifecycle.NewManager()

	healthHandle, err := gracefulMgr.NewServiceHandle("redis-health-checker")
	if err != nil {
		panic(fmt.Sprintf("无法注册健康检查服务: %v", err))
	}
	go health.StartRedisHealthCheck(healthHandle)

	// 5. 组装路由并启动HTTP服务器
	r := api.NewRouter(cfg)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic("服务器启动失败: " + err.Error())
		}
	}()

	// 6. 阻塞等待停机信号
	coordinator := shutdown.NewCoordinator(gracefulMgr, forcefulMgr)
	coordinator.ListenForSignalsAndShutdown(server)
}
