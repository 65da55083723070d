package database

import (
	"fmt"
	"sync"
)

// redisStatus 集中维护Redis的健康判定结果。
// 写入方只有健康检查器，读取方是各个带快速路径的业务模块，
// 所以用读写锁而不是互斥锁。
type redisStatus struct {
	mu             sync.RWMutex
	healthy        bool
	lastKnownRunID string
}

// 启动流程会先Ping通Redis才走到这里，初始值按健康处理
var status = &redisStatus{healthy: true}

// IsRedisHealthy 返回Redis当前是否可用。
// 返回false时调用方必须跳过快速路径，直接走主数据库。
func IsRedisHealthy() bool {
	status.mu.RLock()
	defer status.mu.RUnlock()
	return status.healthy
}

// SetInitialRunID 记录启动时读到的Redis run_id，作为重启检测的基准。
func SetInitialRunID(runID string) {
	status.mu.Lock()
	defer status.mu.Unlock()
	status.lastKnownRunID = runID
}

// UpdateStatus 由健康检查器调用，刷新健康状态。
// run_id只在健康时跟进，不健康期间保留旧值等待恢复比对。
func UpdateStatus(isHealthy bool, newRunID string) {
	status.mu.Lock()
	defer status.mu.Unlock()

	if status.healthy != isHealthy {
		status.healthy = isHealthy
		if isHealthy {
			fmt.Println("健康检查: Redis已恢复，快速路径重新开启。")
		} else {
			fmt.Println("健康检查警告: Redis不可用，降级为仅主数据库模式。")
		}
	}

	if isHealthy {
		status.lastKnownRunID = newRunID
	}
}

// GetLastKnownRunID 返回最近一次确认健康时的run_id。
func GetLastKnownRunID() string {
	status.mu.RLock()
	defer status.mu.RUnlock()
	return status.lastKnownRunID
}
