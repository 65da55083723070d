package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Manager 向各个后台服务分发生命周期句柄，并在停机时统一收口。
// 本服务里优雅阶段和强制阶段各持有一个Manager实例。
type Manager struct {
	mu      sync.Mutex
	wg      sync.WaitGroup
	pending map[string]struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager 创建一个生命周期管理器。
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		pending: make(map[string]struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// NewServiceHandle 登记一个后台服务并返回它的生命周期句柄。
// 服务名用于停机超时后指认还没退出的服务，不允许重复。
func (m *Manager) NewServiceHandle(name string) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pending[name]; exists {
		return nil, fmt.Errorf("生命周期管理器: 服务 '%s' 已被注册", name)
	}
	m.pending[name] = struct{}{}
	m.wg.Add(1)
	fmt.Printf("生命周期管理器: 服务 [%s] 已注册。\n", name)

	return &Handle{
		ctx: m.ctx,
		release: func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.pending, name)
			m.wg.Done()
		},
	}, nil
}

// Shutdown 向所有持有句柄的服务广播停机信号。
func (m *Manager) Shutdown() {
	fmt.Println("生命周期管理器: 广播停机信号...")
	m.cancel()
}

// WaitWithTimeout 等待所有已登记的服务退出。
// 超时后返回仍在运行的服务名，供停机协调器打印和升级处理。
func (m *Manager) WaitWithTimeout(timeout time.Duration) []string {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		m.mu.Lock()
		defer m.mu.Unlock()
		remaining := make([]string, 0, len(m.pending))
		for name := range m.pending {
			remaining = append(remaining, name)
		}
		return remaining
	}
}
