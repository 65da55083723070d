package lifecycle

import (
	"context"
	"sync"
	"time"
)

// Handle 是单个后台服务拿到的生命周期句柄。
// 服务通过它感知停机信号，并在退出前回报管理器。
type Handle struct {
	ctx       context.Context
	release   func()
	closeOnce sync.Once
}

// Close 向管理器回报本服务已经退出。
// 应当在服务Goroutine里defer调用；重复调用是安全的。
func (h *Handle) Close() {
	h.closeOnce.Do(h.release)
}

// Ctx 返回句柄绑定的上下文，可直接传给阻塞操作。
func (h *Handle) Ctx() context.Context {
	return h.ctx
}

// Done 返回停机信号channel，管理器广播停机时关闭。
func (h *Handle) Done() <-chan struct{} {
	return h.ctx.Done()
}

// Err 在Done()关闭后返回取消原因。
func (h *Handle) Err() error {
	return h.ctx.Err()
}

// Sleep 休眠指定时长，期间收到停机信号则提前返回错误。
// 后台循环应当用它代替time.Sleep，否则停机要等满一个周期。
func (h *Handle) Sleep(duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-h.Done():
		return h.Err()
	case <-timer.C:
		return nil
	}
}
