package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/five-manager/five-mvp-backend/internal/platform/database"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionHeader 是前端携带会话令牌的请求头
	SessionHeader = "X-Session-Token"
	// SessionCookieName 是会话令牌的cookie名（与请求头二选一）
	SessionCookieName = "session-token"
	// sessionKeyPrefix 是会话在Redis中的键名前缀。
	// Value: 会员的账号UUID
	sessionKeyPrefix = "session:"
)

// resolveMemberID 尝试从当前请求的会话令牌解析出会员身份。
// 会话由外部认证服务写入Redis，本服务只做查询。
func resolveMemberID(c *gin.Context) (string, bool) {
	sessionToken := c.GetHeader(SessionHeader)
	if sessionToken == "" {
		sessionToken, _ = c.Cookie(SessionCookieName)
	}
	if sessionToken == "" {
		return "", false
	}

	// Redis不可用时无法确认会话，按匿名处理
	if !database.IsRedisHealthy() {
		return "", false
	}

	memberID, err := database.RDB.Get(database.Ctx, sessionKeyPrefix+sessionToken).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		fmt.Printf("查询会话时出错: %v\n", err)
		return "", false
	}
	return memberID, memberID != ""
}

// RegisterSession 把一个会话令牌与会员账号绑定并写入Redis。
// 正常部署中由认证服务调用（共享同一个Redis）；测试中也用它构造登录态。
func RegisterSession(sessionToken, memberID string, ttl time.Duration) error {
	if sessionToken == "" || memberID == "" {
		return errors.New("会话令牌和会员ID都不能为空")
	}
	if err := database.RDB.Set(database.Ctx, sessionKeyPrefix+sessionToken, memberID, ttl).Err(); err != nil {
		return fmt.Errorf("写入会话失败: %w", err)
	}
	return nil
}
