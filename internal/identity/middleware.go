package identity

import (
	"fmt"

	"github.com/five-manager/five-mvp-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

const (
	// CookieName 是匿名投票者身份cookie的名字
	CookieName = "voter-id"
	// CookieMaxAge 是匿名身份cookie的有效期（一年）
	CookieMaxAge = 365 * 24 * 60 * 60
	// VoterIDKey 是投票者标识在Gin上下文中的键
	VoterIDKey = "voterID"
)

// EnsureVoterCookieMiddleware 确保匿名访问者的浏览器中有一个签名正确的voter-id cookie。
// 已登录会员不需要匿名身份；cookie缺失或签名不合法时会铸造一个新的。
func EnsureVoterCookieMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 会员凭会话识别，跳过匿名身份分发
		if _, ok := resolveMemberID(c); ok {
			c.Next()
			return
		}

		cookieValue, err := c.Cookie(CookieName)
		if err == nil {
			if _, ok := token.ParseSignedToken(cookieValue); ok {
				c.Next()
				return
			}
			fmt.Printf("检测到无效的投票者Cookie: %s\n", cookieValue)
		}

		// 分发一个新的签名匿名身份
		_, signed, err := token.NewSignedAnonymousToken()
		if err != nil {
			fmt.Printf("铸造匿名投票者身份时发生错误: %v\n", err)
		} else {
			c.SetCookie(CookieName, signed, CookieMaxAge, "/", "", false, true)
		}

		c.Next()
	}
}

// LoadVoterMiddleware 解析当前请求的投票者身份并放入Gin上下文。
// 解析永不失败：没有会话也没有合法cookie时，就地铸造一个新的匿名身份，
// 保证每个提交请求都带有非空的投票者标识。
func LoadVoterMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 优先使用会员会话
		if memberID, ok := resolveMemberID(c); ok {
			c.Set(VoterIDKey, memberID)
			c.Next()
			return
		}

		// 2. 其次使用签名合法的匿名cookie
		if cookieValue, err := c.Cookie(CookieName); err == nil {
			if anonID, ok := token.ParseSignedToken(cookieValue); ok {
				c.Set(VoterIDKey, anonID)
				c.Next()
				return
			}
		}

		// 3. 两者都没有，就地铸造新的匿名身份
		anonID, signed, err := token.NewSignedAnonymousToken()
		if err != nil {
			// 极端情况（随机源不可用），让下游以"身份未识别"拒绝
			fmt.Printf("铸造匿名投票者身份时发生错误: %v\n", err)
			c.Next()
			return
		}
		c.SetCookie(CookieName, signed, CookieMaxAge, "/", "", false, true)
		c.Set(VoterIDKey, anonID)
		c.Next()
	}
}

// CurrentVoterID 从Gin上下文中取出已解析的投票者标识。
// 未经过LoadVoterMiddleware时返回空字符串。
func CurrentVoterID(c *gin.Context) string {
	return c.GetString(VoterIDKey)
}
