package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// secretKey 是一个全局变量，用于存储服务器的32字节HMAC密钥。
var secretKey []byte

// AnonymousIDPrefix 是匿名投票者标识的固定前缀，
// 用于和注册会员的UUID在视觉与解析上彻底区分开。
const AnonymousIDPrefix = "anon-"

// anonymousIDLength 是前缀后随机部分的长度（base36字符数）。
const anonymousIDLength = 9

// base36Alphabet 是随机部分的字符表。
const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// InitSecretKey 初始化签名密钥。
// 配置了secret时从其派生出稳定的32字节密钥，保证匿名身份跨重启有效；
// 否则退回为每次启动随机生成（仅适合开发环境）。
func InitSecretKey(secret string) {
	if secret != "" {
		sum := sha256.Sum256([]byte(secret))
		secretKey = sum[:]
		fmt.Println("HMAC密钥已从配置派生。")
		return
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("无法生成安全的密钥: " + err.Error())
	}
	secretKey = key
	fmt.Println("警告: 未配置server.secret，HMAC密钥为本次启动随机生成，重启后旧的匿名身份将失效。")
}

// MintAnonymousID 生成一个新的匿名投票者标识，格式为 anon-<9位base36随机字符>。
func MintAnonymousID() (string, error) {
	buf := make([]byte, anonymousIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.New("无法生成匿名标识随机数")
	}
	var sb strings.Builder
	sb.WriteString(AnonymousIDPrefix)
	for _, b := range buf {
		sb.WriteByte(base36Alphabet[int(b)%len(base36Alphabet)])
	}
	return sb.String(), nil
}

// IsAnonymousID 判断一个投票者标识是否属于匿名命名空间。
func IsAnonymousID(id string) bool {
	return strings.HasPrefix(id, AnonymousIDPrefix) &&
		len(id) == len(AnonymousIDPrefix)+anonymousIDLength
}

// sign 计算一个标识的HMAC-SHA256签名，返回URL安全的Base64编码。
func sign(id string) string {
	mac := hmac.New(sha256.New, secretKey)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// NewSignedAnonymousToken 铸造一个新的匿名标识并附上服务端签名。
// 返回的cookie值形如 anon-xxxxxxxxx.<签名>，客户端只能原样保存，无法伪造。
func NewSignedAnonymousToken() (id string, cookieValue string, err error) {
	id, err = MintAnonymousID()
	if err != nil {
		return "", "", err
	}
	return id, id + "." + sign(id), nil
}

// ParseSignedToken 校验客户端送回的匿名cookie值。
// 只有签名验证通过时才返回其中的匿名标识。
func ParseSignedToken(cookieValue string) (string, bool) {
	// 1. 拆出标识与签名
	dot := strings.LastIndexByte(cookieValue, '.')
	if dot <= 0 || dot == len(cookieValue)-1 {
		return "", false
	}
	id, signatureB64 := cookieValue[:dot], cookieValue[dot+1:]

	// 2. 标识本身必须是合法的匿名格式
	if !IsAnonymousID(id) {
		return "", false
	}

	// 3. 重新计算预期签名并做时间恒定比较，防止时序攻击
	expected, err := base64.RawURLEncoding.DecodeString(sign(id))
	if err != nil {
		return "", false
	}
	actual, err := base64.RawURLEncoding.DecodeString(signatureB64)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(expected, actual) {
		return "", false
	}
	return id, true
}
