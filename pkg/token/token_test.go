package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	InitSecretKey("test-secret")
	m.Run()
}

func TestMintAnonymousIDFormat(t *testing.T) {
	id, err := MintAnonymousID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, AnonymousIDPrefix))
	assert.Len(t, id, len(AnonymousIDPrefix)+9)
	assert.True(t, IsAnonymousID(id))
}

func TestIsAnonymousID(t *testing.T) {
	assert.True(t, IsAnonymousID("anon-abc123xyz"))
	assert.False(t, IsAnonymousID("anon-short"))
	assert.False(t, IsAnonymousID("anon-abc123xyz0"))
	assert.False(t, IsAnonymousID(""))
	// 会员UUID不属于匿名命名空间
	assert.False(t, IsAnonymousID("0190a3f1-53a1-7b3c-9d4e-8f6a2b1c0d9e"))
}

func TestSignedTokenRoundTrip(t *testing.T) {
	id, cookieValue, err := NewSignedAnonymousToken()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(cookieValue, id+"."))

	parsed, ok := ParseSignedToken(cookieValue)
	require.True(t, ok)
	assert.Equal(t, id, parsed)
}

func TestParseSignedTokenRejectsTampering(t *testing.T) {
	id, cookieValue, err := NewSignedAnonymousToken()
	require.NoError(t, err)

	// 篡改标识部分
	forged := "anon-zzzzzzzzz" + cookieValue[len(id):]
	_, ok := ParseSignedToken(forged)
	assert.False(t, ok)

	// 篡改签名部分
	_, ok = ParseSignedToken(id + ".AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	assert.False(t, ok)
}

func TestParseSignedTokenRejectsMalformed(t *testing.T) {
	for _, value := range []string{
		"",
		"anon-abc123xyz",
		".signature-only",
		"anon-abc123xyz.",
		"not-anonymous.c2lnbmF0dXJl",
	} {
		_, ok := ParseSignedToken(value)
		assert.False(t, ok, "应当拒绝: %q", value)
	}
}

func TestParseSignedTokenRejectsForeignKey(t *testing.T) {
	_, cookieValue, err := NewSignedAnonymousToken()
	require.NoError(t, err)

	// 换用另一把密钥后，旧签名必须失效
	InitSecretKey("another-secret")
	defer InitSecretKey("test-secret")

	_, ok := ParseSignedToken(cookieValue)
	assert.False(t, ok)
}
