package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAward_缺少JWT_SECRET应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Award("ops", "", 0)
	assert.ErrorIs(t, err, ErrJWTSecretMissing)
}

func TestAwardParse_正常签发并解析(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")

	token, err := Award("ops", "s-1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Operator)
	assert.True(t, claims.Allows("s-1"))
	assert.False(t, claims.Allows("s-2"))
}

func TestParseToken_密钥不一致应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "a")
	token, err := Award("ops", "", time.Hour)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "b")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestClaims_空session可操作任意对局(t *testing.T) {
	c := &Claims{Operator: "ops"}
	assert.True(t, c.Allows("anything"))
}
