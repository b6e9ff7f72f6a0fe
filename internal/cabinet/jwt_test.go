package cabinet

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.CreateToken(42)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", time.Hour)
	other := NewTokenManager("secret-b", time.Hour)

	token, err := tm.CreateToken(42)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.CreateToken(42)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenRejectsForeignSigningMethod(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	// Токен на том же секрете, но с другим алгоритмом подписи
	claims := &Claims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	_, err := tm.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestVerificationCodes(t *testing.T) {
	codes := NewVerificationCodes(time.Minute)

	code, err := codes.Issue("user@example.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	// Неверный код не проходит и не сжигает верный
	assert.False(t, codes.Verify("user@example.com", "000000x"))
	assert.True(t, codes.Verify("user@example.com", code))

	// Код одноразовый
	assert.False(t, codes.Verify("user@example.com", code))
}

func TestVerificationCodesExpiry(t *testing.T) {
	codes := NewVerificationCodes(-time.Second)
	code, err := codes.Issue("user@example.com")
	require.NoError(t, err)
	assert.False(t, codes.Verify("user@example.com", code))
}

func TestVerificationCodesReissue(t *testing.T) {
	codes := NewVerificationCodes(time.Minute)
	first, err := codes.Issue("user@example.com")
	require.NoError(t, err)
	second, err := codes.Issue("user@example.com")
	require.NoError(t, err)

	// Действителен только последний выданный код
	if first != second {
		assert.False(t, codes.Verify("user@example.com", first))
	}
	assert.True(t, codes.Verify("user@example.com", second))
}
