package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reeljournal/reeljournal/pkg/auth"
)

func TestTokenManager_IssueAndValidate(t *testing.T) {
	// Setup
	manager := auth.NewTokenManager("test-secret", "test-issuer", 15*time.Minute)

	// Test
	token, expiresAt, err := manager.Issue("user-1", "Ada")
	require.NoError(t, err)
	claims, err := manager.Validate(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "Ada", claims.DisplayName)
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)
}

func TestTokenManager_IssueRequiresSubject(t *testing.T) {
	manager := auth.NewTokenManager("test-secret", "test-issuer", time.Minute)

	_, _, err := manager.Issue("  ", "Ada")

	assert.Error(t, err)
}

func TestTokenManager_Validate_WrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("secret-a", "test-issuer", time.Minute)
	verifier := auth.NewTokenManager("secret-b", "test-issuer", time.Minute)

	token, _, err := issuer.Issue("user-1", "")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_Validate_WrongIssuer(t *testing.T) {
	issuer := auth.NewTokenManager("secret", "someone-else", time.Minute)
	verifier := auth.NewTokenManager("secret", "test-issuer", time.Minute)

	token, _, err := issuer.Issue("user-1", "")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_Validate_Expired(t *testing.T) {
	manager := auth.NewTokenManager("secret", "test-issuer", time.Minute)

	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = manager.Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_Validate_RejectsOtherAlgorithms(t *testing.T) {
	manager := auth.NewTokenManager("secret", "", time.Minute)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "user-1"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = manager.Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		token, ok := auth.BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestGenerateSecret(t *testing.T) {
	a := auth.GenerateSecret()
	b := auth.GenerateSecret()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
