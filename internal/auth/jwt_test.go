package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateToken(t *testing.T) {
	userID := 123
	username := "alice"

	token, err := GenerateToken(userID, username, testSecret)

	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, username, claims.Username)

	// Expiry is fixed at one hour from issuance
	issued := claims.IssuedAt.Time
	expires := claims.ExpiresAt.Time
	assert.Equal(t, TokenTTL, expires.Sub(issued))
}

func TestValidateToken_ValidToken(t *testing.T) {
	userID := 456
	token, err := generateToken(userID, "bob", 15*time.Minute, testSecret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)

	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "bob", claims.Username)
}

func TestValidateToken_InvalidSecret(t *testing.T) {
	token, err := generateToken(789, "carol", 15*time.Minute, testSecret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "wrong-secret")

	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_ExpiredToken(t *testing.T) {
	// Generate token with negative duration (already expired)
	token, err := generateToken(101, "dave", -1*time.Hour, testSecret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)

	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_MalformedToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "Empty token",
			token: "",
		},
		{
			name:  "Random string",
			token: "not-a-valid-jwt-token",
		},
		{
			name:  "Incomplete JWT",
			token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, testSecret)

			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestGetUserIDFromContext_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	expectedUserID := 123
	c.Set(UserIDKey, expectedUserID)

	userID, err := GetUserIDFromContext(c)

	require.NoError(t, err)
	assert.Equal(t, expectedUserID, userID)
}

func TestGetUserIDFromContext_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	userID, err := GetUserIDFromContext(c)

	assert.Error(t, err)
	assert.Equal(t, 0, userID)
	assert.Contains(t, err.Error(), "user ID not found in context")
}

func TestGetUserIDFromContext_InvalidType(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Set(UserIDKey, "not-an-int")

	userID, err := GetUserIDFromContext(c)

	assert.Error(t, err)
	assert.Equal(t, 0, userID)
}

func TestGetUsernameFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Set(UsernameKey, "alice")

	username, err := GetUsernameFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)

	_, err = GetUsernameFromContext(c)
	assert.Error(t, err)
}

func TestPasswordHash_RoundTrip(t *testing.T) {
	hash, err := GeneratePasswordHash("pw1")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", hash)

	assert.NoError(t, ComparePasswordHash([]byte(hash), "pw1"))
	assert.Error(t, ComparePasswordHash([]byte(hash), "pw2"))
}
