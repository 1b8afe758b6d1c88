package jwt

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, userID, role string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			Issuer:    "ridetracker-test",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestInspect(t *testing.T) {
	token := signedToken(t, "user-1", "driver", time.Now().Add(time.Hour))

	claims, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "driver", claims.Role)

	_, err = Inspect("opaque-session-token")
	assert.ErrorIs(t, err, ErrOpaqueToken)
}

func TestCheckToken(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"valid jwt", signedToken(t, "u", "rider", now.Add(time.Minute)), nil},
		{"expired jwt", signedToken(t, "u", "rider", now.Add(-time.Minute)), models.ErrTokenExpired},
		{"opaque token passes", "abc123", nil},
		{"empty token", "  ", models.ErrAuthRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckToken(tt.token, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTokenSources(t *testing.T) {
	ctx := context.Background()

	tok, err := StaticToken("abc").Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = StaticToken("").Token(ctx)
	assert.ErrorIs(t, err, models.ErrAuthRejected)

	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0o600))
	src := NewTokenSource("ignored", path)

	tok, err = src.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", tok)

	require.NoError(t, os.WriteFile(path, []byte("rotated"), 0o600))
	tok, err = src.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rotated", tok)

	_, err = FileToken{Path: filepath.Join(t.TempDir(), "missing")}.Token(ctx)
	assert.Error(t, err)
}
