package jwt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/piresc/ridetracker/internal/pkg/models"
)

// ErrOpaqueToken is returned by Inspect for tokens that are not JWTs
var ErrOpaqueToken = errors.New("token is not a JWT")

// Claims are the fields the tracker reads from the session token
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Inspect decodes token claims without verifying the signature. The server
// remains the authority; this only lets the client skip a dial that is bound
// to be rejected.
func Inspect(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}
	return claims, nil
}

// CheckToken fails fast for empty or expired JWTs. Opaque tokens pass.
func CheckToken(token string, now time.Time) error {
	if strings.TrimSpace(token) == "" {
		return models.ErrAuthRejected
	}
	claims, err := Inspect(token)
	if err != nil {
		return nil
	}
	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return models.ErrTokenExpired
	}
	return nil
}

// TokenSource supplies the current auth token
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken always returns the same token
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) {
	if s == "" {
		return "", models.ErrAuthRejected
	}
	return string(s), nil
}

// FileToken re-reads the token from a file on every call so an external
// refresher can rotate it
type FileToken struct {
	Path string
}

func (f FileToken) Token(context.Context) (string, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", models.ErrAuthRejected
	}
	return token, nil
}

// NewTokenSource picks a file source when path is set, otherwise a static one
func NewTokenSource(token, path string) TokenSource {
	if path != "" {
		return FileToken{Path: path}
	}
	return StaticToken(token)
}
