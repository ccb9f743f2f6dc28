package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokensConfig configures the token issuer.
type TokensConfig struct {
	// SigningKey is the HMAC key used to sign and verify access tokens.
	SigningKey []byte

	// TTL is the access token lifetime. Zero means tokens do not expire,
	// matching the long-lived tokens bot deployments rely on.
	TTL time.Duration
}

// Tokens issues and verifies HS512 access tokens carrying a tenant id.
type Tokens struct {
	cfg TokensConfig
}

// NewTokens creates a token issuer.
func NewTokens(cfg TokensConfig) (*Tokens, error) {
	if len(cfg.SigningKey) == 0 {
		return nil, fmt.Errorf("auth: signing key is required")
	}
	return &Tokens{cfg: cfg}, nil
}

// Issue signs a new access token for the tenant. Each token carries a random
// jti so tokens issued for the same tenant are distinguishable.
func (t *Tokens) Issue(tenantID int64) (string, error) {
	claims := jwt.MapClaims{
		"id":  tenantID,
		"jti": uuid.NewString(),
	}
	if t.cfg.TTL > 0 {
		claims["exp"] = time.Now().Add(t.cfg.TTL).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(t.cfg.SigningKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates an access token and returns the tenant id.
func (t *Tokens) Verify(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.cfg.SigningKey, nil
	})
	if err != nil {
		return 0, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("unexpected claims type")
	}
	// JSON numbers decode as float64; bot ids fit well within exact range.
	id, ok := claims["id"].(float64)
	if !ok || id < 0 {
		return 0, fmt.Errorf("missing or invalid id claim")
	}
	return int64(id), nil
}
