package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/go-blog-api/config"
	"github.com/FACorreiaa/go-blog-api/internal/types"
)

// TokenCodec issues and verifies the signed bearer tokens handed out at
// login. Tokens are HS256 JWTs carrying a principal snapshot; the server
// keeps no session state, so a token is trusted for its whole lifetime
// without a store lookup.
type TokenCodec struct {
	secretKey []byte
	issuer    string
	expiry    time.Duration
}

func NewTokenCodec(cfg config.JWTConfig) (*TokenCodec, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("JWT secret key is not configured")
	}
	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}
	return &TokenCodec{
		secretKey: []byte(cfg.SecretKey),
		issuer:    cfg.Issuer,
		expiry:    expiry,
	}, nil
}

// Expiry reports the configured token lifetime.
func (c *TokenCodec) Expiry() time.Duration {
	return c.expiry
}

// Issue signs a token for the given principal. The subject claim is the
// username; expiry is fixed at issuance (issued-at + configured duration).
func (c *TokenCodec) Issue(principal types.Principal) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		User: principal,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.Username,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature integrity and expiry and returns the embedded
// principal. Failures collapse to the closed set types.ErrTokenExpired /
// types.ErrTokenInvalid.
func (c *TokenCodec) Verify(tokenString string) (types.Principal, error) {
	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return types.Principal{}, types.ErrTokenExpired
		}
		return types.Principal{}, types.ErrTokenInvalid
	}
	if !token.Valid {
		return types.Principal{}, types.ErrTokenInvalid
	}
	if c.issuer != "" && claims.Issuer != c.issuer {
		return types.Principal{}, types.ErrTokenInvalid
	}
	return claims.User, nil
}
