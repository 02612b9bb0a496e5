package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"libraryapi/internal/httpx"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the user id in "sub" and the granted roles.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

func generateJTI() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateToken signs an HS256 token for userID valid for ttl. It returns the
// token and its id.
func GenerateToken(secret, userID string, roles []string, ttl time.Duration) (string, string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	c := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tokenStr, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}
	return tokenStr, jti, nil
}

func ParseToken(secret, tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims, ok := t.Claims.(*Claims); ok && t.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}

// Tokens issues and verifies access tokens with one secret.
type Tokens struct {
	secret string
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: secret, ttl: ttl}
}

func (t *Tokens) Issue(userID int64, roles []string) (string, error) {
	token, _, err := GenerateToken(t.secret, strconv.FormatInt(userID, 10), roles, t.ttl)
	return token, err
}

// ParsePrincipal implements httpx.TokenParser.
func (t *Tokens) ParsePrincipal(token string) (httpx.Principal, error) {
	claims, err := ParseToken(t.secret, token)
	if err != nil {
		return httpx.Principal{}, err
	}
	if claims.Subject == "" {
		return httpx.Principal{}, errors.New("token has no subject")
	}
	return httpx.Principal{UserID: claims.Subject, Roles: claims.Roles}, nil
}
