package auth

import (
	"errors"
	"time"

	"github.com/niqqow96/Backend-PKROnchain/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongScope   = errors.New("token scope not allowed")
)

const (
	ScopePlayer = "player"
	ScopeAdmin  = "admin"
)

// Claims proves the identity behind a request. Identity is the player's
// seat identity or the operator's username.
type Claims struct {
	Identity string `json:"identity"`
	Scope    string `json:"scope"`
	jwt.RegisteredClaims
}

func GenerateToken(identity string) (string, time.Time, error) {
	return generateToken(identity, ScopePlayer)
}

func GenerateAdminToken(username string) (string, time.Time, error) {
	return generateToken(username, ScopeAdmin)
}

func generateToken(identity, scope string) (string, time.Time, error) {
	expireAt := time.Now().Add(time.Duration(config.GlobalConfig.JWT.Expire) * time.Hour)
	claims := Claims{
		Identity: identity,
		Scope:    scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   identity,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.GlobalConfig.JWT.Secret))
	return signed, expireAt, err
}

func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.GlobalConfig.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Identity == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func ParsePlayerToken(tokenString string) (*Claims, error) {
	return parseScoped(tokenString, ScopePlayer)
}

func ParseAdminToken(tokenString string) (*Claims, error) {
	return parseScoped(tokenString, ScopeAdmin)
}

func parseScoped(tokenString, scope string) (*Claims, error) {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Scope != scope {
		return nil, ErrWrongScope
	}
	return claims, nil
}
