package security

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const (
	TOKEN_HEADER_KEY = "Authorization"
)

// TokenClaims is the already-authenticated caller identity carried by the
// bearer token. Issuing these tokens (credential or directory verification)
// happens outside this service.
type TokenClaims struct {
	User       string `json:"u"`
	UserName   string `json:"un"`
	Role       string `json:"r"`
	Department string `json:"d"` // empty when the user has no department
	ExpireTime int64  `json:"exp"`
	NotBefore  int64  `json:"nbf"`
}

func NewTokenClaims(userID, userName, role, department string, expireTime int64) TokenClaims {
	return TokenClaims{
		User:       userID,
		UserName:   userName,
		Role:       role,
		Department: department,
		ExpireTime: expireTime,
		NotBefore:  time.Now().Unix() - 1,
	}
}

func (t TokenClaims) Valid() error {
	now := time.Now().Unix()
	if t.ExpireTime != 0 && now > t.ExpireTime {
		return fmt.Errorf("token expired")
	}
	if t.NotBefore != 0 && now < t.NotBefore {
		return fmt.Errorf("token not active yet")
	}
	if t.User == "" {
		return fmt.Errorf("token missing user")
	}
	return nil
}

func SignToken(claims TokenClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(tokenString, secret string) (TokenClaims, error) {
	var claims TokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return TokenClaims{}, err
	}
	return claims, nil
}
