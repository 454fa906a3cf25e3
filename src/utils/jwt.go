package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pratamabintang/khs-assesment-sub001/src/models"
)

type JWTClaims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *JWTClaims) Caller() models.Caller {
	return models.Caller{SubjectID: c.Subject, Role: c.Role}
}

// GenerateJWT signs a token for tests and local tooling. Issuing tokens to users is done by the identity provider.
func GenerateJWT(secret []byte, subject string, role models.Role, ttl time.Duration) (string, error) {
	claims := JWTClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseJWT(secret []byte, tokenStr string) (*JWTClaims, error) {
	if tokenStr == "" {
		return nil, fmt.Errorf("empty token string")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &JWTClaims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || token == nil {
		return nil, fmt.Errorf("token parsing failed: %v", err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, fmt.Errorf("token missing subject or role")
	}
	return claims, nil
}
