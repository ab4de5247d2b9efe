package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Distinct failure classes for bad credentials. Clients branch on the code
// field, so missing and invalid must stay distinguishable.
var (
	ErrNoToken      = errors.New("no auth token provided")
	ErrInvalidToken = errors.New("invalid auth token")
	ErrExpiredToken = errors.New("auth token expired")
)

const identityKey = "identity"

// Identity is the verified caller extracted from a bearer token.
type Identity struct {
	Subject string
	Email   string
}

// VerifyBearer validates an Authorization header value and returns the
// caller's identity. The error is one of ErrNoToken, ErrExpiredToken or
// ErrInvalidToken.
func VerifyBearer(secret, header string) (Identity, error) {
	if header == "" {
		return Identity{}, ErrNoToken
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == header || raw == "" {
		return Identity{}, ErrInvalidToken
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrExpiredToken
		}
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return Identity{}, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return Identity{Subject: subject, Email: email}, nil
}

// Auth requires a valid bearer token and stores the caller's identity in
// the request context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := VerifyBearer(secret, c.GetHeader("Authorization"))
		if err != nil {
			code := "auth_invalid"
			switch {
			case errors.Is(err, ErrNoToken):
				code = "auth_missing"
			case errors.Is(err, ErrExpiredToken):
				code = "auth_expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": fmt.Sprintf("unauthorized: %v", err),
				"code":  code,
			})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// FromContext returns the identity stored by Auth.
func FromContext(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}
