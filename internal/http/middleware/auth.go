package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"pearlcard/internal/domain"
)

const requestContextKey = "request_context"

var ErrInvalidToken = errors.New("invalid or expired session token")

// IssueToken signs an HS256 session token for userID.
func IssueToken(secret []byte, userID string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseToken returns the session user of a valid token.
func ParseToken(secret []byte, token string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// AuthOptional attaches the session user when a valid bearer token is sent.
// Requests without one pass through unchanged.
func AuthOptional(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw != "" {
			if userID, err := ParseToken(secret, raw); err == nil {
				c.Set(requestContextKey, domain.RequestContext{UserID: userID})
			}
		}
		c.Next()
	}
}

// RequireUser rejects requests that carry no valid session.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetRequestContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      ErrInvalidToken.Error(),
				"code":       "unauthorized",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}

func GetRequestContext(c *gin.Context) (domain.RequestContext, bool) {
	if c == nil {
		return domain.RequestContext{}, false
	}
	v, ok := c.Get(requestContextKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok && rc.UserID != ""
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
