package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// ContextCookieName carries the signed browser context id.
	ContextCookieName = "smartmed_ctx"
	// ContextIDKey is the echo context key holding the browser context id.
	ContextIDKey = "context_id"

	contextIssuer = "smartmed-portal"
)

// BrowserContext identifies the browser a request comes from. The id lives in
// an HS256-signed cookie; a missing, forged or expired cookie starts a new
// context. Cookies past half their lifetime are re-issued for the same id.
func BrowserContext(secret []byte, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()

			id, issuedAt, err := readContextCookie(c, secret)
			if err != nil {
				id = uuid.NewString()
				issuedAt = time.Time{}
			}

			if issuedAt.IsZero() || now.Sub(issuedAt) > ttl/2 {
				if err := writeContextCookie(c, secret, id, now, ttl); err != nil {
					return err
				}
			}

			c.Set(ContextIDKey, id)
			return next(c)
		}
	}
}

// ContextID returns the browser context id set by BrowserContext.
func ContextID(c echo.Context) string {
	id, _ := c.Get(ContextIDKey).(string)
	return id
}

func readContextCookie(c echo.Context, secret []byte) (string, time.Time, error) {
	cookie, err := c.Cookie(ContextCookieName)
	if err != nil {
		return "", time.Time{}, err
	}

	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	}, jwt.WithIssuer(contextIssuer), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return "", time.Time{}, errors.New("invalid context token")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", time.Time{}, errors.New("invalid context id")
	}

	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	return claims.Subject, issuedAt, nil
}

func writeContextCookie(c echo.Context, secret []byte, id string, now time.Time, ttl time.Duration) error {
	claims := jwt.RegisteredClaims{
		Issuer:    contextIssuer,
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     ContextCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.Request().TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
