package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired reports whether a bearer token's exp claim is in the past.
// The signature is deliberately not verified here: the persistence API owns
// validation, this is only an early warning for a stale local token. Tokens
// that are not JWTs (or carry no exp claim) pass through untouched.
func tokenExpired(tokenStr string, now time.Time) bool {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
