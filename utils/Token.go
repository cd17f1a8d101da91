package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims extracts the claims of a bearer token without verifying its
// signature. The platform verifies tokens server side; clients only inspect
// them for expiry and realm hints.
func TokenClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	_, _, err := parser.ParseUnverified(token, claims)
	if err != nil {
		return nil, fmt.Errorf("TokenClaims: not a JWT: %w", err)
	}
	return claims, nil
}

// TokenExpiry returns the exp claim of a bearer token.
// Tokens without an exp claim never expire; this returns the zero time.
func TokenExpiry(token string) (time.Time, error) {
	claims, err := TokenClaims(token)
	if err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, err
	}
	return exp.Time, nil
}

// IsTokenExpired tests whether a bearer token carries an exp claim in the
// past. Malformed tokens report as expired.
func IsTokenExpired(token string) bool {
	expiry, err := TokenExpiry(token)
	if err != nil {
		return true
	}
	if expiry.IsZero() {
		return false
	}
	return expiry.Before(time.Now())
}
