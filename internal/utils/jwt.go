package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the claim set carried by a pairing token.
//
// The token is opaque to the remote device but verifiable by the host:
//   - jti is the pairing session id the token is bound to;
//   - sub is the remote device's self-reported name;
//   - exp is the session's expiry (a token never outlives its session);
//   - iss is the issuing service name.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// GenerateSessionToken creates a signed HMAC-SHA256 pairing token bound to
// one session. expiresAt must equal the session's expiry so that the token
// and the PIN die together.
//
// Returns an error if any parameter is empty or zero, or if signing fails.
func GenerateSessionToken(issuer, sessionID, deviceName string, expiresAt time.Time, signKey string) (string, error) {
	if issuer == "" || sessionID == "" || expiresAt.IsZero() || signKey == "" {
		return "", errors.New("invalid params for generating session token")
	}

	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   deviceName,
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing session token: %w", err)
	}

	return tokenString, nil
}

// ValidateSessionToken verifies the token's signature, issuer, and expiry,
// and returns its claims.
//
// Verification covers the cryptographic shape of the token only; the caller
// still has to check that the jti claim names the currently active session
// and that the token matches the one recorded on it.
func ValidateSessionToken(tokenString, signKey, issuer string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	}, jwt.WithIssuer(issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("error occurred validating and parsing session token: %w", err)
	}

	if claims.ID == "" {
		return nil, errors.New("session token carries no session id")
	}

	return claims, nil
}
