package agent

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 5 * time.Minute

// signToken issues a short-lived HS256 token identifying the device. The
// subject is empty before registration.
func signToken(secret, subject string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}
	if subject != "" {
		claims["sub"] = subject
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
