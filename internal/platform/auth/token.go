package auth

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

// Overridable via SAC_JWT_SECRET so the default never ships to release.
var jwtSecret = secretFromEnv()

func secretFromEnv() []byte {
	if v := os.Getenv("SAC_JWT_SECRET"); v != "" {
		return []byte(v)
	}
	return []byte("dev-only-secret")
}

func JWTSecret() []byte { return jwtSecret }

// IssueToken signs a session token carrying the account id and role.
func IssueToken(accountID, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  accountID,
		"role": role,
		"exp":  time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString(jwtSecret)
}
