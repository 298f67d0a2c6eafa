// Package auth issues and parses the principal tokens consumed by write
// operations. The platform does not manage accounts itself; it only trusts
// HS256 tokens minted by the identity provider sharing the secret.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/common"
)

// Principal identifies the authenticated caller. A zero Principal means
// anonymous; operations requiring ownership reject it.
type Principal struct {
	ID    string
	Email string
	Name  string
}

// IsAnonymous reports whether no principal is attached.
func (p Principal) IsAnonymous() bool {
	return p.ID == ""
}

// Claims carries the registered claims plus the principal attributes.
type Claims struct {
	jwt.RegisteredClaims
	PrincipalID string `json:"pid"`
	Email       string `json:"email"`
	Name        string `json:"name"`
}

// GenerateToken mints an HS256 token for the principal.
func GenerateToken(p Principal, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		PrincipalID: p.ID,
		Email:       p.Email,
		Name:        p.Name,
	})
	return token.SignedString(secretKey)
}

// PrincipalFromToken validates the token and extracts the principal.
// Malformed, expired, or badly signed tokens yield common.ErrInvalidToken.
func PrincipalFromToken(tokenString string, secretKey []byte) (Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return Principal{}, common.ErrInvalidToken
	}

	return Principal{ID: claims.PrincipalID, Email: claims.Email, Name: claims.Name}, nil
}
