package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pos_sales/internal/sales"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is what the session service puts in a cashier's access token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Actor turns the claims into the explicit actor a submission carries.
func (c *Claims) Actor() sales.Actor {
	return sales.Actor{UserID: c.UserID, Username: c.Username, Role: c.Role}
}

// Verifier checks HMAC-signed access tokens.
type Verifier struct {
	secretKey []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secretKey: []byte(secret)}
}

// Issue signs a token for the given actor. The session service owns login;
// this exists for tooling and tests.
func (v *Verifier) Issue(actor sales.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   actor.UserID,
		Username: actor.Username,
		Role:     actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   actor.UserID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secretKey)
}

// Verify validates a token and returns its claims.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secretKey, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
