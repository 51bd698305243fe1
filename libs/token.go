package libs

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the identity a bearer token carries.
type TokenClaims struct {
	Email  string
	Name   string
	UserID string
}

// TokenService issues and verifies HS256-signed access tokens. The signed
// scheme replaces the reversible base64 encoding the first version of this
// backend shipped with, which anyone could decode and forge.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token embedding the claims plus an expiry of
// now + TTL.
func (s *TokenService) Issue(claims TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":   claims.Email,
		"name":    claims.Name,
		"user_id": claims.UserID,
		"exp":     s.now().Add(s.ttl).Unix(),
	})
	return token.SignedString(s.secret)
}

// Verify parses and validates a token string. It fails on a bad signature,
// a malformed token, or a passed expiry.
func (s *TokenService) Verify(raw string) (*TokenClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	out := &TokenClaims{}
	out.Email, _ = claims["email"].(string)
	out.Name, _ = claims["name"].(string)
	out.UserID, _ = claims["user_id"].(string)
	if out.UserID == "" {
		return nil, fmt.Errorf("token missing user_id claim")
	}
	return out, nil
}
