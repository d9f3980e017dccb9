package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultClaim = "sub"

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrMissingSubject = errors.New("token has no user id")
)

// Provider signs and verifies HS256 tokens. Claim names the claim that
// carries the user id.
type Provider struct {
	Secret string
	Claim  string
	TTL    time.Duration
}

func NewProvider(secret, claim string, ttl time.Duration) *Provider {
	if claim == "" {
		claim = DefaultClaim
	}
	return &Provider{
		Secret: secret,
		Claim:  claim,
		TTL:    ttl,
	}
}

func (p *Provider) Sign(userID string) (string, error) {
	claims := jwt.MapClaims{
		p.Claim: userID,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(p.TTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(p.Secret))
}

func (p *Provider) Parse(raw string) (*jwt.Token, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(p.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return token, nil
}

// UserID reads the configured claim. Numeric claims are accepted and
// rendered in base 10.
func (p *Provider) UserID(token *jwt.Token) (string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	switch v := claims[p.Claim].(type) {
	case string:
		if v == "" {
			return "", ErrMissingSubject
		}
		return v, nil
	case float64:
		return fmt.Sprintf("%.0f", v), nil
	default:
		return "", ErrMissingSubject
	}
}
