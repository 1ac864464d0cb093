package localjwt

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/riskibarqy/effort-league/internal/domain"
	"github.com/riskibarqy/effort-league/internal/domain/user"
)

// Verifier validates HS256 tokens signed with a shared secret. It exists for
// local development and tests where no gatekeeper instance is running; the
// subject claim becomes the principal's user id.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

type claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func (v *Verifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", domain.ErrUnauthorized)
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	decoded, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return user.Principal{}, fmt.Errorf("%w: token is not valid", domain.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.Subject) == "" {
		return user.Principal{}, fmt.Errorf("%w: subject claim is required", domain.ErrUnauthorized)
	}

	return user.Principal{
		UserID: decoded.Subject,
		Name:   decoded.Name,
	}, nil
}

// Sign issues a token for the given principal, used by seeding scripts and
// tests to mint credentials against the same secret.
func (v *Verifier) Sign(principal user.Principal) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name: principal.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: principal.UserID,
		},
	})

	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}
