package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ExternalClaim is what the identity provider vouches for.
type ExternalClaim struct {
	UID   string
	Email string
}

// Verifier checks a bearer credential issued by the identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*ExternalClaim, error)
}

var ErrMissingSubject = errors.New("token has no subject")

type TokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HS256 tokens. The subject claim is the external user id.
type JWTVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

func NewJWTVerifier(secret, issuer, audience string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), issuer: issuer, audience: audience}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*ExternalClaim, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	return &ExternalClaim{UID: claims.Subject, Email: claims.Email}, nil
}

// DevVerifier accepts any token and maps it onto the seeded development users.
// It must never be wired in production.
type DevVerifier struct{}

const (
	DevHeadquarterUID = "test-hq-001"
	DevStoreUID       = "test-store-001"
	DevWarehouseUID   = "test-warehouse-001"
)

func (DevVerifier) Verify(_ context.Context, token string) (*ExternalClaim, error) {
	switch {
	case strings.Contains(token, "admin"):
		return &ExternalClaim{UID: DevHeadquarterUID, Email: "admin@demo.com"}, nil
	case strings.Contains(token, "store"):
		return &ExternalClaim{UID: DevStoreUID, Email: "store@demo.com"}, nil
	case strings.Contains(token, "warehouse"):
		return &ExternalClaim{UID: DevWarehouseUID, Email: "warehouse@demo.com"}, nil
	default:
		return &ExternalClaim{UID: DevHeadquarterUID, Email: "admin@demo.com"}, nil
	}
}
