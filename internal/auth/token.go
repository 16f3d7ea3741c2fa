package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"

	"pasar/internal/models"
)

// DefaultTokenTTL is the lifetime of an issued token.
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenConfig is the process-wide signing configuration. It is built once at
// start-up and must not be modified afterwards; changing the secret
// invalidates every outstanding token.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// tokenClaims is the JWT payload: sub/exp/iat plus email and role.
type tokenClaims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.StandardClaims
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	cfg *TokenConfig
	ttl time.Duration
	now func() time.Time
}

// NewTokenService creates a TokenService. A zero TTL means DefaultTokenTTL.
func NewTokenService(cfg *TokenConfig) (*TokenService, error) {
	if cfg == nil || len(cfg.Secret) == 0 {
		return nil, errors.New("token signing secret is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{cfg: cfg, ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of the service that reads time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// TTL is the lifetime of tokens issued by the service.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs claims into a token that expires TTL from now.
func (s *TokenService) Issue(c Claims) (string, error) {
	issuedAt := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email: c.Email,
		Role:  c.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   c.Subject,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: issuedAt.Add(s.ttl).Unix(),
		},
	})

	tokenString, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the signature and expiry of tokenString and returns the
// embedded claims. It never consults the user store, so claims reflect the
// user as they were when the token was issued.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	var claims tokenClaims
	// Expiry is checked below against the service clock.
	parser := &jwt.Parser{SkipClaimsValidation: true}
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.cfg.Secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}
	if !canonicalSignature(tokenString) {
		return Claims{}, &TokenError{Kind: KindInvalidSignature, Err: errors.New("signature is not canonical base64url")}
	}

	if claims.ExpiresAt == 0 {
		return Claims{}, &TokenError{Kind: KindMalformed, Err: errors.New("missing exp claim")}
	}
	if !claims.VerifyExpiresAt(s.now().Unix(), true) {
		return Claims{}, &TokenError{Kind: KindExpired, Err: errors.New("token is expired")}
	}

	return Claims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
	}, nil
}

// canonicalSignature reports whether the signature segment decodes under
// strict base64url. jwt-go ignores the unused low bits of the last character,
// so several spellings of one signature would otherwise verify.
func canonicalSignature(tokenString string) bool {
	i := strings.LastIndexByte(tokenString, '.')
	if i < 0 {
		return false
	}
	_, err := base64.RawURLEncoding.Strict().DecodeString(tokenString[i+1:])
	return err == nil
}

func classify(err error) *TokenError {
	var vErr *jwt.ValidationError
	if !errors.As(err, &vErr) {
		return &TokenError{Kind: KindMalformed, Err: err}
	}
	switch {
	case vErr.Errors&jwt.ValidationErrorMalformed != 0:
		return &TokenError{Kind: KindMalformed, Err: err}
	case vErr.Errors&(jwt.ValidationErrorSignatureInvalid|jwt.ValidationErrorUnverifiable) != 0:
		return &TokenError{Kind: KindInvalidSignature, Err: err}
	case vErr.Errors&jwt.ValidationErrorExpired != 0:
		return &TokenError{Kind: KindExpired, Err: err}
	default:
		return &TokenError{Kind: KindMalformed, Err: err}
	}
}
