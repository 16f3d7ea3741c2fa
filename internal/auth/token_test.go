package auth_test

import (
	"strings"
	"testing"
	"time"

	"pasar/internal/auth"
	"pasar/internal/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret"

func newTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService(&auth.TokenConfig{Secret: []byte(testSecret)})
	require.NoError(t, err)
	return ts
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := auth.NewTokenService(&auth.TokenConfig{})
	assert.Error(t, err)

	_, err = auth.NewTokenService(nil)
	assert.Error(t, err)
}

func TestTokenService_DefaultTTLIsSevenDays(t *testing.T) {
	ts := newTokenService(t)
	assert.Equal(t, 7*24*time.Hour, ts.TTL())
}

func TestTokenService_RoundTrip(t *testing.T) {
	ts := newTokenService(t)

	for _, role := range models.AllRoles {
		claims := auth.Claims{Subject: "user-123", Email: "a@x.com", Role: role}

		token, err := ts.Issue(claims)
		require.NoError(t, err)

		got, err := ts.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, claims, got)
	}
}

func TestTokenService_PayloadCarriesExpiry(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ts := newTokenService(t).WithClock(func() time.Time { return issuedAt })

	token, err := ts.Issue(auth.Claims{Subject: "u-1", Email: "a@x.com", Role: models.RoleCustomer})
	require.NoError(t, err)

	parsed, _, err := new(jwt.Parser).ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	mc := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "u-1", mc["sub"])
	assert.Equal(t, "a@x.com", mc["email"])
	assert.Equal(t, "CUSTOMER", mc["role"])
	assert.Equal(t, float64(issuedAt.Add(7*24*time.Hour).Unix()), mc["exp"])
	assert.Equal(t, "HS256", parsed.Header["alg"])
}

func TestTokenService_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-8 * 24 * time.Hour)
	issuer := newTokenService(t).WithClock(func() time.Time { return issuedAt })

	token, err := issuer.Issue(auth.Claims{Subject: "u-1", Email: "a@x.com", Role: models.RoleCustomer})
	require.NoError(t, err)

	// Still valid just before the boundary
	justBefore := newTokenService(t).WithClock(func() time.Time { return issuedAt.Add(7*24*time.Hour - time.Second) })
	_, err = justBefore.Verify(token)
	assert.NoError(t, err)

	// Past the boundary
	_, err = newTokenService(t).Verify(token)
	require.Error(t, err)
	kind, ok := auth.TokenErrorKind(err)
	assert.True(t, ok)
	assert.Equal(t, auth.KindExpired, kind)
}

func TestTokenService_TamperedSignature(t *testing.T) {
	ts := newTokenService(t)
	token, err := ts.Issue(auth.Claims{Subject: "u-1", Email: "a@x.com", Role: models.RoleMainAdmin})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	// The first character holds the top six bits of the first signature byte.
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = ts.Verify(tampered)
	require.Error(t, err)
	kind, ok := auth.TokenErrorKind(err)
	assert.True(t, ok)
	assert.Equal(t, auth.KindInvalidSignature, kind)
}

func TestTokenService_TamperedLastSignatureChar(t *testing.T) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	ts := newTokenService(t)
	token, err := ts.Issue(auth.Claims{Subject: "u-1", Email: "a@x.com", Role: models.RoleMainAdmin})
	require.NoError(t, err)

	cut := strings.LastIndexByte(token, '.')
	sig := token[cut+1:]
	require.Len(t, sig, 43) // 32 bytes, last char carries 2 unused bits
	last := strings.IndexByte(alphabet, sig[len(sig)-1])
	require.GreaterOrEqual(t, last, 0)

	// Flipping only the low bits keeps the decoded bytes identical under
	// lenient decoding.
	for _, flip := range []int{1, 2, 3} {
		altered := token[:len(token)-1] + string(alphabet[last^flip])

		_, err := ts.Verify(altered)
		require.Error(t, err, "flip %d", flip)
		kind, ok := auth.TokenErrorKind(err)
		assert.True(t, ok)
		assert.Equal(t, auth.KindInvalidSignature, kind, "flip %d", flip)
	}

	_, err = ts.Verify(token)
	assert.NoError(t, err)
}

func TestTokenService_WrongSecret(t *testing.T) {
	other, err := auth.NewTokenService(&auth.TokenConfig{Secret: []byte("rotated")})
	require.NoError(t, err)
	token, err := other.Issue(auth.Claims{Subject: "u-1", Email: "a@x.com", Role: models.RoleCustomer})
	require.NoError(t, err)

	_, err = newTokenService(t).Verify(token)
	kind, _ := auth.TokenErrorKind(err)
	assert.Equal(t, auth.KindInvalidSignature, kind)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":   "u-1",
		"email": "a@x.com",
		"role":  "MAIN_ADMIN",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTokenService(t).Verify(token)
	kind, _ := auth.TokenErrorKind(err)
	assert.Equal(t, auth.KindInvalidSignature, kind)
}

func TestTokenService_Malformed(t *testing.T) {
	ts := newTokenService(t)
	for _, token := range []string{"", "invalid.token.string", "not-a-jwt", "a.b"} {
		_, err := ts.Verify(token)
		require.Error(t, err, token)
		kind, ok := auth.TokenErrorKind(err)
		assert.True(t, ok, token)
		assert.Equal(t, auth.KindMalformed, kind, token)
	}
}

func TestTokenService_MissingExpiryIsMalformed(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTokenService(t).Verify(token)
	kind, _ := auth.TokenErrorKind(err)
	assert.Equal(t, auth.KindMalformed, kind)
}
