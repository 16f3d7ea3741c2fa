package auth_test

import (
	"strings"
	"testing"

	"pasar/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := auth.NewBcryptHasher()

	digest, err := h.Hash("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", digest)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, auth.DefaultHashCost, cost)

	assert.True(t, h.Verify("pw123456", digest))
	assert.False(t, h.Verify("pw1234567", digest))
}

func TestBcryptHasher_SaltsEachHash(t *testing.T) {
	h := auth.NewBcryptHasherWithCost(bcrypt.MinCost)

	first, err := h.Hash("same")
	require.NoError(t, err)
	second, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_CorruptDigestIsMismatch(t *testing.T) {
	h := auth.NewBcryptHasher()
	assert.False(t, h.Verify("pw", "not-a-bcrypt-digest"))
	assert.False(t, h.Verify("pw", ""))
}

func TestNewBcryptHasherWithCost_OutOfRange(t *testing.T) {
	h := auth.NewBcryptHasherWithCost(99)

	digest, err := h.Hash("pw")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, auth.DefaultHashCost, cost)
}

func TestBcryptHasher_PasswordLengthLimit(t *testing.T) {
	h := auth.NewBcryptHasherWithCost(bcrypt.MinCost)

	digest, err := h.Hash(strings.Repeat("a", auth.MaxPasswordBytes))
	require.NoError(t, err)
	assert.True(t, h.Verify(strings.Repeat("a", auth.MaxPasswordBytes), digest))

	_, err = h.Hash(strings.Repeat("a", auth.MaxPasswordBytes+1))
	assert.ErrorIs(t, err, auth.ErrPasswordTooLong)

	// 36 two-byte runes fit, 37 do not.
	_, err = h.Hash(strings.Repeat("é", 36))
	assert.NoError(t, err)
	_, err = h.Hash(strings.Repeat("é", 37))
	assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
}
