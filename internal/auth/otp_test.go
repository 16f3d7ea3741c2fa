package auth

import (
	"bytes"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoOTPGenerator_SixDigitsInRange(t *testing.T) {
	g := NewOTPGenerator()
	for i := 0; i < 500; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, otpMin)
		assert.LessOrEqual(t, n, otpMax)
	}
}

func TestCryptoOTPGenerator_LowestDraw(t *testing.T) {
	// An all-zero source makes rand.Int return 0.
	g := &CryptoOTPGenerator{source: bytes.NewReader(make([]byte, 64))}

	code, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "100000", code)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestCryptoOTPGenerator_SourceFailure(t *testing.T) {
	g := &CryptoOTPGenerator{source: failingReader{}}

	_, err := g.Generate()
	assert.Error(t, err)
}
