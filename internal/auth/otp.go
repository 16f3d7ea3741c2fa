package auth

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// OTPGenerator produces one-time passcodes.
type OTPGenerator interface {
	Generate() (string, error)
}

// CryptoOTPGenerator draws 6-digit codes uniformly from [100000, 999999].
type CryptoOTPGenerator struct {
	source io.Reader
}

// NewOTPGenerator returns a generator reading from crypto/rand.
func NewOTPGenerator() *CryptoOTPGenerator {
	return &CryptoOTPGenerator{source: rand.Reader}
}

func (g *CryptoOTPGenerator) Generate() (string, error) {
	n, err := rand.Int(g.source, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}
