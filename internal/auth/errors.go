package auth

import (
	"errors"
	"fmt"
)

// ErrorKind tells why a token was rejected.
type ErrorKind int

const (
	KindMalformed ErrorKind = iota + 1
	KindInvalidSignature
	KindExpired
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindInvalidSignature:
		return "invalid_signature"
	case KindExpired:
		return "expired"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// TokenError is returned by TokenService.Verify.
type TokenError struct {
	Kind ErrorKind
	Err  error
}

func (e *TokenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token %s: %v", e.Kind, e.Err)
	}
	return "token " + e.Kind.String()
}

func (e *TokenError) Unwrap() error { return e.Err }

// TokenErrorKind extracts the kind of a token error. ok is false when err is
// not a *TokenError.
func TokenErrorKind(err error) (kind ErrorKind, ok bool) {
	var tErr *TokenError
	if errors.As(err, &tErr) {
		return tErr.Kind, true
	}
	return 0, false
}
