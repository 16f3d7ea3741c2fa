package services

import (
	"context"
	"errors"

	"pasar/internal/apperror"
	"pasar/internal/auth"
	"pasar/internal/logging"
	"pasar/internal/repositories"
)

// storeFailure logs a storage error and hides it behind an Internal error.
func storeFailure(ctx context.Context, log logging.Logger, op string, err error) error {
	log.Error(ctx, "store operation failed", "op", op, "error", err)
	return apperror.Internal(err)
}

// lookupError maps ErrNotFound to a NotFound error with msg and anything
// else to Internal.
func lookupError(ctx context.Context, log logging.Logger, op string, err error, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NotFound(msg)
	}
	return storeFailure(ctx, log, op, err)
}

// hashPassword hashes plain. Input bcrypt cannot take is a BadRequest; any
// other failure is Internal.
func hashPassword(ctx context.Context, log logging.Logger, hasher auth.PasswordHasher, op, plain string) (string, error) {
	digest, err := hasher.Hash(plain)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return "", apperror.BadRequest(msgPasswordTooLong)
		}
		log.Error(ctx, "password hashing failed", "op", op, "error", err)
		return "", apperror.Internal(err)
	}
	return digest, nil
}
