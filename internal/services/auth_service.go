package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync"

	"pasar/internal/apperror"
	"pasar/internal/auth"
	"pasar/internal/logging"
	"pasar/internal/models"
	"pasar/internal/notify"
	"pasar/internal/repositories"
)

const (
	msgUserNotFound       = "User not found"
	msgInvalidOTP         = "Invalid OTP code"
	msgInvalidCredentials = "Invalid credentials"
	msgPasswordTooLong    = "Password must be at most 72 bytes"
)

// AuthResult is returned by every AuthService operation. Token and User are
// only set by operations that authenticate the caller.
type AuthResult struct {
	Message string             `json:"message"`
	Token   string             `json:"access_token,omitempty"`
	User    *models.PublicUser `json:"user,omitempty"`
}

// AuthService drives registration, email verification, login and password
// reset.
type AuthService struct {
	users    repositories.UserRepository
	hasher   auth.PasswordHasher
	otp      auth.OTPGenerator
	tokens   *auth.TokenService
	notifier notify.Notifier
	log      logging.Logger

	// decoy is a digest compared on logins for unknown emails.
	decoyOnce sync.Once
	decoy     string
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users repositories.UserRepository,
	hasher auth.PasswordHasher,
	otp auth.OTPGenerator,
	tokens *auth.TokenService,
	notifier notify.Notifier,
	log logging.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		otp:      otp,
		tokens:   tokens,
		notifier: notifier,
		log:      log.With("component", "auth_service"),
	}
}

// Register creates an unverified CUSTOMER holding a fresh verification code
// and returns a token for it.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperror.Conflict("User already exists")
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, storeFailure(ctx, s.log, "register", err)
	}

	digest, err := hashPassword(ctx, s.log, s.hasher, "register", password)
	if err != nil {
		return nil, err
	}
	code, err := s.otp.Generate()
	if err != nil {
		return nil, s.internal(ctx, "register", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: digest,
		Role:         models.RoleCustomer,
		IsVerified:   false,
		PendingCode:  &code,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("User already exists")
		}
		return nil, storeFailure(ctx, s.log, "register", err)
	}

	s.send(ctx, notify.KindWelcome, user, code)
	return s.authenticated(ctx, "Registration successful! Please check your email for verification code.", user)
}

// VerifyEmail marks the account verified when code matches the pending code.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*AuthResult, error) {
	user, err := s.findByEmail(ctx, "verify_email", email)
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		return nil, apperror.BadRequest("Email is already verified")
	}
	if !codeMatches(user, code) {
		return nil, apperror.BadRequest(msgInvalidOTP)
	}

	updated, err := s.users.Update(ctx, user.ID, repositories.UserFields{
		repositories.ColumnIsVerified:  true,
		repositories.ColumnPendingCode: nil,
	})
	if err != nil {
		return nil, lookupError(ctx, s.log, "verify_email", err, msgUserNotFound)
	}
	return s.authenticated(ctx, "Email verified successfully! You can now login.", updated)
}

// ResendVerification replaces the pending code of an unverified account and
// mails the new one.
func (s *AuthService) ResendVerification(ctx context.Context, email string) (*AuthResult, error) {
	user, err := s.findByEmail(ctx, "resend_verification", email)
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		return nil, apperror.BadRequest("Email is already verified")
	}

	code, err := s.issueCode(ctx, "resend_verification", user)
	if err != nil {
		return nil, err
	}
	s.send(ctx, notify.KindVerification, user, code)
	return &AuthResult{Message: "Verification code sent to your email"}, nil
}

// Login checks the credentials and returns a token. Unverified accounts are
// refused unless their role may log in unverified.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Same bcrypt work as a known email.
			s.hasher.Verify(password, s.decoyDigest())
			return nil, apperror.Unauthorized(msgInvalidCredentials)
		}
		return nil, storeFailure(ctx, s.log, "login", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}
	if !user.IsVerified && !user.Role.CanLoginUnverified() {
		return nil, apperror.Unauthorized("Please verify your email before logging in")
	}
	return s.authenticated(ctx, "Login successful", user)
}

// ForgotPassword stores and mails a reset code. Verification state does not
// matter.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*AuthResult, error) {
	user, err := s.findByEmail(ctx, "forgot_password", email)
	if err != nil {
		return nil, err
	}

	code, err := s.issueCode(ctx, "forgot_password", user)
	if err != nil {
		return nil, err
	}
	s.send(ctx, notify.KindPasswordReset, user, code)
	return &AuthResult{Message: "Password reset code sent to your email"}, nil
}

// ResetPassword sets a new password when code matches the pending code.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) (*AuthResult, error) {
	user, err := s.findByEmail(ctx, "reset_password", email)
	if err != nil {
		return nil, err
	}
	if !codeMatches(user, code) {
		return nil, apperror.BadRequest(msgInvalidOTP)
	}

	digest, err := hashPassword(ctx, s.log, s.hasher, "reset_password", newPassword)
	if err != nil {
		return nil, err
	}
	_, err = s.users.Update(ctx, user.ID, repositories.UserFields{
		repositories.ColumnPasswordHash: digest,
		repositories.ColumnPendingCode:  nil,
	})
	if err != nil {
		return nil, lookupError(ctx, s.log, "reset_password", err, msgUserNotFound)
	}
	return &AuthResult{Message: "Password reset successfully"}, nil
}

// ManuallyVerifyEmail verifies an account without a code. It is idempotent.
func (s *AuthService) ManuallyVerifyEmail(ctx context.Context, email string) (*AuthResult, error) {
	user, err := s.findByEmail(ctx, "manual_verify", email)
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		pub := user.Public()
		return &AuthResult{Message: "User is already verified", User: &pub}, nil
	}

	updated, err := s.users.Update(ctx, user.ID, repositories.UserFields{
		repositories.ColumnIsVerified:  true,
		repositories.ColumnPendingCode: nil,
	})
	if err != nil {
		return nil, lookupError(ctx, s.log, "manual_verify", err, msgUserNotFound)
	}
	pub := updated.Public()
	return &AuthResult{Message: "Email manually verified successfully", User: &pub}, nil
}

// ResetPasswordManually sets a new password without a code. The pending code
// is left untouched.
func (s *AuthService) ResetPasswordManually(ctx context.Context, email, newPassword string) (*AuthResult, error) {
	user, err := s.findByEmail(ctx, "manual_reset_password", email)
	if err != nil {
		return nil, err
	}

	digest, err := hashPassword(ctx, s.log, s.hasher, "manual_reset_password", newPassword)
	if err != nil {
		return nil, err
	}
	updated, err := s.users.Update(ctx, user.ID, repositories.UserFields{
		repositories.ColumnPasswordHash: digest,
	})
	if err != nil {
		return nil, lookupError(ctx, s.log, "manual_reset_password", err, msgUserNotFound)
	}
	pub := updated.Public()
	return &AuthResult{Message: "Password reset successfully", User: &pub}, nil
}

func (s *AuthService) findByEmail(ctx context.Context, op, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, lookupError(ctx, s.log, op, err, msgUserNotFound)
	}
	return user, nil
}

// issueCode generates a code and stores it as the user's only pending code.
func (s *AuthService) issueCode(ctx context.Context, op string, user *models.User) (string, error) {
	code, err := s.otp.Generate()
	if err != nil {
		return "", s.internal(ctx, op, err)
	}
	if _, err := s.users.Update(ctx, user.ID, repositories.UserFields{
		repositories.ColumnPendingCode: code,
	}); err != nil {
		return "", lookupError(ctx, s.log, op, err, msgUserNotFound)
	}
	return code, nil
}

func (s *AuthService) authenticated(ctx context.Context, message string, user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(auth.ClaimsFor(user))
	if err != nil {
		return nil, s.internal(ctx, "issue_token", err)
	}
	pub := user.Public()
	return &AuthResult{Message: message, Token: token, User: &pub}, nil
}

// send mails code to user. Failures are logged and otherwise ignored.
func (s *AuthService) send(ctx context.Context, kind notify.Kind, user *models.User, code string) {
	err := s.notifier.Send(ctx, kind, user.Email, map[string]string{
		notify.DataName: user.Name,
		notify.DataCode: code,
	})
	if err != nil {
		s.log.Warn(ctx, "failed to send email", "kind", kind, "to", user.Email, "error", err)
		return
	}
	s.log.Info(ctx, "email queued", "kind", kind, "to", user.Email)
}

// decoyDigest hashes a fixed string once with the service's hasher, so its
// cost matches the stored digests.
func (s *AuthService) decoyDigest() string {
	s.decoyOnce.Do(func() {
		digest, err := s.hasher.Hash("pasar-decoy-password")
		if err != nil {
			s.log.Warn(context.Background(), "failed to build decoy digest", "error", err)
			return
		}
		s.decoy = digest
	})
	return s.decoy
}

func (s *AuthService) internal(ctx context.Context, op string, err error) error {
	s.log.Error(ctx, "auth operation failed", "op", op, "error", err)
	return apperror.Internal(err)
}

// codeMatches compares code with the pending code in constant time. No
// pending code never matches.
func codeMatches(user *models.User, code string) bool {
	if user.PendingCode == nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*user.PendingCode), []byte(code)) == 1
}
