// Package services contains server-side business logic. AuthService handles
// registration, login and recovery-answer based password reset.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/learnpoke/internal/common"
	"github.com/dmitrijs2005/learnpoke/internal/logging"
	"github.com/dmitrijs2005/learnpoke/internal/server/models"
	"github.com/dmitrijs2005/learnpoke/internal/server/repositories/users"
	"github.com/go-playground/validator/v10"
)

// PasswordHasher derives and checks password verifiers.
type PasswordHasher interface {
	Hash(password string) string
	Verify(password, verifier string) bool
}

// TokenIssuer mints a bearer token for an authenticated user.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// AuthService orchestrates the credential store, the hasher and the token
// issuer. It holds no mutable state of its own.
type AuthService struct {
	users    users.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	validate *validator.Validate
	logger   logging.Logger
	metrics  *Metrics
}

// NewAuthService constructs an AuthService. metrics may be nil.
func NewAuthService(repo users.Repository, hasher PasswordHasher, tokens TokenIssuer, logger logging.Logger, metrics *Metrics) *AuthService {
	return &AuthService{
		users:    repo,
		hasher:   hasher,
		tokens:   tokens,
		validate: newValidator(),
		logger:   logger.With("module", "auth_service"),
		metrics:  metrics,
	}
}

// Register creates a user. It fails with common.ErrorValidation for missing
// or blank fields and common.ErrorAlreadyExists when the username is taken.
func (s *AuthService) Register(ctx context.Context, username, password, recoveryAnswer string) (err error) {
	defer func() { s.metrics.observe(OperationRegister, err) }()

	in := registerInput{Username: username, Password: password, RecoveryAnswer: recoveryAnswer}
	if err := validateInput(s.validate, in); err != nil {
		return err
	}

	exists, err := s.users.Exists(ctx, username)
	if err != nil {
		s.logger.Error(ctx, "user lookup failed", "username", username, "error", err)
		return common.ErrorInternal
	}
	if exists {
		return common.ErrorAlreadyExists
	}

	user := &models.User{
		UserName:       username,
		Verifier:       s.hasher.Hash(password),
		RecoveryAnswer: recoveryAnswer,
	}

	// A concurrent registration can pass the Exists check too; the store's
	// unique constraint decides and reports ErrorAlreadyExists.
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "user create failed", "username", username, "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "Registered", "username", username)
	return nil
}

// Login verifies the password and returns a signed token. Unknown users and
// wrong passwords both yield common.ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, password string) (token string, err error) {
	defer func() { s.metrics.observe(OperationLogin, err) }()

	if username == "" || password == "" {
		return "", common.ErrorUnauthorized
	}

	user, err := s.users.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "username", username, "error", err)
		return "", common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.Verifier) {
		return "", common.ErrorUnauthorized
	}

	token, err = s.tokens.Issue(user.UserName)
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "username", username, "error", err)
		return "", common.ErrorInternal
	}

	return token, nil
}

// ResetPassword replaces the password of username when recoveryAnswer
// matches the stored answer, ignoring case. Checks run in order and yield
// common.ErrorNotFound, common.ErrRecoveryAnswerMismatch and
// common.ErrPasswordMismatch.
func (s *AuthService) ResetPassword(ctx context.Context, username, recoveryAnswer, newPassword, confirmPassword string) (err error) {
	defer func() { s.metrics.observe(OperationResetPassword, err) }()

	in := resetInput{Username: username, RecoveryAnswer: recoveryAnswer, NewPassword: newPassword}
	if err := validateInput(s.validate, in); err != nil {
		return err
	}

	user, err := s.users.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "user lookup failed", "username", username, "error", err)
		return common.ErrorInternal
	}

	if !answersMatch(user.RecoveryAnswer, recoveryAnswer) {
		return common.ErrRecoveryAnswerMismatch
	}

	if newPassword != confirmPassword {
		return common.ErrPasswordMismatch
	}

	if err := s.users.UpdateVerifier(ctx, username, s.hasher.Hash(newPassword)); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "verifier update failed", "username", username, "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "Password reset", "username", username)
	return nil
}

func answersMatch(stored, supplied string) bool {
	return strings.EqualFold(strings.TrimSpace(stored), strings.TrimSpace(supplied))
}
