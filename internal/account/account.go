// Package account implements the registration and email-verification flows.
// Input is validated locally before any network call; server messages are
// surfaced verbatim.
package account

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/0097eo/ideal-furniture/pkg/errors"
	"github.com/0097eo/ideal-furniture/pkg/validator"
)

// Registrar is the subset of REST operations the account flows need.
type Registrar interface {
	Register(ctx context.Context, username, email, password string) (string, error)
	VerifyEmail(ctx context.Context, email, code string) (bool, error)
}

// RegisterInput holds the signup form values.
type RegisterInput struct {
	Username string `validate:"required,min=3,max=64"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// Service drives the account flows.
type Service struct {
	gw     Registrar
	logger *slog.Logger
}

// NewService creates an account service.
func NewService(gw Registrar, logger *slog.Logger) *Service {
	return &Service{gw: gw, logger: logger}
}

// Register validates the input and creates the account. The returned message
// is the server's verbatim response; verificationPending reports whether it
// instructs the user to check their email for a verification code.
func (s *Service) Register(ctx context.Context, input RegisterInput) (message string, verificationPending bool, err error) {
	if err := validator.Validate(input); err != nil {
		return "", false, apperrors.Validation(err.Error())
	}

	message, err = s.gw.Register(ctx, input.Username, input.Email, input.Password)
	if err != nil {
		return "", false, err
	}

	verificationPending = strings.Contains(message, "check your email for verification")
	s.logger.InfoContext(ctx, "registration submitted",
		slog.String("username", input.Username),
		slog.Bool("verification_pending", verificationPending),
	)
	return message, verificationPending, nil
}

// VerifyEmail confirms the account with the emailed code.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) (bool, error) {
	if email == "" {
		return false, apperrors.Validation("email is required")
	}
	if code == "" {
		return false, apperrors.Validation("verification code is required")
	}
	return s.gw.VerifyEmail(ctx, email, code)
}
