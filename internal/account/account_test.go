package account

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/0097eo/ideal-furniture/pkg/errors"
)

type fakeRegistrar struct {
	message   string
	success   bool
	err       error
	registers int
	verifies  int
}

func (f *fakeRegistrar) Register(context.Context, string, string, string) (string, error) {
	f.registers++
	return f.message, f.err
}

func (f *fakeRegistrar) VerifyEmail(context.Context, string, string) (bool, error) {
	f.verifies++
	return f.success, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func validInput() RegisterInput {
	return RegisterInput{
		Username: "shopper",
		Email:    "shopper@example.com",
		Password: "s3cretpass",
	}
}

func TestRegister_VerificationPending(t *testing.T) {
	gw := &fakeRegistrar{message: "User created. Please check your email for verification code"}
	svc := NewService(gw, testLogger())

	msg, pending, err := svc.Register(context.Background(), validInput())

	require.NoError(t, err)
	assert.True(t, pending)
	assert.Equal(t, gw.message, msg)
}

func TestRegister_PlainSuccessMessage(t *testing.T) {
	gw := &fakeRegistrar{message: "User created successfully"}
	svc := NewService(gw, testLogger())

	msg, pending, err := svc.Register(context.Background(), validInput())

	require.NoError(t, err)
	assert.False(t, pending)
	assert.Equal(t, "User created successfully", msg)
}

func TestRegister_InvalidInputRejectedBeforeNetwork(t *testing.T) {
	gw := &fakeRegistrar{}
	svc := NewService(gw, testLogger())

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "sh",
		Email:    "not-an-email",
		Password: "short",
	})

	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Zero(t, gw.registers)
}

func TestRegister_ServerErrorPassedThrough(t *testing.T) {
	gw := &fakeRegistrar{err: apperrors.Validation("username already taken")}
	svc := NewService(gw, testLogger())

	_, _, err := svc.Register(context.Background(), validInput())

	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "username already taken", apperrors.Message(err))
}

func TestVerifyEmail_Success(t *testing.T) {
	gw := &fakeRegistrar{success: true}
	svc := NewService(gw, testLogger())

	ok, err := svc.VerifyEmail(context.Background(), "shopper@example.com", "123456")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, gw.verifies)
}

func TestVerifyEmail_MissingFields(t *testing.T) {
	gw := &fakeRegistrar{}
	svc := NewService(gw, testLogger())

	_, err := svc.VerifyEmail(context.Background(), "", "123456")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.VerifyEmail(context.Background(), "shopper@example.com", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.Zero(t, gw.verifies)
}
