package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"

	"agrobook-backend/internal/models"
	"agrobook-backend/internal/repositories"

	"github.com/pquerna/otp/totp"
)

type TOTPService struct {
	UserRepo *repositories.UserRepository
	Issuer   string
}

func NewTOTPService(userRepo *repositories.UserRepository, issuer string) *TOTPService {
	return &TOTPService{UserRepo: userRepo, Issuer: issuer}
}

// GenerateSetup creates a new TOTP secret for the user and returns the
// provisioning data including a QR code image. The secret stays disabled
// until the user proves possession via VerifyAndEnable.
func (s *TOTPService) GenerateSetup(ctx context.Context, userID int) (*models.TOTPSetupResponse, error) {
	user, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, err
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	if err := s.UserRepo.SetTOTPSecret(ctx, userID, key.Secret()); err != nil {
		return nil, err
	}

	return &models.TOTPSetupResponse{
		Secret:      key.Secret(),
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Issuer:      s.Issuer,
		AccountName: user.Email,
	}, nil
}

// VerifyAndEnable turns on two-factor once the user submits a valid code
// from their authenticator app.
func (s *TOTPService) VerifyAndEnable(ctx context.Context, userID int, code string) error {
	user, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == "" {
		return errors.New("totp setup not started")
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return ErrTOTPInvalid
	}
	return s.UserRepo.EnableTOTP(ctx, userID)
}

func (s *TOTPService) Verify(secret, code string) bool {
	return totp.Validate(code, secret)
}

// Disable requires a currently valid code so a stolen session cannot
// silently strip two-factor.
func (s *TOTPService) Disable(ctx context.Context, userID int, code string) error {
	user, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.TOTPEnabled && !totp.Validate(code, user.TOTPSecret) {
		return ErrTOTPInvalid
	}
	return s.UserRepo.DisableTOTP(ctx, userID)
}
