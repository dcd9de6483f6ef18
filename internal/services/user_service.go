package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"agrobook-backend/internal/auth"
	"agrobook-backend/internal/models"
	"agrobook-backend/internal/repositories"

	"github.com/jackc/pgx/v5"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("account is deactivated")
	ErrTOTPRequired       = errors.New("totp code required")
	ErrTOTPInvalid        = errors.New("invalid totp code")
)

type UserService struct {
	UserRepo     *repositories.UserRepository
	LoginLogRepo *repositories.LoginLogRepository
	JWT          *auth.JWTManager
	TOTP         *TOTPService
}

func NewUserService(userRepo *repositories.UserRepository, loginLogRepo *repositories.LoginLogRepository, jwt *auth.JWTManager, totp *TOTPService) *UserService {
	return &UserService{UserRepo: userRepo, LoginLogRepo: loginLogRepo, JWT: jwt, TOTP: totp}
}

func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return nil, errors.New("name and email are required")
	}
	if len(req.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	if _, err := s.UserRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         "user",
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.JWT.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	log.Printf("[Auth] New signup: %s (id=%d)", user.Email, user.ID)
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest, ipAddress, userAgent string) (*models.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.UserRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if user.TOTPEnabled {
		if req.TOTPCode == "" {
			return nil, ErrTOTPRequired
		}
		if !s.TOTP.Verify(user.TOTPSecret, req.TOTPCode) {
			return nil, ErrTOTPInvalid
		}
	}

	token, err := s.JWT.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	if err := s.LoginLogRepo.Create(ctx, user.ID, ipAddress, userAgent); err != nil {
		log.Printf("[Auth] Failed to record login log for user %d: %v", user.ID, err)
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	return s.UserRepo.Get(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.UserRepo.List(ctx)
}

func (s *UserService) Update(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.UserRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Role == "admin" || req.Role == "user" {
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != "" {
		if len(req.Password) < 6 {
			return nil, errors.New("password must be at least 6 characters")
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) LoginLogs(ctx context.Context, limit int) ([]*models.LoginLog, error) {
	return s.LoginLogRepo.List(ctx, limit)
}
