package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Linn-Htet123/mini-gym-api/internal/auth"
	"github.com/google/uuid"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAdminSecret = errors.New("invalid admin secret key")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	RegisterAdmin(ctx context.Context, req RegisterAdminRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
}

type service struct {
	repo           Repository
	jwtSecret      string
	adminSecretKey string
}

func NewService(repo Repository, jwtSecret, adminSecretKey string) Service {
	return &service{
		repo:           repo,
		jwtSecret:      jwtSecret,
		adminSecretKey: adminSecretKey,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	return s.register(ctx, req.Email, req.Password, auth.RoleMember)
}

func (s *service) RegisterAdmin(ctx context.Context, req RegisterAdminRequest) (*User, string, string, error) {
	if s.adminSecretKey == "" || req.AdminSecretKey != s.adminSecretKey {
		return nil, "", "", ErrInvalidAdminSecret
	}
	return s.register(ctx, req.Email, req.Password, auth.RoleAdmin)
}

func (s *service) register(ctx context.Context, email, password, role string) (*User, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", "", err
	}

	user, err := s.repo.Create(ctx, email, passwordHash, role)
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		user.ID.String(),
		user.Email,
		user.Role,
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		user.ID.String(),
		user.Email,
		user.Role,
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, userID uuid.UUID) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	newAccessToken, err := auth.GenerateAccessToken(user.ID.String(), user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, user, nil
}
