package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aterekhov/library-system/pkg/auth"
	"github.com/aterekhov/library-system/user/internal/errs"
	"github.com/aterekhov/library-system/user/internal/model"
	userRepo "github.com/aterekhov/library-system/user/internal/repository"
)

const tokenTTL = 24 * time.Hour

type Service struct {
	log  *zap.Logger
	repo userRepo.Repository
}

func NewService(repo userRepo.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log,
		repo: repo,
	}
}

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}
	role := req.Role
	if role == "" {
		role = auth.RoleMember
	}
	return s.repo.CreateUser(ctx, model.User{
		Username:     req.Username,
		Email:        req.Email,
		Role:         role,
		PasswordHash: string(hash),
	})
}

// Login checks credentials and issues an access token. The password
// comparison runs against the stored bcrypt hash only; a missing user
// and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return model.AuthResponse{}, errs.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return model.AuthResponse{}, errs.ErrInvalidCredentials
	}
	return issueToken(user)
}

// Refresh re-issues a token from a still-valid one.
func (s *Service) Refresh(ctx context.Context, tokenString string) (model.AuthResponse, error) {
	claims := &auth.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return auth.JWTKey, nil
	})
	if err != nil || !token.Valid {
		return model.AuthResponse{}, errs.ErrInvalidToken
	}

	user, err := s.repo.GetUserByUsername(ctx, claims.Profile.Username)
	if err != nil {
		return model.AuthResponse{}, errs.ErrInvalidToken
	}
	return issueToken(user)
}

func issueToken(user model.User) (model.AuthResponse, error) {
	expirationTime := time.Now().Add(tokenTTL)
	claims := &auth.Claims{
		Profile: struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		}{
			Username: user.Username,
			Role:     user.Role,
		},
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(auth.JWTKey)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		ExpiresIn:   int(expirationTime.Unix()),
		AccessToken: tokenString,
	}, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (model.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) UpdateUser(ctx context.Context, id int64, req model.UpdateUserRequest) (model.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	return s.repo.UpdateUser(ctx, user)
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.DeleteUser(ctx, id)
}
