package handler

import (
	"context"

	"github.com/aterekhov/library-system/user/internal/model"
	"github.com/aterekhov/library-system/user/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var _ UserService = (*service.Service)(nil)

type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
	Refresh(ctx context.Context, tokenString string) (model.AuthResponse, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id int64, req model.UpdateUserRequest) (model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}
