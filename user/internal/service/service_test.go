package service_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aterekhov/library-system/pkg/auth"
	"github.com/aterekhov/library-system/user/internal/errs"
	"github.com/aterekhov/library-system/user/internal/model"
	"github.com/aterekhov/library-system/user/internal/service"

	repo_mocks "github.com/aterekhov/library-system/user/internal/repository/mocks"
)

func newService(t *testing.T) (*service.Service, *repo_mocks.MockRepository) {
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	repo := repo_mocks.NewMockRepository(c)
	return service.NewService(repo, zap.NewExample().Named("test")), repo
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)

	req := model.RegisterRequest{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "correct horse battery staple",
	}

	repo.EXPECT().CreateUser(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, user model.User) (model.User, error) {
			require.Equal(t, auth.RoleMember, user.Role)
			require.NotEqual(t, req.Password, user.PasswordHash)
			require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)))
			user.ID = 1
			return user, nil
		})

	user, err := svc.Register(ctx, req)
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	password := "correct horse battery staple"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	stored := model.User{
		ID:           1,
		Username:     "reader",
		Email:        "reader@example.com",
		Role:         auth.RoleMember,
		PasswordHash: string(hash),
	}

	t.Run("issues a verifiable token", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().GetUserByUsername(ctx, stored.Username).Return(stored, nil)

		resp, err := svc.Login(ctx, model.LoginRequest{Username: stored.Username, Password: password})
		require.NoError(t, err)
		require.NotEmpty(t, resp.AccessToken)

		claims := &auth.Claims{}
		token, err := jwt.ParseWithClaims(resp.AccessToken, claims, func(t *jwt.Token) (interface{}, error) {
			return auth.JWTKey, nil
		})
		require.NoError(t, err)
		require.True(t, token.Valid)
		require.Equal(t, stored.Username, claims.Profile.Username)
		require.Equal(t, auth.RoleMember, claims.Profile.Role)
		require.Equal(t, stored.Email, claims.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().GetUserByUsername(ctx, stored.Username).Return(stored, nil)

		_, err := svc.Login(ctx, model.LoginRequest{Username: stored.Username, Password: "nope"})
		require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})

	t.Run("unknown user looks like wrong password", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().GetUserByUsername(ctx, "ghost").Return(model.User{}, errs.ErrNotFound)

		_, err := svc.Login(ctx, model.LoginRequest{Username: "ghost", Password: password})
		require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	password := "correct horse battery staple"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	stored := model.User{
		ID:           1,
		Username:     "reader",
		Email:        "reader@example.com",
		Role:         auth.RoleMember,
		PasswordHash: string(hash),
	}

	t.Run("re-issues from a valid token", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().GetUserByUsername(ctx, stored.Username).Return(stored, nil).Times(2)

		resp, err := svc.Login(ctx, model.LoginRequest{Username: stored.Username, Password: password})
		require.NoError(t, err)

		refreshed, err := svc.Refresh(ctx, resp.AccessToken)
		require.NoError(t, err)
		require.NotEmpty(t, refreshed.AccessToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Refresh(ctx, "not.a.token")
		require.ErrorIs(t, err, errs.ErrInvalidToken)
	})
}
