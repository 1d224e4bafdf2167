package user

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/aterekhov/library-system/gateway/config"
	"github.com/aterekhov/library-system/gateway/internal/model"
	"github.com/aterekhov/library-system/pkg/auth"
	"github.com/aterekhov/library-system/pkg/resilience"
	"github.com/labstack/echo/v4"

	"go.uber.org/zap"
)

type Service struct {
	log    *zap.Logger
	client *http.Client
	cb     *resilience.CircuitBreaker
	cfg    config.UserHTTPServer
}

func NewService(log *zap.Logger, cfg config.Config) *Service {
	return &Service{
		log:    log,
		client: &http.Client{Timeout: time.Minute},
		cb: resilience.NewCircuitBreaker(
			cfg.Resilience.RecordLength,
			cfg.Resilience.Timeout,
			cfg.Resilience.Percentile,
			cfg.Resilience.RecoveryRequests),
		cfg: cfg.UserHTTPServer,
	}
}

func (s *Service) CB() *resilience.CircuitBreaker {
	return s.cb
}

func (s *Service) GetUser(ctx context.Context, id int64) (model.User, int, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("http://%s/api/v1/users/%d", net.JoinHostPort(s.cfg.Host, s.cfg.Port), id),
		http.NoBody)
	if err != nil {
		return model.User{}, http.StatusBadRequest, err
	}
	setAuth(ctx, req)
	resp, err := s.client.Do(req)
	if err != nil {
		return model.User{}, http.StatusBadRequest, err
	}
	defer resp.Body.Close()

	var user model.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return model.User{}, http.StatusBadRequest, err
	}
	return user, resp.StatusCode, nil
}

func (s *Service) Proxy(c echo.Context) (data []byte, statusCode int, err error) {
	ur := c.Request().URL
	ur.Scheme = "http"
	ur.Host = net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	req, err := http.NewRequestWithContext(c.Request().Context(), c.Request().Method, ur.String(), c.Request().Body)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	req.Header = c.Request().Header.Clone()
	setAuth(c.Request().Context(), req)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	defer resp.Body.Close()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return data, resp.StatusCode, nil
}

func setAuth(ctx context.Context, req *http.Request) {
	req.Header.Set(auth.XUserNameHeader, auth.Username(ctx))
	req.Header.Set(auth.XUserRoleHeader, auth.Role(ctx))
	if token := auth.Token(ctx); token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
}
