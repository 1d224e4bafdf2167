package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aterekhov/library-system/gateway/config"
	"github.com/aterekhov/library-system/gateway/internal/errs"
	"github.com/aterekhov/library-system/gateway/internal/model"
	"github.com/aterekhov/library-system/gateway/internal/service/book"
	"github.com/aterekhov/library-system/gateway/internal/service/loan"
	"github.com/aterekhov/library-system/gateway/internal/service/user"
	md "github.com/aterekhov/library-system/pkg/middleware"
	"github.com/aterekhov/library-system/pkg/validate"
	_ "github.com/aterekhov/library-system/swagger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Handler struct {
	loanSvc LoanService
	bookSvc BookService
	userSvc UserService
	log     *zap.Logger
}

func New(log *zap.Logger, cfg config.Config) *Handler {
	h := &Handler{
		loanSvc: loan.NewService(log, cfg),
		bookSvc: book.NewService(log, cfg),
		userSvc: user.NewService(log, cfg),
		log:     log,
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()

	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	api.POST("/auth/register", h.ProxyUser)
	api.POST("/auth/login", h.ProxyUser)
	api.POST("/auth/refresh", h.ProxyUser)

	api = api.Group("", md.JwtAuthentication)

	api.GET("/loans", h.ProxyLoan)
	api.GET("/loans/:id", h.ProxyLoan)
	api.GET("/loans/:id/detail", h.GetLoanDetail)
	api.GET("/loans/user/:userId", h.ProxyLoan)
	api.GET("/loans/book/:bookId", h.ProxyLoan)
	api.POST("/loans/borrow", h.ProxyLoan)
	api.POST("/loans/:id/return", h.ProxyLoan)
	api.POST("/loans/reserve", h.ProxyLoan)

	api.GET("/books", h.ProxyBook)
	api.GET("/books/:id", h.ProxyBook)
	api.GET("/books/isbn/:isbn", h.ProxyBook)
	api.POST("/books", h.ProxyBook)
	api.PUT("/books/:id", h.ProxyBook)
	api.DELETE("/books/:id", h.ProxyBook)
	api.PATCH("/books/:id/copies", h.ProxyBook)

	api.GET("/users", h.ProxyUser)
	api.GET("/users/:id", h.ProxyUser)
	api.PUT("/users/:id", h.ProxyUser)
	api.DELETE("/users/:id", h.ProxyUser)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) ProxyLoan(c echo.Context) error {
	return h.proxy(c, h.loanSvc.CB(), h.loanSvc.Proxy)
}

func (h *Handler) ProxyBook(c echo.Context) error {
	return h.proxy(c, h.bookSvc.CB(), h.bookSvc.Proxy)
}

func (h *Handler) ProxyUser(c echo.Context) error {
	return h.proxy(c, h.userSvc.CB(), h.userSvc.Proxy)
}

type proxyFunc func(c echo.Context) ([]byte, int, error)

// proxy forwards the request behind the downstream's circuit breaker.
// Transport failures and an open breaker both come back as 503.
func (h *Handler) proxy(c echo.Context, cb interface{ Call(func() error) error }, fn proxyFunc) error {
	var (
		data []byte
		code int
	)
	if err := cb.Call(func() error {
		d, cd, err := fn(c)
		if err != nil {
			return err
		}
		data, code = d, cd
		return nil
	}); err != nil {
		h.log.Warn("proxy", zap.String("path", c.Request().URL.Path), zap.Error(err))
		return echo.NewHTTPError(http.StatusServiceUnavailable, errs.ErrUnavailable.Error())
	}
	return c.Blob(code, echo.MIMEApplicationJSON, data)
}

// GetLoanDetail aggregates the loan with its book and user. The book
// and user lookups run in parallel; when either service is down its
// part of the response is simply omitted.
func (h *Handler) GetLoanDetail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid loan id")
	}
	ctx := c.Request().Context()

	var ln model.Loan
	if err := h.loanSvc.CB().Call(func() error {
		l, code, err := h.loanSvc.GetLoan(ctx, id)
		if err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		}
		if code != http.StatusOK {
			return echo.NewHTTPError(code, errs.ErrNotFound.Error())
		}
		ln = l
		return nil
	}); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return err
		}
		return echo.NewHTTPError(http.StatusServiceUnavailable, errs.ErrUnavailable.Error())
	}

	detail := model.LoanDetail{Loan: ln}

	gg, ctxCancel := errgroup.WithContext(ctx)
	gg.Go(func() error {
		if err := h.bookSvc.CB().Call(func() error {
			b, code, err := h.bookSvc.GetBook(ctxCancel, ln.BookID)
			if err != nil {
				return err
			}
			if code == http.StatusOK {
				detail.Book = &b
			}
			return nil
		}); err != nil {
			h.log.Warn("loan detail: book lookup", zap.Int64("bookId", ln.BookID), zap.Error(err))
		}
		return nil
	})
	gg.Go(func() error {
		if err := h.userSvc.CB().Call(func() error {
			u, code, err := h.userSvc.GetUser(ctxCancel, ln.UserID)
			if err != nil {
				return err
			}
			if code == http.StatusOK {
				detail.User = &u
			}
			return nil
		}); err != nil {
			h.log.Warn("loan detail: user lookup", zap.Int64("userId", ln.UserID), zap.Error(err))
		}
		return nil
	})
	if err := gg.Wait(); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, detail)
}
