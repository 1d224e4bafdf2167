package handler

import (
	"net/http"
	"strconv"
	"time"

	md "github.com/aterekhov/library-system/pkg/middleware"

	"github.com/aterekhov/library-system/book/internal/errs"
	"github.com/aterekhov/library-system/pkg/auth"
	"github.com/aterekhov/library-system/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aterekhov/library-system/book/internal/model"
)

type Handler struct {
	bookSvc BookService
	client  *http.Client
	log     *zap.Logger
}

func New(bookSvc BookService, log *zap.Logger) *Handler {
	h := &Handler{
		bookSvc: bookSvc,
		log:     log,
		client: &http.Client{
			Timeout: time.Minute,
		},
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

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.AuthContext,
	)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:id", h.GetBook)
	api.GET("/books/isbn/:isbn", h.GetBookByISBN)
	api.POST("/books", h.CreateBook)
	api.PUT("/books/:id", h.UpdateBook)
	api.DELETE("/books/:id", h.DeleteBook)
	api.PATCH("/books/:id/copies", h.UpdateCopies)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) CreateBook(c echo.Context) error {
	if !auth.IsAdmin(c.Request().Context()) {
		return echo.NewHTTPError(http.StatusForbidden, "admin role required")
	}
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.bookSvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) GetBook(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	book, err := h.bookSvc.GetBook(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) GetBookByISBN(c echo.Context) error {
	isbn := c.Param("isbn")
	if isbn == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "isbn required")
	}
	book, err := h.bookSvc.GetBookByISBN(c.Request().Context(), isbn)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) ListBooks(c echo.Context) error {
	var filter model.ListFilter
	if err := c.Bind(&filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	books, err := h.bookSvc.ListBooks(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	if !auth.IsAdmin(c.Request().Context()) {
		return echo.NewHTTPError(http.StatusForbidden, "admin role required")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.bookSvc.UpdateBook(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	if !auth.IsAdmin(c.Request().Context()) {
		return echo.NewHTTPError(http.StatusForbidden, "admin role required")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	if err := h.bookSvc.DeleteBook(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateCopies is the only write path for the copy counters. The loan
// service calls it with deltaAvailable -1 on borrow and +1 on return;
// admins restock with deltaTotal.
func (h *Handler) UpdateCopies(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	var req model.UpdateCopiesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.bookSvc.ApplyCopiesDelta(c.Request().Context(), id, req.DeltaAvailable, req.DeltaTotal)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrISBNExists),
		errors.Is(err, errs.ErrCopiesConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
