package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aterekhov/library-system/loan/internal/errs"
	"github.com/aterekhov/library-system/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	authorizationHeader = "Authorization"
	bearer              = "Bearer "
)

type Book struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type CopiesDeltaRequest struct {
	DeltaAvailable int `json:"deltaAvailable"`
}

type Addr struct {
	Host string
	Port string
}

// BookClient talks to the inventory authority. The caller's bearer
// token is forwarded on every request.
type BookClient struct {
	log    *zap.Logger
	client *http.Client
	addr   Addr
}

func NewBookClient(log *zap.Logger, addr Addr, timeout time.Duration) *BookClient {
	return &BookClient{
		log:    log.Named("book-client"),
		client: &http.Client{Timeout: timeout},
		addr:   addr,
	}
}

func (c *BookClient) GetBook(ctx context.Context, id int64) (Book, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("http://%s/api/v1/books/%d", net.JoinHostPort(c.addr.Host, c.addr.Port), id),
		http.NoBody)
	if err != nil {
		return Book{}, err
	}
	setAuth(ctx, req)
	resp, err := c.client.Do(req)
	if err != nil {
		return Book{}, errors.Wrap(errs.ErrInventoryUnavailable, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Book{}, errs.ErrBookNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		return Book{}, errors.Wrapf(errs.ErrInventoryUnavailable, "status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return Book{}, errors.Errorf("get book: unexpected status %d", resp.StatusCode)
	}

	var book Book
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		return Book{}, err
	}
	return book, nil
}

// ApplyCopiesDelta asks the authority to apply a signed delta to the
// available-copies counter. The authority rejects any delta that would
// leave the counter outside [0, totalCopies].
func (c *BookClient) ApplyCopiesDelta(ctx context.Context, id int64, deltaAvailable int) (Book, error) {
	b := bytes.NewBuffer(nil)
	if err := json.NewEncoder(b).Encode(CopiesDeltaRequest{DeltaAvailable: deltaAvailable}); err != nil {
		return Book{}, err
	}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPatch,
		fmt.Sprintf("http://%s/api/v1/books/%d/copies", net.JoinHostPort(c.addr.Host, c.addr.Port), id),
		b)
	if err != nil {
		return Book{}, err
	}
	req.Header.Set("Content-Type", echo.MIMEApplicationJSONCharsetUTF8)
	setAuth(ctx, req)
	resp, err := c.client.Do(req)
	if err != nil {
		return Book{}, errors.Wrap(errs.ErrInventoryUnavailable, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Book{}, errs.ErrBookNotFound
	case resp.StatusCode == http.StatusConflict:
		return Book{}, errs.ErrCopiesConflict
	case resp.StatusCode >= http.StatusInternalServerError:
		return Book{}, errors.Wrapf(errs.ErrInventoryUnavailable, "status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return Book{}, errors.Errorf("apply copies delta: unexpected status %d", resp.StatusCode)
	}

	var book Book
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		return Book{}, err
	}
	return book, nil
}

// UserClient talks to the identity authority.
type UserClient struct {
	log    *zap.Logger
	client *http.Client
	addr   Addr
}

func NewUserClient(log *zap.Logger, addr Addr, timeout time.Duration) *UserClient {
	return &UserClient{
		log:    log.Named("user-client"),
		client: &http.Client{Timeout: timeout},
		addr:   addr,
	}
}

func (c *UserClient) GetUser(ctx context.Context, id int64) (User, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("http://%s/api/v1/users/%d", net.JoinHostPort(c.addr.Host, c.addr.Port), id),
		http.NoBody)
	if err != nil {
		return User{}, err
	}
	setAuth(ctx, req)
	resp, err := c.client.Do(req)
	if err != nil {
		return User{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return User{}, errs.ErrUserNotFound
	case resp.StatusCode != http.StatusOK:
		return User{}, errors.Errorf("get user: unexpected status %d", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return User{}, err
	}
	return user, nil
}

func setAuth(ctx context.Context, req *http.Request) {
	if token := auth.Token(ctx); token != "" {
		req.Header.Set(authorizationHeader, bearer+token)
	}
	if username := auth.Username(ctx); username != "" {
		req.Header.Set(auth.XUserNameHeader, username)
		req.Header.Set(auth.XUserRoleHeader, auth.Role(ctx))
	}
}
