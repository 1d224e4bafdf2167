package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aterekhov/library-system/book/internal/errs"
	"github.com/aterekhov/library-system/book/internal/handler"
	"github.com/aterekhov/library-system/book/internal/model"
	"github.com/aterekhov/library-system/pkg/auth"
	md "github.com/aterekhov/library-system/pkg/middleware"
	"github.com/aterekhov/library-system/pkg/validate"

	service_mocks "github.com/aterekhov/library-system/book/internal/handler/mocks"
)

func TestHandler_UpdateCopies(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBookService)

	var tests = []struct {
		name         string
		id           string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok decrement",
			id:   "42",
			body: `{"deltaAvailable":-1}`,
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					ApplyCopiesDelta(context.Background(), int64(42), -1, 0).
					Return(model.Book{
						ID:              42,
						ISBN:            "978-3-16-148410-0",
						Title:           "The Go Programming Language",
						Author:          "Alan A. A. Donovan",
						TotalCopies:     3,
						AvailableCopies: 2,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":42,"isbn":"978-3-16-148410-0","title":"The Go Programming Language","author":"Alan A. A. Donovan","totalCopies":3,"availableCopies":2}`,
			},
		},
		{
			name: "ok restock",
			id:   "42",
			body: `{"deltaAvailable":2,"deltaTotal":2}`,
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					ApplyCopiesDelta(context.Background(), int64(42), 2, 2).
					Return(model.Book{
						ID:              42,
						ISBN:            "978-3-16-148410-0",
						Title:           "The Go Programming Language",
						Author:          "Alan A. A. Donovan",
						TotalCopies:     5,
						AvailableCopies: 4,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":42,"isbn":"978-3-16-148410-0","title":"The Go Programming Language","author":"Alan A. A. Donovan","totalCopies":5,"availableCopies":4}`,
			},
		},
		{
			name: "err. delta would exhaust stock",
			id:   "42",
			body: `{"deltaAvailable":-1}`,
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					ApplyCopiesDelta(context.Background(), int64(42), -1, 0).
					Return(model.Book{}, errs.ErrCopiesConflict)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"copies delta rejected"}`,
			},
		},
		{
			name: "err. unknown book",
			id:   "404",
			body: `{"deltaAvailable":1}`,
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					ApplyCopiesDelta(context.Background(), int64(404), 1, 0).
					Return(model.Book{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"book not found"}`,
			},
		},
		{
			name:         "err. zero delta",
			id:           "42",
			body:         `{"deltaAvailable":0}`,
			mockBehavior: func(r *service_mocks.MockBookService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBookService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.PATCH("/books/:id/copies", h.UpdateCopies)

			r := httptest.NewRequest(http.MethodPatch, "/books/"+tt.id+"/copies", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_CreateBook(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBookService)

	var tests = []struct {
		name         string
		role         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			role: auth.RoleAdmin,
			body: `{"isbn":"978-3-16-148410-0","title":"The Go Programming Language","author":"Alan A. A. Donovan","totalCopies":3}`,
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					CreateBook(gomock.Any(), model.CreateBookRequest{
						ISBN:        "978-3-16-148410-0",
						Title:       "The Go Programming Language",
						Author:      "Alan A. A. Donovan",
						TotalCopies: 3,
					}).
					Return(model.Book{
						ID:              42,
						ISBN:            "978-3-16-148410-0",
						Title:           "The Go Programming Language",
						Author:          "Alan A. A. Donovan",
						TotalCopies:     3,
						AvailableCopies: 3,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":42,"isbn":"978-3-16-148410-0","title":"The Go Programming Language","author":"Alan A. A. Donovan","totalCopies":3,"availableCopies":3}`,
			},
		},
		{
			name:         "err. member role",
			role:         auth.RoleMember,
			body:         `{"isbn":"978-3-16-148410-0","title":"x","author":"y","totalCopies":1}`,
			mockBehavior: func(r *service_mocks.MockBookService) {},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"admin role required"}`,
			},
		},
		{
			name: "err. duplicate isbn",
			role: auth.RoleAdmin,
			body: `{"isbn":"978-3-16-148410-0","title":"x","author":"y","totalCopies":1}`,
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					CreateBook(gomock.Any(), gomock.Any()).
					Return(model.Book{}, errs.ErrISBNExists)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"book with this isbn already exists"}`,
			},
		},
		{
			name:         "err. title required",
			role:         auth.RoleAdmin,
			body:         `{"isbn":"978-3-16-148410-0","author":"y","totalCopies":1}`,
			mockBehavior: func(r *service_mocks.MockBookService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBookService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/books", h.CreateBook, md.AuthContext)

			r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			r.Header.Set(auth.XUserNameHeader, "tester")
			r.Header.Set(auth.XUserRoleHeader, tt.role)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}
