package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aterekhov/library-system/loan/internal/errs"
	"github.com/aterekhov/library-system/loan/internal/handler"
	"github.com/aterekhov/library-system/loan/internal/model"
	"github.com/aterekhov/library-system/pkg/validate"

	service_mocks "github.com/aterekhov/library-system/loan/internal/handler/mocks"
)

func TestHandler_Borrow(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLoanService)

	borrowDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"userId":1,"bookId":42}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					Borrow(context.Background(), model.BorrowRequest{UserID: 1, BookID: 42}).
					Return(model.Loan{
						ID:         7,
						UserID:     1,
						BookID:     42,
						BorrowDate: borrowDate,
						DueDate:    borrowDate.AddDate(0, 0, 21),
						Status:     model.StatusActive,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":7,"userId":1,"bookId":42,"borrowDate":"2024-03-01T00:00:00Z","dueDate":"2024-03-22T00:00:00Z","status":"ACTIVE"}`,
			},
		},
		{
			name: "degraded pending placeholder",
			body: `{"userId":1,"bookId":42}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					Borrow(context.Background(), model.BorrowRequest{UserID: 1, BookID: 42}).
					Return(model.Loan{
						UserID:  1,
						BookID:  42,
						Status:  model.StatusPending,
						Message: "book service temporarily unavailable",
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":0,"userId":1,"bookId":42,"borrowDate":"0001-01-01T00:00:00Z","dueDate":"0001-01-01T00:00:00Z","status":"PENDING","message":"book service temporarily unavailable"}`,
			},
		},
		{
			name:         "err. userId required",
			body:         `{"bookId":42}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
		{
			name: "err. unknown user",
			body: `{"userId":99,"bookId":42}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					Borrow(context.Background(), model.BorrowRequest{UserID: 99, BookID: 42}).
					Return(model.Loan{}, errs.ErrUserNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"user not found"}`,
			},
		},
		{
			name: "err. no copies",
			body: `{"userId":1,"bookId":42}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					Borrow(context.Background(), model.BorrowRequest{UserID: 1, BookID: 42}).
					Return(model.Loan{}, errs.ErrBookNotAvailable)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"book is not available"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLoanService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/loans/borrow", h.Borrow)

			r := httptest.NewRequest(http.MethodPost, "/loans/borrow", strings.NewReader(tt.body))
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

func TestHandler_ReturnLoan(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLoanService)

	borrowDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	returnDate := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		id           string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok with explicit date",
			id:   "7",
			body: `{"returnDate":"2024-03-10"}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					ReturnLoan(context.Background(), int64(7), &returnDate).
					Return(model.Loan{
						ID:         7,
						UserID:     1,
						BookID:     42,
						BorrowDate: borrowDate,
						DueDate:    borrowDate.AddDate(0, 0, 21),
						ReturnDate: &returnDate,
						Status:     model.StatusReturned,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":7,"userId":1,"bookId":42,"borrowDate":"2024-03-01T00:00:00Z","dueDate":"2024-03-22T00:00:00Z","returnDate":"2024-03-10T00:00:00Z","status":"RETURNED"}`,
			},
		},
		{
			name:         "err. bad id",
			id:           "abc",
			body:         `{}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"invalid loan id"}`,
			},
		},
		{
			name: "err. unknown loan",
			id:   "404",
			body: `{}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					ReturnLoan(context.Background(), int64(404), nil).
					Return(model.Loan{}, errs.ErrLoanNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"loan not found"}`,
			},
		},
		{
			name: "err. book service down",
			id:   "7",
			body: `{}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					ReturnLoan(context.Background(), int64(7), nil).
					Return(model.Loan{}, errs.ErrInventoryUnavailable)
			},
			response: response{
				expectedCode: http.StatusServiceUnavailable,
				expectedBody: `{"message":"book service unavailable"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLoanService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/loans/:id/return", h.ReturnLoan)

			r := httptest.NewRequest(http.MethodPost, "/loans/"+tt.id+"/return", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}
