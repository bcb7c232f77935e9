package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	services "github.com/magabrotheeeer/home-inventory/internal/services/auth"
)

// Мок сервиса с методом Register
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, firstName, lastName, email, rawPassword string) (string, error) {
	args := m.Called(ctx, firstName, lastName, email, rawPassword)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockUID        string
		mockErr        error
		wantStatusCode int
		wantMessage    string
		wantSuccess    bool
		wantData       map[string]any
	}{
		{
			name: "valid registration",
			requestBody: Request{
				FirstName: "Anna",
				LastName:  "Petrova",
				Email:     "anna@example.com",
				Password:  "Str0ng!Pass",
			},
			mockUID:        "uid-123",
			mockErr:        nil,
			wantStatusCode: http.StatusOK,
			wantMessage:    "account created successfully",
			wantSuccess:    true,
			wantData: map[string]any{
				"email": "anna@example.com",
			},
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "invalid request body",
			wantSuccess:    false,
		},
		{
			name: "validation error - missing password",
			requestBody: Request{
				FirstName: "Anna",
				LastName:  "Petrova",
				Email:     "anna@example.com",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantMessage:    "field Password is a required field",
			wantSuccess:    false,
		},
		{
			name: "weak password",
			requestBody: Request{
				FirstName: "Anna",
				LastName:  "Petrova",
				Email:     "anna@example.com",
				Password:  "short",
			},
			mockErr: &services.PolicyError{Violations: []string{
				"password must be at least 8 characters long",
			}},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantMessage:    "password must be at least 8 characters long",
			wantSuccess:    false,
		},
		{
			name: "duplicate email",
			requestBody: Request{
				FirstName: "Anna",
				LastName:  "Petrova",
				Email:     "anna@example.com",
				Password:  "Str0ng!Pass",
			},
			mockErr:        services.ErrEmailTaken,
			wantStatusCode: http.StatusConflict,
			wantMessage:    "this email is already registered",
			wantSuccess:    false,
		},
		{
			name: "storage error",
			requestBody: Request{
				FirstName: "Anna",
				LastName:  "Petrova",
				Email:     "anna@example.com",
				Password:  "Str0ng!Pass",
			},
			mockErr:        errors.New("storage error"),
			wantStatusCode: http.StatusInternalServerError,
			wantMessage:    "failed to register, please try again",
			wantSuccess:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if req, ok := tt.requestBody.(Request); ok && req.Password != "" {
				serviceMock.On("Register", mock.Anything,
					req.FirstName,
					req.LastName,
					req.Email,
					req.Password,
				).Return(tt.mockUID, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantSuccess, got["success"])
			assert.Equal(t, tt.wantMessage, got["message"])

			if tt.wantData != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				for k, v := range tt.wantData {
					assert.Equal(t, v, data[k])
				}
			} else {
				assert.Nil(t, got["data"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
