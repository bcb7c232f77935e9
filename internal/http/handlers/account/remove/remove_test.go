package remove

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/home-inventory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/home-inventory/internal/session"
)

// Мок сервиса с методом DeleteAccount
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) DeleteAccount(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRemoveAccountHandler_ServeHTTP(t *testing.T) {
	logger := newNoopLogger()

	t.Run("deletes account and destroys session", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		sessions := session.NewWithClient(client, time.Hour)

		sessionID, err := sessions.Create(context.Background(), session.Data{
			UserUID: "uid-123",
			Email:   "anna@example.com",
			Name:    "Anna Petrova",
		})
		require.NoError(t, err)

		serviceMock := new(AuthServiceMock)
		serviceMock.On("DeleteAccount", mock.Anything, "uid-123").Return(nil).Once()

		handler := New(logger, serviceMock, sessions, "session_id")

		req := httptest.NewRequest(http.MethodDelete, "/account", nil)
		ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
		ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-123")
		ctx = context.WithValue(ctx, middlewarectx.SessionID, sessionID)
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, true, got["success"])
		assert.Equal(t, "account deleted", got["message"])

		_, err = sessions.Get(context.Background(), sessionID)
		assert.ErrorIs(t, err, session.ErrNotFound)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)

		serviceMock.AssertExpectations(t)
	})

	t.Run("missing user in context", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		sessions := session.NewWithClient(client, time.Hour)

		serviceMock := new(AuthServiceMock)
		handler := New(logger, serviceMock, sessions, "session_id")

		req := httptest.NewRequest(http.MethodDelete, "/account", nil)
		req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		serviceMock.AssertNotCalled(t, "DeleteAccount")
	})

	t.Run("service error keeps session alive", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		sessions := session.NewWithClient(client, time.Hour)

		sessionID, err := sessions.Create(context.Background(), session.Data{
			UserUID: "uid-123",
			Email:   "anna@example.com",
		})
		require.NoError(t, err)

		serviceMock := new(AuthServiceMock)
		serviceMock.On("DeleteAccount", mock.Anything, "uid-123").
			Return(errors.New("storage error")).Once()

		handler := New(logger, serviceMock, sessions, "session_id")

		req := httptest.NewRequest(http.MethodDelete, "/account", nil)
		ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
		ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-123")
		ctx = context.WithValue(ctx, middlewarectx.SessionID, sessionID)
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		_, err = sessions.Get(context.Background(), sessionID)
		assert.NoError(t, err)

		serviceMock.AssertExpectations(t)
	})
}
