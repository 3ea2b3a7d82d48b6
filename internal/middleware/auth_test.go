package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"polly-api/internal/domain"
	"polly-api/pkg/errors"
	"polly-api/pkg/logger"
)

// MockAuthService mocks service.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.SignUpResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SignUpResponse), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthClaims), args.Error(1)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error")
	require.NoError(t, err)
	return log
}

// claimsRecorder captures the claims the middleware put in context.
func claimsRecorder(got **domain.AuthClaims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth(t *testing.T) {
	t.Run("valid token passes claims through", func(t *testing.T) {
		authSvc := new(MockAuthService)
		authSvc.On("ValidateToken", mock.Anything, "good-token").
			Return(&domain.AuthClaims{Sub: "u1"}, nil).Once()

		var got *domain.AuthClaims
		handler := Auth(authSvc, testLogger(t))(claimsRecorder(&got))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, "u1", got.Sub)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		authSvc := new(MockAuthService)

		var got *domain.AuthClaims
		handler := Auth(authSvc, testLogger(t))(claimsRecorder(&got))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		authSvc.AssertNotCalled(t, "ValidateToken", mock.Anything, mock.Anything)
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		authSvc := new(MockAuthService)

		var got *domain.AuthClaims
		handler := Auth(authSvc, testLogger(t))(claimsRecorder(&got))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		authSvc := new(MockAuthService)
		authSvc.On("ValidateToken", mock.Anything, "bad-token").
			Return(nil, errors.NewAuthenticationError("Invalid or expired token")).Once()

		var got *domain.AuthClaims
		handler := Auth(authSvc, testLogger(t))(claimsRecorder(&got))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, got)
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Run("no header passes through anonymously", func(t *testing.T) {
		authSvc := new(MockAuthService)

		var got *domain.AuthClaims
		handler := OptionalAuth(authSvc, testLogger(t))(claimsRecorder(&got))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, got)
		authSvc.AssertNotCalled(t, "ValidateToken", mock.Anything, mock.Anything)
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		authSvc := new(MockAuthService)
		authSvc.On("ValidateToken", mock.Anything, "good-token").
			Return(&domain.AuthClaims{Sub: "u1"}, nil).Once()

		var got *domain.AuthClaims
		handler := OptionalAuth(authSvc, testLogger(t))(claimsRecorder(&got))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, "u1", got.Sub)
	})

	t.Run("present but invalid token still rejected", func(t *testing.T) {
		authSvc := new(MockAuthService)
		authSvc.On("ValidateToken", mock.Anything, "bad-token").
			Return(nil, errors.NewAuthenticationError("Invalid or expired token")).Once()

		var got *domain.AuthClaims
		handler := OptionalAuth(authSvc, testLogger(t))(claimsRecorder(&got))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequestID(t *testing.T) {
	handler := RequestID(testLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := r.Context().Value(RequestIDContextKey).(string)
		assert.NotEmpty(t, id)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
