package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"polly-api/internal/domain"
	"polly-api/internal/middleware"
	apperrors "polly-api/pkg/errors"
	"polly-api/pkg/logger"
)

// MockPollService mocks service.PollService
type MockPollService struct {
	mock.Mock
}

func (m *MockPollService) Create(ctx context.Context, req *domain.CreatePollRequest) (*domain.Poll, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Poll), args.Error(1)
}

func (m *MockPollService) Get(ctx context.Context, id string) (*domain.Poll, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Poll), args.Error(1)
}

func (m *MockPollService) List(ctx context.Context, limit, offset int) ([]*domain.Poll, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Poll), args.Error(1)
}

func (m *MockPollService) Results(ctx context.Context, pollID string) (*domain.PollResults, error) {
	args := m.Called(ctx, pollID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PollResults), args.Error(1)
}

// MockVoteService mocks service.VoteService
type MockVoteService struct {
	mock.Mock
}

func (m *MockVoteService) Submit(ctx context.Context, req *domain.VoteRequest) (*domain.VoteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VoteResponse), args.Error(1)
}

const testPollID = "0b6f30fa-3a7e-4c5b-9a56-8a2f8f6f3a11"

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error")
	require.NoError(t, err)
	return log
}

// withUser attaches validated claims the way the auth middleware does.
func withUser(r *http.Request, sub string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserContextKey, &domain.AuthClaims{Sub: sub})
	return r.WithContext(ctx)
}

func pollRouter(ph *PollHandler, vh *VoteHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/api/v1/polls/{id}", ph.Get)
	r.Get("/api/v1/polls/{id}/results", ph.Results)
	r.Get("/api/v1/polls", ph.List)
	r.Post("/api/v1/polls", ph.Create)
	r.Post("/api/v1/polls/{id}/vote", vh.Submit)
	return r
}

func TestPollHandlerCreate(t *testing.T) {
	t.Run("authenticated create returns 201 with location", func(t *testing.T) {
		pollSvc := new(MockPollService)
		h := NewPollHandler(pollSvc, testLogger(t))
		router := pollRouter(h, nil)

		pollSvc.On("Create", mock.Anything, mock.MatchedBy(func(req *domain.CreatePollRequest) bool {
			return req.Title == "Lang" && req.UserID == "u1"
		})).Return(&domain.Poll{ID: testPollID, Question: "Lang"}, nil).Once()

		body := `{"title":"Lang","options":["A","B"]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/polls", strings.NewReader(body))
		req = withUser(req, "u1")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "/api/v1/polls/"+testPollID, rec.Header().Get("Location"))
		pollSvc.AssertExpectations(t)
	})

	t.Run("body-supplied user id is ignored", func(t *testing.T) {
		pollSvc := new(MockPollService)
		h := NewPollHandler(pollSvc, testLogger(t))
		router := pollRouter(h, nil)

		pollSvc.On("Create", mock.Anything, mock.MatchedBy(func(req *domain.CreatePollRequest) bool {
			return req.UserID == "u1"
		})).Return(&domain.Poll{ID: testPollID}, nil).Once()

		body := `{"title":"Lang","options":["A","B"],"user_id":"someone-else"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/polls", strings.NewReader(body))
		req = withUser(req, "u1")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		pollSvc.AssertExpectations(t)
	})

	t.Run("anonymous create rejected", func(t *testing.T) {
		pollSvc := new(MockPollService)
		h := NewPollHandler(pollSvc, testLogger(t))
		router := pollRouter(h, nil)

		body := `{"title":"Lang","options":["A","B"]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/polls", strings.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		pollSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		pollSvc := new(MockPollService)
		h := NewPollHandler(pollSvc, testLogger(t))
		router := pollRouter(h, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/polls", strings.NewReader("{not json"))
		req = withUser(req, "u1")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPollHandlerGet(t *testing.T) {
	t.Run("existing poll returned", func(t *testing.T) {
		pollSvc := new(MockPollService)
		h := NewPollHandler(pollSvc, testLogger(t))
		router := pollRouter(h, nil)

		pollSvc.On("Get", mock.Anything, testPollID).
			Return(&domain.Poll{ID: testPollID, Question: "Lang"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/polls/"+testPollID, nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var poll domain.Poll
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &poll))
		assert.Equal(t, testPollID, poll.ID)
	})

	t.Run("absent poll maps to 404 with typed body", func(t *testing.T) {
		pollSvc := new(MockPollService)
		h := NewPollHandler(pollSvc, testLogger(t))
		router := pollRouter(h, nil)

		pollSvc.On("Get", mock.Anything, testPollID).
			Return(nil, domain.ErrPollNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/polls/"+testPollID, nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp apperrors.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, apperrors.ErrorTypeNotFound, resp.Error.Type)
	})

	t.Run("invalid id maps to 400", func(t *testing.T) {
		pollSvc := new(MockPollService)
		h := NewPollHandler(pollSvc, testLogger(t))
		router := pollRouter(h, nil)

		pollSvc.On("Get", mock.Anything, "nope").
			Return(nil, domain.ErrInvalidPollID).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/polls/nope", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestVoteHandlerSubmit(t *testing.T) {
	t.Run("anonymous vote carries no user id", func(t *testing.T) {
		voteSvc := new(MockVoteService)
		vh := NewVoteHandler(voteSvc, testLogger(t))
		router := pollRouter(NewPollHandler(new(MockPollService), testLogger(t)), vh)

		voteSvc.On("Submit", mock.Anything, mock.MatchedBy(func(req *domain.VoteRequest) bool {
			return req.PollID == testPollID && req.OptionID == "o1" && req.UserID == ""
		})).Return(&domain.VoteResponse{VoteID: "v1", PollID: testPollID}, nil).Once()

		body := `{"option_id":"o1"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/polls/"+testPollID+"/vote", strings.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		voteSvc.AssertExpectations(t)
	})

	t.Run("authenticated vote carries the token subject", func(t *testing.T) {
		voteSvc := new(MockVoteService)
		vh := NewVoteHandler(voteSvc, testLogger(t))
		router := pollRouter(NewPollHandler(new(MockPollService), testLogger(t)), vh)

		voteSvc.On("Submit", mock.Anything, mock.MatchedBy(func(req *domain.VoteRequest) bool {
			return req.UserID == "u1"
		})).Return(&domain.VoteResponse{VoteID: "v1"}, nil).Once()

		body := `{"option_id":"o1"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/polls/"+testPollID+"/vote", strings.NewReader(body))
		req = withUser(req, "u1")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		voteSvc.AssertExpectations(t)
	})

	t.Run("duplicate vote surfaces as 409", func(t *testing.T) {
		voteSvc := new(MockVoteService)
		vh := NewVoteHandler(voteSvc, testLogger(t))
		router := pollRouter(NewPollHandler(new(MockPollService), testLogger(t)), vh)

		voteSvc.On("Submit", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewConflictError("You have already voted on this poll")).Once()

		body := `{"option_id":"o1"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/polls/"+testPollID+"/vote", strings.NewReader(body))
		req = withUser(req, "u1")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
