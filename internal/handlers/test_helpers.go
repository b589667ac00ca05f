package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/roster/internal/models"
	pkghttp "github.com/BradenHooton/roster/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// MockUserService implements UserService for testing
type MockUserService struct {
	ListUsersFunc         func() ([]*models.User, error)
	GetUserByIDFunc       func(id int64) (*models.User, error)
	GetUserByEmailFunc    func(email string) (*models.User, error)
	CreateUserFunc        func(user *models.User, password string) (*models.User, error)
	UpdateUserFunc        func(id int64, user *models.User) (*models.User, error)
	DeleteUserFunc        func(id int64) error
	VerifyCredentialsFunc func(email, password string) (*models.User, bool, error)
}

func (m *MockUserService) ListUsers() ([]*models.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc()
	}
	return []*models.User{}, nil
}

func (m *MockUserService) GetUserByID(id int64) (*models.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserService) CreateUser(user *models.User, password string) (*models.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(user, password)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserService) UpdateUser(id int64, user *models.User) (*models.User, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(id, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserService) DeleteUser(id int64) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(id)
	}
	return models.ErrNotFound
}

func (m *MockUserService) VerifyCredentials(email, password string) (*models.User, bool, error) {
	if m.VerifyCredentialsFunc != nil {
		return m.VerifyCredentialsFunc(email, password)
	}
	return nil, false, nil
}

// MockTokenIssuer implements TokenIssuer for testing
type MockTokenIssuer struct {
	GenerateFunc func(userID int64, email string) (string, error)
}

func (m *MockTokenIssuer) Generate(userID int64, email string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(userID, email)
	}
	return "test-token", nil
}

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithChiID adds an {id} URL parameter to the request's chi route context
func WithChiID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}
