package handlers_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/roster/internal/handlers"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRegister_Success(t *testing.T) {
	var issuedFor int64

	mockService := &handlers.MockUserService{
		CreateUserFunc: func(user *models.User, password string) (*models.User, error) {
			created := *user
			created.ID = 1
			created.CreatedAt = time.Now()
			return &created, nil
		},
	}
	mockTokens := &handlers.MockTokenIssuer{
		GenerateFunc: func(userID int64, email string) (string, error) {
			issuedFor = userID
			return "signed-token", nil
		},
	}

	handler := handlers.NewAuthHandler(mockService, mockTokens)
	req := handlers.NewTestRequest(t, "POST", "/api/auth/register", handlers.RegisterRequest{
		Name:   "New User",
		Email:  "New@Example.com",
		Secret: "securePassword123!",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	var resp handlers.TokenResponse
	handlers.AssertJSONResponse(t, w, 201, &resp)
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, int64(1), issuedFor, "token must be bound to the new identity")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	mockService := &handlers.MockUserService{
		GetUserByEmailFunc: func(email string) (*models.User, error) {
			return &models.User{ID: 1, Email: email}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockService, &handlers.MockTokenIssuer{})
	req := handlers.NewTestRequest(t, "POST", "/api/auth/register", handlers.RegisterRequest{
		Name:   "User",
		Email:  "existing@example.com",
		Secret: "securePassword123!",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestRegister_ShortSecret(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockUserService{}, &handlers.MockTokenIssuer{})
	req := handlers.NewTestRequest(t, "POST", "/api/auth/register", handlers.RegisterRequest{
		Name:   "User",
		Email:  "user@example.com",
		Secret: "short",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestLogin_Success(t *testing.T) {
	mockService := &handlers.MockUserService{
		VerifyCredentialsFunc: func(email, password string) (*models.User, bool, error) {
			return &models.User{ID: 5, Email: email}, true, nil
		},
	}

	handler := handlers.NewAuthHandler(mockService, &handlers.MockTokenIssuer{})
	req := handlers.NewTestRequest(t, "POST", "/api/auth/login", handlers.LoginRequest{
		Email:  "user@example.com",
		Secret: "right-secret",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	var resp handlers.TokenResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "test-token", resp.Token)
}

func TestLogin_UniformFailureMessage(t *testing.T) {
	// Wrong password and unknown email must be byte-for-byte identical
	// responses so callers cannot enumerate accounts.
	wrongPassword := &handlers.MockUserService{
		VerifyCredentialsFunc: func(email, password string) (*models.User, bool, error) {
			return nil, false, nil
		},
	}
	unknownEmail := &handlers.MockUserService{
		VerifyCredentialsFunc: func(email, password string) (*models.User, bool, error) {
			return nil, false, nil
		},
	}

	body := handlers.LoginRequest{Email: "user@example.com", Secret: "whatever1"}

	w1 := httptest.NewRecorder()
	handlers.NewAuthHandler(wrongPassword, &handlers.MockTokenIssuer{}).
		Login(w1, handlers.NewTestRequest(t, "POST", "/api/auth/login", body))

	w2 := httptest.NewRecorder()
	handlers.NewAuthHandler(unknownEmail, &handlers.MockTokenIssuer{}).
		Login(w2, handlers.NewTestRequest(t, "POST", "/api/auth/login", body))

	assert.Equal(t, 400, w1.Code)
	assert.Equal(t, w1.Code, w2.Code)
	assert.Equal(t, w1.Body.String(), w2.Body.String())
	handlers.AssertErrorResponse(t, w1, 400, "invalid_credentials")
}

func TestLogin_InvalidBody(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockUserService{}, &handlers.MockTokenIssuer{})
	req := handlers.NewTestRequest(t, "POST", "/api/auth/login", handlers.LoginRequest{
		Email: "user@example.com",
		// missing secret
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}
