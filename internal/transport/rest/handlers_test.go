package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/formforge/form-service/internal/entity"
	"github.com/formforge/form-service/internal/renderer"
	"github.com/formforge/form-service/internal/service"
	"github.com/formforge/form-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFormsService struct {
	mock.Mock
}

func (m *MockFormsService) CreateForm(ctx context.Context, form *entity.Form) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *MockFormsService) ListForms(ctx context.Context, ownerID string) ([]entity.Form, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Form), args.Error(1)
}

func (m *MockFormsService) GetForm(ctx context.Context, id, ownerID string) (*entity.Form, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Form), args.Error(1)
}

func (m *MockFormsService) UpdateForm(ctx context.Context, form *entity.Form) (*entity.Form, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Form), args.Error(1)
}

func (m *MockFormsService) DeleteForm(ctx context.Context, id, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockFormsService) GetPublicForm(ctx context.Context, link string) (*entity.Form, error) {
	args := m.Called(ctx, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Form), args.Error(1)
}

type MockAccountsService struct {
	mock.Mock
}

func (m *MockAccountsService) Signup(ctx context.Context, email, password string) (string, *entity.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*entity.User), args.Error(2)
}

func (m *MockAccountsService) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*entity.User), args.Error(2)
}

type stubVerifier struct {
	userID string
	err    error
}

func (v stubVerifier) Verify(token string) (string, error) {
	return v.userID, v.err
}

func setupRouter(t *testing.T, verifier TokenVerifier) (*gin.Engine, *MockFormsService, *MockAccountsService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	forms := new(MockFormsService)
	accounts := new(MockAccountsService)
	log := logger.Get()

	h := InitHandler(forms, accounts, log)
	return NewRouter(h, verifier, log), forms, accounts
}

func doJSON(router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTestRoute(t *testing.T) {
	router, _, _ := setupRouter(t, stubVerifier{})

	w := doJSON(router, http.MethodGet, "/api/test", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Server is running properly")
}

func TestSignupSuccess(t *testing.T) {
	router, _, accounts := setupRouter(t, stubVerifier{})

	user := entity.NewUser("new@example.com", "hash")
	accounts.On("Signup", mock.Anything, "new@example.com", "secret").
		Return("token-123", user, nil)

	w := doJSON(router, http.MethodPost, "/api/auth/signup", credentialsRequest{
		Email:    "new@example.com",
		Password: "secret",
	}, "")

	require.Equal(t, http.StatusCreated, w.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "token-123", resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
	accounts.AssertExpectations(t)
}

func TestSignupEmailTaken(t *testing.T) {
	router, _, accounts := setupRouter(t, stubVerifier{})

	accounts.On("Signup", mock.Anything, "dup@example.com", "secret").
		Return("", nil, service.ErrEmailTaken)

	w := doJSON(router, http.MethodPost, "/api/auth/signup", credentialsRequest{
		Email:    "dup@example.com",
		Password: "secret",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists")
}

func TestLoginSuccess(t *testing.T) {
	router, _, accounts := setupRouter(t, stubVerifier{})

	user := entity.NewUser("user@example.com", "hash")
	accounts.On("Login", mock.Anything, "user@example.com", "secret").
		Return("token-abc", user, nil)

	w := doJSON(router, http.MethodPost, "/api/auth/login", credentialsRequest{
		Email:    "user@example.com",
		Password: "secret",
	}, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token-abc")
}

func TestLoginInvalidCredentials(t *testing.T) {
	router, _, accounts := setupRouter(t, stubVerifier{})

	accounts.On("Login", mock.Anything, "user@example.com", "wrong").
		Return("", nil, service.ErrInvalidCredentials)

	w := doJSON(router, http.MethodPost, "/api/auth/login", credentialsRequest{
		Email:    "user@example.com",
		Password: "wrong",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestFormsRequireToken(t *testing.T) {
	router, _, _ := setupRouter(t, stubVerifier{userID: "user-1"})

	w := doJSON(router, http.MethodGet, "/api/forms", nil, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No token provided")
}

func TestFormsRejectInvalidToken(t *testing.T) {
	router, _, _ := setupRouter(t, stubVerifier{err: errors.New("bad token")})

	w := doJSON(router, http.MethodGet, "/api/forms", nil, "garbage")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestCreateFormSetsOwner(t *testing.T) {
	router, forms, _ := setupRouter(t, stubVerifier{userID: "user-1"})

	forms.On("CreateForm", mock.Anything, mock.MatchedBy(func(f *entity.Form) bool {
		return f.OwnerID == "user-1" && f.Title == "Survey"
	})).Return(nil)

	w := doJSON(router, http.MethodPost, "/api/forms", gin.H{"title": "Survey"}, "token")

	assert.Equal(t, http.StatusCreated, w.Code)
	forms.AssertExpectations(t)
}

func TestListForms(t *testing.T) {
	router, forms, _ := setupRouter(t, stubVerifier{userID: "user-1"})

	owned := []entity.Form{*entity.NewForm("user-1", "ws-1")}
	forms.On("ListForms", mock.Anything, "user-1").Return(owned, nil)

	w := doJSON(router, http.MethodGet, "/api/forms", nil, "token")

	require.Equal(t, http.StatusOK, w.Code)

	var got []entity.Form
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

func TestGetFormNotFound(t *testing.T) {
	router, forms, _ := setupRouter(t, stubVerifier{userID: "user-1"})

	forms.On("GetForm", mock.Anything, "missing", "user-1").
		Return(nil, service.ErrNotFound)

	w := doJSON(router, http.MethodGet, "/api/forms/missing", nil, "token")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Form not found")
}

func TestUpdateFormUsesPathID(t *testing.T) {
	router, forms, _ := setupRouter(t, stubVerifier{userID: "user-1"})

	saved := entity.NewForm("user-1", "ws-1")
	forms.On("UpdateForm", mock.Anything, mock.MatchedBy(func(f *entity.Form) bool {
		return f.ID == "form-7" && f.OwnerID == "user-1"
	})).Return(saved, nil)

	w := doJSON(router, http.MethodPut, "/api/forms/form-7", gin.H{
		"id":    "spoofed",
		"title": "Renamed",
	}, "token")

	assert.Equal(t, http.StatusOK, w.Code)
	forms.AssertExpectations(t)
}

func TestUpdateFormPublishRejected(t *testing.T) {
	router, forms, _ := setupRouter(t, stubVerifier{userID: "user-1"})

	forms.On("UpdateForm", mock.Anything, mock.Anything).
		Return(nil, &renderer.PublishError{ElementIDs: []string{"el-1"}})

	w := doJSON(router, http.MethodPut, "/api/forms/form-7", gin.H{
		"status": "published",
	}, "token")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "el-1")
}

func TestDeleteForm(t *testing.T) {
	router, forms, _ := setupRouter(t, stubVerifier{userID: "user-1"})

	forms.On("DeleteForm", mock.Anything, "form-7", "user-1").Return(nil)

	w := doJSON(router, http.MethodDelete, "/api/forms/form-7", nil, "token")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Form deleted successfully")
}

func TestDeleteFormNotFound(t *testing.T) {
	router, forms, _ := setupRouter(t, stubVerifier{userID: "user-1"})

	forms.On("DeleteForm", mock.Anything, "missing", "user-1").
		Return(service.ErrNotFound)

	w := doJSON(router, http.MethodDelete, "/api/forms/missing", nil, "token")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPublicForm(t *testing.T) {
	router, forms, _ := setupRouter(t, stubVerifier{})

	form := entity.NewForm("user-1", "ws-1")
	form.Status = entity.StatusPublished
	forms.On("GetPublicForm", mock.Anything, form.ShareableLink).Return(form, nil)

	w := doJSON(router, http.MethodGet, "/api/public/forms/"+form.ShareableLink, nil, "")

	require.Equal(t, http.StatusOK, w.Code)

	var got entity.Form
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, form.ID, got.ID)
}

func TestGetPublicFormUnknownLink(t *testing.T) {
	router, forms, _ := setupRouter(t, stubVerifier{})

	forms.On("GetPublicForm", mock.Anything, "nope").Return(nil, service.ErrNotFound)

	w := doJSON(router, http.MethodGet, "/api/public/forms/nope", nil, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Form not found")
}

func TestServerErrorIsOpaque(t *testing.T) {
	router, forms, _ := setupRouter(t, stubVerifier{userID: "user-1"})

	forms.On("ListForms", mock.Anything, "user-1").
		Return(nil, errors.New("mongo down"))

	w := doJSON(router, http.MethodGet, "/api/forms", nil, "token")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Server error")
	assert.NotContains(t, w.Body.String(), "mongo down")
}
