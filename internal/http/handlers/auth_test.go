package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Afzalsd/Ecom-SAAS/internal/auth"
	"github.com/Afzalsd/Ecom-SAAS/internal/domain/user"
	"github.com/Afzalsd/Ecom-SAAS/internal/http/handlers"
	"github.com/Afzalsd/Ecom-SAAS/internal/repo/postgres"
	"github.com/Afzalsd/Ecom-SAAS/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testJWT() *auth.Manager {
	return auth.NewManager("test-secret-key", 40*time.Hour)
}

// Fake credential store implementing handlers.UserStore

type fakeUserStore struct {
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
	getByIDFn    func(ctx context.Context, id string) (user.User, error)
	createFn     func(ctx context.Context, email, passwordHash, name, role string) (user.User, error)

	createCalls int
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return user.User{}, postgres.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return user.User{}, postgres.ErrUserNotFound
}

func (f *fakeUserStore) Create(ctx context.Context, email, passwordHash, name, role string) (user.User, error) {
	f.createCalls++
	if f.createFn != nil {
		return f.createFn(ctx, email, passwordHash, name, role)
	}

	now := time.Now().UTC()
	return user.User{
		ID:           uuid.NewString(),
		Email:        user.NormalizeEmail(email),
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func setupAuthRouter(store *fakeUserStore) *gin.Engine {
	h := handlers.NewAuthHandler(store, testJWT(), testLogger())

	r := gin.New()
	r.POST("/api/users/register", h.Register)
	r.POST("/api/users/login", h.Login)

	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

type sessionBody struct {
	User  user.Public `json:"user"`
	Token string      `json:"token"`
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		storeSetUp func(*fakeUserStore)
		wantStatus int
	}{
		{
			name:       "success",
			body:       `{"name":"A","email":"a@x.com","password":"p1"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate_email_precheck",
			body: `{"name":"A","email":"a@x.com","password":"p1"}`,
			storeSetUp: func(f *fakeUserStore) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return user.User{ID: "existing"}, nil
				}
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			// pre-check passed but the unique index caught a concurrent insert
			name: "duplicate_email_store",
			body: `{"name":"A","email":"a@x.com","password":"p1"}`,
			storeSetUp: func(f *fakeUserStore) {
				f.createFn = func(ctx context.Context, email, passwordHash, name, role string) (user.User, error) {
					return user.User{}, postgres.ErrEmailTaken
				}
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing_fields",
			body:       `{"email":"a@x.com"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			// any non-empty password is acceptable, only absence is rejected
			name:       "empty_password",
			body:       `{"name":"A","email":"a@x.com","password":""}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeUserStore{}
			if tc.storeSetUp != nil {
				tc.storeSetUp(store)
			}

			w := doJSON(setupAuthRouter(store), http.MethodPost, "/api/users/register", tc.body)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d, body=%s", w.Code, tc.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRegisterIssuesAcceptedToken(t *testing.T) {
	store := &fakeUserStore{}

	w := doJSON(setupAuthRouter(store), http.MethodPost, "/api/users/register",
		`{"name":"A","email":"a@x.com","password":"p1"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
	}

	var resp sessionBody
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp.Token == "" {
		t.Fatal("expected a session token in the response")
	}

	claims, err := testJWT().Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token rejected: %v", err)
	}

	if claims.Email != "a@x.com" {
		t.Errorf("claims email = %q, want a@x.com", claims.Email)
	}

	if resp.User.Role != user.RoleCustomer {
		t.Errorf("role = %q, want %q", resp.User.Role, user.RoleCustomer)
	}
}

func TestRegisterDuplicateDoesNotCreate(t *testing.T) {
	store := &fakeUserStore{
		getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
			return user.User{ID: "existing"}, nil
		},
	}

	w := doJSON(setupAuthRouter(store), http.MethodPost, "/api/users/register",
		`{"name":"A","email":"a@x.com","password":"p1"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	if store.createCalls != 0 {
		t.Errorf("create called %d times for a duplicate email", store.createCalls)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	hash, err := security.HashPassword("the-right-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	known := user.User{
		ID:           "user-1",
		Email:        "a@x.com",
		PasswordHash: hash,
		Name:         "A",
		Role:         user.RoleCustomer,
	}

	store := &fakeUserStore{
		getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
			if email == "a@x.com" {
				return known, nil
			}
			return user.User{}, postgres.ErrUserNotFound
		},
	}

	r := setupAuthRouter(store)

	wrongPassword := doJSON(r, http.MethodPost, "/api/users/login",
		`{"email":"a@x.com","password":"wrong"}`)
	unknownEmail := doJSON(r, http.MethodPost, "/api/users/login",
		`{"email":"nobody@x.com","password":"wrong"}`)

	if wrongPassword.Code != http.StatusBadRequest || unknownEmail.Code != http.StatusBadRequest {
		t.Fatalf("statuses = %d, %d, want 400, 400", wrongPassword.Code, unknownEmail.Code)
	}

	var a, b struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}

	if err := json.Unmarshal(wrongPassword.Body.Bytes(), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := json.Unmarshal(unknownEmail.Body.Bytes(), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if a.Message != "Invalid credentials" {
		t.Errorf("message = %q, want %q", a.Message, "Invalid credentials")
	}

	if a.Message != b.Message || a.Code != b.Code {
		t.Errorf("failure bodies differ: %+v vs %+v", a, b)
	}
}

func TestLoginSuccess(t *testing.T) {
	hash, err := security.HashPassword("the-right-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	store := &fakeUserStore{
		getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
			return user.User{
				ID:           "user-1",
				Email:        "a@x.com",
				PasswordHash: hash,
				Name:         "A",
				Role:         user.RoleCustomer,
			}, nil
		},
	}

	w := doJSON(setupAuthRouter(store), http.MethodPost, "/api/users/login",
		`{"email":"a@x.com","password":"the-right-password"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
	}

	var resp sessionBody
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	claims, err := testJWT().Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token rejected: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("claims user = %q, want user-1", claims.UserID)
	}
}
