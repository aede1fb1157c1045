package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Afzalsd/Ecom-SAAS/internal/config"
	"github.com/Afzalsd/Ecom-SAAS/internal/domain/user"
	httpx "github.com/Afzalsd/Ecom-SAAS/internal/http"
	"github.com/Afzalsd/Ecom-SAAS/internal/repo/memory"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.Config {
	return config.Config{
		Env:            "test",
		Port:           0,
		DBURL:          "unused",
		JWTSecret:      "test-secret-key",
		JWTTTLHours:    40,
		AuthRateLimit:  100,
		AuthRateWindow: time.Minute,
	}
}

func setupRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return httpx.NewRouter(logger, testConfig(), httpx.Deps{
		Users:    memory.NewUsersRepo(),
		Products: memory.NewProductsRepo(),
	})
}

func doRequest(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if method == http.MethodPost || method == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func mustJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("unmarshal: %v, body=%s", err, w.Body.String())
	}
}

type session struct {
	User  user.Public `json:"user"`
	Token string      `json:"token"`
}

func TestWelcome(t *testing.T) {
	r := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/", "", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if w.Body.String() == "" {
		t.Error("expected a welcome body")
	}
}

// register -> bad login -> good login -> profile, end to end.
func TestRegisterLoginProfileFlow(t *testing.T) {
	r := setupRouter(t)

	registered := doRequest(r, http.MethodPost, "/api/users/register",
		`{"name":"A","email":"a@x.com","password":"p1"}`, "")

	if registered.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body=%s", registered.Code, registered.Body.String())
	}

	var reg session
	mustJSON(t, registered, &reg)

	if reg.Token == "" || reg.User.Email != "a@x.com" {
		t.Fatalf("unexpected register response: %+v", reg)
	}

	badLogin := doRequest(r, http.MethodPost, "/api/users/login",
		`{"email":"a@x.com","password":"wrong"}`, "")

	if badLogin.Code != http.StatusBadRequest {
		t.Fatalf("bad login status = %d, want 400", badLogin.Code)
	}

	var badBody struct {
		Message string `json:"message"`
	}
	mustJSON(t, badLogin, &badBody)

	if badBody.Message != "Invalid credentials" {
		t.Errorf("bad login message = %q, want %q", badBody.Message, "Invalid credentials")
	}

	goodLogin := doRequest(r, http.MethodPost, "/api/users/login",
		`{"email":"a@x.com","password":"p1"}`, "")

	if goodLogin.Code != http.StatusOK {
		t.Fatalf("login status = %d, body=%s", goodLogin.Code, goodLogin.Body.String())
	}

	var logged session
	mustJSON(t, goodLogin, &logged)

	profile := doRequest(r, http.MethodGet, "/api/users/profile", "", logged.Token)

	if profile.Code != http.StatusOK {
		t.Fatalf("profile status = %d, body=%s", profile.Code, profile.Body.String())
	}

	var profileBody struct {
		Email string `json:"email"`
	}
	mustJSON(t, profile, &profileBody)

	if profileBody.Email != "a@x.com" {
		t.Errorf("profile email = %q, want a@x.com", profileBody.Email)
	}
}

func TestProfileRequiresToken(t *testing.T) {
	r := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/api/users/profile", "", "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestDuplicateRegistrationIsCaseInsensitive(t *testing.T) {
	r := setupRouter(t)

	first := doRequest(r, http.MethodPost, "/api/users/register",
		`{"name":"A","email":"a@x.com","password":"p1"}`, "")

	if first.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", first.Code)
	}

	second := doRequest(r, http.MethodPost, "/api/users/register",
		`{"name":"A2","email":"A@X.COM","password":"p2"}`, "")

	if second.Code != http.StatusBadRequest {
		t.Fatalf("second register status = %d, want 400", second.Code)
	}

	// the normalized account still logs in with the original password only
	login := doRequest(r, http.MethodPost, "/api/users/login",
		`{"email":"A@X.com","password":"p1"}`, "")

	if login.Code != http.StatusOK {
		t.Fatalf("login status = %d, body=%s", login.Code, login.Body.String())
	}
}

func TestProductLifecycleThroughRouter(t *testing.T) {
	r := setupRouter(t)

	registered := doRequest(r, http.MethodPost, "/api/users/register",
		`{"name":"Seller","email":"s@x.com","password":"p1"}`, "")

	if registered.Code != http.StatusCreated {
		t.Fatalf("register status = %d", registered.Code)
	}

	var seller session
	mustJSON(t, registered, &seller)

	body := `{
		"name": "Denim Jacket",
		"description": "Classic fit",
		"price": 79.99,
		"countInStock": 12,
		"sku": "DJ-001",
		"category": "Jackets",
		"sizes": ["S","M"],
		"colors": ["blue"],
		"collections": "Autumn",
		"gender": "Unisex",
		"isPublished": true
	}`

	unauthenticated := doRequest(r, http.MethodPost, "/api/products", body, "")
	if unauthenticated.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create status = %d, want 401", unauthenticated.Code)
	}

	created := doRequest(r, http.MethodPost, "/api/products", body, seller.Token)
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body=%s", created.Code, created.Body.String())
	}

	var createdProduct struct {
		ID     string `json:"_id"`
		Gender string `json:"gender"`
	}
	mustJSON(t, created, &createdProduct)

	if createdProduct.Gender != "unisex" {
		t.Errorf("gender = %q, want normalized unisex", createdProduct.Gender)
	}

	duplicate := doRequest(r, http.MethodPost, "/api/products", body, seller.Token)
	if duplicate.Code != http.StatusBadRequest {
		t.Fatalf("duplicate sku status = %d, want 400", duplicate.Code)
	}

	listed := doRequest(r, http.MethodGet, "/api/products?collections=Autumn", "", "")
	if listed.Code != http.StatusOK {
		t.Fatalf("list status = %d", listed.Code)
	}

	var list struct {
		Products []json.RawMessage `json:"products"`
		Total    int               `json:"total"`
	}
	mustJSON(t, listed, &list)

	if list.Total != 1 || len(list.Products) != 1 {
		t.Errorf("list total = %d with %d items, want 1/1", list.Total, len(list.Products))
	}

	// customers cannot delete, even the owner
	denied := doRequest(r, http.MethodDelete, "/api/products/"+createdProduct.ID, "", seller.Token)
	if denied.Code != http.StatusForbidden {
		t.Fatalf("customer delete status = %d, want 403", denied.Code)
	}
}
