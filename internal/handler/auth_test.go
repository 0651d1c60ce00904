package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/taskflow/internal/auth"
	"github.com/msomdec/taskflow/internal/handler"
	"github.com/msomdec/taskflow/internal/repository/memory"
	"github.com/msomdec/taskflow/internal/service"
	"github.com/msomdec/taskflow/internal/validation"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

// Cost 4 keeps bcrypt fast in tests.
const testBcryptCost = 4

type testEnv struct {
	mux   *http.ServeMux
	users *memory.UserRepository
	auth  *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUserRepository()
	tasks := memory.NewTaskRepository()
	issuer := auth.NewTokenIssuer(testJWTSecret, 7*24*time.Hour)
	authSvc := service.NewAuthService(users, issuer, testBcryptCost)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Services{
		Auth:  authSvc,
		Users: service.NewUserService(users),
		Tasks: service.NewTaskService(tasks),
	}, validation.New(), nil, false)

	return &testEnv{mux: mux, users: users, auth: authSvc}
}

// doJSON performs a request against the mux, attaching the bearer token when
// non-empty.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

// registerUser registers a user through the API and returns the token.
func (e *testEnv) registerUser(t *testing.T, name, email, password string) string {
	t.Helper()
	w := e.doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	token, _ := decodeBody(t, w)["token"].(string)
	if token == "" {
		t.Fatal("register: expected a token")
	}
	return token
}

func TestHandleRegister_Success(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ann Lee", "email": "ann@example.com", "password": "secret1",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["message"] != "User registered successfully" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if body["token"] == "" || body["token"] == nil {
		t.Fatal("expected a token")
	}
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user object, got %v", body["user"])
	}
	if user["name"] != "Ann Lee" || user["email"] != "ann@example.com" {
		t.Fatalf("unexpected user %v", user)
	}

	// The password hash must never leak in any spelling.
	raw := w.Body.String()
	for _, needle := range []string{"passwordHash", "password_hash", "secret1"} {
		if strings.Contains(raw, needle) {
			t.Fatalf("response leaks %q: %s", needle, raw)
		}
	}
}

func TestHandleRegister_ValidationListsAllViolations(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "A", "email": "not-an-email", "password": "short",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["message"] != "Validation failed" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	errs, ok := body["errors"].([]any)
	if !ok {
		t.Fatalf("expected errors list, got %v", body["errors"])
	}
	if len(errs) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(errs), errs)
	}
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "Ann Lee", "ann@example.com", "secret1")

	w := env.doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Impostor", "email": "ann@example.com", "password": "other123",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if decodeBody(t, w)["message"] != "User already exists with this email" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestHandleRegister_InvalidBody(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	env.mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "Ann Lee", "ann@example.com", "secret1")

	w := env.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ann@example.com", "password": "secret1",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["message"] != "Login successful" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if body["token"] == "" || body["token"] == nil {
		t.Fatal("expected a token")
	}
}

func TestHandleLogin_NonEnumeration(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "Ann Lee", "ann@example.com", "secret1")

	wrongPassword := env.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ann@example.com", "password": "wrong",
	})
	unknownEmail := env.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "secret1",
	})

	if wrongPassword.Code != http.StatusBadRequest || unknownEmail.Code != http.StatusBadRequest {
		t.Fatalf("expected 400/400, got %d/%d", wrongPassword.Code, unknownEmail.Code)
	}
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Fatalf("responses must be identical: %q vs %q",
			wrongPassword.Body.String(), unknownEmail.Body.String())
	}
	if decodeBody(t, wrongPassword)["message"] != "Invalid credentials" {
		t.Fatalf("unexpected body %s", wrongPassword.Body.String())
	}
}

func TestHandleMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "Ann Lee", "ann@example.com", "secret1")

	w := env.doJSON(t, http.MethodGet, "/api/auth/me", token, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	user, ok := decodeBody(t, w)["user"].(map[string]any)
	if !ok {
		t.Fatal("expected user object")
	}
	if user["name"] != "Ann Lee" || user["email"] != "ann@example.com" {
		t.Fatalf("unexpected user %v", user)
	}
	if strings.Contains(w.Body.String(), "passwordHash") {
		t.Fatal("me response leaks the password hash")
	}
}

func TestHandleMe_Unauthorized(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage token", "not-a-valid-jwt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := env.doJSON(t, http.MethodGet, "/api/auth/me", tc.token, nil)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodGet, "/api/nope", "", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if decodeBody(t, w)["message"] != "Route not found" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
