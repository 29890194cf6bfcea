package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusboard/board-api/internal/core/service"
)

const testSecret = "test-secret"

type testServer struct {
	t *testing.T
	e *echo.Echo
}

func newTestServer(t *testing.T, loginRate int) *testServer {
	t.Helper()
	store := newMemoryStore()
	users, posts, categories := memoryUsers{store}, memoryPosts{store}, memoryCategories{store}
	log := zerolog.Nop()

	tokens := service.NewTokenService(testSecret)
	hasher := service.NewBcryptHasher(bcrypt.MinCost)
	auth := service.NewAuthService(users, hasher, tokens, log)
	if _, err := auth.EnsureAdmin(context.Background(), "admin@example.com", "admin-password"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	registry := prometheus.NewRegistry()
	e := NewRouter(Deps{
		Tokens:             tokens,
		Auth:               auth,
		Users:              service.NewUserService(users, posts, hasher, nil, log),
		Categories:         service.NewCategoryService(categories, posts, nil, log),
		Posts:              service.NewPostService(posts, users, categories, nil, log),
		LoginRatePerMinute: loginRate,
		Registerer:         registry,
		Gatherer:           registry,
		Log:                log,
	})
	return &testServer{t: t, e: e}
}

type response struct {
	code int
	body []byte
}

func (r response) message() string {
	var env struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(r.body, &env)
	return env.Message
}

func (r response) decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.body, v); err != nil {
		t.Fatalf("invalid json %q: %v", r.body, err)
	}
}

func (s *testServer) do(method, path, token, body string) response {
	s.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return response{code: rec.Code, body: rec.Body.Bytes()}
}

func (s *testServer) register(email, role string) {
	s.t.Helper()
	body := fmt.Sprintf(`{"first_name":"First","last_name":"Last","email":%q,"password":"password123","role":%q}`, email, role)
	if res := s.do(http.MethodPost, "/auth/register", "", body); res.code != http.StatusCreated {
		s.t.Fatalf("register %s: expected 201, got %d %s", email, res.code, res.body)
	}
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	res := s.do(http.MethodPost, "/auth/login", "", fmt.Sprintf(`{"email":%q,"password":%q}`, email, password))
	if res.code != http.StatusOK {
		s.t.Fatalf("login %s: expected 200, got %d %s", email, res.code, res.body)
	}
	var out struct {
		Token string `json:"token"`
	}
	res.decode(s.t, &out)
	return out.Token
}

func expect(t *testing.T, res response, code int, msg string) {
	t.Helper()
	if res.code != code {
		t.Fatalf("expected %d, got %d: %s", code, res.code, res.body)
	}
	if msg != "" && res.message() != msg {
		t.Fatalf("expected message %q, got %q", msg, res.message())
	}
}

func publicPostIDs(t *testing.T, s *testServer) map[int64]bool {
	t.Helper()
	res := s.do(http.MethodGet, "/posts", "", "")
	expect(t, res, http.StatusOK, "")
	var posts []struct {
		ID int64 `json:"id"`
	}
	res.decode(t, &posts)
	ids := make(map[int64]bool, len(posts))
	for _, p := range posts {
		ids[p.ID] = true
	}
	return ids
}

func TestRouter_PublishAndModerate(t *testing.T) {
	s := newTestServer(t, 100)
	s.register("a@example.com", "participant")
	s.register("b@example.com", "participant")
	tokenA := s.login("a@example.com", "password123")
	tokenB := s.login("b@example.com", "password123")
	tokenAdmin := s.login("admin@example.com", "admin-password")

	res := s.do(http.MethodPost, "/categories", tokenAdmin, `{"name":"General"}`)
	expect(t, res, http.StatusCreated, "")
	var category struct {
		ID int64 `json:"id"`
	}
	res.decode(t, &category)

	res = s.do(http.MethodPost, "/posts", tokenA, fmt.Sprintf(`{"title":"Hello","body":"World","category_id":%d}`, category.ID))
	expect(t, res, http.StatusCreated, "")
	var post struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
		Author *struct {
			ID int64 `json:"id"`
		} `json:"author"`
	}
	res.decode(t, &post)
	if post.Status != "pending" || post.Author == nil {
		t.Fatalf("unexpected post: %s", res.body)
	}
	if publicPostIDs(t, s)[post.ID] {
		t.Fatalf("pending post must not be public")
	}
	expect(t, s.do(http.MethodGet, fmt.Sprintf("/posts/%d", post.ID), "", ""), http.StatusNotFound, "Post not found")

	postPath := fmt.Sprintf("/posts/%d", post.ID)
	moderatePath := fmt.Sprintf("/posts/admin/%d/moderate", post.ID)

	expect(t, s.do(http.MethodDelete, postPath, tokenB, ""), http.StatusForbidden,
		"Forbidden: You do not have permission to modify this resource")
	expect(t, s.do(http.MethodPatch, moderatePath, tokenA, `{"status":"approved"}`), http.StatusForbidden,
		"Forbidden: Insufficient permissions")
	expect(t, s.do(http.MethodPatch, moderatePath, tokenAdmin, `{"status":"pending"}`), http.StatusBadRequest, "")

	expect(t, s.do(http.MethodPatch, moderatePath, tokenAdmin, `{"status":"approved"}`), http.StatusOK, "")
	if !publicPostIDs(t, s)[post.ID] {
		t.Fatalf("approved post must be public")
	}
	expect(t, s.do(http.MethodGet, postPath, "", ""), http.StatusOK, "")

	expect(t, s.do(http.MethodPatch, moderatePath, tokenAdmin, `{"status":"rejected"}`), http.StatusConflict,
		"Post has already been moderated")

	expect(t, s.do(http.MethodDelete, postPath, tokenA, ""), http.StatusNoContent, "")
	if publicPostIDs(t, s)[post.ID] {
		t.Fatalf("deleted post must not be public")
	}
}

func TestRouter_RejectedPostVisibleOnlyToAuthor(t *testing.T) {
	s := newTestServer(t, 100)
	s.register("a@example.com", "organizer")
	tokenA := s.login("a@example.com", "password123")
	tokenAdmin := s.login("admin@example.com", "admin-password")

	res := s.do(http.MethodPost, "/categories", tokenAdmin, `{"name":"Events"}`)
	var category struct {
		ID int64 `json:"id"`
	}
	res.decode(t, &category)

	res = s.do(http.MethodPost, "/posts", tokenA, fmt.Sprintf(`{"title":"T","body":"B","category_id":%d}`, category.ID))
	var post struct {
		ID int64 `json:"id"`
	}
	res.decode(t, &post)

	res = s.do(http.MethodGet, "/posts/admin/pending", tokenAdmin, "")
	expect(t, res, http.StatusOK, "")
	if !strings.Contains(string(res.body), fmt.Sprintf(`"id":%d`, post.ID)) {
		t.Fatalf("expected post in moderation queue: %s", res.body)
	}

	expect(t, s.do(http.MethodPatch, fmt.Sprintf("/posts/admin/%d/moderate", post.ID), tokenAdmin, `{"status":"rejected"}`), http.StatusOK, "")

	if publicPostIDs(t, s)[post.ID] {
		t.Fatalf("rejected post must not be public")
	}
	res = s.do(http.MethodGet, "/posts/my-posts", tokenA, "")
	expect(t, res, http.StatusOK, "")
	if !strings.Contains(string(res.body), `"status":"rejected"`) {
		t.Fatalf("expected rejected post in my-posts: %s", res.body)
	}

	postPath := fmt.Sprintf("/posts/%d", post.ID)
	expect(t, s.do(http.MethodPut, postPath, tokenA, `{"title":"Try again"}`), http.StatusConflict,
		"Post has already been moderated")
	expect(t, s.do(http.MethodPatch, fmt.Sprintf("/posts/admin/%d/moderate", post.ID), tokenAdmin, `{"status":"approved"}`),
		http.StatusConflict, "Post has already been moderated")
	if publicPostIDs(t, s)[post.ID] {
		t.Fatalf("rejected post must stay out of the public listing")
	}

	expect(t, s.do(http.MethodDelete, fmt.Sprintf("/categories/%d", category.ID), tokenAdmin, ""), http.StatusConflict, "Category still has posts")
}

func TestRouter_CredentialFailures(t *testing.T) {
	s := newTestServer(t, 100)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"subjectId": 1, "email": "admin@example.com", "role": "admin",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name   string
		header string
		msg    string
	}{
		{"missing", "", "Authorization token is required"},
		{"wrong scheme", "Token abc", "Authorization header must use the Bearer scheme"},
		{"garbage", "Bearer abc", "Invalid token"},
		{"expired", "Bearer " + expiredToken, "Token has expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			s.e.ServeHTTP(rec, req)
			expect(t, response{code: rec.Code, body: rec.Body.Bytes()}, http.StatusUnauthorized, tt.msg)
		})
	}
}

func TestRouter_Login(t *testing.T) {
	s := newTestServer(t, 100)
	s.register("a@example.com", "participant")

	wrong := s.do(http.MethodPost, "/auth/login", "", `{"email":"a@example.com","password":"nope-nope"}`)
	unknown := s.do(http.MethodPost, "/auth/login", "", `{"email":"ghost@example.com","password":"password123"}`)
	expect(t, wrong, http.StatusUnauthorized, "Invalid credentials")
	expect(t, unknown, http.StatusUnauthorized, "Invalid credentials")

	expect(t, s.do(http.MethodPost, "/auth/register", "",
		`{"first_name":"X","last_name":"Y","email":"a@example.com","password":"password123","role":"participant"}`),
		http.StatusConflict, "A user with this email already exists")
	expect(t, s.do(http.MethodPost, "/auth/register", "",
		`{"first_name":"X","last_name":"Y","email":"z@example.com","password":"password123","role":"admin"}`),
		http.StatusBadRequest, "")
}

func TestRouter_LoginRateLimit(t *testing.T) {
	s := newTestServer(t, 2)
	body := `{"email":"ghost@example.com","password":"password123"}`

	expect(t, s.do(http.MethodPost, "/auth/login", "", body), http.StatusUnauthorized, "")
	expect(t, s.do(http.MethodPost, "/auth/login", "", body), http.StatusUnauthorized, "")
	expect(t, s.do(http.MethodPost, "/auth/login", "", body), http.StatusTooManyRequests, "")
}

func TestRouter_UserOwnership(t *testing.T) {
	s := newTestServer(t, 100)
	s.register("a@example.com", "participant")
	s.register("b@example.com", "participant")
	tokenA := s.login("a@example.com", "password123")
	tokenB := s.login("b@example.com", "password123")
	tokenAdmin := s.login("admin@example.com", "admin-password")

	res := s.do(http.MethodGet, "/users/me", tokenA, "")
	expect(t, res, http.StatusOK, "")
	var me struct {
		ID int64 `json:"id"`
	}
	res.decode(t, &me)
	mePath := fmt.Sprintf("/users/%d", me.ID)

	expect(t, s.do(http.MethodGet, "/users", tokenA, ""), http.StatusForbidden, "Forbidden: Insufficient permissions")
	expect(t, s.do(http.MethodGet, "/users", tokenAdmin, ""), http.StatusOK, "")
	expect(t, s.do(http.MethodGet, mePath, tokenB, ""), http.StatusForbidden, "")
	expect(t, s.do(http.MethodPut, mePath, tokenA, `{"role":"admin"}`), http.StatusForbidden, "Forbidden: Insufficient permissions")
	expect(t, s.do(http.MethodPut, mePath, tokenA, `{"first_name":"Ann"}`), http.StatusOK, "")
	expect(t, s.do(http.MethodGet, "/users/abc", tokenA, ""), http.StatusBadRequest, "")
	expect(t, s.do(http.MethodDelete, mePath, tokenB, ""), http.StatusForbidden, "")
	expect(t, s.do(http.MethodDelete, mePath, tokenAdmin, ""), http.StatusNoContent, "")
	expect(t, s.do(http.MethodGet, mePath, tokenAdmin, ""), http.StatusNotFound, "User not found")
}

func TestRouter_Operational(t *testing.T) {
	s := newTestServer(t, 100)

	expect(t, s.do(http.MethodGet, "/health", "", ""), http.StatusOK, "")
	expect(t, s.do(http.MethodGet, "/health/ready", "", ""), http.StatusOK, "")
	expect(t, s.do(http.MethodGet, "/categories", "", ""), http.StatusOK, "")
	expect(t, s.do(http.MethodGet, "/nope", "", ""), http.StatusNotFound, "")

	res := s.do(http.MethodGet, "/metrics", "", "")
	expect(t, res, http.StatusOK, "")
	if !strings.Contains(string(res.body), "board_http_requests_total") {
		t.Fatalf("expected request metrics in /metrics output")
	}
}
