package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhive/account-api/internal/api"
	"github.com/userhive/account-api/internal/api/handler"
	"github.com/userhive/account-api/internal/api/middleware"
	"github.com/userhive/account-api/internal/core/domain"
	"github.com/userhive/account-api/internal/core/service"
)

// memoryDirectory is an in-memory UserDirectory used to exercise the full
// route stack without a database.
type memoryDirectory struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]*domain.User
}

func newMemoryDirectory() *memoryDirectory {
	return &memoryDirectory{users: make(map[int64]*domain.User)}
}

func (d *memoryDirectory) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	clone := *user
	d.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (d *memoryDirectory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (d *memoryDirectory) FindByID(_ context.Context, id int64) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if u, ok := d.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (d *memoryDirectory) List(_ context.Context, limit, offset int64) ([]domain.User, int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	all := make([]domain.User, 0, len(d.users))
	for _, u := range d.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (d *memoryDirectory) UpdateStatus(_ context.Context, id int64, status string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Status = status
	clone := *u
	return &clone, nil
}

func (d *memoryDirectory) NextUserID(_ context.Context) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	return d.seq, nil
}

// newTestApp wires the real handlers and middleware over the in-memory
// directory, mirroring the production route table.
func newTestApp(t *testing.T) (*echo.Echo, *memoryDirectory, *service.TokenManager) {
	t.Helper()

	dir := newMemoryDirectory()
	hasher := service.NewPasswordHasher(bcrypt.MinCost)
	tokens := service.NewTokenManager("testsecret", time.Hour)
	accounts := service.NewAccountService(dir, dir, hasher, tokens, zerolog.Nop())
	userHandler := handler.NewUserHandler(accounts, zerolog.Nop())
	authMiddleware := middleware.Auth(tokens)

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())

	users := e.Group("/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.GET("/all", userHandler.List, authMiddleware, middleware.RequireAdmin())
	users.GET("/:id", userHandler.GetByID, authMiddleware, middleware.SelfOrAdmin("id"))
	users.PUT("/block/:id", userHandler.Block, authMiddleware, middleware.SelfOrAdmin("id"))

	return e, dir, tokens
}

func doJSON(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func seedUser(t *testing.T, dir *memoryDirectory, id int64, email, role string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Seed@1234"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash seed password: %v", err)
	}
	u := &domain.User{
		ID:           id,
		FullName:     fmt.Sprintf("Seeded %d", id),
		DOB:          time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       domain.StatusActive,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := dir.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if id > dir.seq {
		dir.seq = id
	}
	return u
}

func TestApp_RegisterLoginFlow(t *testing.T) {
	e, _, tokens := newTestApp(t)

	rec := doJSON(e, http.MethodPost, "/users/register",
		`{"fullName":"Test","dob":"1990-01-01","email":"x@e.com","password":"Test@1234"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("register response leaks password material: %s", rec.Body.String())
	}

	// Same email again conflicts.
	rec = doJSON(e, http.MethodPost, "/users/register",
		`{"fullName":"Other","dob":"1991-02-02","email":"x@e.com","password":"Other@1234"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/users/login",
		`{"email":"x@e.com","password":"Test@1234"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid login response: %v", err)
	}
	claims, err := tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("login token did not verify: %v", err)
	}
	if claims.Role != domain.RoleUser || claims.Email != "x@e.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// A password over bcrypt's 72-byte limit is a validation error, not a 500.
	longPassword := strings.Repeat("a", 80)
	rec = doJSON(e, http.MethodPost, "/users/register",
		`{"fullName":"Long","dob":"1990-01-01","email":"long@e.com","password":"`+longPassword+`"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("over-long password: expected 400, got %d (%s)", rec.Code, rec.Body.String())
	}

	// Wrong password is undifferentiated from unknown email.
	rec = doJSON(e, http.MethodPost, "/users/login", `{"email":"x@e.com","password":"Wrong@1234"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", rec.Code)
	}
	rec = doJSON(e, http.MethodPost, "/users/login", `{"email":"ghost@e.com","password":"Wrong@1234"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email: expected 401, got %d", rec.Code)
	}
}

func TestApp_ListRequiresAdmin(t *testing.T) {
	e, dir, tokens := newTestApp(t)

	admin := seedUser(t, dir, 1, "admin@example.com", domain.RoleAdmin)
	user := seedUser(t, dir, 2, "user@example.com", domain.RoleUser)

	adminToken, err := tokens.Issue(admin)
	if err != nil {
		t.Fatalf("issue admin token: %v", err)
	}
	userToken, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue user token: %v", err)
	}

	rec := doJSON(e, http.MethodGet, "/users/all?limit=10&offset=0", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success    bool `json:"success"`
		Pagination struct {
			TotalUsers int64 `json:"totalUsers"`
			Limit      int64 `json:"limit"`
			Offset     int64 `json:"offset"`
			Returned   int   `json:"returned"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid list response: %v", err)
	}
	if !resp.Success || resp.Pagination.TotalUsers < 1 {
		t.Fatalf("unexpected list envelope: %+v", resp)
	}
	if resp.Pagination.Limit != 10 || resp.Pagination.Offset != 0 {
		t.Fatalf("pagination params not echoed: %+v", resp.Pagination)
	}

	rec = doJSON(e, http.MethodGet, "/users/all", "", userToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user list: expected 403, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/users/all", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list: expected 401, got %d", rec.Code)
	}
}

func TestApp_GetByID_SelfOrAdmin(t *testing.T) {
	e, dir, tokens := newTestApp(t)

	admin := seedUser(t, dir, 1, "admin@example.com", domain.RoleAdmin)
	owner := seedUser(t, dir, 5, "owner@example.com", domain.RoleUser)
	other := seedUser(t, dir, 6, "other@example.com", domain.RoleUser)

	adminToken, _ := tokens.Issue(admin)
	ownerToken, _ := tokens.Issue(owner)
	otherToken, _ := tokens.Issue(other)

	rec := doJSON(e, http.MethodGet, "/users/5", "", ownerToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("self get: expected 200, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/users/5", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin get: expected 200, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/users/5", "", otherToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner get: expected 403, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/users/404", "", adminToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing target: expected 404, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/users/5", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous get: expected 401, got %d", rec.Code)
	}
}

func TestApp_BlockFlow(t *testing.T) {
	e, dir, tokens := newTestApp(t)

	self := seedUser(t, dir, 5, "self@example.com", domain.RoleUser)
	attacker := seedUser(t, dir, 6, "six@example.com", domain.RoleUser)
	target := seedUser(t, dir, 7, "seven@example.com", domain.RoleUser)

	selfToken, _ := tokens.Issue(self)
	attackerToken, _ := tokens.Issue(attacker)

	// Self-block succeeds and reports the new status.
	rec := doJSON(e, http.MethodPut, "/users/block/5", "", selfToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("self block: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		User struct {
			Status string `json:"status"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid block response: %v", err)
	}
	if resp.User.Status != domain.StatusInactive {
		t.Fatalf("expected inactive, got %q", resp.User.Status)
	}

	// A user cannot block someone else, and the target is untouched.
	rec = doJSON(e, http.MethodPut, "/users/block/7", "", attackerToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross block: expected 403, got %d", rec.Code)
	}
	stored, err := dir.FindByID(context.Background(), target.ID)
	if err != nil {
		t.Fatalf("target lookup failed: %v", err)
	}
	if stored.Status != domain.StatusActive {
		t.Fatalf("target status changed by forbidden block: %q", stored.Status)
	}

	rec = doJSON(e, http.MethodPut, "/users/block/abc", "", attackerToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid id: expected 400, got %d", rec.Code)
	}

	// Blocking does not invalidate the blocked user's outstanding token.
	rec = doJSON(e, http.MethodGet, "/users/5", "", selfToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("token after self-block: expected 200, got %d", rec.Code)
	}
}
