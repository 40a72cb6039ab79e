package api

import (
	migrate "autoledger/internal/db"
	"autoledger/internal/domain"
	"autoledger/internal/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestRegisterIssuesTokenPair(t *testing.T) {
	r, db, _ := setupTestRouter(t)

	body := `{"username":"dealer","email":"dealer@example.com","password":"secretpass","confirm_password":"secretpass"}`
	w := doRequest(r, http.MethodPost, "/users/auth/register/", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["access"] == "" || resp["refresh"] == "" {
		t.Fatalf("missing tokens in response: %#v", resp)
	}
	var user domain.User
	if err := db.Where("username = ?", "dealer").First(&user).Error; err != nil {
		t.Fatalf("user row not created: %v", err)
	}
	if user.Password == "secretpass" {
		t.Fatal("password stored in plaintext")
	}
	// The issued access token must work on an authenticated endpoint
	if w := doRequest(r, http.MethodGet, "/users/profile/", "", resp["access"]); w.Code != http.StatusOK {
		t.Fatalf("access token rejected: %d", w.Code)
	}
}

func TestRegisterPasswordMismatchCreatesNoUser(t *testing.T) {
	r, db, _ := setupTestRouter(t)

	body := `{"username":"dealer","email":"dealer@example.com","password":"secretpass","confirm_password":"different"}`
	w := doRequest(r, http.MethodPost, "/users/auth/register/", body, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["password"] == "" {
		t.Fatalf("expected a field-level password error, got %#v", resp)
	}
	var count int64
	db.Model(&domain.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no user rows, found %d", count)
	}
}

func TestRegisterDuplicateFieldErrors(t *testing.T) {
	r, db, _ := setupTestRouter(t)
	createTestUser(t, db, "dealer", "dealer@example.com", "secretpass")

	// Same username, different email
	w := doRequest(r, http.MethodPost, "/users/auth/register/",
		`{"username":"dealer","email":"other@example.com","password":"x12345678","confirm_password":"x12345678"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["username"] == "" {
		t.Fatalf("expected a username error, got %#v", resp)
	}

	// Same email, different username
	w = doRequest(r, http.MethodPost, "/users/auth/register/",
		`{"username":"other","email":"dealer@example.com","password":"x12345678","confirm_password":"x12345678"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	resp = map[string]string{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["email"] == "" {
		t.Fatalf("expected an email error, got %#v", resp)
	}
}

func TestLoginByUsernameAndByEmail(t *testing.T) {
	r, db, _ := setupTestRouter(t)
	createTestUser(t, db, "dealer", "dealer@example.com", "secretpass")

	for _, identifier := range []string{"dealer", "dealer@example.com"} {
		w := doRequest(r, http.MethodPost, "/users/auth/login/",
			`{"username":"`+identifier+`","password":"secretpass"}`, "")
		if w.Code != http.StatusOK {
			t.Fatalf("login via %q: expected 200 got %d body=%s", identifier, w.Code, w.Body.String())
		}
		var resp map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		// Both tokens must be usable for the same authenticated call
		if w := doRequest(r, http.MethodGet, "/users/profile/", "", resp["access"]); w.Code != http.StatusOK {
			t.Fatalf("token from %q rejected: %d", identifier, w.Code)
		}
	}
}

func TestLoginBadCredentials(t *testing.T) {
	r, db, _ := setupTestRouter(t)
	createTestUser(t, db, "dealer", "dealer@example.com", "secretpass")

	w := doRequest(r, http.MethodPost, "/users/auth/login/",
		`{"username":"dealer","password":"wrongpass"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
	w = doRequest(r, http.MethodPost, "/users/auth/login/",
		`{"username":"nobody","password":"secretpass"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	r, db, _ := setupTestRouter(t)
	user, _ := createTestUser(t, db, "dealer", "dealer@example.com", "secretpass")
	db.Model(&user).Update("is_active", false)

	w := doRequest(r, http.MethodPost, "/users/auth/login/",
		`{"username":"dealer","password":"secretpass"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

func TestRefreshRotatesAndBlacklists(t *testing.T) {
	r, db, _ := setupTestRouter(t)
	createTestUser(t, db, "dealer", "dealer@example.com", "secretpass")

	w := doRequest(r, http.MethodPost, "/users/auth/login/",
		`{"username":"dealer","password":"secretpass"}`, "")
	var login map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	// First refresh succeeds and returns a new pair
	w = doRequest(r, http.MethodPost, "/users/auth/refresh/",
		`{"refresh":"`+login["refresh"]+`"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var refreshed map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &refreshed); err != nil {
		t.Fatalf("decode refresh: %v", err)
	}
	if refreshed["access"] == "" || refreshed["refresh"] == login["refresh"] {
		t.Fatalf("expected a rotated pair, got %#v", refreshed)
	}

	// Replaying the consumed refresh token is rejected
	w = doRequest(r, http.MethodPost, "/users/auth/refresh/",
		`{"refresh":"`+login["refresh"]+`"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on replay got %d", w.Code)
	}
}

// failingBlacklist rejects every write, standing in for an unreachable store
type failingBlacklist struct{ *utils.MemoryCache }

func (failingBlacklist) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return errors.New("store unreachable")
}

func TestRefreshBlacklistFailureLeavesTokenUsable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	mem := utils.NewMemoryCache()
	broken := SetupRouter(db, failingBlacklist{mem}, testTokens)
	healthy := SetupRouter(db, mem, testTokens)

	user, _ := createTestUser(t, db, "dealer", "dealer@example.com", "secretpass")
	pair, err := utils.GenerateTokenPair(user.ID, testTokens.Secret, testTokens.AccessTTL, testTokens.RefreshTTL)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	// With the blacklist down, no pair is handed out and nothing is consumed
	w := doRequest(broken, http.MethodPost, "/users/auth/refresh/",
		`{"refresh":"`+pair.Refresh+`"}`, "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["access"] != "" || resp["refresh"] != "" {
		t.Fatalf("no tokens may leak on failure, got %#v", resp)
	}

	// Once the store is back, the same token still rotates normally
	w = doRequest(healthy, http.MethodPost, "/users/auth/refresh/",
		`{"refresh":"`+pair.Refresh+`"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	r, db, _ := setupTestRouter(t)
	_, access := createTestUser(t, db, "dealer", "dealer@example.com", "secretpass")

	w := doRequest(r, http.MethodPost, "/users/auth/refresh/",
		`{"refresh":"`+access+`"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	w := doRequest(r, http.MethodGet, "/vehicles/list/", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
	w = doRequest(r, http.MethodGet, "/statistic/", "", "not-a-token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}
