package api

import (
	migrate "autoledger/internal/db"
	"autoledger/internal/domain"
	"autoledger/internal/utils"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Settings shared by all handler tests
var testTokens = TokenSettings{
	Secret:     "test-secret",
	AccessTTL:  24 * time.Hour,
	RefreshTTL: 48 * time.Hour,
}

// setupTestRouter builds a router over an in-memory sqlite database and a
// memory cache, one per test.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *utils.MemoryCache) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cache := utils.NewMemoryCache()
	return SetupRouter(db, cache, testTokens), db, cache
}

// createTestUser inserts a user with the given credentials and returns the
// row plus a valid access token.
func createTestUser(t *testing.T, db *gorm.DB, username, email, password string) (domain.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := domain.User{Username: username, Email: email, Password: string(hash), IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := utils.GenerateToken(user.ID, utils.TokenAccess, testTokens.Secret, testTokens.AccessTTL)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

// seedCatalog inserts two brands with one model each
func seedCatalog(t *testing.T, db *gorm.DB) (toyota domain.CarBrand, camry domain.CarModel, bmw domain.CarBrand, x5 domain.CarModel) {
	t.Helper()
	toyota = domain.CarBrand{Name: "Toyota"}
	if err := db.Create(&toyota).Error; err != nil {
		t.Fatalf("brand: %v", err)
	}
	camry = domain.CarModel{BrandID: toyota.ID, Name: "Camry"}
	if err := db.Create(&camry).Error; err != nil {
		t.Fatalf("model: %v", err)
	}
	bmw = domain.CarBrand{Name: "BMW"}
	if err := db.Create(&bmw).Error; err != nil {
		t.Fatalf("brand: %v", err)
	}
	x5 = domain.CarModel{BrandID: bmw.ID, Name: "X5"}
	if err := db.Create(&x5).Error; err != nil {
		t.Fatalf("model: %v", err)
	}
	return
}

// doRequest performs one request against the router, with an optional
// bearer token and JSON body.
func doRequest(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	var req = httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// floatPtr and related helpers for building fixtures
func floatPtr(f float64) *float64 { return &f }

func datePtr(year int, month time.Month, day int) *domain.Date {
	d := domain.NewDate(year, month, day)
	return &d
}
