package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/civicux/civicux-api/internal/config"
	"github.com/civicux/civicux-api/internal/database"
	"github.com/civicux/civicux-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const TestJWTSecret = "test-secret"

// SetupTestDB opens a private in-memory SQLite database with the full schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// The in-memory database lives as long as one connection does. A single
	// connection also keeps shared-cache table locks from failing concurrent tests.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// GetTestConfig returns a config with every upstream pointed nowhere. Tests
// override the URLs they fake.
func GetTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:         TestJWTSecret,
		JWTAccessExpiry:   time.Hour,
		JWTRefreshExpiry:  24 * time.Hour,
		GroqAPIURL:        "http://127.0.0.1:1/chat",
		GroqTextModel:     "test-text",
		GroqVisionModel:   "test-vision",
		AITimeout:         2 * time.Second,
		CamaraAPIURL:      "http://127.0.0.1:1",
		PropositionYear:   2024,
		DOUBaseURL:        "http://127.0.0.1:1",
		DOUCacheTTL:       time.Minute,
		SupabaseBucket:    "uploads",
		NominatimURL:      "http://127.0.0.1:1",
		CORSOrigins:       "*",
		LogRetentionDays:  30,
		AdminToken:        "admin-token",
		RewardsConfigPath: "",
	}
}

// Env bundles a fresh database with the test config.
type Env struct {
	DB     *gorm.DB
	Config *config.Config
}

func NewEnv(t *testing.T) *Env {
	t.Helper()
	return &Env{DB: SetupTestDB(t), Config: GetTestConfig()}
}

// CreateUser inserts a user whose password is "senha123".
func CreateUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &models.User{Name: name, Email: email, Password: string(hash), Level: 1}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

// TokenFor signs an access token the way AuthService does.
func TokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(TestJWTSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

// DoJSON sends a JSON request through the Fiber app and decodes the response
// body into out when out is non-nil.
func DoJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string, out interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, path, err)
	}

	if out != nil {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode %s %s response: %v", method, path, err)
		}
	}
	return resp
}
