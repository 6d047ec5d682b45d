package routes

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"weblog/config"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		GinMode:            "test",
		GinPath:            filepath.Join(t.TempDir(), "gin.log"),
		JWTSecret:          "test-secret-key",
		SessionHours:       1,
		RedisHost:          "127.0.0.1",
		RedisPort:          6379,
		LogLevel:           "info",
		LogMaxSizeMB:       1,
		LogMaxBackups:      1,
		LogMaxAgeDays:      1,
		RateLimitPerMinute: 600,
		AllowedOrigins:     []string{"*"},
	}
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func TestRouterHealthAndNotFound(t *testing.T) {
	r := SetupRouter(testDB(t), testConfig(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no/such/route", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterRegisterLoginFlow(t *testing.T) {
	r := SetupRouter(testDB(t), testConfig(t))

	register := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"firstname":"John","lastname":"Doe","email":"johndoe@email.com","password":"password"}`))
	register.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, register)
	require.Equal(t, http.StatusCreated, w.Code)

	login := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"johndoe@email.com","password":"password"}`))
	login.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, login)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
