package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"weblog/config"
	"weblog/middleware"
	"weblog/utils"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive and shared.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

// newTestApp wires the controllers onto a bare gin engine, mirroring the
// production routes without redis or the access log.
func newTestApp(db *gorm.DB) (*gin.Engine, *utils.TokenManager) {
	gin.SetMode(gin.TestMode)

	tokens := utils.NewTokenManager(&config.AppConfig{JWTSecret: "test-secret-key", SessionHours: 1})
	blacklist := utils.NewTokenBlacklist(nil)
	cache := utils.NewCache(nil)

	auth := NewAuthController(db, tokens, blacklist)
	posts := NewPostController(db, cache)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)
	api.POST("/auth/logout", middleware.AuthRequired(tokens, blacklist), auth.Logout)
	api.GET("/auth/me", middleware.AuthRequired(tokens, blacklist), auth.Me)
	api.GET("/posts", posts.ListPosts)
	api.POST("/posts", posts.ListPosts)
	api.GET("/posts/:id", posts.GetPost)
	api.POST("/posts/:id/comments", middleware.AuthRequired(tokens, blacklist), posts.CreateComment)
	return r, tokens
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// envelope mirrors the uniform JSON response structure.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

// registerUser creates an account directly through the API.
func registerUser(t *testing.T, r *gin.Engine, firstname, lastname, email, password string) {
	t.Helper()
	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"firstname": firstname,
		"lastname":  lastname,
		"email":     email,
		"password":  password,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
}

// loginUser returns the session token for an existing account.
func loginUser(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}
