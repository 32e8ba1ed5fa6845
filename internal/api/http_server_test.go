package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"internship/internal/auth"
	"internship/internal/config"
	"internship/internal/entity"
	"internship/internal/model"
	"internship/internal/model/sql"
)

func newTestConfig() config.Config {
	return config.Config{
		JWTSecret:            "test-secret",
		JWTIssuer:            "test",
		JWTExpirationMinutes: 120,
	}
}

func newTestRepository(t *testing.T) model.Repository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "api_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&entity.DbUser{}, &entity.DbStage{}, &entity.DbTodo{}); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return sql.NewGormRepository(db)
}

// newTestServer 构建与 cmd/server 一致的路由表
func newTestServer(t *testing.T) (*gin.Engine, *HTTPHandler, model.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newTestRepository(t)
	h, err := NewHTTPHandler(newTestConfig(), repo)
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}

	r := gin.New()
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	authGroup := r.Group("/auth")
	authGroup.POST("/login", h.Login)
	authGroup.POST("/first-setup", h.AuthMiddleware(), h.FirstSetup)

	r.GET("/me", h.AuthMiddleware(), h.Me)
	r.GET("/todos", h.AuthMiddleware(), h.ListTodos)

	stageGroup := r.Group("/stage")
	stageGroup.Use(h.AuthMiddleware())
	stageGroup.GET("", h.GetStage)
	stageGroup.POST("/switch", h.RequireRoles(entity.UserRoleAdmin), h.SwitchStage)

	adminGroup := r.Group("/admin")
	adminGroup.Use(h.AuthMiddleware(), h.RequireRoles(entity.UserRoleAdmin))
	adminGroup.POST("/users", h.CreateUser)
	adminGroup.GET("/users", h.ListUsers)

	return r, h, repo
}

// mustCreateUser 直接写库创建用户，返回明文密码对应的账号
func mustCreateUser(t *testing.T, repo model.Repository, username, password, role string, mustReset bool) *entity.DbUser {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &entity.DbUser{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		MustResetPwd: mustReset,
	}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
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
	r.ServeHTTP(w, req)
	return w
}

// doRawAuth 以原样的 Authorization 头发起请求，用于构造畸形授权场景
func doRawAuth(t *testing.T, r *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"username": username,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed for %s: status %d body %s", username, w.Code, w.Body.String())
	}
	var resp entity.AuthLoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal login response: %v", err)
	}
	return resp.Token
}

func TestHealthEndpoint(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal health response: %v", err)
	}
	if !resp["ok"] {
		t.Fatal("expected ok:true")
	}
}
