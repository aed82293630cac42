package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/config"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/database"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/models"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/notifications"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/otp"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/repository"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/service"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestServer builds a Server backed by an in-memory sqlite DB and
// miniredis, with routes registered. Middleware is skipped so tests hit
// handlers (and AuthRequired) directly.
func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		JWTSecret:     "test_secret_test_secret_test_secret",
		Port:          "8473",
		Env:           "test",
		OTPTTLMinutes: 10,
		StorageDir:    t.TempDir(),
		PublicBaseURL: "http://localhost:8473",
	}

	s := &Server{
		config:        cfg,
		db:            db,
		redis:         rdb,
		userRepo:      repository.NewUserRepository(db),
		postRepo:      repository.NewPostRepository(db),
		commentRepo:   repository.NewCommentRepository(db),
		savedPostRepo: repository.NewSavedPostRepository(db),
		otpStore:      otp.NewStore(rdb, 10*time.Minute),
		storage:       storage.NewStore(cfg),
		hub:           notifications.NewHub(),
	}
	s.postService = service.NewPostService(s.postRepo, s.savedPostRepo)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.userService = service.NewUserService(s.userRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// createTestUser inserts a verified user whose password is "Password123!".
func createTestUser(t *testing.T, s *Server, username string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Fullname: "Test User",
		Email:    username + "@example.com",
		Password: string(hashed),
		Verified: true,
	}
	require.NoError(t, s.db.Create(user).Error)
	return user
}

func authToken(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return token
}

func jsonRequest(t *testing.T, method, target string, body any, token string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func createTestPost(t *testing.T, app *fiber.App, token, content string) uint {
	t.Helper()
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts",
		map[string]string{"content": content}, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "creating post %q", content)

	var post models.Post
	decodeBody(t, resp, &post)
	require.NotZero(t, post.ID)
	return post.ID
}

func otpKeyFor(purpose otp.Purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}

func postPath(id uint) string {
	return fmt.Sprintf("/api/posts/%d", id)
}
