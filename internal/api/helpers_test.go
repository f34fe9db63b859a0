package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"task_manager/internal/config"
	"task_manager/internal/db"
	"task_manager/internal/domain"
	"task_manager/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "api-test-secret"

var testTokens = TokenSettings{Secret: testSecret, TTL: time.Hour}

func init() {
	gin.SetMode(gin.TestMode)
	logrus.SetLevel(logrus.PanicLevel)
}

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	redis  *miniredis.Miniredis
}

// newTestEnv builds a router over a private in-memory SQLite database.
// With withCache set, responses are cached in a miniredis instance.
func newTestEnv(t *testing.T, withCache bool) *testEnv {
	t.Helper()
	database, err := db.Open(config.DriverSQLite, "file::memory:")
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // One connection keeps the in-memory database alive and private
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(database))

	env := &testEnv{t: t, db: database}
	var cache *utils.Cache
	if withCache {
		env.redis = miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: env.redis.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
		cache = utils.NewCache(rdb, time.Minute)
	}
	env.router = NewRouter(RouterConfig{DB: database, Cache: cache, Tokens: testTokens})
	return env
}

// seedUser stores a user directly, bypassing the API
func (e *testEnv) seedUser(name, email, role string) *domain.User {
	e.t.Helper()
	hash, err := utils.HashPassword("password123")
	require.NoError(e.t, err)
	u := &domain.User{Name: name, Email: email, Password: hash, Role: role}
	require.NoError(e.t, e.db.Create(u).Error)
	return u
}

// seedTask stores a task with an explicit creation time so ordering is deterministic
func (e *testEnv) seedTask(owner *domain.User, title string, createdAt time.Time) *domain.Task {
	e.t.Helper()
	task := &domain.Task{Title: title, UserID: owner.ID, CreatedAt: createdAt, UpdatedAt: createdAt}
	require.NoError(e.t, e.db.Create(task).Error)
	return task
}

func (e *testEnv) tokenFor(u *domain.User) string {
	e.t.Helper()
	token, err := utils.GenerateJWT(u.ID, testSecret, time.Hour)
	require.NoError(e.t, err)
	return token
}

// do performs a request; token may be empty and body may be nil
func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[MessageResponse](t, rec).Message
}

func (e *testEnv) taskExists(id string) bool {
	e.t.Helper()
	var count int64
	require.NoError(e.t, e.db.Model(&domain.Task{}).Where("id = ?", id).Count(&count).Error)
	return count > 0
}

func (e *testEnv) reloadTask(id string) domain.Task {
	e.t.Helper()
	var task domain.Task
	require.NoError(e.t, e.db.First(&task, "id = ?", id).Error)
	return task
}

func (e *testEnv) reloadUser(id string) domain.User {
	e.t.Helper()
	var user domain.User
	require.NoError(e.t, e.db.First(&user, "id = ?", id).Error)
	return user
}
