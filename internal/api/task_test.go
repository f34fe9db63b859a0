package api

import (
	"net/http"
	"testing"
	"time"

	"task_manager/internal/domain"
	"task_manager/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtectedRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t, false)
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodPut, "/api/tasks/some-id"},
		{http.MethodDelete, "/api/tasks/some-id"},
		{http.MethodGet, "/api/tasks/admin/all"},
		{http.MethodPost, "/api/tasks/admin"},
		{http.MethodPut, "/api/tasks/admin/some-id"},
		{http.MethodDelete, "/api/tasks/admin/some-id"},
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/users/some-id"},
		{http.MethodPost, "/api/users"},
		{http.MethodPut, "/api/users/some-id"},
		{http.MethodDelete, "/api/users/some-id"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := env.do(rt.method, rt.path, "", map[string]any{"title": "x"})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, middleware.MsgNoToken, message(t, rec))

			rec = env.do(rt.method, rt.path, "garbage.token.value", map[string]any{"title": "x"})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, middleware.MsgInvalidToken, message(t, rec))
		})
	}
}

func TestAdminRoutes_ForbiddenForUsers(t *testing.T) {
	env := newTestEnv(t, false)
	user := env.seedUser("Uma", "uma@example.com", domain.RoleUser)
	victim := env.seedUser("Vic", "vic@example.com", domain.RoleUser)
	task := env.seedTask(victim, "private", time.Now())
	token := env.tokenFor(user)

	routes := []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/tasks/admin/all", nil},
		{http.MethodPost, "/api/tasks/admin", map[string]any{"title": "x", "userId": user.ID}},
		{http.MethodPut, "/api/tasks/admin/" + task.ID, map[string]any{"title": "hijacked"}},
		{http.MethodDelete, "/api/tasks/admin/" + task.ID, nil},
		{http.MethodGet, "/api/users", nil},
		{http.MethodGet, "/api/users/" + victim.ID, nil},
		{http.MethodPost, "/api/users", map[string]any{"name": "n", "email": "n@example.com", "password": "pw", "role": "admin"}},
		{http.MethodPut, "/api/users/" + victim.ID, map[string]any{"role": "admin"}},
		{http.MethodDelete, "/api/users/" + victim.ID, nil},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := env.do(rt.method, rt.path, token, rt.body)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, middleware.MsgAdminRequired, message(t, rec))
		})
	}

	assert.Equal(t, "private", env.reloadTask(task.ID).Title)
	assert.Equal(t, domain.RoleUser, env.reloadUser(victim.ID).Role)
}

func TestCreateTask_TrimsTitleAndForcesOwner(t *testing.T) {
	env := newTestEnv(t, false)
	alice := env.seedUser("Alice", "alice@example.com", domain.RoleUser)
	bob := env.seedUser("Bob", "bob@example.com", domain.RoleUser)

	rec := env.do(http.MethodPost, "/api/tasks", env.tokenFor(alice), map[string]any{
		"title":  "  buy milk  ",
		"user":   bob.ID,
		"userId": bob.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decode[TaskResponse](t, rec)
	assert.Equal(t, "buy milk", task.Title)
	assert.False(t, task.Completed)
	assert.Equal(t, alice.ID, task.UserID)
	assert.Nil(t, task.User)

	stored := env.reloadTask(task.ID)
	assert.Equal(t, "buy milk", stored.Title)
	assert.Equal(t, alice.ID, stored.UserID)
}

func TestCreateTask_RejectsEmptyTitle(t *testing.T) {
	env := newTestEnv(t, false)
	token := env.tokenFor(env.seedUser("Alice", "alice@example.com", domain.RoleUser))

	for _, body := range []any{
		map[string]any{"title": ""},
		map[string]any{"title": "   \t\n"},
		map[string]any{},
		"{not json",
	} {
		rec := env.do(http.MethodPost, "/api/tasks", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %v", body)
	}
	rec := env.do(http.MethodPost, "/api/tasks", token, map[string]any{"title": "  "})
	assert.Equal(t, "Title is required", message(t, rec))

	var count int64
	require.NoError(t, env.db.Model(&domain.Task{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListTasks_OnlyOwnNewestFirst(t *testing.T) {
	env := newTestEnv(t, false)
	alice := env.seedUser("Alice", "alice@example.com", domain.RoleUser)
	bob := env.seedUser("Bob", "bob@example.com", domain.RoleUser)
	base := time.Now().UTC().Truncate(time.Second)
	older := env.seedTask(alice, "older", base.Add(-2*time.Hour))
	newer := env.seedTask(alice, "newer", base.Add(-time.Hour))
	env.seedTask(bob, "bob's", base)

	rec := env.do(http.MethodGet, "/api/tasks", env.tokenFor(alice), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tasks := decode[[]TaskResponse](t, rec)
	require.Len(t, tasks, 2)
	assert.Equal(t, newer.ID, tasks[0].ID)
	assert.Equal(t, older.ID, tasks[1].ID)

	rec = env.do(http.MethodGet, "/api/tasks", env.tokenFor(env.seedUser("Cy", "cy@example.com", domain.RoleUser)), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateTask_Owner(t *testing.T) {
	env := newTestEnv(t, false)
	alice := env.seedUser("Alice", "alice@example.com", domain.RoleUser)
	task := env.seedTask(alice, "draft", time.Now())
	token := env.tokenFor(alice)

	rec := env.do(http.MethodPut, "/api/tasks/"+task.ID, token, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[TaskResponse](t, rec)
	assert.True(t, got.Completed)
	assert.Equal(t, "draft", got.Title)

	rec = env.do(http.MethodPut, "/api/tasks/"+task.ID, token, map[string]any{"title": "  final  "})
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[TaskResponse](t, rec)
	assert.Equal(t, "final", got.Title)
	assert.True(t, got.Completed)

	rec = env.do(http.MethodPut, "/api/tasks/"+task.ID, token, map[string]any{"completed": false})
	require.Equal(t, http.StatusOK, rec.Code)
	stored := env.reloadTask(task.ID)
	assert.Equal(t, "final", stored.Title)
	assert.False(t, stored.Completed)

	rec = env.do(http.MethodPut, "/api/tasks/"+task.ID, token, map[string]any{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "final", env.reloadTask(task.ID).Title)

	rec = env.do(http.MethodPut, "/api/tasks/"+task.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTaskMutation_NonOwnerForbidden(t *testing.T) {
	env := newTestEnv(t, false)
	owner := env.seedUser("Owner", "owner@example.com", domain.RoleUser)
	other := env.seedUser("Other", "other@example.com", domain.RoleUser)
	admin := env.seedUser("Admin", "admin@example.com", domain.RoleAdmin)
	task := env.seedTask(owner, "mine", time.Now())

	// Admins get no pass on the self-service routes either
	for _, intruder := range []*domain.User{other, admin} {
		token := env.tokenFor(intruder)

		rec := env.do(http.MethodPut, "/api/tasks/"+task.ID, token, map[string]any{"title": "stolen", "completed": true})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, MsgNotOwner, message(t, rec))

		rec = env.do(http.MethodPut, "/api/tasks/"+task.ID, token, "{broken")
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = env.do(http.MethodDelete, "/api/tasks/"+task.ID, token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, MsgNotOwner, message(t, rec))
	}

	stored := env.reloadTask(task.ID)
	assert.Equal(t, "mine", stored.Title)
	assert.False(t, stored.Completed)
}

func TestTaskMutation_NotFoundBeforeOwnership(t *testing.T) {
	env := newTestEnv(t, false)
	token := env.tokenFor(env.seedUser("Alice", "alice@example.com", domain.RoleUser))

	rec := env.do(http.MethodPut, "/api/tasks/missing", token, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", message(t, rec))

	rec = env.do(http.MethodDelete, "/api/tasks/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTask_Owner(t *testing.T) {
	env := newTestEnv(t, false)
	alice := env.seedUser("Alice", "alice@example.com", domain.RoleUser)
	task := env.seedTask(alice, "done", time.Now())

	rec := env.do(http.MethodDelete, "/api/tasks/"+task.ID, env.tokenFor(alice), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Task deleted successfully", message(t, rec))
	assert.False(t, env.taskExists(task.ID))

	rec = env.do(http.MethodDelete, "/api/tasks/"+task.ID, env.tokenFor(alice), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTasks_CacheInvalidatedOnWrite(t *testing.T) {
	env := newTestEnv(t, true)
	alice := env.seedUser("Alice", "alice@example.com", domain.RoleUser)
	token := env.tokenFor(alice)

	rec := env.do(http.MethodGet, "/api/tasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	rec = env.do(http.MethodGet, "/api/tasks", token, nil)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/tasks", token, map[string]any{"title": "fresh"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodGet, "/api/tasks", token, nil)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	tasks := decode[[]TaskResponse](t, rec)
	require.Len(t, tasks, 1)
	assert.Equal(t, "fresh", tasks[0].Title)
}
