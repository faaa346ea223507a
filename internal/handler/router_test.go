package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"garrison/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardsRedirect(t *testing.T) {
	c := newClient(t, newServer(t))

	for _, path := range []string{"/admin", "/api/applications", "/api/admin/groups", "/api/admin/applications/export"} {
		resp, _ := c.get(path)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/admin/login", resp.Header.Get("Location"), path)
	}
	resp, _ := c.json(http.MethodPost, "/api/admin/actions/task", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	for _, path := range []string{"/user", "/api/user/tasks", "/api/user/me"} {
		resp, _ := c.get(path)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	resp, _ = c.get("/api/news")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = c.get("/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginFailureRerendersPage(t *testing.T) {
	c := newClient(t, newServer(t))

	resp := c.form("/admin/login", url.Values{"username": {"admin"}, "password": {"nope"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body := c.do(http.MethodPost, "/login", "application/x-www-form-urlencoded",
		strings.NewReader(url.Values{"username": {"ghost"}, "password": {"secret1"}}.Encode()))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), msgBadLogin)

	resp, _ = c.get("/api/applications")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestSubmitRecruitment(t *testing.T) {
	c := newClient(t, newServer(t))

	resp, out := c.json(http.MethodPost, "/recruitment/submit", recruit("petrov"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "petrov", out["username"])
	assert.Equal(t, "secret1", out["password"])
	assert.Equal(t, true, out["show_credentials"])

	// Form bodies are accepted too.
	form := url.Values{}
	for k, v := range recruit("sidorov") {
		form.Set(k, fmt.Sprint(v))
	}
	assert.Equal(t, http.StatusOK, c.form("/recruitment/submit", form).StatusCode)

	missing := recruit("ivanov")
	delete(missing, "phone")
	missing["r_age"] = 0
	resp, out = c.json(http.MethodPost, "/recruitment/submit", missing)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Отсутствуют обязательные поля: r_age, phone", out["message"])

	resp, out = c.json(http.MethodPost, "/recruitment/submit", recruit("petrov"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Логин уже занят, выберите другой", out["message"])

	c.loginAdmin()
	_, body := c.get("/api/applications")
	var apps []map[string]any
	require.NoError(t, json.Unmarshal(body, &apps))
	// The rejected duplicate still left its application behind.
	assert.Len(t, apps, 3)
}

func TestSubmitRecruitmentAtomic(t *testing.T) {
	c := newClient(t, newServer(t, func(cfg *config.Config) { cfg.Recruitment.AtomicSubmission = true }))
	c.submit("petrov")

	resp, _ := c.json(http.MethodPost, "/recruitment/submit", recruit("petrov"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	c.loginAdmin()
	_, body := c.get("/api/applications")
	var apps []map[string]any
	require.NoError(t, json.Unmarshal(body, &apps))
	assert.Len(t, apps, 1)
}

func TestApplicationReview(t *testing.T) {
	c := newClient(t, newServer(t))
	id := c.submit("petrov")
	c.loginAdmin()

	resp, out := c.json(http.MethodGet, fmt.Sprintf("/api/applications/%d", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "На рассмотрении", out["status"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, out["submission_date"])
	account := out["user_account"].(map[string]any)
	assert.Equal(t, "petrov", account["username"])

	resp, out = c.json(http.MethodPut, fmt.Sprintf("/api/applications/%d/status", id), map[string]any{"status": "Одобрено"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Статус обновлен", out["message"])

	// An empty body keeps the status.
	resp, _ = c.do(http.MethodPut, fmt.Sprintf("/api/applications/%d/status", id), "application/json", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, out = c.json(http.MethodGet, fmt.Sprintf("/api/applications/%d", id), nil)
	assert.Equal(t, "Одобрено", out["status"])

	resp, _ = c.json(http.MethodGet, "/api/applications/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = c.json(http.MethodGet, "/api/applications/abc", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = c.do(http.MethodPut, fmt.Sprintf("/api/applications/%d/status", id), "application/json", strings.NewReader("{"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := c.get("/api/admin/applications/export")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
	assert.NotEmpty(t, body)
}

func TestNewsLifecycle(t *testing.T) {
	c := newClient(t, newServer(t))
	c.loginAdmin()

	resp, out := c.json(http.MethodPost, "/api/news", map[string]any{"title": "Учения"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, out = c.json(http.MethodPost, "/api/news", map[string]any{"title": "Учения", "content": "*завтра*"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id := int(out["id"].(float64))

	resp, out = c.json(http.MethodGet, fmt.Sprintf("/api/news/%d", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Администратор", out["author"])
	assert.Equal(t, "", out["category"])
	assert.Contains(t, out["content_html"], "<em>завтра</em>")
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, out["date"])

	resp, _ = c.json(http.MethodPut, fmt.Sprintf("/api/news/%d", id), map[string]any{"category": "Учения"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, out = c.json(http.MethodGet, fmt.Sprintf("/api/news/%d", id), nil)
	assert.Equal(t, "Учения", out["category"])
	assert.Equal(t, "Учения", out["title"])

	resp, out = c.json(http.MethodDelete, fmt.Sprintf("/api/news/%d", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Новость удалена", out["message"])
	resp, _ = c.json(http.MethodDelete, fmt.Sprintf("/api/news/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// An admin builds a group, broadcasts an assignment to it and each member
// sees it with the default issuer.
func TestGroupAssignmentReachesMembers(t *testing.T) {
	srv := newServer(t)
	admin := newClient(t, srv)
	admin.submit("alpha1")
	admin.submit("bravo1")
	admin.submit("charlie1")
	admin.loginAdmin()

	resp, out := admin.json(http.MethodPost, "/api/admin/groups", map[string]any{"name": "Alpha"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	gid := int(out["id"].(float64))

	resp, _ = admin.json(http.MethodPost, "/api/admin/groups", map[string]any{"name": "Alpha"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, name := range []string{"alpha1", "bravo1"} {
		resp, _ = admin.json(http.MethodPost, fmt.Sprintf("/api/admin/groups/%d/members", gid), map[string]any{"username": name})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, _ = admin.json(http.MethodPost, fmt.Sprintf("/api/admin/groups/%d/members", gid), map[string]any{"username": "alpha1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = admin.json(http.MethodPost, fmt.Sprintf("/api/admin/groups/%d/members", gid), map[string]any{"username": "ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body := admin.get(fmt.Sprintf("/api/admin/groups/%d/members", gid))
	var members []map[string]any
	require.NoError(t, json.Unmarshal(body, &members))
	require.Len(t, members, 2)

	resp, out = admin.json(http.MethodPost, "/api/admin/actions/assignment", map[string]any{
		"title":    "Patrol",
		"group_id": fmt.Sprint(gid),
		"user_id":  "",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, float64(2), out["created_for"])

	resp, out = admin.json(http.MethodPost, "/api/admin/actions/task", map[string]any{"title": "Idle"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), out["created_for"])

	resp, out = admin.json(http.MethodPost, "/api/admin/actions/schedule", map[string]any{"group_id": gid})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "День обязателен", out["message"])

	for _, name := range []string{"alpha1", "bravo1"} {
		m := newClient(t, srv)
		m.loginMember(name, "secret1")
		_, body := m.get("/api/user/assignments")
		var rows []map[string]any
		require.NoError(t, json.Unmarshal(body, &rows), string(body))
		require.Len(t, rows, 1, name)
		assert.Equal(t, "Patrol", rows[0]["title"])
		assert.Equal(t, "Командование", rows[0]["issued_by"])
		assert.Equal(t, "assigned", rows[0]["status"])
	}

	outsider := newClient(t, srv)
	outsider.loginMember("charlie1", "secret1")
	_, body = outsider.get("/api/user/assignments")
	assert.JSONEq(t, "[]", string(body))

	resp, _ = admin.json(http.MethodDelete, fmt.Sprintf("/api/admin/groups/%d", gid), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = admin.json(http.MethodGet, fmt.Sprintf("/api/admin/groups/%d/members", gid), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMemberNotificationsAndProfile(t *testing.T) {
	srv := newServer(t)
	admin := newClient(t, srv)
	admin.submit("alpha1")
	admin.loginAdmin()

	_, body := admin.get("/api/admin/users")
	var users []map[string]any
	require.NoError(t, json.Unmarshal(body, &users))
	require.Len(t, users, 1)
	uid := int(users[0]["id"].(float64))

	resp, _ := admin.json(http.MethodPut, fmt.Sprintf("/api/admin/users/%d", uid), map[string]any{"rank": "Сержант"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, out := admin.json(http.MethodPost, "/api/admin/actions/notification", map[string]any{"user_id": uid, "content": "Сбор"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), out["created_for"])

	m := newClient(t, srv)
	m.loginMember("alpha1", "secret1")
	_, me := m.json(http.MethodGet, "/api/user/me", nil)
	assert.Equal(t, "Сержант", me["rank"])

	resp, page := m.get("/user")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(page), "alpha1")

	_, body = m.get("/api/user/notifications")
	var notes []map[string]any
	require.NoError(t, json.Unmarshal(body, &notes))
	require.Len(t, notes, 1)
	nid := int(notes[0]["id"].(float64))
	assert.Equal(t, false, notes[0]["is_read"])

	resp, _ = m.json(http.MethodPut, fmt.Sprintf("/api/user/notifications/%d/read", nid), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = m.json(http.MethodPut, "/api/user/notifications/9999/read", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = m.get("/logout")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	resp, _ = m.get("/api/user/me")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestTokenLogin(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)
	c.submit("alpha1")

	resp, out := c.json(http.MethodPost, "/api/login", map[string]any{"username": "alpha1", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, out = c.json(http.MethodPost, "/api/login", map[string]any{"username": "alpha1", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := out["token"].(string)
	user := out["user"].(map[string]any)
	assert.Equal(t, "alpha1", user["username"])

	// A fresh client has no cookies; the bearer token alone is enough.
	api := newClient(t, srv)
	resp, body := api.do(http.MethodGet, "/api/user/me", "", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "alpha1")

	resp, _ = api.do(http.MethodGet, "/api/user/me", "", nil, "Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	c := newClient(t, newServer(t))
	c.get("/api/news")

	resp, body := c.get("/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `garrison_http_requests_total{method="GET",route="/api/news",status="200"} 1`)
}
