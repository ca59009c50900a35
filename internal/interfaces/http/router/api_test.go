package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fieldcollect/backend/internal/application/access"
	groupapp "github.com/fieldcollect/backend/internal/application/group"
	identityapp "github.com/fieldcollect/backend/internal/application/identity"
	submissionapp "github.com/fieldcollect/backend/internal/application/submission"
	"github.com/fieldcollect/backend/internal/domain/identity"
	"github.com/fieldcollect/backend/internal/infrastructure/auth"
	"github.com/fieldcollect/backend/internal/infrastructure/cache"
	"github.com/fieldcollect/backend/internal/infrastructure/config"
	"github.com/fieldcollect/backend/internal/infrastructure/persistence"
	"github.com/fieldcollect/backend/internal/interfaces/http/handler"
	"github.com/fieldcollect/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminEmail    = "admin@x.io"
	adminPassword = "admin-password"
)

type testApp struct {
	engine *gin.Engine
}

type apiOptions struct {
	credentialLimit int
}

func newTestApp(t *testing.T, opts apiOptions) *testApp {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate())

	users := persistence.NewGormUserRepository(db.DB)
	groups := persistence.NewGormGroupRepository(db.DB)
	submissions := persistence.NewGormSubmissionRepository(db.DB)

	hasher, err := auth.NewBcryptHasher(4, 2)
	require.NoError(t, err)
	tokens, err := auth.NewSessionTokenService(config.JWTConfig{
		Secret:            "test-secret-key-at-least-32-chars",
		Issuer:            "fieldcollect-test",
		SessionExpiration: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)

	authService := identityapp.NewAuthService(users, hasher, tokens, log)
	accessService := access.NewAccessService(users, groups, submissions, log)
	groupService := groupapp.NewGroupService(groups, log)
	submissionService := submissionapp.NewSubmissionService(submissions, users, log)

	require.NoError(t, identityapp.EnsureAdmin(ctx, users, hasher, identityapp.AdminBootstrap{
		Email:    adminEmail,
		Password: adminPassword,
		Name:     "Admin",
		Phone:    "000",
	}, log))

	cookie := config.CookieConfig{Name: "token", Path: "/", SameSite: "strict"}

	api := API{
		Auth:         handler.NewAuthHandler(authService, cookie, tokens.Expiration()),
		Submission:   handler.NewSubmissionHandler(submissionService),
		Admin:        handler.NewAdminHandler(accessService, groupService),
		User:         handler.NewUserHandler(accessService),
		Session:      middleware.SessionAuth(middleware.SessionConfig{Verifier: authService, CookieName: cookie.Name}),
		RequireAdmin: middleware.RequireRole(authService, identity.RoleAdmin, log),
	}
	if opts.credentialLimit > 0 {
		store := cache.NewInMemoryRateLimitStore(0)
		t.Cleanup(func() { _ = store.Close() })
		api.CredentialLimit = middleware.RateLimit(middleware.RateLimitConfig{
			Store:  store,
			Limit:  opts.credentialLimit,
			Window: time.Minute,
			Scope:  "auth",
		})
	}

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())
	NewRouter(engine).Register(api.Groups()...).Setup()

	return &testApp{engine: engine}
}

func (a *testApp) do(t *testing.T, method, path string, body any, cookie *http.Cookie) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

// login returns the session cookie and the user's id
func (a *testApp) login(t *testing.T, email, password string) (*http.Cookie, string) {
	t.Helper()
	rec, body := a.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": password}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user := body["user"].(map[string]any)
	return sessionCookie(t, rec), user["id"].(string)
}

func (a *testApp) signup(t *testing.T, name, email string) {
	t.Helper()
	rec, _ := a.do(t, http.MethodPost, "/api/auth/signup", gin.H{
		"name": name, "email": email, "phone": "0911", "password": "longpassword",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func submitForm(t *testing.T, app *testApp, cookie *http.Cookie, name string) string {
	t.Helper()
	rec, body := app.do(t, http.MethodPost, "/api/auth/fill-form", gin.H{
		"name": name, "phone": "555-0100", "address": "1 Main St", "status": "Pending",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Successfully registered", body["message"])
	return body["id"].(string)
}

func TestAPI_CollectionScenario(t *testing.T) {
	app := newTestApp(t, apiOptions{})

	// Signup
	rec, body := app.do(t, http.MethodPost, "/api/auth/signup", gin.H{
		"name": "Ada", "email": "ada@x.com", "phone": "0911", "password": "longpassword",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User is created", body["message"])
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "user", body["user"].(map[string]any)["role"])
	assert.NotContains(t, body["user"], "password_hash")

	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, 7*24*60*60, cookie.MaxAge)

	// Login
	rec, body = app.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"email": "ada@x.com", "password": "longpassword",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged in Successfully", body["message"])
	adaUser := body["user"].(map[string]any)
	assert.Equal(t, "user", adaUser["role"])
	adaID := adaUser["id"].(string)
	adaCookie := sessionCookie(t, rec)

	// Submit
	submissionID := submitForm(t, app, adaCookie, "Grace")

	app.signup(t, "Bob", "bob@x.com")
	bobCookie, bobID := app.login(t, "bob@x.com", "longpassword")
	submitForm(t, app, bobCookie, "Linus")

	// Admin sees everything with submitter names
	adminCookie, _ := app.login(t, adminEmail, adminPassword)
	rec, body = app.do(t, http.MethodGet, "/api/admin/collected", nil, adminCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].([]any)
	require.Len(t, data, 2)

	var adas map[string]any
	for _, row := range data {
		if m := row.(map[string]any); m["id"] == submissionID {
			adas = m
		}
	}
	require.NotNil(t, adas)
	assert.Equal(t, "Pending", adas["status"])
	assert.Equal(t, adaID, adas["collected_by"])
	assert.Equal(t, "Ada", adas["submitted_by_name"])

	// Own submissions never include other users' rows
	rec, body = app.do(t, http.MethodGet, "/api/user/submissions/"+bobID, nil, bobCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	bobs := body["submissions"].([]any)
	require.Len(t, bobs, 1)
	assert.Equal(t, bobID, bobs[0].(map[string]any)["collected_by"])

	rec, body = app.do(t, http.MethodGet, "/api/user/submissions/"+adaID, nil, adaCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	adaRows := body["submissions"].([]any)
	require.Len(t, adaRows, 1)
	assert.Equal(t, submissionID, adaRows[0].(map[string]any)["id"])
}

func TestAPI_Auth(t *testing.T) {
	app := newTestApp(t, apiOptions{})
	app.signup(t, "Ada", "ada@x.com")

	tests := []struct {
		name    string
		path    string
		body    gin.H
		message string
	}{
		{"duplicate email", "/api/auth/signup", gin.H{"name": "Ada", "email": "ADA@x.com", "phone": "1", "password": "longpassword"}, "User already exists"},
		{"short password", "/api/auth/signup", gin.H{"name": "Bo", "email": "bo@x.com", "phone": "1", "password": "short"}, "Password must be at least 8 characters"},
		{"missing field", "/api/auth/signup", gin.H{"email": "bo@x.com", "password": "longpassword"}, "All fields are required"},
		{"wrong password", "/api/auth/login", gin.H{"email": "ada@x.com", "password": "wrongpassword"}, "Invalid email or password"},
		{"unknown email", "/api/auth/login", gin.H{"email": "nobody@x.com", "password": "longpassword"}, "Invalid email or password"},
		{"missing credentials", "/api/auth/login", gin.H{"email": "ada@x.com"}, "Email and password are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := app.do(t, http.MethodPost, tt.path, tt.body, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
			assert.Empty(t, rec.Result().Cookies())
		})
	}

	t.Run("legacy fullName", func(t *testing.T) {
		rec, body := app.do(t, http.MethodPost, "/api/auth/signup", gin.H{
			"fullName": "Cy", "email": "cy@x.com", "phone": "1", "password": "longpassword",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Cy", body["user"].(map[string]any)["name"])
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		app.engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("me with bearer token", func(t *testing.T) {
		rec, body := app.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "ada@x.com", "password": "longpassword"}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+body["token"].(string))
		rec = httptest.NewRecorder()
		app.engine.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var me map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
		assert.Equal(t, "ada@x.com", me["user"].(map[string]any)["email"])
	})

	t.Run("logout clears the cookie", func(t *testing.T) {
		rec, body := app.do(t, http.MethodPost, "/api/auth/logout", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
		cookie := sessionCookie(t, rec)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	})
}

func TestAPI_FillForm(t *testing.T) {
	app := newTestApp(t, apiOptions{})
	app.signup(t, "Ada", "ada@x.com")
	cookie, _ := app.login(t, "ada@x.com", "longpassword")

	t.Run("requires a session", func(t *testing.T) {
		rec, body := app.do(t, http.MethodPost, "/api/auth/fill-form", gin.H{
			"name": "G", "phone": "1", "address": "a", "status": "Pending",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, false, body["success"])
	})

	t.Run("missing details", func(t *testing.T) {
		rec, body := app.do(t, http.MethodPost, "/api/auth/fill-form", gin.H{
			"name": "G", "phone": "1", "status": "Pending",
		}, cookie)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, false, body["success"])
	})

	t.Run("unknown status", func(t *testing.T) {
		rec, _ := app.do(t, http.MethodPost, "/api/auth/fill-form", gin.H{
			"name": "G", "phone": "1", "address": "a", "status": "pending",
		}, cookie)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAPI_AdminAccess(t *testing.T) {
	app := newTestApp(t, apiOptions{})
	app.signup(t, "Ada", "ada@x.com")
	app.signup(t, "Bob", "bob@x.com")
	adaCookie, adaID := app.login(t, "ada@x.com", "longpassword")
	bobCookie, bobID := app.login(t, "bob@x.com", "longpassword")
	adminCookie, _ := app.login(t, adminEmail, adminPassword)

	for _, path := range []string{"/api/admin", "/api/admin/users", "/api/admin/groups", "/api/admin/collected"} {
		t.Run("user forbidden "+path, func(t *testing.T) {
			rec, body := app.do(t, http.MethodGet, path, nil, adaCookie)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, false, body["success"])
		})
		t.Run("anonymous rejected "+path, func(t *testing.T) {
			rec, _ := app.do(t, http.MethodGet, path, nil, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	rec, body := app.do(t, http.MethodGet, "/api/admin", nil, adminCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hi Admin", body["message"])

	rec, body = app.do(t, http.MethodGet, "/api/admin/users", nil, adminCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	users := body["users"].([]any)
	assert.Len(t, users, 3)
	for _, u := range users {
		assert.NotContains(t, u, "password")
		assert.NotContains(t, u, "password_hash")
	}

	// Groups
	rec, body = app.do(t, http.MethodPost, "/api/admin/groups", gin.H{"name": " ", "max_members": 2}, adminCookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = app.do(t, http.MethodPost, "/api/admin/groups", gin.H{"name": "North", "max_members": 2}, adminCookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	groupID := body["group"].(map[string]any)["id"].(string)

	rec, _ = app.do(t, http.MethodPost, "/api/admin/groups/not-a-uuid/members", gin.H{"user_ids": []string{adaID}}, adminCookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = app.do(t, http.MethodPost, "/api/admin/groups/"+groupID+"/members", gin.H{"user_ids": []string{"nope"}}, adminCookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = app.do(t, http.MethodPost, "/api/admin/groups/"+groupID+"/members", gin.H{"user_ids": []string{adaID, adaID}}, adminCookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	group := body["group"].(map[string]any)
	assert.Equal(t, []any{adaID}, group["members"])
	assert.EqualValues(t, 1, group["member_count"])

	rec, body = app.do(t, http.MethodGet, "/api/admin/groups", nil, adminCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["groups"].([]any), 1)

	// User views
	rec, body = app.do(t, http.MethodGet, "/api/user/group/"+adaID, nil, adaCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "North", body["group"].(map[string]any)["name"])

	rec, body = app.do(t, http.MethodGet, "/api/user/group/"+bobID, nil, bobCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, body["group"])
	assert.Equal(t, "No group assigned", body["message"])

	rec, _ = app.do(t, http.MethodGet, "/api/user/group/"+adaID, nil, bobCookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = app.do(t, http.MethodGet, "/api/user/submissions/"+adaID, nil, bobCookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = app.do(t, http.MethodGet, "/api/user/group/"+adaID, nil, adminCookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = app.do(t, http.MethodGet, "/api/user/group/not-a-uuid", nil, adaCookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_GroupBodies(t *testing.T) {
	app := newTestApp(t, apiOptions{})
	app.signup(t, "Ada", "ada@x.com")
	adaCookie, adaID := app.login(t, "ada@x.com", "longpassword")
	adminCookie, _ := app.login(t, adminEmail, adminPassword)

	t.Run("camelCase keys from older clients", func(t *testing.T) {
		rec, body := app.do(t, http.MethodPost, "/api/admin/groups", gin.H{"name": "Legacy", "maxMembers": 1}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		group := body["group"].(map[string]any)
		assert.EqualValues(t, 1, group["max_members"])

		rec, body = app.do(t, http.MethodPost, "/api/admin/groups/"+group["id"].(string)+"/members",
			gin.H{"userIds": []string{adaID}}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, []any{adaID}, body["group"].(map[string]any)["members"])
	})

	t.Run("negative legacy capacity", func(t *testing.T) {
		rec, _ := app.do(t, http.MethodPost, "/api/admin/groups", gin.H{"name": "Bad", "maxMembers": -1}, adminCookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty member list", func(t *testing.T) {
		rec, body := app.do(t, http.MethodPost, "/api/admin/groups", gin.H{"name": "Empty"}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		groupID := body["group"].(map[string]any)["id"].(string)

		rec, _ = app.do(t, http.MethodPost, "/api/admin/groups/"+groupID+"/members", gin.H{}, adminCookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("name limit is 200 characters", func(t *testing.T) {
		rec, _ := app.do(t, http.MethodPost, "/api/admin/groups", gin.H{"name": strings.Repeat("g", 200)}, adminCookie)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec, _ = app.do(t, http.MethodPost, "/api/admin/groups", gin.H{"name": strings.Repeat("g", 201)}, adminCookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("submission keeps the group it was filed under", func(t *testing.T) {
		rec, body := app.do(t, http.MethodPost, "/api/admin/groups", gin.H{"name": "First"}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		first := body["group"].(map[string]any)["id"].(string)
		rec, body = app.do(t, http.MethodPost, "/api/admin/groups", gin.H{"name": "Second"}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		second := body["group"].(map[string]any)["id"].(string)

		rec, _ = app.do(t, http.MethodPost, "/api/admin/groups/"+first+"/members", gin.H{"user_ids": []string{adaID}}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		submissionID := submitForm(t, app, adaCookie, "Snapshot subject")

		rec, _ = app.do(t, http.MethodPost, "/api/admin/groups/"+second+"/members", gin.H{"user_ids": []string{adaID}}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		rec, body = app.do(t, http.MethodGet, "/api/user/group/"+adaID, nil, adaCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, second, body["group"].(map[string]any)["id"])

		rec, body = app.do(t, http.MethodGet, "/api/user/submissions/"+adaID, nil, adaCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		var found bool
		for _, raw := range body["submissions"].([]any) {
			s := raw.(map[string]any)
			if s["id"] == submissionID {
				found = true
				assert.Equal(t, first, s["group_id"])
			}
		}
		assert.True(t, found)
	})
}

func TestAPI_CredentialRateLimit(t *testing.T) {
	app := newTestApp(t, apiOptions{credentialLimit: 2})

	for range 2 {
		rec, _ := app.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "ada@x.com", "password": "wrongpassword"}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec, body := app.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "ada@x.com", "password": "wrongpassword"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", body["code"])

	// Session routes are not limited.
	rec, _ = app.do(t, http.MethodPost, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
