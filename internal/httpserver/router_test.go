package httpserver_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techweave_backend/internal/config"
	"techweave_backend/internal/domain"
	"techweave_backend/internal/httpserver"
	"techweave_backend/internal/security"
	"techweave_backend/internal/store/sqlite"
	"techweave_backend/internal/ws"
)

type fixture struct {
	server *httptest.Server
	db     *sql.DB
	repos  httpserver.Repos
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(db))

	repos := httpserver.NewRepos("sqlite", db)
	require.NoError(t, repos.Groups.EnsureGeneralChat(context.Background()))

	cfg := &config.Config{
		AppName:     "TechWeave API",
		Host:        "127.0.0.1",
		Port:        0,
		DBDriver:    "sqlite",
		JWTSecret:   "test-secret",
		CORSOrigins: []string{"http://localhost:3000"},
	}
	tokens := security.NewTokenService(cfg.JWTSecret, time.Hour, time.Minute)
	hasher := security.NewPasswordHasher(4)

	router := httpserver.NewRouter(cfg, repos, ws.NewHub(), tokens, hasher)
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		db.Close()
	})
	return &fixture{server: srv, db: db, repos: repos}
}

func (f *fixture) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(f.server.URL+path, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func (f *fixture) getAuthed(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, f.server.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// signupAndLogin registers a user and returns their id and access token.
func (f *fixture) signupAndLogin(t *testing.T, username, email string) (int64, string) {
	t.Helper()
	resp := f.postJSON(t, "/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": "Password1!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var signup struct {
		UserID int64 `json:"userId"`
	}
	decodeBody(t, resp, &signup)

	resp = f.postJSON(t, "/login", map[string]string{
		"email":    email,
		"password": "Password1!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &login)
	require.NotEmpty(t, login.Token)
	return signup.UserID, login.Token
}

func TestSignupLoginAndHistory(t *testing.T) {
	f := newFixture(t)

	aliceID, aliceToken := f.signupAndLogin(t, "alice", "alice@techweave.io")
	bobID, _ := f.signupAndLogin(t, "bob", "bob@techweave.io")

	// Store two messages directly through the repository.
	ctx := context.Background()
	for _, body := range []string{"hi bob", "hi again"} {
		msg := &domain.PrivateMessage{
			SenderID:   aliceID,
			ReceiverID: bobID,
			Body:       body,
			RoomID:     domain.PrivateRoomID(aliceID, bobID),
		}
		require.NoError(t, f.repos.Messages.Create(ctx, msg))
	}

	resp := f.getAuthed(t, fmt.Sprintf("/api/chats/%d", aliceID), aliceToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var msgs []*domain.PrivateMessage
	decodeBody(t, resp, &msgs)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi bob", msgs[0].Body)
	assert.Equal(t, "hi again", msgs[1].Body)
	assert.Equal(t, "alice", msgs[0].SenderName)
}

func TestHistoryRequiresAuth(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.server.URL + "/api/chats/1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGroupHistoryEndpoint(t *testing.T) {
	f := newFixture(t)

	aliceID, aliceToken := f.signupAndLogin(t, "alice", "alice@techweave.io")

	ctx := context.Background()
	msg := &domain.GroupMessage{
		GroupID:  domain.GeneralChatGroupID,
		SenderID: aliceID,
		Body:     "hello general",
	}
	require.NoError(t, f.repos.Groups.CreateMessage(ctx, msg))

	resp := f.getAuthed(t, fmt.Sprintf("/api/group-chat/%d/messages", domain.GeneralChatGroupID), aliceToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var msgs []*domain.GroupMessage
	decodeBody(t, resp, &msgs)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello general", msgs[0].Body)
	assert.Equal(t, "alice", msgs[0].SenderName)
}

func TestGroupListAndMembers(t *testing.T) {
	f := newFixture(t)

	_, token := f.signupAndLogin(t, "alice", "alice@techweave.io")

	resp := f.getAuthed(t, "/api/group-chats", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var groups []*domain.Group
	decodeBody(t, resp, &groups)
	require.Len(t, groups, 1)
	assert.Equal(t, "General Chat", groups[0].Name)
	assert.Equal(t, 1, groups[0].MemberCount, "signup auto-joins General Chat")

	resp = f.getAuthed(t, "/api/group-chat/1/members", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var members []*domain.GroupMember
	decodeBody(t, resp, &members)
	require.Len(t, members, 1)
	assert.Equal(t, "alice", members[0].Username)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	f := newFixture(t)

	_, token := f.signupAndLogin(t, "alice", "alice@techweave.io")

	resp := f.getAuthed(t, "/api/admin/stats", token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminStats(t *testing.T) {
	f := newFixture(t)

	adminID, token := f.signupAndLogin(t, "root", "root@techweave.io")
	require.NoError(t, f.repos.Users.UpdateRole(context.Background(), adminID, domain.RoleAdmin))

	// The middleware resolves the user from storage on every request, so the
	// pre-promotion token picks up the new role.
	resp := f.getAuthed(t, "/api/admin/stats", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats domain.Stats
	decodeBody(t, resp, &stats)
	assert.Equal(t, 1, stats.TotalUsers)
	assert.Equal(t, 0, stats.PrivateMessages)
}
