package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valentine/internal/app"
	"valentine/internal/realtime"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	hub := realtime.NewHub()
	a, err := app.New(app.Config{Notifier: hub})
	require.NoError(t, err)
	ts := httptest.NewServer(New(Config{App: a, Hub: hub}).Router())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}
	return resp, payload
}

func doJSONList(t *testing.T, ts *httptest.Server, path, token string) []map[string]any {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	return list
}

func registerUser(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()
	resp, payload := doJSON(t, ts, http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "pw-" + username,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := payload["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterLoginLogout(t *testing.T) {
	ts := newTestServer(t)

	token := registerUser(t, ts, "alice")

	resp, payload := doJSON(t, ts, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", payload["username"])
	assert.Equal(t, "alice@example.com", payload["email"])
	assert.Equal(t, "Looking", payload["relationship_status"])
	assert.Equal(t, "default", payload["theme"])

	// Duplicate username and duplicate email both conflict.
	resp, payload = doJSON(t, ts, http.MethodPost, "/register", "", map[string]string{
		"username": "alice", "email": "other@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "Username already exists", payload["message"])

	resp, _ = doJSON(t, ts, http.MethodPost, "/register", "", map[string]string{
		"username": "alice2", "email": "alice@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodPost, "/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, payload = doJSON(t, ts, http.MethodPost, "/login", "", map[string]string{
		"username": "alice", "password": "pw-alice",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fresh, _ := payload["token"].(string)
	require.NotEmpty(t, fresh)

	resp, _ = doJSON(t, ts, http.MethodGet, "/logout", fresh, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, ts, http.MethodGet, "/api/user", fresh, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionCookieAuth(t *testing.T) {
	ts := newTestServer(t)

	resp, payload := doJSON(t, ts, http.MethodPost, "/register", "", map[string]string{
		"username": "carol", "email": "carol@example.com", "password": "secret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, payload["token"], cookie.Value)
	assert.True(t, cookie.HttpOnly)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/user", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	got, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer got.Body.Close()
	assert.Equal(t, http.StatusOK, got.StatusCode)
}

func TestValentineRequestLifecycle(t *testing.T) {
	ts := newTestServer(t)
	alice := registerUser(t, ts, "alice")
	bob := registerUser(t, ts, "bob")

	resp, payload := doJSON(t, ts, http.MethodPost, "/api/send-request", alice, map[string]string{
		"recipient_username": "bob", "message": "be mine",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Request sent successfully", payload["message"])

	// A second request to the same recipient conflicts regardless of its
	// eventual outcome.
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/send-request", alice, map[string]string{
		"recipient_username": "bob", "message": "again",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	received := doJSONList(t, ts, "/api/requests/received", bob)
	require.Len(t, received, 1)
	assert.Equal(t, "alice", received[0]["from"])
	assert.Equal(t, "pending", received[0]["status"])
	id := int(received[0]["id"].(float64))

	// Only the recipient may respond.
	resp, _ = doJSON(t, ts, http.MethodPost, fmt.Sprintf("/api/requests/%d/respond", id), alice, map[string]string{
		"response": "accept",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, payload = doJSON(t, ts, http.MethodPost, fmt.Sprintf("/api/requests/%d/respond", id), bob, map[string]string{
		"response": "accept", "response_message": "yes!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Request accepted", payload["message"])

	// Accepted is terminal.
	resp, _ = doJSON(t, ts, http.MethodPost, fmt.Sprintf("/api/requests/%d/respond", id), bob, map[string]string{
		"response": "reject",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	sent := doJSONList(t, ts, "/api/requests/sent", alice)
	require.Len(t, sent, 1)
	assert.Equal(t, "accepted", sent[0]["status"])
	assert.Equal(t, "yes!", sent[0]["response_message"])
}

func TestMessagingAndBlockAsymmetry(t *testing.T) {
	ts := newTestServer(t)
	alice := registerUser(t, ts, "alice")
	bob := registerUser(t, ts, "bob")

	resp, _ := doJSON(t, ts, http.MethodPost, "/api/block/alice", bob, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// alice -> bob is rejected; bob -> alice still goes through.
	resp, payload := doJSON(t, ts, http.MethodPost, "/api/messages/send", alice, map[string]string{
		"to": "bob", "content": "hello?",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "You cannot message this user", payload["message"])

	resp, _ = doJSON(t, ts, http.MethodPost, "/api/messages/send", bob, map[string]string{
		"to": "alice", "content": "one-way street",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodPost, "/api/unblock/alice", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/messages/send", alice, map[string]string{
		"to": "bob", "content": "finally",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Both sides see the same ordered conversation.
	forAlice := doJSONList(t, ts, "/api/messages/bob", alice)
	forBob := doJSONList(t, ts, "/api/messages/alice", bob)
	require.Len(t, forAlice, 2)
	require.Len(t, forBob, 2)
	assert.Equal(t, "one-way street", forAlice[0]["content"])
	assert.Equal(t, "finally", forAlice[1]["content"])
	assert.Equal(t, forAlice[0]["content"], forBob[0]["content"])
	assert.Equal(t, forAlice[1]["content"], forBob[1]["content"])
}

func TestShareImageEndpoint(t *testing.T) {
	ts := newTestServer(t)
	alice := registerUser(t, ts, "alice")
	bob := registerUser(t, ts, "bob")

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("to", "bob"))
	part, err := form.CreateFormFile("file", "heart.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/messages/share-image", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+alice)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	conversation := doJSONList(t, ts, "/api/messages/alice", bob)
	require.Len(t, conversation, 1)
	assert.Equal(t, "image", conversation[0]["type"])
	content, _ := conversation[0]["content"].(string)
	assert.True(t, strings.HasPrefix(content, "data:"))
}

func TestFollowEndpoints(t *testing.T) {
	ts := newTestServer(t)
	alice := registerUser(t, ts, "alice")
	registerUser(t, ts, "bob")

	resp, _ := doJSON(t, ts, http.MethodPost, "/api/follow/bob", alice, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/follow/bob", alice, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/follow/alice", alice, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Follower listings are public.
	resp, payload := doJSON(t, ts, http.MethodGet, "/api/followers/bob", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), payload["count"])

	// Unfollow is idempotent.
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/unfollow/bob", alice, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/unfollow/bob", alice, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCardEndpoints(t *testing.T) {
	ts := newTestServer(t)
	alice := registerUser(t, ts, "alice")
	bob := registerUser(t, ts, "bob")

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/gifts", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	var gifts []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&gifts))
	resp.Body.Close()
	assert.Len(t, gifts, 8)

	// Card creation does not validate the recipient.
	resp2, payload := doJSON(t, ts, http.MethodPost, "/api/cards/create", alice, map[string]any{
		"to": "nobody", "template_id": 1, "message": "hi",
	})
	assert.Equal(t, http.StatusCreated, resp2.StatusCode)
	assert.Equal(t, true, payload["success"])

	resp2, _ = doJSON(t, ts, http.MethodPost, "/api/cards/create", alice, map[string]any{
		"to": "bob", "template_id": 2, "message": "for you",
	})
	require.Equal(t, http.StatusCreated, resp2.StatusCode)

	cards := doJSONList(t, ts, "/api/cards/received", bob)
	require.Len(t, cards, 1)
	assert.Equal(t, false, cards[0]["viewed"])
	id := int(cards[0]["id"].(float64))

	// Only the recipient may view.
	resp2, _ = doJSON(t, ts, http.MethodPost, fmt.Sprintf("/api/cards/%d/view", id), alice, nil)
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)

	resp2, payload = doJSON(t, ts, http.MethodPost, fmt.Sprintf("/api/cards/%d/view", id), bob, nil)
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	card, _ := payload["card"].(map[string]any)
	require.NotNil(t, card)
	assert.Equal(t, true, card["viewed"])
}

func TestAdminSurface(t *testing.T) {
	ts := newTestServer(t)

	// Bootstrap fails before any user exists.
	resp, payload := doJSON(t, ts, http.MethodPost, "/setup-admin", "", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "No users exist yet. Register first.", payload["message"])

	alice := registerUser(t, ts, "alice")
	bob := registerUser(t, ts, "bob")

	resp, payload = doJSON(t, ts, http.MethodPost, "/setup-admin", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", payload["admin"])

	// Admin routes reject anonymous and non-admin callers.
	resp, _ = doJSON(t, ts, http.MethodGet, "/api/admin/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = doJSON(t, ts, http.MethodGet, "/api/admin/stats", bob, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, payload = doJSON(t, ts, http.MethodGet, "/api/admin/stats", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), payload["total_users"])

	resp, _ = doJSON(t, ts, http.MethodPost, "/api/report/bob", alice, map[string]string{
		"reason": "spam", "message": "unsolicited poetry",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	reports := doJSONList(t, ts, "/api/admin/reports", alice)
	require.Len(t, reports, 1)
	assert.Equal(t, "bob", reports[0]["reported"])
	assert.Equal(t, "spam", reports[0]["reason"])

	resp, _ = doJSON(t, ts, http.MethodPost, "/api/admin/users/bob/make-admin", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, ts, http.MethodGet, "/api/admin/users", bob, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, payload = doJSON(t, ts, http.MethodPost, "/api/admin/users/bob/delete", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User bob deleted", payload["message"])

	// Deleted user's session no longer authenticates.
	resp, _ = doJSON(t, ts, http.MethodGet, "/api/user", bob, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSearchUserEndpoint(t *testing.T) {
	ts := newTestServer(t)
	alice := registerUser(t, ts, "alice")
	registerUser(t, ts, "alicia")
	registerUser(t, ts, "bob")

	resp, _ := doJSON(t, ts, http.MethodGet, "/api/search-user?q=a", alice, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, payload := doJSON(t, ts, http.MethodGet, "/api/search-user?q=ali", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results, _ := payload["results"].([]any)
	// The caller is excluded from their own search results.
	require.Len(t, results, 1)
	first, _ := results[0].(map[string]any)
	assert.Equal(t, "alicia", first["username"])
}

func dialWS(t *testing.T, ts *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	header := http.Header{"Authorization": {"Bearer " + token}}
	ws, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { ws.Close() })
	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	return ws
}

func readEvent(t *testing.T, ws *websocket.Conn) realtime.Event {
	t.Helper()
	var event realtime.Event
	require.NoError(t, ws.ReadJSON(&event))
	return event
}

func TestWebsocketMessaging(t *testing.T) {
	ts := newTestServer(t)
	alice := registerUser(t, ts, "alice")
	bob := registerUser(t, ts, "bob")

	aliceWS := dialWS(t, ts, alice)
	bobWS := dialWS(t, ts, bob)

	assert.Equal(t, app.EventConnectionResponse, readEvent(t, aliceWS).Event)
	assert.Equal(t, app.EventConnectionResponse, readEvent(t, bobWS).Event)

	require.NoError(t, aliceWS.WriteJSON(map[string]any{
		"event": "send_message",
		"data":  map[string]string{"to": "bob", "content": "hi over the wire"},
	}))

	echo := readEvent(t, aliceWS)
	assert.Equal(t, app.EventMessageSent, echo.Event)

	delivered := readEvent(t, bobWS)
	require.Equal(t, app.EventNewMessage, delivered.Event)
	data, _ := delivered.Data.(map[string]any)
	require.NotNil(t, data)
	assert.Equal(t, "alice", data["from"])
	assert.Equal(t, "hi over the wire", data["content"])

	// Malformed payloads get an error event, nothing is delivered.
	require.NoError(t, aliceWS.WriteJSON(map[string]any{
		"event": "send_message",
		"data":  map[string]string{"to": "bob"},
	}))
	oops := readEvent(t, aliceWS)
	assert.Equal(t, app.EventError, oops.Event)
}

func TestWebsocketRequiresSession(t *testing.T) {
	ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
