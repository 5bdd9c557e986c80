package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"chat-relay/internal/auth"
	"chat-relay/internal/models"
	"chat-relay/internal/store"
	"chat-relay/internal/ws"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore mimics the external message store: profiles for any user,
// message persistence that echoes back a canonical object.
func fakeStore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/profile":
			userID := r.URL.Query().Get("user_id")
			if userID == "404" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprintf(w, `{"user_id":%s,"nickname":"user-%s"}`, userID, userID)
		case "/messages":
			w.Write([]byte(`{"messages":[{"id":5,"text":"old"}],"has_more":false}`))
		case "/send_message":
			var body struct {
				UserID int64  `json:"user_id"`
				Text   string `json:"text"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			fmt.Fprintf(w, `{"id":1,"user_id":%d,"text":%q}`, body.UserID, body.Text)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	storeServer := httptest.NewServer(fakeStore())
	t.Cleanup(storeServer.Close)

	hub := ws.NewHub(ws.NewRegistry())
	router := NewRouter(hub, auth.NewExtractor(""), store.NewClient(storeServer.URL, time.Second))
	router.SetupRoutes()

	server := httptest.NewServer(router.GetEngine())
	t.Cleanup(server.Close)
	return server
}

func initDataFor(id int64) string {
	return "user=" + url.QueryEscape(fmt.Sprintf(`{"id":%d}`, id))
}

func dialWS(t *testing.T, server *httptest.Server, initData string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?init_data=" + url.QueryEscape(initData)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn
}

type frame struct {
	Type     string          `json:"type"`
	UserID   int64           `json:"user_id"`
	Nickname string          `json:"nickname"`
	Count    int             `json:"count"`
	Message  json.RawMessage `json:"message"`
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var f frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func onlineCount(t *testing.T, server *httptest.Server) int {
	t.Helper()
	resp, err := http.Get(server.URL + "/api/online_count")
	require.NoError(t, err)
	defer resp.Body.Close()

	var count models.OnlineCountResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&count))
	return count.Count
}

func TestPresenceLifecycle(t *testing.T) {
	server := newTestServer(t)

	user1 := dialWS(t, server, initDataFor(1))
	defer user1.Close()

	// The joining user gets the fresh count, not their own join event
	f := readFrame(t, user1)
	assert.Equal(t, ws.EventOnlineCount, f.Type)
	assert.Equal(t, 1, f.Count)

	user2 := dialWS(t, server, initDataFor(2))
	defer user2.Close()

	f = readFrame(t, user1)
	assert.Equal(t, ws.EventUserJoined, f.Type)
	assert.Equal(t, int64(2), f.UserID)
	assert.Equal(t, "user-2", f.Nickname)

	f = readFrame(t, user1)
	assert.Equal(t, ws.EventOnlineCount, f.Type)
	assert.Equal(t, 2, f.Count)

	f = readFrame(t, user2)
	assert.Equal(t, ws.EventOnlineCount, f.Type)
	assert.Equal(t, 2, f.Count)

	assert.Equal(t, 2, onlineCount(t, server))

	// User 1 hangs up: user 2 sees exactly one departure, then the new count
	require.NoError(t, user1.Close())

	f = readFrame(t, user2)
	assert.Equal(t, ws.EventUserLeft, f.Type)
	assert.Equal(t, int64(1), f.UserID)
	assert.Equal(t, "user-1", f.Nickname)

	f = readFrame(t, user2)
	assert.Equal(t, ws.EventOnlineCount, f.Type)
	assert.Equal(t, 1, f.Count)

	assert.Equal(t, 1, onlineCount(t, server))
}

func TestWebSocketRejectsBadInitData(t *testing.T) {
	server := newTestServer(t)

	conn := dialWS(t, server, "garbage")
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation),
		"expected policy violation close, got %v", err)

	assert.Equal(t, 0, onlineCount(t, server))
}

func TestSendMessageFansOut(t *testing.T) {
	server := newTestServer(t)

	user1 := dialWS(t, server, initDataFor(1))
	defer user1.Close()
	readFrame(t, user1) // online_count 1

	user2 := dialWS(t, server, initDataFor(2))
	defer user2.Close()
	readFrame(t, user1) // user_joined 2
	readFrame(t, user1) // online_count 2
	readFrame(t, user2) // online_count 2

	body, err := json.Marshal(models.SendMessageRequest{
		InitData: initDataFor(1),
		Text:     "hello world",
	})
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/api/send_message", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sendResp models.SendMessageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sendResp))
	assert.True(t, sendResp.Success)
	assert.JSONEq(t, `{"id":1,"user_id":1,"text":"hello world"}`, string(sendResp.Message))

	// Every connected user receives the stored message, sender included
	for _, conn := range []*websocket.Conn{user1, user2} {
		f := readFrame(t, conn)
		assert.Equal(t, ws.EventNewMessage, f.Type)
		assert.JSONEq(t, string(sendResp.Message), string(f.Message))
	}
}

func TestSendMessageRejections(t *testing.T) {
	server := newTestServer(t)

	send := func(payload string) *http.Response {
		resp, err := http.Post(server.URL+"/api/send_message", "application/json", strings.NewReader(payload))
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := send(`{"init_data":"garbage","text":"hi"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = send(fmt.Sprintf(`{"init_data":%q,"text":"   "}`, initDataFor(1)))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = send(fmt.Sprintf(`{"init_data":%q,"text":%q}`, initDataFor(1), strings.Repeat("a", 1001)))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health models.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, 0, health.OnlineUsers)

	_, err = time.Parse(time.RFC3339, health.Timestamp)
	assert.NoError(t, err)
}

func TestGetProfile(t *testing.T) {
	server := newTestServer(t)

	post := func(payload string) *http.Response {
		resp, err := http.Post(server.URL+"/api/user/profile", "application/json", strings.NewReader(payload))
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := post(`{"user_id":5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, "user-5", profile["nickname"])

	resp = post(`{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(`{"user_id":404}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetMessages(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/messages?limit=10")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page models.MessagesPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.False(t, page.HasMore)
	require.Len(t, page.Messages, 1)
	assert.JSONEq(t, `{"id":5,"text":"old"}`, string(page.Messages[0]))
}
