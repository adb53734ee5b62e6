package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maitred/internal/models"
	"maitred/internal/pos"
	"maitred/internal/store"
)

func dialLiveFeed(t *testing.T, s *Server, token string) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(s.Router)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &frame))
	return frame
}

func TestLiveFeedRejectsBadToken(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Router)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestLiveFeedPushesSnapshotsOnWrite(t *testing.T) {
	s := newTestServer(t)
	signUpAs(t, s, "waiter@maitred.local", models.RoleWaiter)
	token := login(t, s, "waiter@maitred.local")

	conn := dialLiveFeed(t, s, token)
	require.NoError(t, conn.WriteJSON(map[string][]string{
		"subscribe": {store.Tables},
	}))

	// initial snapshot: empty collection
	frame := readFrame(t, conn)
	assert.Equal(t, store.Tables, frame["collection"])

	_, err := s.tables.Create(pos.TableInput{Name: "T1"})
	require.NoError(t, err)

	// replacement snapshot after the write
	frame = readFrame(t, conn)
	require.Equal(t, store.Tables, frame["collection"])
	data, ok := frame["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
}

func TestLiveFeedUnknownCollection(t *testing.T) {
	s := newTestServer(t)
	signUpAs(t, s, "waiter@maitred.local", models.RoleWaiter)
	token := login(t, s, "waiter@maitred.local")

	conn := dialLiveFeed(t, s, token)
	require.NoError(t, conn.WriteJSON(map[string][]string{
		"subscribe": {"unicorns"},
	}))

	frame := readFrame(t, conn)
	assert.Equal(t, "unknown collection", frame["error"])
	assert.Equal(t, "unicorns", frame["collection"])
}

func TestLiveFeedUsersRequiresStaffPermission(t *testing.T) {
	s := newTestServer(t)
	signUpAs(t, s, "waiter@maitred.local", models.RoleWaiter)
	token := login(t, s, "waiter@maitred.local")

	conn := dialLiveFeed(t, s, token)
	require.NoError(t, conn.WriteJSON(map[string][]string{
		"subscribe": {store.Users},
	}))

	// the failed query surfaces as an error frame, not an empty snapshot
	frame := readFrame(t, conn)
	assert.Equal(t, store.Users, frame["collection"])
	errMsg, _ := frame["error"].(string)
	assert.Contains(t, errMsg, "may not read users")
}

func TestLiveFeedManagerReadsUsers(t *testing.T) {
	s := newTestServer(t)
	signUpAs(t, s, "mgr@maitred.local", models.RoleManager)
	token := login(t, s, "mgr@maitred.local")

	conn := dialLiveFeed(t, s, token)
	require.NoError(t, conn.WriteJSON(map[string][]string{
		"subscribe": {store.Users},
	}))

	frame := readFrame(t, conn)
	require.Equal(t, store.Users, frame["collection"])
	data, ok := frame["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
}
