package notification

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startHubServer exposes the hub over a test HTTP server that upgrades every
// request as the given user, the way the authenticated /ws route does.
func startHubServer(t *testing.T, hub *Hub, userID int64) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.ServeWS(conn, userID)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialHub(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	client, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func waitOnline(t *testing.T, hub *Hub, userID int64) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.IsOnline(userID) },
		2*time.Second, 10*time.Millisecond, "user %d never came online", userID)
}

func TestHub_SendToUser(t *testing.T) {
	hub := NewHub()
	t.Cleanup(hub.Close)
	url := startHubServer(t, hub, 1)

	client := dialHub(t, url)
	waitOnline(t, hub, 1)

	require.True(t, hub.SendToUser(1, map[string]string{"title": "Booking confirmed"}))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "Booking confirmed")
}

func TestHub_SendToOfflineUser(t *testing.T) {
	hub := NewHub()
	t.Cleanup(hub.Close)

	assert.False(t, hub.IsOnline(99))
	assert.False(t, hub.SendToUser(99, map[string]string{"title": "ignored"}))
}

func TestHub_ReconnectKeepsNewestConnection(t *testing.T) {
	hub := NewHub()
	t.Cleanup(hub.Close)
	url := startHubServer(t, hub, 1)

	first := dialHub(t, url)
	waitOnline(t, hub, 1)

	second := dialHub(t, url)

	// The hub closes the replaced connection; wait for the first client to
	// observe that so its server-side teardown has started.
	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := first.ReadMessage()
	require.Error(t, err)

	// The replaced connection's teardown must not evict the new one.
	require.Never(t, func() bool { return !hub.IsOnline(1) },
		300*time.Millisecond, 20*time.Millisecond, "user went offline after reconnecting")

	require.True(t, hub.SendToUser(1, map[string]string{"title": "still here"}))
	require.NoError(t, second.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := second.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "still here")
}

func TestHub_ConcurrentSends(t *testing.T) {
	hub := NewHub()
	t.Cleanup(hub.Close)
	url := startHubServer(t, hub, 7)

	client := dialHub(t, url)
	waitOnline(t, hub, 7)

	const messages = 32
	var wg sync.WaitGroup
	for i := 0; i < messages; i++ {
		wg.Add(1)
		go func(seq int) {
			defer wg.Done()
			assert.True(t, hub.SendToUser(7, map[string]int{"seq": seq}))
		}(i)
	}
	wg.Wait()

	require.NoError(t, client.SetReadDeadline(time.Now().Add(5*time.Second)))
	for received := 0; received < messages; received++ {
		_, _, err := client.ReadMessage()
		require.NoError(t, err)
	}
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewHub()
	url := startHubServer(t, hub, 3)

	client := dialHub(t, url)
	waitOnline(t, hub, 3)

	hub.Close()

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := client.ReadMessage()
	require.Error(t, err)
	assert.False(t, hub.IsOnline(3))
}
