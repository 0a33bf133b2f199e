package activity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"team_achievements/internal/domain/activity"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zaptest.NewLogger(t).Sugar())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastsEvents(t *testing.T) {
	hub, server := startHub(t)
	first := dial(t, server)
	second := dial(t, server)

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	hub.Publish(activity.NewEvent(activity.EventAchievementUnlocked, "alice", "found_bug", at))

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var got activity.Event
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, activity.EventAchievementUnlocked, got.Type)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "found_bug", got.AchievementID)
		assert.True(t, at.Equal(got.At))
		assert.NotEmpty(t, got.ID)
	}
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub, server := startHub(t)
	conn := dial(t, server)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestPublishWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t).Sugar())

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer*2; i++ {
			hub.Publish(activity.NewEvent(activity.EventUserCreated, "bob", "", time.Now()))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no running hub")
	}
}
