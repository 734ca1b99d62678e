package eventfeed

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeed(t *testing.T) (*Hub, string) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	hub := NewHub(logger)
	server := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})

	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, hub *Hub, url string, want int) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.Clients() == want }, time.Second, 10*time.Millisecond)
	return conn
}

func event(kind types.EventType, source, target types.ChainID) types.Event {
	return types.Event{
		Type: kind,
		Transfer: types.Transfer{
			ID:            "bridge-1",
			SourceChainID: source,
			TargetChainID: target,
			Status:        types.StatusPending,
		},
		At: time.Unix(1700000000, 0).UTC(),
	}
}

func TestHubBroadcast(t *testing.T) {
	hub, url := newTestFeed(t)
	conn := dial(t, hub, url, 1)

	ev := event(types.EventBridgeFailed, types.OneChain, types.Polygon)
	ev.Err = errors.New("mint reverted")
	hub.Handle(ev)

	var msg Message
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))

	assert.Equal(t, types.EventBridgeFailed, msg.Type)
	assert.Equal(t, "bridge-1", msg.Transfer.ID)
	assert.Equal(t, "mint reverted", msg.Error)
	assert.True(t, ev.At.Equal(msg.At))
}

func TestHubChainFilter(t *testing.T) {
	hub, url := newTestFeed(t)
	conn := dial(t, hub, url+"?chain=Solana", 1)

	hub.Handle(event(types.EventBridgeInitiated, types.OneChain, types.Polygon))
	hub.Handle(event(types.EventBridgeCompleted, types.Solana, types.OneChain))

	var msg Message
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))

	assert.Equal(t, types.EventBridgeCompleted, msg.Type)
	assert.Equal(t, types.Solana, msg.Transfer.SourceChainID)
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub, url := newTestFeed(t)
	conn := dial(t, hub, url, 1)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)

	assert.NotPanics(t, func() {
		hub.Handle(event(types.EventBridgeCancelled, types.BSC, types.Ethereum))
	})
}

func TestHubClose(t *testing.T) {
	hub, url := newTestFeed(t)
	conn := dial(t, hub, url, 1)

	hub.Close()
	assert.Equal(t, 0, hub.Clients())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)

	late, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		defer late.Close()
	}
	assert.Never(t, func() bool { return hub.Clients() > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestNewMessageWithoutError(t *testing.T) {
	t.Parallel()

	msg := NewMessage(event(types.EventBridgeInitiated, types.OneChain, types.BSC))
	assert.Empty(t, msg.Error)
	assert.Nil(t, msg.Transaction)
}
