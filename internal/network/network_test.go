package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoHandler answers every message with the same type and payload.
type echoHandler struct {
	mu           sync.Mutex
	connected    int
	disconnected int
}

func (h *echoHandler) OnConnect(c *Client) {
	h.mu.Lock()
	h.connected++
	h.mu.Unlock()
	msg, _ := NewMessage("WELCOME", map[string]string{"id": c.ID()})
	c.TrySend(msg)
}

func (h *echoHandler) OnDisconnect(*Client) {
	h.mu.Lock()
	h.disconnected++
	h.mu.Unlock()
}

func (h *echoHandler) OnMessage(c *Client, msg Message) { c.TrySend(msg) }

func (h *echoHandler) counts() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connected, h.disconnected
}

func startServer(t *testing.T, h EventHandler, opts ServerOptions) (*Server, string) {
	t.Helper()
	opts.Logger = zerolog.Nop()
	srv := NewServer(h, opts)
	ctx, cancel := context.WithCancel(context.Background())
	go srv.Run(ctx)

	ts := httptest.NewServer(http.HandlerFunc(srv.HandleWS))
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func TestEchoRoundTrip(t *testing.T) {
	h := &echoHandler{}
	srv, url := startServer(t, h, ServerOptions{})

	conn, err := Dial(context.Background(), url)
	require.NoError(t, err)

	welcome, err := conn.Read()
	require.NoError(t, err)
	assert.Equal(t, "WELCOME", welcome.Type)

	require.NoError(t, conn.Send("PING", map[string]int{"n": 1}))
	echo, err := conn.Read()
	require.NoError(t, err)
	assert.Equal(t, "PING", echo.Type)

	var body map[string]int
	require.NoError(t, echo.Decode(&body))
	assert.Equal(t, 1, body["n"])
	assert.Equal(t, 1, srv.Clients())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		_, d := h.counts()
		return d == 1
	}, time.Second, 10*time.Millisecond)
}

// laterHandler answers from another goroutine by posting back to the hub.
type laterHandler struct{ echoHandler }

func (h *laterHandler) OnMessage(c *Client, msg Message) {
	go func() {
		time.Sleep(20 * time.Millisecond)
		c.Post(func() { c.TrySend(msg) })
	}()
}

func TestPostedWorkRunsOnHub(t *testing.T) {
	_, url := startServer(t, &laterHandler{}, ServerOptions{})

	conn, err := Dial(context.Background(), url)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Read()
	require.NoError(t, err)

	require.NoError(t, conn.Send("PING", nil))
	echo, err := conn.Read()
	require.NoError(t, err)
	assert.Equal(t, "PING", echo.Type)
}

func TestPostAfterStopIsRefused(t *testing.T) {
	hub := NewHub(&echoHandler{}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.Run(ctx)

	ran := false
	assert.False(t, hub.post(func() { ran = true }))
	assert.False(t, ran)
}

func TestRateLimitDropsBursts(t *testing.T) {
	h := &echoHandler{}
	_, url := startServer(t, h, ServerOptions{RateLimit: 0.001, Burst: 2})

	conn, err := Dial(context.Background(), url)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Read()
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, conn.Send("PING", map[string]int{"n": i}))
	}

	got := 0
	for {
		conn.ws.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		if _, err := conn.Read(); err != nil {
			break
		}
		got++
	}
	assert.Equal(t, 2, got)
}

func TestDisallowedOriginIsRejected(t *testing.T) {
	_, url := startServer(t, &echoHandler{}, ServerOptions{AllowedOrigins: []string{"http://game.test"}})

	header := http.Header{"Origin": []string{"http://evil.test"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestNewMessageAndDecode(t *testing.T) {
	msg, err := NewMessage("START_GAME", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(msg.Payload))

	var v struct{ Index int }
	bad := Message{Type: "DISCARD", Payload: []byte(`{"Index":"x"}`)}
	assert.Error(t, bad.Decode(&v))
}
