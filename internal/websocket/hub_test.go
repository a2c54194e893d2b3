package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestServeWsDeliversWatchAndDirectMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	go hub.Run()

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		ServeWs(hub, c, "u1", func(ctx context.Context, push func([]byte) error) {
			_ = push([]byte(`{"type":"pipeline"}`))
			<-ctx.Done()
		})
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"pipeline"}`, string(msg))
	require.Equal(t, 1, hub.ClientCount())

	hub.SendTo("someone-else", []byte("skip"))
	hub.SendTo("u1", []byte("ping"))
	_, msg, err = conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, "ping", string(msg))

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}
