package server

import (
	"context"
	"net/http"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
)

// wsChannel adapts a coder/websocket.Conn to the jrpc2 Channel interface.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

// Send writes a JSON-RPC message to the WebSocket connection.
func (c *wsChannel) Send(data []byte) error {
	return c.conn.Write(c.ctx, cws.MessageText, data)
}

// Recv reads a JSON-RPC message from the WebSocket connection.
func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

// Close shuts down the WebSocket connection with a normal closure status.
func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

// wsHandler serves the RPC methods over WebSocket. Every connection gets its
// own jrpc2 server with push enabled, registered with the notifier for as
// long as the connection lives.
func (s *Server) wsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := cws.Accept(w, r, nil)
		if err != nil {
			s.log.Warning("WebSocket accept failed: %v", err)
			return
		}
		ch := &wsChannel{conn: conn, ctx: r.Context()}
		srv := jrpc2.NewServer(s.rpc.Methods(), &jrpc2.ServerOptions{AllowPush: true}).Start(ch)
		s.notifier.Register(srv)
		defer s.notifier.Unregister(srv)
		if err := srv.Wait(); err != nil {
			s.log.Info("WebSocket RPC session ended: %v", err)
		}
	})
}
