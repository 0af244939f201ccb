package server

import (
	"context"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/warpdl/credsync/pkg/logger"
)

// SessionChangedMethod is the push notification sent after every mutating
// session operation.
const SessionChangedMethod = "session.changed"

// notifyBacklog bounds the events waiting to be pushed.
const notifyBacklog = 64

// SessionChangedNotification is the payload of SessionChangedMethod.
type SessionChangedNotification struct {
	Op    string `json:"op"`
	Error string `json:"error,omitempty"`
}

// RPCNotifier maintains the set of connected jrpc2 WebSocket servers and
// broadcasts push notifications to all of them.
type RPCNotifier struct {
	mu      sync.RWMutex
	servers map[*jrpc2.Server]struct{}
	log     logger.Logger

	events    chan SessionChangedNotification
	done      chan struct{}
	closeOnce sync.Once
}

// NewRPCNotifier creates a notifier and starts its dispatch goroutine.
// Close stops it.
func NewRPCNotifier(l logger.Logger) *RPCNotifier {
	if l == nil {
		l = logger.NewNopLogger()
	}
	n := &RPCNotifier{
		servers: make(map[*jrpc2.Server]struct{}),
		log:     l,
		events:  make(chan SessionChangedNotification, notifyBacklog),
		done:    make(chan struct{}),
	}
	go n.dispatch()
	return n
}

// Register adds a server to the broadcast set.
func (n *RPCNotifier) Register(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.servers[srv] = struct{}{}
}

// Unregister removes a server from the broadcast set.
func (n *RPCNotifier) Unregister(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.servers, srv)
}

// Broadcast sends a push notification to all registered servers.
// Servers that fail to receive it are unregistered.
func (n *RPCNotifier) Broadcast(method string, params any) {
	n.mu.RLock()
	servers := make([]*jrpc2.Server, 0, len(n.servers))
	for srv := range n.servers {
		servers = append(servers, srv)
	}
	n.mu.RUnlock()

	var failed []*jrpc2.Server
	for _, srv := range servers {
		if err := srv.Notify(context.Background(), method, params); err != nil {
			n.log.Warning("RPC push failed: %v", err)
			failed = append(failed, srv)
		}
	}

	if len(failed) > 0 {
		n.mu.Lock()
		for _, srv := range failed {
			delete(n.servers, srv)
		}
		n.mu.Unlock()
	}
}

// OnSessionChange queues a SessionChangedMethod push. It never blocks, so it
// can be installed as a session change hook; when the backlog is full the
// event is dropped.
func (n *RPCNotifier) OnSessionChange(op string, err error) {
	ev := SessionChangedNotification{Op: op}
	if err != nil {
		ev.Error = err.Error()
	}
	select {
	case <-n.done:
	case n.events <- ev:
	default:
		n.log.Warning("dropping %s notification for %s: backlog full", SessionChangedMethod, op)
	}
}

func (n *RPCNotifier) dispatch() {
	for {
		select {
		case <-n.done:
			return
		case ev := <-n.events:
			n.Broadcast(SessionChangedMethod, ev)
		}
	}
}

// Close stops the dispatch goroutine. Queued events are discarded.
func (n *RPCNotifier) Close() {
	n.closeOnce.Do(func() { close(n.done) })
}

// Count returns the number of registered servers.
func (n *RPCNotifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.servers)
}
