package messenger

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// pairState is shared between the two Loopback endpoints of one
// connection so a Respond call on one side can resolve the SendBlocking
// call waiting on the other.
type pairState struct {
	mu      sync.Mutex
	pending map[string]chan Message
}

// Loopback is an in-process Messenger, useful for tests and for a remote
// task node that happens to have been mapped onto the local process. It
// implements the same blocking contract a real kiro-backed transport
// would, but moves messages over Go channels instead of a socket.
//
// Where the original UfoKiroMessenger polled a message_handled boolean in
// a `while (!done) {}` loop until the underlying transport's callback
// fired, SendBlocking here acquires a golang.org/x/sync/semaphore.Weighted
// of weight 1 before submitting and blocks on a per-request response
// channel instead - a real blocking wait rather than a busy poll.
type Loopback struct {
	role  Role
	addr  string
	state *pairState

	inbox  chan Message
	outbox chan Message

	mu        sync.Mutex
	connected bool
	sendGate  *semaphore.Weighted
}

// NewLoopbackPair creates two Loopback endpoints wired to each other: one
// playing RoleServer, one playing RoleClient, both bound to addr.
func NewLoopbackPair(addr string) (server, client *Loopback) {
	state := &pairState{pending: make(map[string]chan Message)}
	serverInbox := make(chan Message, 16)
	clientInbox := make(chan Message, 16)

	server = &Loopback{
		role: RoleServer, addr: addr, state: state,
		inbox: serverInbox, outbox: clientInbox,
		sendGate: semaphore.NewWeighted(1),
	}
	client = &Loopback{
		role: RoleClient, addr: addr, state: state,
		inbox: clientInbox, outbox: serverInbox,
		sendGate: semaphore.NewWeighted(1),
	}
	return server, client
}

func (l *Loopback) Connect(ctx context.Context, addr string, role Role) error {
	if _, err := ParseAddress(addr, nil); err != nil {
		return err
	}
	if role != l.role {
		return wrapConnectionProblem(errNewRoleMismatch)
	}
	l.mu.Lock()
	l.connected = true
	l.mu.Unlock()
	return nil
}

func (l *Loopback) Disconnect() error {
	l.mu.Lock()
	l.connected = false
	l.mu.Unlock()
	return nil
}

func (l *Loopback) isConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

// SendBlocking submits req to the peer and, unless req is a KindAck
// message, blocks until the peer calls Respond with a matching ID.
func (l *Loopback) SendBlocking(ctx context.Context, req Message) (Message, error) {
	if !l.isConnected() {
		return Message{}, wrapConnectionProblem(errNewNotConnected)
	}
	if req.Kind == KindAck && l.role == RoleClient {
		return Message{}, wrapConnectionProblem(errNewClientCannotAck)
	}

	if err := l.sendGate.Acquire(ctx, 1); err != nil {
		return Message{}, err
	}
	defer l.sendGate.Release(1)

	var respCh chan Message
	if req.Kind != KindAck {
		respCh = make(chan Message, 1)
		l.state.mu.Lock()
		l.state.pending[req.ID] = respCh
		l.state.mu.Unlock()
	}

	select {
	case l.outbox <- req:
	case <-ctx.Done():
		l.forgetPending(req.ID)
		return Message{}, ctx.Err()
	}

	if req.Kind == KindAck {
		return Message{}, nil
	}

	select {
	case resp := <-respCh:
		return resp, nil
	case <-ctx.Done():
		l.forgetPending(req.ID)
		return Message{}, ctx.Err()
	}
}

func (l *Loopback) forgetPending(id string) {
	l.state.mu.Lock()
	delete(l.state.pending, id)
	l.state.mu.Unlock()
}

// RecvBlocking blocks until the peer sends a message (typically a
// request awaiting a Respond call).
func (l *Loopback) RecvBlocking(ctx context.Context) (Message, error) {
	if !l.isConnected() {
		return Message{}, wrapConnectionProblem(errNewNotConnected)
	}
	select {
	case msg := <-l.inbox:
		return msg, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Respond resolves a pending SendBlocking call on the peer identified by
// req.ID with resp.
func (l *Loopback) Respond(ctx context.Context, reqID string, resp Message) error {
	l.state.mu.Lock()
	ch, ok := l.state.pending[reqID]
	if ok {
		delete(l.state.pending, reqID)
	}
	l.state.mu.Unlock()
	if !ok {
		return wrapConnectionProblem(errNewUnknownRequest)
	}
	select {
	case ch <- resp:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
