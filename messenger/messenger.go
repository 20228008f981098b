package messenger

import "context"

// Messenger is the minimal blocking transport contract a remote task uses
// to reach its assigned task.RemoteNode, mirroring UfoMessenger's
// connect/disconnect/send_blocking/recv_blocking interface.
type Messenger interface {
	// Connect establishes the transport in the given role. For a Server
	// this means starting to listen; for a Client it means dialing out.
	Connect(ctx context.Context, addr string, role Role) error

	// Disconnect tears down the transport. It is safe to call on an
	// already-disconnected Messenger.
	Disconnect() error

	// SendBlocking sends req and blocks until its response arrives (or
	// ctx is done). Sending a KindAck message gets no response: the
	// returned Message is the zero value and err is nil on success,
	// matching the original's rule that ACK messages carry no reply.
	SendBlocking(ctx context.Context, req Message) (Message, error)

	// RecvBlocking blocks until the next inbound message arrives.
	RecvBlocking(ctx context.Context) (Message, error)
}
