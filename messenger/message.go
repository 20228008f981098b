// Package messenger implements the minimal blocking request/response
// transport contract remote task nodes use to reach a worker enumerated
// in an ArchGraph's RemoteNode list.
//
// The contract (connect as a Server or Client, send a request and block
// for its response, or block waiting to receive one) is carried over from
// UfoMessenger/UfoKiroMessenger. The original's blocking send implementation
// polled a message_handled flag in a tight `while (!done) {}` loop; per
// SPEC_FULL.md's redesign notes this package replaces that with a
// golang.org/x/sync/semaphore-gated completion instead of a busy loop.
package messenger

import "github.com/google/uuid"

// Kind classifies a Message the way UfoMessageType did.
type Kind int

const (
	KindUnknown Kind = iota
	KindGetRequisition
	KindSendData
	KindGetData
	KindAck
)

// Message is one request or response exchanged over a Messenger.
type Message struct {
	ID      string
	Kind    Kind
	Payload []byte
}

// NewMessage builds a Message with a fresh correlation ID.
func NewMessage(kind Kind, payload []byte) Message {
	return Message{ID: uuid.NewString(), Kind: kind, Payload: payload}
}

// Role is which side of a connection a Messenger plays.
type Role int

const (
	RoleServer Role = iota
	RoleClient
)
