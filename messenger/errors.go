package messenger

import (
	"github.com/pkg/errors"
	"github.com/srgblnch/ufoengine/core"
)

var (
	errNewRoleMismatch    = errors.New("connect role does not match this endpoint's role")
	errNewNotConnected    = errors.New("messenger is not connected")
	errNewClientCannotAck = errors.New("clients can't send ack messages")
	errNewUnknownRequest  = errors.New("no pending request with that id")
)

// wrapConnectionProblem classifies a transport-layer error as
// core.KindConnectionProblem, the same bucket ufo_messenger_connect's
// GError used for a bad address or a failed connection attempt.
func wrapConnectionProblem(err error) error {
	return core.WrapError(core.KindConnectionProblem, err, "messenger")
}
