package messenger

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Scheme is the only address scheme this package understands.
const Scheme = "kiro"

// Address is a parsed "kiro://host:port" endpoint.
type Address struct {
	Host string
	Port int
}

// ParseAddress parses a "kiro://host:port" endpoint, mirroring
// kiro_listen_address_decode. If the host is not numeric and not the
// wildcard "*", warn reports the same pitfall the original implementation
// logged: the underlying transport treats a non-numeric host as a network
// interface name (like "eth0"), not a DNS name to resolve - so a typo'd
// hostname silently binds to the wrong interface instead of failing.
// warn may be nil to suppress the warning.
func ParseAddress(addrIn string, warn func(string, ...interface{})) (Address, error) {
	const prefix = Scheme + "://"
	if !strings.HasPrefix(addrIn, prefix) {
		return Address{}, wrapConnectionProblem(errors.Errorf("address %q does not use the %q scheme", addrIn, prefix))
	}

	rest := addrIn[len(prefix):]
	host, portStr, found := strings.Cut(rest, ":")
	if !found {
		return Address{}, wrapConnectionProblem(errors.Errorf("address %q has wrong format, expected host:port", addrIn))
	}

	if len(host) > 0 && !isDigit(host[0]) && host[0] != '*' {
		if warn != nil {
			warn("treating address %q as interface device name; use an IP address if a hostname was intended", host)
		}
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Address{}, wrapConnectionProblem(errors.Wrapf(err, "address %q has wrong format", addrIn))
	}

	return Address{Host: host, Port: port}, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// String reassembles the address into "kiro://host:port" form.
func (a Address) String() string {
	return Scheme + "://" + a.Host + ":" + strconv.Itoa(a.Port)
}
