package schemes

import (
	"nucleus/kurl"
	"nucleus/resource"
	"nucleus/session"
)

// loopback backs the kernel's network protocol schemes (ethernet, arp,
// icmp, ip, tcp) with a plain in-memory buffer. A full protocol stack is
// explicitly out of scope; what's here exists to exercise session's
// registration order, on_irq/on_poll fan-out, and open() dispatch the
// same way the real schemes would, without implementing the protocols
// themselves.
type loopback struct {
	session.DefaultScheme
	name     string
	polls    int
	lastIRQ  uint8
}

func newLoopback(name string) *loopback {
	return &loopback{name: name}
}

func (l *loopback) Name() string { return l.name }

func (l *loopback) Open(u kurl.URL, flags int) (resource.Resource, error) {
	return resource.NewByteVector(u, nil), nil
}

func (l *loopback) OnIRQ(vector uint8) {
	l.lastIRQ = vector
}

func (l *loopback) OnPoll() {
	l.polls++
}

// NewEthernet creates the loopback "ethernet" scheme.
func NewEthernet() session.Scheme { return newLoopback("ethernet") }

// NewARP creates the loopback "arp" scheme.
func NewARP() session.Scheme { return newLoopback("arp") }

// NewICMP creates the loopback "icmp" scheme.
func NewICMP() session.Scheme { return newLoopback("icmp") }

// NewIP creates the loopback "ip" scheme.
func NewIP() session.Scheme { return newLoopback("ip") }

// NewTCP creates the loopback "tcp" scheme.
func NewTCP() session.Scheme { return newLoopback("tcp") }

// NewPS2 creates the loopback "ps2" scheme standing in for the keyboard
// and mouse controller driver.
func NewPS2() session.Scheme { return newLoopback("ps2") }

// NewSerial creates the loopback "serial" scheme.
func NewSerial() session.Scheme { return newLoopback("serial") }
