package wire

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// maxFdsPerMessage bounds the ancillary-data buffer; no request/event this
// module defines carries more than one fd (the only fd field is
// wl_keyboard.keymap's).
const maxFdsPerMessage = 4

// Conn wraps one client's Wayland socket connection, decoding the
// length-prefixed header framing and the SCM_RIGHTS fd side-channel per
// spec §6 — grounded on helixml-helix's drm-manager socket client for the
// ReadMsgUnix/ancillary-data shape, generalized from its fixed-size
// request/response pair to a length-prefixed message stream.
type Conn struct {
	uc *net.UnixConn

	readBuf [4096]byte
	oobBuf  [256]byte
	// pending holds header+body bytes already read off the socket but not
	// yet consumed by ReadMessage, since one Read can return more than one
	// message's worth of bytes.
	pending []byte
	fds     []int
}

func NewConn(uc *net.UnixConn) *Conn {
	return &Conn{uc: uc}
}

func (c *Conn) Close() error { return c.uc.Close() }

// ReadMessage blocks until a full message (header + body) is buffered,
// returning its object/opcode/body and any fds that rode in on this read.
func (c *Conn) ReadMessage() (ObjectID, uint16, []byte, []int, error) {
	for {
		if len(c.pending) >= headerLen {
			_, _, size, err := ParseHeader(c.pending)
			if err != nil {
				return 0, 0, nil, nil, err
			}
			if len(c.pending) >= int(size) {
				object, opcode, _, _ := ParseHeader(c.pending)
				body := c.pending[headerLen:size]
				c.pending = c.pending[size:]
				// Fds collected since the last ReadMessage call are handed
				// to whichever message completes next; a client that
				// batches an fd-carrying request together with others in
				// one write must send only one per read cycle for this to
				// stay unambiguous, which every request type below does.
				fds := c.fds
				c.fds = nil
				return object, opcode, body, fds, nil
			}
		}
		oob := c.oobBuf[:]
		n, oobn, _, _, err := c.uc.ReadMsgUnix(c.readBuf[:], oob)
		if err != nil {
			return 0, 0, nil, nil, err
		}
		if n == 0 {
			return 0, 0, nil, nil, fmt.Errorf("wire: connection closed")
		}
		c.pending = append(c.pending, c.readBuf[:n]...)
		if oobn > 0 {
			scms, err := unix.ParseSocketControlMessage(oob[:oobn])
			if err == nil {
				for _, scm := range scms {
					fds, err := unix.ParseUnixRights(&scm)
					if err == nil {
						c.fds = append(c.fds, fds...)
					}
				}
			}
		}
	}
}

// WriteEvent encodes ev against object and sends it, passing any fds it
// collected via SCM_RIGHTS ancillary data in the same sendmsg.
func (c *Conn) WriteEvent(object ObjectID, ev Event) error {
	var w Writer
	opcode := ev.Encode(&w)
	frame, fds := w.Frame(object, opcode)
	var oob []byte
	if len(fds) > 0 {
		if len(fds) > maxFdsPerMessage {
			return fmt.Errorf("wire: too many fds in one message: %d", len(fds))
		}
		oob = unix.UnixRights(fds...)
	}
	_, _, err := c.uc.WriteMsgUnix(frame, oob, nil)
	return err
}
