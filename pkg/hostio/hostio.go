// Package hostio wires the UM's IN/OUT opcodes to the real standard
// input and output streams.
//
// This is deliberately thin: the machine only ever needs to read one
// byte or write one byte at a time (§4.6). The one piece of real
// engineering here is putting the controlling terminal into raw mode
// when stdin is a TTY, so IN observes each keystroke immediately instead
// of waiting for the line discipline to buffer a whole line.
package hostio

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

// Device is the concrete HostIO implementation used by the CLI entry
// point. It satisfies um.HostIO without importing pkg/um, keeping the
// dependency direction pointing from cmd/um down to both packages.
type Device struct {
	in  io.Reader
	out *bufio.Writer

	fd           int
	rawEnabled   bool
	oldTermState *term.State
}

// New wraps in/out for use by the machine. If in is *os.File and refers
// to a terminal, the terminal is put into raw mode for the lifetime of
// the Device; call Close to restore it. If in is not a terminal (a file
// or a pipe), raw-mode handling is skipped entirely since there is no
// line discipline to contend with.
func New(in *os.File, out *os.File) (*Device, error) {
	d := &Device{
		in:  in,
		out: bufio.NewWriter(out),
		fd:  int(in.Fd()),
	}
	if term.IsTerminal(d.fd) {
		old, err := term.MakeRaw(d.fd)
		if err != nil {
			return nil, err
		}
		d.oldTermState = old
		d.rawEnabled = true
	}
	return d, nil
}

// Close restores the terminal to its original mode, if it was changed.
// Safe to call even if raw mode was never enabled.
func (d *Device) Close() error {
	if !d.rawEnabled {
		return nil
	}
	d.rawEnabled = false
	return term.Restore(d.fd, d.oldTermState)
}

// ReadByte implements um.HostIO.
func (d *Device) ReadByte() (byte, bool, error) {
	var buf [1]byte
	n, err := d.in.Read(buf[:])
	if n == 1 {
		return buf[0], true, nil
	}
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	// n == 0 with no error: treat as end-of-stream rather than spin.
	return 0, false, nil
}

// WriteByte implements um.HostIO. Every byte is flushed immediately so
// interactive programs see output promptly, per §4.5's notes.
func (d *Device) WriteByte(b byte) error {
	if err := d.out.WriteByte(b); err != nil {
		return err
	}
	return d.out.Flush()
}
