// Package termbridge connects a local terminal to the Pi's serial console.
// Keystrokes go to the port, whatever the port says goes to the screen, and
// an escape byte ends the session.
package termbridge

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// DefaultEscape is ^], as in telnet.
const DefaultEscape = 0x1d

// how long to wait before reading again after the port reports no data
var idlePoll = 10 * time.Millisecond

var errEscape = errors.New("escape")

type Bridge struct {
	Escape byte
	// MapNewline sends the terminal's '\n' to the port as '\r', what a
	// terminal in raw mode on the Pi side would have sent.
	MapNewline bool
}

func New() *Bridge {
	return &Bridge{Escape: DefaultEscape, MapNewline: true}
}

// Run copies in both directions until the escape byte is typed, the
// terminal reaches EOF, or either side fails.  The first two return nil.
func (b *Bridge) Run(term io.Reader, screen io.Writer, port io.ReadWriter) error {
	done := make(chan struct{})
	defer close(done)
	errc := make(chan error, 2)
	go func() { errc <- b.fromPort(port, screen, done) }()
	go func() { errc <- b.fromTerminal(term, port) }()
	err := <-errc
	if err == errEscape {
		return nil
	}
	return err
}

func (b *Bridge) fromTerminal(term io.Reader, port io.Writer) error {
	var buf [256]byte
	for {
		n, err := term.Read(buf[:])
		out := buf[:0]
		for _, c := range buf[:n] {
			if c == b.Escape {
				if len(out) > 0 {
					if _, werr := port.Write(out); werr != nil {
						return fmt.Errorf("port write: %w", werr)
					}
				}
				return errEscape
			}
			if c == '\n' && b.MapNewline {
				c = '\r'
			}
			out = append(out, c)
		}
		if len(out) > 0 {
			if _, werr := port.Write(out); werr != nil {
				return fmt.Errorf("port write: %w", werr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("terminal read: %w", err)
		}
	}
}

// a serial port with a read timeout reports io.EOF when nothing arrived,
// so EOF here means "try again"
func (b *Bridge) fromPort(port io.Reader, screen io.Writer, done <-chan struct{}) error {
	var buf [256]byte
	for {
		select {
		case <-done:
			return nil
		default:
		}
		n, err := port.Read(buf[:])
		if n > 0 {
			if _, werr := screen.Write(buf[:n]); werr != nil {
				return fmt.Errorf("screen write: %w", werr)
			}
		}
		switch {
		case err == io.EOF || (err == nil && n == 0):
			time.Sleep(idlePoll)
		case err != nil:
			return fmt.Errorf("port read: %w", err)
		}
	}
}
