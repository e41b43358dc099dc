package serial

import (
	"io"

	"tinygo.org/x/drivers"
)

var (
	_ drivers.UART    = (*Device)(nil)
	_ io.StringWriter = (*Device)(nil)
)

// Read copies whatever has already arrived, up to len(p) bytes, applying the
// current mode.  It never waits: with nothing buffered it returns 0, nil.
func (d *Device) Read(p []byte) (int, error) {
	n := 0
	d.synchronous(func() {
		d.dispatch(func() {
			for n < len(p) {
				c, ok := d.getCharNonblockingText()
				if !ok {
					return
				}
				p[n] = c
				n++
			}
		}, func() {
			for n < len(p) {
				c, ok := d.readByteNonblocking()
				if !ok {
					return
				}
				p[n] = c
				n++
			}
		})
	})
	return n, nil
}

// Buffered is the number of received bytes waiting to be read, before any
// newline translation.
func (d *Device) Buffered() int {
	return d.rx.Len()
}
