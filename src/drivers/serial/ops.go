package serial

import (
	"quietude/src/lib/upbeat"
)

// synchronous runs body between the write and read barriers with the
// in-sync flag up, so an interrupt taken meanwhile skips its own barriers.
// A call made from interrupt context puts the flag back as it found it.
func (d *Device) synchronous(body func()) {
	d.cpu.WriteBarrier()
	prev := d.inSync.Swap(true)
	body()
	d.cpu.ReadBarrier()
	d.inSync.Store(prev)
}

// dispatch picks the text or binary variant once per call.
func (d *Device) dispatch(text, binary func()) {
	switch d.Mode() {
	case Text:
		text()
	case Binary:
		binary()
	default:
		panic("serial: invalid mode " + d.Mode().String())
	}
}

// translateIn applies the text mode input mapping.  ok is false for a '\n'
// that completes a "\r\n" already delivered as '\n'.
func (d *Device) translateIn(c byte) (byte, bool) {
	afterCR := d.afterCR
	d.afterCR = c == '\r'
	switch {
	case c == '\r':
		return '\n', true
	case c == '\n' && afterCR:
		return 0, false
	}
	return c, true
}

func (d *Device) getCharText() byte {
	for {
		if c, ok := d.translateIn(d.readByte()); ok {
			return c
		}
	}
}

func (d *Device) getCharNonblockingText() (byte, bool) {
	for {
		raw, ok := d.readByteNonblocking()
		if !ok {
			return 0, false
		}
		if c, ok := d.translateIn(raw); ok {
			return c, true
		}
	}
}

func (d *Device) putCharText(c byte) {
	if c == '\n' {
		d.writeByte('\r')
	}
	d.writeByte(c)
}

// GetChar blocks until a byte is available.
func (d *Device) GetChar() byte {
	var c byte
	d.synchronous(func() {
		d.dispatch(func() {
			c = d.getCharText()
		}, func() {
			c = d.readByte()
		})
	})
	return c
}

// GetCharNonblocking returns the next byte if one has already arrived.
func (d *Device) GetCharNonblocking() (byte, bool) {
	var c byte
	var ok bool
	d.synchronous(func() {
		d.dispatch(func() {
			c, ok = d.getCharNonblockingText()
		}, func() {
			c, ok = d.readByteNonblocking()
		})
	})
	return c, ok
}

// PutChar queues c, blocking while the output ring is full, and returns it.
func (d *Device) PutChar(c byte) byte {
	d.synchronous(func() {
		d.dispatch(func() {
			d.putCharText(c)
		}, func() {
			d.writeByte(c)
		})
	})
	return c
}

// writeAll is the body shared by every multi-byte write.
func (d *Device) writeAll(p []byte, s string, newline bool) {
	d.synchronous(func() {
		d.dispatch(func() {
			d.emit(d.putCharText, p, s, newline)
		}, func() {
			d.emit(d.writeByte, p, s, newline)
		})
	})
}

func (d *Device) emit(put func(byte), p []byte, s string, newline bool) {
	for _, c := range p {
		put(c)
	}
	for i := 0; i < len(s); i++ {
		put(s[i])
	}
	if newline {
		put('\n')
	}
}

// Write queues every byte of p.  It always writes all of p.
func (d *Device) Write(p []byte) (int, error) {
	d.writeAll(p, "", false)
	return len(p), nil
}

// WriteLineFragment writes s with no newline.
func (d *Device) WriteLineFragment(s string) {
	d.writeAll(nil, s, false)
}

// WriteString is WriteLineFragment for io.StringWriter.
func (d *Device) WriteString(s string) (int, error) {
	d.writeAll(nil, s, false)
	return len(s), nil
}

// WriteLine writes s followed by a newline.
func (d *Device) WriteLine(s string) {
	d.writeAll(nil, s, true)
}

// PrintHex writes x as 8 lowercase hex digits with no prefix.
func (d *Device) PrintHex(x uint32) {
	var buf [8]byte
	d.writeAll(upbeat.AppendHex32(buf[:0], x), "", false)
}

// PrintHex64 writes x as 16 lowercase hex digits with no prefix.
func (d *Device) PrintHex64(x uint64) {
	var buf [16]byte
	d.writeAll(upbeat.AppendHex64(buf[:0], x), "", false)
}

// Flush returns once everything written has left the transmitter.
func (d *Device) Flush() {
	d.synchronous(d.flush)
}
