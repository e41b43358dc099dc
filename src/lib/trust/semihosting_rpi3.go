//go:build rpi3

package trust

import (
	"io"

	"tinygo.org/x/drivers/semihosting"
)

type semihostingWriter struct{}

func (semihostingWriter) Write(p []byte) (int, error) {
	if err := semihosting.Stdout.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Semihosting returns a writer to the debugger's (or QEMU's) stdout, useful
// with SetOutput before the console is running.
func Semihosting() io.Writer {
	return semihostingWriter{}
}
