package joy

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/shlex"

	"quietude/src/lib/timeout"
)

// MaxLineLen is the longest command the monitor keeps; the rest of a longer
// line is echoed and dropped.
const MaxLineLen = 78

// Monitor is a line-at-a-time command loop on the console.  It is here to
// exercise the console and timeouts from a terminal.
type Monitor struct {
	k    *Kernel
	line [MaxLineLen]byte

	// settimeout messages.  A slot is claimed and released by the
	// mainline; the timeout callback only sets its bit in due.
	notes [timeout.MaxEntries]string
	used  uint32
	due   atomic.Uint32

	// Reboot is run by the reboot command.  Nil leaves it out of help.
	Reboot func()
}

func NewMonitor(k *Kernel) *Monitor {
	return &Monitor{k: k}
}

// Run never returns.
func (m *Monitor) Run() {
	for {
		m.k.Console.WriteLineFragment("# ")
		m.Execute(m.ReadLine())
	}
}

// Poll prints whatever interrupt work has come due: held back log output,
// heartbeats and expired settimeout messages.
func (m *Monitor) Poll() {
	m.k.Poll()
	due := m.due.Swap(0)
	for i := range m.notes {
		bit := uint32(1) << i
		if due&bit == 0 {
			continue
		}
		m.k.Console.WriteLine(m.notes[i])
		m.notes[i] = ""
		m.used &^= bit
	}
}

func (m *Monitor) notesDue() bool {
	return m.due.Load() != 0
}

// nextChar waits for a keystroke, polling in between.
func (m *Monitor) nextChar() byte {
	for {
		m.Poll()
		if ch, ok := m.k.Console.GetCharNonblocking(); ok {
			return ch
		}
		m.k.Sleep(m.notesDue)
	}
}

// ReadLine echoes input until a newline.  Backspace and DEL rub out the
// previous character.
func (m *Monitor) ReadLine() string {
	c := m.k.Console
	n := 0
	for {
		ch := m.nextChar()
		switch ch {
		case '\n':
			c.PutChar('\n')
			return string(m.line[:n])
		case '\b', 0x7f:
			if n > 0 {
				n--
				c.WriteLineFragment("\b \b")
			}
			continue
		}
		c.PutChar(ch)
		if n < len(m.line) {
			m.line[n] = ch
			n++
		}
	}
}

// Execute runs one command line.  Words split the way a shell splits them,
// so a quoted message keeps its spaces.
func (m *Monitor) Execute(line string) {
	c := m.k.Console
	fields, err := shlex.Split(line)
	if err != nil {
		c.WriteLineFragment("monitor: ")
		c.WriteLine(err.Error())
		return
	}
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "help":
		c.WriteLine("help                 : print this help menu")
		c.WriteLine("hello                : print Hello World!")
		c.WriteLine("timer                : show pending timeouts and the next deadline")
		c.WriteLine("settimeout SECS MSG  : print MSG after SECS seconds")
		c.WriteLine("stats                : console interrupt statistics")
		if m.Reboot != nil {
			c.WriteLine("reboot               : reboot the device")
		}
	case "hello":
		c.WriteLine("Hello World!")
	case "timer":
		m.timer()
	case "settimeout":
		m.setTimeout(fields[1:])
	case "stats":
		s := c.Stats()
		c.WriteLineFragment("irq ")
		c.PrintHex64(s.Interrupts)
		c.WriteLineFragment(" rx ")
		c.PrintHex64(s.Received)
		c.WriteLineFragment(" tx ")
		c.PrintHex64(s.Sent)
		c.WriteLine("")
	case "reboot":
		if m.Reboot != nil {
			m.Reboot()
			return
		}
		m.notFound(fields[0])
	default:
		m.notFound(fields[0])
	}
}

func (m *Monitor) notFound(cmd string) {
	c := m.k.Console
	c.WriteLineFragment("monitor: ")
	c.WriteLineFragment(cmd)
	c.WriteLine(": command not found")
}

func (m *Monitor) timer() {
	c := m.k.Console
	next, ok := m.k.Timeouts.Next()
	c.WriteLineFragment("pending ")
	c.PrintHex(uint32(m.k.Timeouts.Pending()))
	if ok {
		c.WriteLineFragment(" next ")
		c.PrintHex64(next)
	}
	c.WriteLine("")
}

func (m *Monitor) setTimeout(args []string) {
	c := m.k.Console
	if len(args) < 2 {
		c.WriteLine("usage: settimeout SECS MSG")
		return
	}
	secs, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		c.WriteLine("settimeout: bad number of seconds")
		return
	}
	slot := -1
	for i := range m.notes {
		if m.used&(1<<i) == 0 {
			slot = i
			break
		}
	}
	if slot < 0 {
		c.WriteLine("settimeout: too many timeouts pending")
		return
	}
	m.notes[slot] = strings.Join(args[1:], " ")
	m.used |= 1 << slot
	if !m.k.Timeouts.AddTimer(m.noteDue, slot, secs*1_000_000_000) {
		m.notes[slot] = ""
		m.used &^= 1 << slot
		c.WriteLine("settimeout: too many timeouts pending")
	}
}

// noteDue runs in interrupt context.
func (m *Monitor) noteDue(arg any) {
	bit := uint32(1) << arg.(int)
	for {
		old := m.due.Load()
		if m.due.CompareAndSwap(old, old|bit) {
			return
		}
	}
}
