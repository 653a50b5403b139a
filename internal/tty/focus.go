// Package tty provides the terminal console the dashboard draws on. It reads
// terminal focus reports (CSI I / CSI O) on the way through, since the widget
// runtime turns them into mouse events and never hands them to the root.
package tty

import (
	"os"
	"sync"

	"github.com/containerd/console"
)

// FocusConsole is a console.Console that reports terminal focus changes.
// Every byte read is passed on unchanged.
type FocusConsole struct {
	console.Console

	mu      sync.Mutex
	onFocus func(focused bool)
	matched int // bytes of "\x1b[" seen so far
}

// Wrap returns c with focus reporting.
func Wrap(c console.Console) *FocusConsole {
	return &FocusConsole{Console: c}
}

// Open finds the controlling terminal the same way vaxis does: /dev/tty
// first, then stderr, stdout and stdin.
func Open() (*FocusConsole, error) {
	files := []*os.File{os.Stderr, os.Stdout, os.Stdin}
	if f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		files = append([]*os.File{f}, files...)
	}
	for _, f := range files {
		if c, err := console.ConsoleFromFile(f); err == nil {
			return Wrap(c), nil
		}
	}
	return nil, console.ErrNotAConsole
}

// OnFocus sets the callback for focus changes. It runs on the goroutine
// reading the terminal and must not block.
func (fc *FocusConsole) OnFocus(fn func(focused bool)) {
	fc.mu.Lock()
	fc.onFocus = fn
	fc.mu.Unlock()
}

func (fc *FocusConsole) Read(p []byte) (int, error) {
	n, err := fc.Console.Read(p)
	if n > 0 {
		fc.scan(p[:n])
	}
	return n, err
}

// scan matches "\x1b[I" and "\x1b[O". Sequences split across reads are
// still seen.
func (fc *FocusConsole) scan(b []byte) {
	var changes []bool

	fc.mu.Lock()
	for _, c := range b {
		switch {
		case c == 0x1b:
			fc.matched = 1
		case fc.matched == 1 && c == '[':
			fc.matched = 2
		case fc.matched == 2 && (c == 'I' || c == 'O'):
			changes = append(changes, c == 'I')
			fc.matched = 0
		default:
			fc.matched = 0
		}
	}
	fn := fc.onFocus
	fc.mu.Unlock()

	if fn == nil {
		return
	}
	for _, focused := range changes {
		fn(focused)
	}
}
