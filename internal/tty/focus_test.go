package tty_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/containerd/console"
	"github.com/sacsbd/sacs-tui/internal/tty"
)

// chunkConsole serves its input in the given chunks, one per Read.
type chunkConsole struct {
	chunks []string
}

func (c *chunkConsole) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	c.chunks = c.chunks[1:]
	return n, nil
}

func (c *chunkConsole) Write(p []byte) (int, error) { return len(p), nil }
func (c *chunkConsole) Close() error { return nil }
func (c *chunkConsole) Fd() uintptr { return ^uintptr(0) }
func (c *chunkConsole) Name() string { return "chunk" }
func (c *chunkConsole) Resize(console.WinSize) error { return nil }
func (c *chunkConsole) ResizeFrom(console.Console) error { return nil }
func (c *chunkConsole) SetRaw() error { return nil }
func (c *chunkConsole) DisableEcho() error { return nil }
func (c *chunkConsole) Reset() error { return nil }
func (c *chunkConsole) Size() (console.WinSize, error) { return console.WinSize{Width: 80, Height: 24}, nil }

func readAll(t *testing.T, fc *tty.FocusConsole) string {
	t.Helper()
	var out bytes.Buffer
	buf := make([]byte, 64)
	for {
		n, err := fc.Read(buf)
		out.Write(buf[:n])
		if err == io.EOF {
			return out.String()
		}
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
	}
}

func TestFocusConsole_ReportsFocus(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   []bool
	}{
		{"out", []string{"\x1b[O"}, []bool{false}},
		{"in", []string{"\x1b[I"}, []bool{true}},
		{"out then in", []string{"r\x1b[Oq\x1b[I"}, []bool{false, true}},
		{"split across reads", []string{"\x1b", "[", "O"}, []bool{false}},
		{"keys only", []string{"rq12\t"}, nil},
		{"csi with params", []string{"\x1b[1;5O", "\x1b[2I"}, nil},
		{"ss3 is not focus", []string{"\x1bOP"}, nil},
		{"esc restarts match", []string{"\x1b\x1b[I"}, []bool{true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := ""
			for _, c := range tt.chunks {
				input += c
			}
			fc := tty.Wrap(&chunkConsole{chunks: tt.chunks})
			var got []bool
			fc.OnFocus(func(focused bool) { got = append(got, focused) })

			if out := readAll(t, fc); out != input {
				t.Errorf("bytes altered: got %q, want %q", out, input)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestFocusConsole_NoCallback(t *testing.T) {
	fc := tty.Wrap(&chunkConsole{chunks: []string{"\x1b[O"}})
	if out := readAll(t, fc); out != "\x1b[O" {
		t.Errorf("unexpected bytes %q", out)
	}
}
