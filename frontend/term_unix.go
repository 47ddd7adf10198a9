//go:build !windows
// +build !windows

package frontend

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/tuboc/chip8vm/framebuffer"
)

// Terminal renders into an ANSI terminal and reads keys from it in raw,
// non-blocking mode.
type Terminal struct {
	in       *os.File
	out      io.Writer
	oldState *term.State
	buf      []byte
}

func NewTerminal(in *os.File, out io.Writer) (*Terminal, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal")
	}
	if w, h, err := term.GetSize(fd); err == nil && (w < framebuffer.Width || h < TermRows) {
		return nil, fmt.Errorf("terminal is %dx%d, need at least %dx%d", w, h, framebuffer.Width, TermRows)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = term.Restore(fd, oldState)
		return nil, fmt.Errorf("setting nonblocking stdin: %w", err)
	}

	// clear, hide cursor
	io.WriteString(out, "\x1b[2J\x1b[?25l")
	return &Terminal{in: in, out: out, oldState: oldState, buf: make([]byte, 16)}, nil
}

func (t *Terminal) Poll() []Control {
	var ctl []Control
	for {
		n, err := unix.Read(int(t.in.Fd()), t.buf)
		if err != nil || n <= 0 {
			return ctl
		}
		for _, b := range t.buf[:n] {
			if c, ok := keyControl(b); ok {
				ctl = append(ctl, c)
			}
		}
	}
}

func (t *Terminal) Render(f Frame) error {
	return renderANSI(t.out, f)
}

func (t *Terminal) Close() {
	fd := int(t.in.Fd())
	_ = unix.SetNonblock(fd, false)
	_ = term.Restore(fd, t.oldState)
	io.WriteString(t.out, "\x1b[0m\x1b[?25h\r\n")
}
