//go:build windows
// +build windows

package frontend

import (
	"errors"
	"io"
	"os"
)

type Terminal struct{}

func NewTerminal(in *os.File, out io.Writer) (*Terminal, error) {
	return nil, errors.New("terminal frontend is not supported on windows")
}

func (t *Terminal) Poll() []Control { return nil }
func (t *Terminal) Render(f Frame) error { return nil }
func (t *Terminal) Close() {}
