package frontend

import (
	"bufio"
	"fmt"
	"image/color"
	"io"

	"github.com/tuboc/chip8vm/framebuffer"
)

// TermRows is the number of text lines a frame takes; each character
// cell shows two framebuffer rows.
const TermRows = framebuffer.Height / 2

// renderANSI writes f as upper half blocks with 24 bit colours, the top
// row in the foreground and the bottom row in the background.
func renderANSI(w io.Writer, f Frame) error {
	bw := bufio.NewWriter(w)
	on, off := sgr(f.On), sgr(f.Off)

	bw.WriteString("\x1b[H")
	for row := 0; row < TermRows; row++ {
		for col := 0; col < framebuffer.Width; col++ {
			top := f.Cells[(2*row)*framebuffer.Width+col].Lit
			bottom := f.Cells[(2*row+1)*framebuffer.Width+col].Lit
			fmt.Fprintf(bw, "\x1b[38;2;%sm\x1b[48;2;%sm▀", pick(top, on, off), pick(bottom, on, off))
		}
		bw.WriteString("\x1b[0m\r\n")
	}
	return bw.Flush()
}

func sgr(c color.Color) string {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("%d;%d;%d", rgba.R, rgba.G, rgba.B)
}

func pick(b bool, on, off string) string {
	if b {
		return on
	}
	return off
}

// keyControl maps terminal keys to the same controls the SDL window uses.
func keyControl(b byte) (Control, bool) {
	switch b {
	case 'q', 0x1b, 0x03:
		return ControlQuit, true
	case ' ':
		return ControlStep, true
	case 'p':
		return ControlPause, true
	case '\r', '\n':
		return ControlResume, true
	case 'z':
		return ControlReset, true
	}
	return 0, false
}
