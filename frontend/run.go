// Package frontend drives a Chip8 and presents its framebuffer.
package frontend

import (
	"image/color"
	"log"
	"time"

	"github.com/tuboc/chip8vm/emulator"
	"github.com/tuboc/chip8vm/framebuffer"
)

const (
	VBlankFrequency = 60
	DefaultHz       = 700
)

// Control is a request from the user to the driver loop.
type Control int

const (
	ControlQuit Control = iota + 1
	ControlPause
	ControlStep
	ControlResume
	ControlReset
	ControlFocusLost
	ControlFocusGained
)

// Frame is what a Display paints.
type Frame struct {
	Cells []framebuffer.Cell
	On    color.Color
	Off   color.Color
}

// Display is a presentation surface plus its input source.
type Display interface {
	Poll() []Control
	Render(f Frame) error
	Close()
}

type RunOptions struct {
	Hz       int // instructions per second
	Timers   bool
	StepMode bool
	Trace    bool

	Logger *log.Logger
	Sleep  func(time.Duration)
}

func snapshot(c *emulator.Chip8) Frame {
	fb := c.Display()
	return Frame{Cells: fb.Cells(), On: fb.OnColor(), Off: fb.OffColor()}
}

// Run executes c until the display asks to quit or a step fails. The
// step error is returned as is.
func Run(c *emulator.Chip8, d Display, opts RunOptions) error {
	if opts.Hz <= 0 {
		opts.Hz = DefaultHz
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}

	perVblankCycle := opts.Hz / VBlankFrequency
	if perVblankCycle < 1 {
		perVblankCycle = 1
	}
	period := time.Second / time.Duration(opts.Hz)

	step := func() error {
		pc := c.PC()
		if err := c.Step(); err != nil {
			return err
		}
		if opts.Trace {
			h := c.History()
			opts.Logger.Printf("%s (next %03X, from %03X)", h[len(h)-1], c.PC(), pc)
		}
		return nil
	}

	stepMode := opts.StepMode
	focus := true
	cycle := 0

	if err := d.Render(snapshot(c)); err != nil {
		return err
	}

	for {
		for _, ctl := range d.Poll() {
			switch ctl {
			case ControlQuit:
				return nil
			case ControlPause:
				stepMode = true
			case ControlStep:
				if stepMode {
					if err := step(); err != nil {
						return err
					}
					if err := d.Render(snapshot(c)); err != nil {
						return err
					}
				} else {
					stepMode = true
				}
			case ControlResume:
				stepMode = false
			case ControlReset:
				c.Reset()
			case ControlFocusLost:
				focus = false
			case ControlFocusGained:
				focus = true
			}
		}

		running := focus && !stepMode
		if running {
			if err := step(); err != nil {
				return err
			}
		}

		cycle++
		if cycle >= perVblankCycle {
			cycle = 0
			if err := d.Render(snapshot(c)); err != nil {
				return err
			}
			if opts.Timers && running {
				c.DecrementTimers()
			}
		}

		opts.Sleep(period)
	}
}
