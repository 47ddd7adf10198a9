package frontend

import (
	"fmt"
	"image/color"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/tuboc/chip8vm/framebuffer"
)

// SDL shows the framebuffer in an SDL2 window.
//
// Space steps (entering step mode first), Return resumes, Z resets and
// Escape or closing the window quits.
type SDL struct {
	window   *sdl.Window
	renderer *sdl.Renderer
}

func NewSDL(title string, cellW, cellH int) (*SDL, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("sdl.Init: %w", err)
	}

	w := int32(framebuffer.Width * cellW)
	h := int32(framebuffer.Height * cellH)
	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, w, h, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("CreateWindow: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("CreateRenderer: %w", err)
	}

	// workaround for https://bugzilla.libsdl.org/show_bug.cgi?id=4272
	// 	or update sdl2 to 2.0.9
	window.Hide()
	sdl.PumpEvents()
	window.Show()

	return &SDL{window: window, renderer: renderer}, nil
}

func (s *SDL) Poll() []Control {
	var ctl []Control
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			ctl = append(ctl, ControlQuit)
		case *sdl.KeyboardEvent:
			if ev.Type != sdl.KEYDOWN {
				continue
			}
			switch ev.Keysym.Scancode {
			case sdl.SCANCODE_ESCAPE:
				ctl = append(ctl, ControlQuit)
			case sdl.SCANCODE_SPACE:
				ctl = append(ctl, ControlStep)
			case sdl.SCANCODE_RETURN:
				ctl = append(ctl, ControlResume)
			case sdl.SCANCODE_Z:
				ctl = append(ctl, ControlReset)
			}
		case *sdl.WindowEvent:
			switch ev.Event {
			case sdl.WINDOWEVENT_FOCUS_LOST:
				ctl = append(ctl, ControlFocusLost)
			case sdl.WINDOWEVENT_FOCUS_GAINED:
				ctl = append(ctl, ControlFocusGained)
			}
		}
	}
	return ctl
}

func (s *SDL) Render(f Frame) error {
	if err := s.setColor(f.Off); err != nil {
		return err
	}
	if err := s.renderer.Clear(); err != nil {
		return err
	}

	if err := s.setColor(f.On); err != nil {
		return err
	}
	for _, c := range f.Cells {
		if !c.Lit {
			continue
		}
		r := c.Region
		rect := &sdl.Rect{X: int32(r.Min.X), Y: int32(r.Min.Y), W: int32(r.Dx()), H: int32(r.Dy())}
		if err := s.renderer.FillRect(rect); err != nil {
			return err
		}
	}

	s.renderer.Present()
	return nil
}

func (s *SDL) setColor(c color.Color) error {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return s.renderer.SetDrawColor(rgba.R, rgba.G, rgba.B, rgba.A)
}

func (s *SDL) Close() {
	s.renderer.Destroy()
	s.window.Destroy()
	sdl.Quit()
}
