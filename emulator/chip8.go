package emulator

import (
	"fmt"
	"image/color"
	"io"
	"math/rand"
	"time"

	"github.com/tuboc/chip8vm/framebuffer"
)

const (
	MemorySize    = 4096
	ProgramOffset = 0x200
	StackDepth    = 16
	RegisterNum   = 16
	OpHistoryNum  = 16
	TimerInit     = 255
)

// Config holds the knobs of a Chip8 session.
type Config struct {
	CellWidth  int
	CellHeight int
	OnColor    color.Color
	OffColor   color.Color

	// TimerInit is the value both timers start with.
	TimerInit uint8

	// StrictKeypadTimer makes EX__ and FX__ instructions fail with
	// UnimplementedOpcode instead of executing as no-ops.
	StrictKeypadTimer bool

	// Random supplies CXNN. Nil means a time seeded math/rand source.
	Random func() uint8
}

func DefaultConfig() Config {
	return Config{
		CellWidth:  16,
		CellHeight: 16,
		OnColor:    color.White,
		OffColor:   color.Black,
		TimerInit:  TimerInit,
	}
}

type Chip8 struct {
	mem   [MemorySize]uint8  // memory
	pc    uint16             // program counter
	v     [RegisterNum]uint8 // registers
	i     uint16             // index register
	dt    uint8              // delay timer
	st    uint8              // sound timer
	stack []uint16           // return addresses

	disp *framebuffer.Framebuffer
	cfg  Config
	rom  []byte

	// halted holds the error that stopped execution.
	halted error

	ophistory      [OpHistoryNum]string
	ophistoryIndex int
}

func New(cfg Config) *Chip8 {
	if cfg.Random == nil {
		r := rand.New(rand.NewSource(time.Now().UnixNano()))
		cfg.Random = func() uint8 { return uint8(r.Intn(256)) }
	}
	if cfg.OnColor == nil {
		cfg.OnColor = color.White
	}
	if cfg.OffColor == nil {
		cfg.OffColor = color.Black
	}

	c := &Chip8{cfg: cfg, disp: framebuffer.New()}
	c.disp.Initialize(cfg.CellWidth, cfg.CellHeight, cfg.OnColor, cfg.OffColor)
	c.reset()
	return c
}

func (c *Chip8) reset() {
	c.mem = [MemorySize]uint8{}
	c.pc = ProgramOffset
	c.v = [RegisterNum]uint8{}
	c.i = 0
	c.dt = c.cfg.TimerInit
	c.st = c.cfg.TimerInit
	c.stack = make([]uint16, 0, StackDepth)
	c.halted = nil
	c.ophistory = [OpHistoryNum]string{}
	c.ophistoryIndex = 0
}

// Load copies a program verbatim into memory at ProgramOffset.
func (c *Chip8) Load(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading program: %w", err)
	}
	if len(b) > MemorySize-ProgramOffset {
		return fmt.Errorf("%w: %d bytes, %d available", ErrProgramTooLarge, len(b), MemorySize-ProgramOffset)
	}

	c.rom = b
	copy(c.mem[ProgramOffset:], b)
	return nil
}

// Reset restores the power-on state and reloads the last program.
func (c *Chip8) Reset() {
	c.reset()
	c.disp.Clear()
	copy(c.mem[ProgramOffset:], c.rom)
}

// Step executes exactly one instruction. A failed step leaves pc on the
// failing instruction and every later Step returns the same error.
func (c *Chip8) Step() error {
	if c.halted != nil {
		return c.halted
	}

	pc := c.pc
	op, err := c.fetchOpcode()
	if err == nil {
		err = c.execOpcode(op)
	}
	if err != nil {
		c.pc = pc
		c.halted = err
		return err
	}

	c.ophistory[c.ophistoryIndex] = fmt.Sprintf("%03X-%04X %s", pc, op, Disassemble(op))
	c.ophistoryIndex = (c.ophistoryIndex + 1) % OpHistoryNum
	return nil
}

// DecrementTimers counts both timers down by one towards zero. Step
// never calls it; a driver wanting canonical 60Hz timers does.
func (c *Chip8) DecrementTimers() {
	if c.dt > 0 {
		c.dt--
	}
	if c.st > 0 {
		c.st--
	}
}

func (c *Chip8) fetchOpcode() (uint16, error) {
	if int(c.pc)+1 >= MemorySize {
		return 0, &ExecError{Kind: MemoryOutOfRange, PC: c.pc}
	}
	op := uint16(c.mem[c.pc])<<8 | uint16(c.mem[c.pc+1])
	c.pc += 2
	return op, nil
}

func (c *Chip8) updateCarryFlag(b bool) {
	if b {
		c.v[0xf] = 1
	} else {
		c.v[0xf] = 0
	}
}

func (c *Chip8) pushStack(v uint16) bool {
	if len(c.stack) == StackDepth {
		return false
	}
	c.stack = append(c.stack, v)
	return true
}

func (c *Chip8) popStack() (uint16, bool) {
	if len(c.stack) == 0 {
		return 0, false
	}
	v := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return v, true
}

// draw XORs an n row sprite from mem[i:] at (x, y) and reports whether a
// lit cell was switched off. The origin wraps, the sprite is clipped at
// the right and bottom edges.
func (c *Chip8) draw(x, y, n uint8) (bool, error) {
	if int(c.i)+int(n) > MemorySize {
		return false, ErrMemoryOutOfRange
	}

	ox := int(x) % framebuffer.Width
	oy := int(y) % framebuffer.Height
	flipped := false
	sm := c.mem[c.i:]
	for iy := 0; iy < int(n); iy++ {
		for ix := 0; ix < 8; ix++ {
			if (sm[iy]>>(7-ix))&0x01 == 0 {
				continue
			}
			tx, ty := ox+ix, oy+iy
			if tx >= framebuffer.Width || ty >= framebuffer.Height {
				continue
			}
			lit, _ := c.disp.Toggle(tx, ty)
			if !lit {
				flipped = true
			}
		}
	}
	return flipped, nil
}

// ClearDisplay switches every cell off. It is the external counterpart
// of the 00E0 instruction.
func (c *Chip8) ClearDisplay() {
	c.disp.Clear()
}

// Framebuffer returns a snapshot of the display cells for rendering.
func (c *Chip8) Framebuffer() []framebuffer.Cell {
	return c.disp.Cells()
}

func (c *Chip8) Display() *framebuffer.Framebuffer { return c.disp }

func (c *Chip8) PC() uint16 { return c.pc }
func (c *Chip8) I() uint16 { return c.i }
func (c *Chip8) V(x int) uint8 { return c.v[x&0xf] }
func (c *Chip8) DelayTimer() uint8 { return c.dt }
func (c *Chip8) SoundTimer() uint8 { return c.st }
func (c *Chip8) Halted() error { return c.halted }
func (c *Chip8) Registers() [16]uint8 { return c.v }

// Stack returns a copy of the return address stack, oldest first.
func (c *Chip8) Stack() []uint16 {
	s := make([]uint16, len(c.stack))
	copy(s, c.stack)
	return s
}

// History returns the last executed instructions, oldest first.
func (c *Chip8) History() []string {
	h := make([]string, 0, OpHistoryNum)
	for i := 0; i < OpHistoryNum; i++ {
		if s := c.ophistory[(c.ophistoryIndex+i)%OpHistoryNum]; s != "" {
			h = append(h, s)
		}
	}
	return h
}
