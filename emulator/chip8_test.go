package emulator

import (
	"bytes"
	"errors"
	"image"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	c := New(DefaultConfig())

	assert.Equal(t, uint16(ProgramOffset), c.PC())
	assert.Equal(t, uint16(0), c.I())
	assert.Empty(t, c.Stack())
	assert.Equal(t, [16]uint8{}, c.Registers())
	assert.Equal(t, uint8(TimerInit), c.DelayTimer())
	assert.Equal(t, uint8(TimerInit), c.SoundTimer())
	assert.NoError(t, c.Halted())

	cells := c.Framebuffer()
	assert.Equal(t, image.Rect(16, 16, 32, 32), cells[65].Region)
}

func TestLoad(t *testing.T) {
	c := New(DefaultConfig())
	require.NoError(t, c.Load(bytes.NewReader([]byte{0x12, 0x34, 0x56})))

	assert.Equal(t, []uint8{0x12, 0x34, 0x56, 0x00}, c.mem[ProgramOffset:ProgramOffset+4])
	assert.Equal(t, uint8(0), c.mem[ProgramOffset-1])
}

func TestLoadReadError(t *testing.T) {
	c := New(DefaultConfig())
	err := c.Load(iotest.ErrReader(errors.New("boom")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestLoadFillsMemory(t *testing.T) {
	c := New(DefaultConfig())
	b := bytes.Repeat([]byte{0xAB}, MemorySize-ProgramOffset)
	require.NoError(t, c.Load(bytes.NewReader(b)))
	assert.Equal(t, uint8(0xAB), c.mem[MemorySize-1])
}

func TestLoadTooLarge(t *testing.T) {
	c := New(DefaultConfig())
	b := make([]byte, MemorySize-ProgramOffset+1)
	b[0] = 0xff

	err := c.Load(bytes.NewReader(b))
	assert.True(t, errors.Is(err, ErrProgramTooLarge))
	assert.Equal(t, uint8(0), c.mem[ProgramOffset])
}

func TestLoadRegisterAll(t *testing.T) {
	for x := 0; x < 16; x++ {
		for _, nn := range []uint8{0x00, 0x01, 0x7f, 0x80, 0xff} {
			c := newTestChip8(t, []byte{0x60 | uint8(x), nn})
			require.NoError(t, c.Step())
			assert.Equal(t, nn, c.V(x), "6%XNN with NN=%02X", x, nn)
		}
	}
}

func TestAddImmediateWraps(t *testing.T) {
	for _, v0 := range []uint8{0, 1, 0x80, 0xfe, 0xff} {
		for _, nn := range []uint8{0, 1, 0x7f, 0xff} {
			c := newTestChip8(t, []byte{0x73, nn})
			c.v[3] = v0
			c.v[0xf] = 0x42
			require.NoError(t, c.Step())
			assert.Equal(t, v0+nn, c.V(3))
			assert.Equal(t, uint8(0x42), c.V(0xf))
		}
	}
}

func TestAddSubFlags(t *testing.T) {
	values := []uint8{0, 1, 0x0f, 0x7f, 0x80, 0xfe, 0xff}
	for _, a := range values {
		for _, b := range values {
			c := newTestChip8(t, []byte{0x81, 0x24})
			c.v[1], c.v[2] = a, b
			require.NoError(t, c.Step())
			assert.Equal(t, a+b, c.V(1))
			assert.Equal(t, flag(int(a)+int(b) > 255), c.V(0xf), "%d+%d", a, b)

			c = newTestChip8(t, []byte{0x81, 0x25})
			c.v[1], c.v[2] = a, b
			require.NoError(t, c.Step())
			assert.Equal(t, a-b, c.V(1))
			assert.Equal(t, flag(a > b), c.V(0xf), "%d-%d", a, b)

			c = newTestChip8(t, []byte{0x81, 0x27})
			c.v[1], c.v[2] = a, b
			require.NoError(t, c.Step())
			assert.Equal(t, b-a, c.V(1))
			assert.Equal(t, flag(b > a), c.V(0xf), "%d-%d", b, a)
		}
	}
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func TestDrawCollision(t *testing.T) {
	// LD I,#208; DRW V0,V1,1; DRW V0,V1,1; sprite
	c := newTestChip8(t, []byte{0xA2, 0x08, 0xD0, 0x11, 0xD0, 0x11, 0x00, 0x00, 0xFF})

	require.NoError(t, c.Step())
	require.NoError(t, c.Step())
	for x := 0; x < 64; x++ {
		for y := 0; y < 32; y++ {
			assert.Equal(t, y == 0 && x < 8, c.disp.IsLit(x, y), "cell (%d,%d)", x, y)
		}
	}
	assert.Equal(t, uint8(0), c.V(0xf))

	require.NoError(t, c.Step())
	for _, cell := range c.Framebuffer() {
		require.False(t, cell.Lit)
	}
	assert.Equal(t, uint8(1), c.V(0xf))
}

func TestDrawWrapsOriginAndClips(t *testing.T) {
	c := newTestChip8(t, []byte{0xD0, 0x12})
	c.i = 0x300
	c.mem[0x300] = 0xFF
	c.mem[0x301] = 0xFF
	c.v[0] = 64 + 60 // origin x 60
	c.v[1] = 31      // origin y 31, second row clipped

	require.NoError(t, c.Step())
	for x := 60; x < 64; x++ {
		assert.True(t, c.disp.IsLit(x, 31))
	}
	assert.False(t, c.disp.IsLit(0, 31))
	assert.False(t, c.disp.IsLit(0, 0))
	assert.False(t, c.disp.IsLit(60, 0))

	lit := 0
	for _, cell := range c.Framebuffer() {
		if cell.Lit {
			lit++
		}
	}
	assert.Equal(t, 4, lit)
}

func TestDrawMemoryOutOfRange(t *testing.T) {
	c := newTestChip8(t, []byte{0xD0, 0x12})
	c.i = MemorySize - 1
	c.v[0xf] = 7

	err := c.Step()
	assert.True(t, errors.Is(err, ErrMemoryOutOfRange))
	assert.Equal(t, uint8(7), c.V(0xf))
	assert.Equal(t, uint16(ProgramOffset), c.PC())
}

func TestClearInstruction(t *testing.T) {
	c := newTestChip8(t, []byte{0x00, 0xE0})
	for i := 0; i < 64*32; i += 3 {
		c.disp.Toggle(i%64, i/64)
	}
	require.NoError(t, c.Step())
	for _, cell := range c.Framebuffer() {
		require.False(t, cell.Lit)
	}
}

func TestClearDisplay(t *testing.T) {
	c := New(DefaultConfig())
	c.disp.Toggle(1, 1)
	c.ClearDisplay()
	assert.False(t, c.disp.IsLit(1, 1))
	assert.Equal(t, uint16(ProgramOffset), c.PC())
}

func TestCallReturn(t *testing.T) {
	// 200: CALL 206; 202: LD V0,#01; 204: -; 206: RET
	c := newTestChip8(t, []byte{0x22, 0x06, 0x60, 0x01, 0x00, 0x00, 0x00, 0xEE})

	require.NoError(t, c.Step())
	assert.Equal(t, uint16(0x206), c.PC())
	require.NoError(t, c.Step())
	assert.Equal(t, uint16(0x202), c.PC())
	assert.Empty(t, c.Stack())

	require.NoError(t, c.Step())
	assert.Equal(t, uint8(1), c.V(0))
}

func TestStackOverflow(t *testing.T) {
	// 200: CALL 200
	c := newTestChip8(t, []byte{0x22, 0x00})
	for i := 0; i < StackDepth; i++ {
		require.NoError(t, c.Step())
	}
	err := c.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Len(t, c.Stack(), StackDepth)
}

func TestAddScenario(t *testing.T) {
	c := newTestChip8(t, []byte{0x60, 0x05, 0x61, 0x03, 0x80, 0x14})
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Step())
	}
	assert.Equal(t, uint8(8), c.V(0))
	assert.Equal(t, uint8(0), c.V(0xf))
	assert.Equal(t, uint16(0x206), c.PC())
}

func TestReturnEmptyStack(t *testing.T) {
	c := newTestChip8(t, []byte{0x00, 0xEE})

	err := c.Step()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.False(t, errors.Is(err, ErrInvalidOpcode))
	assert.Equal(t, "stack underflow at 200: opcode 00EE", err.Error())
	assert.Equal(t, uint16(ProgramOffset), c.PC())
}

func TestHaltedStaysHalted(t *testing.T) {
	c := newTestChip8(t, []byte{0x81, 0x26, 0x60, 0x01})

	err := c.Step()
	require.True(t, errors.Is(err, ErrUnimplementedOpcode))
	assert.Equal(t, err, c.Step())
	assert.Equal(t, err, c.Halted())
	assert.Equal(t, uint8(0), c.V(0))

	c.Reset()
	assert.NoError(t, c.Halted())
	assert.Equal(t, []uint8{0x81, 0x26}, c.mem[ProgramOffset:ProgramOffset+2])
}

func TestFetchOutOfRange(t *testing.T) {
	// JP V0,#FFF
	c := newTestChip8(t, []byte{0xBF, 0xFF})
	require.NoError(t, c.Step())
	assert.Equal(t, uint16(0xFFF), c.PC())

	err := c.Step()
	var execErr *ExecError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, MemoryOutOfRange, execErr.Kind)
	assert.Equal(t, uint16(0xFFF), execErr.PC)
}

func TestDecrementTimers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimerInit = 2
	c := New(cfg)

	c.DecrementTimers()
	assert.Equal(t, uint8(1), c.DelayTimer())
	assert.Equal(t, uint8(1), c.SoundTimer())

	c.DecrementTimers()
	c.DecrementTimers()
	assert.Equal(t, uint8(0), c.DelayTimer())
	assert.Equal(t, uint8(0), c.SoundTimer())
}

func TestStepLeavesTimers(t *testing.T) {
	c := newTestChip8(t, []byte{0x60, 0x01})
	require.NoError(t, c.Step())
	assert.Equal(t, uint8(TimerInit), c.DelayTimer())
	assert.Equal(t, uint8(TimerInit), c.SoundTimer())
}

func TestHistory(t *testing.T) {
	c := newTestChip8(t, []byte{0x60, 0x05, 0x61, 0x03})
	require.NoError(t, c.Step())
	require.NoError(t, c.Step())

	assert.Equal(t, []string{"200-6005 LD   V0,#05", "202-6103 LD   V1,#03"}, c.History())
}

func TestHistoryWraps(t *testing.T) {
	// JP 200
	c := newTestChip8(t, []byte{0x12, 0x00})
	for i := 0; i < OpHistoryNum+3; i++ {
		require.NoError(t, c.Step())
	}
	h := c.History()
	assert.Len(t, h, OpHistoryNum)
	assert.Equal(t, "200-1200 JP   200", h[len(h)-1])
}
