package emulator

import (
	"fmt"
)

func (c *Chip8) fail(kind ErrorKind, op uint16) error {
	return &ExecError{Kind: kind, PC: c.pc - 2, Opcode: op}
}

// execOpcode runs op with pc already advanced past it. Every failure is
// detected before any state changes.
func (c *Chip8) execOpcode(op uint16) error {
	h := op & 0xF000
	nnn := op & 0x0FFF
	nn := uint8(nnn & 0xff)
	x := uint8((nnn >> 8) & 0xf)
	y := uint8((nnn >> 4) & 0xf)
	n := nn & 0x0f

	switch h {
	case 0x0000:
		switch op {
		case 0x00E0: // clear display
			c.disp.Clear()

		case 0x00EE: // return from subroutine
			r, ok := c.popStack()
			if !ok {
				return c.fail(StackUnderflow, op)
			}
			c.pc = r

		default:
			return c.fail(InvalidOpcode, op)
		}
	case 0x1000: // goto 0x0NNN
		c.pc = nnn

	case 0x2000: // call 0x0NNN
		if !c.pushStack(c.pc) {
			return c.fail(StackOverflow, op)
		}
		c.pc = nnn

	case 0x3000: // 0x3XNN if(Vx==NN)
		if c.v[x] == nn {
			c.pc += 2
		}

	case 0x4000: // 0x4XNN if(Vx!=NN)
		if c.v[x] != nn {
			c.pc += 2
		}

	case 0x5000: // 0x5XY0 if(Vx==Vy)
		if n != 0 {
			return c.fail(InvalidOpcode, op)
		}
		if c.v[x] == c.v[y] {
			c.pc += 2
		}

	case 0x6000: // 6XNN Vx = NN
		c.v[x] = nn

	case 0x7000: // 7XNN Vx += NN (Carry flag is not changed)
		c.v[x] += nn

	case 0x8000:
		switch n {
		case 0: // 8XY0	Vx=Vy
			c.v[x] = c.v[y]

		case 1: // 8XY1	Vx=Vx|Vy
			c.v[x] |= c.v[y]

		case 2: // 8XY2	Vx=Vx&Vy
			c.v[x] &= c.v[y]

		case 3: // 8XY3	Vx=Vx^Vy
			c.v[x] ^= c.v[y]

		case 4: // 8XY4	Vx += Vy
			carried := (uint16(c.v[x]) + uint16(c.v[y])) > 0xff
			c.v[x] += c.v[y]
			c.updateCarryFlag(carried)

		case 5: // 8XY5	Vx -= Vy
			greater := c.v[x] > c.v[y]
			c.v[x] -= c.v[y]
			c.updateCarryFlag(greater)

		case 6: // 8XY6	Vx>>=1
			return c.fail(UnimplementedOpcode, op)

		case 7: // 8XY7	Vx=Vy-Vx
			greater := c.v[y] > c.v[x]
			c.v[x] = c.v[y] - c.v[x]
			c.updateCarryFlag(greater)

		default:
			return c.fail(InvalidOpcode, op)
		}
	case 0x9000: // 9XY0 if(Vx!=Vy)
		if n != 0 {
			return c.fail(InvalidOpcode, op)
		}
		if c.v[x] != c.v[y] {
			c.pc += 2
		}

	case 0xA000: // ANNN I = NNN
		c.i = nnn

	case 0xB000: // BNNN PC=V0+NNN
		c.pc = uint16(c.v[0]) + nnn

	case 0xC000: // CXNN Vx=rand()&NN
		c.v[x] = c.cfg.Random() & nn

	case 0xD000: // DXYN draw(Vx,Vy,N)
		flipped, err := c.draw(c.v[x], c.v[y], n)
		if err != nil {
			return c.fail(MemoryOutOfRange, op)
		}
		c.updateCarryFlag(flipped)

	case 0xE000, 0xF000: // keypad and timers
		if c.cfg.StrictKeypadTimer {
			return c.fail(UnimplementedOpcode, op)
		}
	}
	return nil
}

// Disassemble returns the mnemonic of op, or "???" when op is not an
// instruction this interpreter decodes.
func Disassemble(op uint16) string {
	nnn := op & 0x0FFF
	nn := uint8(nnn & 0xff)
	x := uint8((nnn >> 8) & 0xf)
	y := uint8((nnn >> 4) & 0xf)
	n := nn & 0x0f

	switch op & 0xF000 {
	case 0x0000:
		switch op {
		case 0x00E0:
			return "CLS"
		case 0x00EE:
			return "RET"
		}
	case 0x1000:
		return fmt.Sprintf("JP   %03X", nnn)
	case 0x2000:
		return fmt.Sprintf("CALL %03X", nnn)
	case 0x3000:
		return fmt.Sprintf("SE   V%X,#%02X", x, nn)
	case 0x4000:
		return fmt.Sprintf("SNE  V%X,#%02X", x, nn)
	case 0x5000:
		if n == 0 {
			return fmt.Sprintf("SE   V%X,V%X", x, y)
		}
	case 0x6000:
		return fmt.Sprintf("LD   V%X,#%02X", x, nn)
	case 0x7000:
		return fmt.Sprintf("ADD  V%X,#%02X", x, nn)
	case 0x8000:
		if m, ok := aluMnemonics[n]; ok {
			return fmt.Sprintf("%-4s V%X,V%X", m, x, y)
		}
	case 0x9000:
		if n == 0 {
			return fmt.Sprintf("SNE  V%X,V%X", x, y)
		}
	case 0xA000:
		return fmt.Sprintf("LD   I,#%03X", nnn)
	case 0xB000:
		return fmt.Sprintf("JP   V0,#%03X", nnn)
	case 0xC000:
		return fmt.Sprintf("RND  V%X,#%02X", x, nn)
	case 0xD000:
		return fmt.Sprintf("DRW  V%X,V%X,%d", x, y, n)
	case 0xE000, 0xF000:
		return fmt.Sprintf("NOP  #%04X", op)
	}
	return "???"
}

var aluMnemonics = map[uint8]string{
	0x0: "LD",
	0x1: "OR",
	0x2: "AND",
	0x3: "XOR",
	0x4: "ADD",
	0x5: "SUB",
	0x6: "SHR",
	0x7: "SUBN",
}
