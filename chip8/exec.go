package chip8

import "fmt"

// execute carries out a decoded instruction. PC already points at the next
// instruction. Comments describing opcodes are copied from Cowgod's
// reference.
func (c8 *Chip8) execute(in Instruction) error {
	x, y := in.X, in.Y

	switch in.Op {
	case OpCLS:
		// 00E0 - CLS -- Clear the display.
		c8.clearScreen()

	case OpRET:
		// 00EE - RET -- Return from a subroutine.
		if c8.sp == 0 {
			return ErrStackUnderflow
		}
		c8.sp--
		c8.pc = c8.stack[c8.sp]

	case OpJP:
		// 1nnn - JP addr -- Jump to location nnn.
		c8.pc = in.NNN

	case OpCALL:
		// 2nnn - CALL addr -- Call subroutine at nnn.
		if int(c8.sp) >= StackSize {
			return fmt.Errorf("%w: depth %d", ErrStackOverflow, c8.sp)
		}
		c8.stack[c8.sp] = c8.pc
		c8.sp++
		c8.pc = in.NNN

	case OpSEImm:
		// 3xkk - SE Vx, byte -- Skip next instruction if Vx = kk.
		c8.skipIf(c8.v[x] == in.KK)

	case OpSNEImm:
		// 4xkk - SNE Vx, byte -- Skip next instruction if Vx != kk.
		c8.skipIf(c8.v[x] != in.KK)

	case OpSEReg:
		// 5xy0 - SE Vx, Vy -- Skip next instruction if Vx = Vy.
		c8.skipIf(c8.v[x] == c8.v[y])

	case OpLDImm:
		// 6xkk - LD Vx, byte -- Set Vx = kk.
		c8.v[x] = in.KK

	case OpADDImm:
		// 7xkk - ADD Vx, byte -- Set Vx = Vx + kk. VF is not affected.
		c8.v[x] += in.KK

	case OpLDReg:
		// 8xy0 - LD Vx, Vy -- Set Vx = Vy.
		c8.v[x] = c8.v[y]

	case OpOR:
		// 8xy1 - OR Vx, Vy -- Set Vx = Vx OR Vy.
		c8.v[x] |= c8.v[y]
		c8.logicFlag()

	case OpAND:
		// 8xy2 - AND Vx, Vy -- Set Vx = Vx AND Vy.
		c8.v[x] &= c8.v[y]
		c8.logicFlag()

	case OpXOR:
		// 8xy3 - XOR Vx, Vy -- Set Vx = Vx XOR Vy.
		c8.v[x] ^= c8.v[y]
		c8.logicFlag()

	case OpADDReg:
		// 8xy4 - ADD Vx, Vy -- Set Vx = Vx + Vy, set VF = carry.
		sum := uint16(c8.v[x]) + uint16(c8.v[y])
		c8.v[x] = uint8(sum)
		c8.v[0xf] = flag(sum > 0xff)

	case OpSUB:
		// 8xy5 - SUB Vx, Vy -- Set Vx = Vx - Vy, set VF = NOT borrow.
		noBorrow := c8.v[x] >= c8.v[y]
		c8.v[x] -= c8.v[y]
		c8.v[0xf] = flag(noBorrow)

	case OpSHR:
		// 8xy6 - SHR Vx {, Vy} -- Set Vx = Vx SHR 1.
		src := c8.shiftSource(x, y)
		c8.v[x] = src >> 1
		c8.v[0xf] = src & 0x1

	case OpSUBN:
		// 8xy7 - SUBN Vx, Vy -- Set Vx = Vy - Vx, set VF = NOT borrow.
		noBorrow := c8.v[y] >= c8.v[x]
		c8.v[x] = c8.v[y] - c8.v[x]
		c8.v[0xf] = flag(noBorrow)

	case OpSHL:
		// 8xyE - SHL Vx {, Vy} -- Set Vx = Vx SHL 1.
		src := c8.shiftSource(x, y)
		c8.v[x] = src << 1
		c8.v[0xf] = (src & 0x80) >> 7

	case OpSNEReg:
		// 9xy0 - SNE Vx, Vy -- Skip next instruction if Vx != Vy.
		c8.skipIf(c8.v[x] != c8.v[y])

	case OpLDI:
		// Annn - LD I, addr -- Set I = nnn.
		c8.i = in.NNN

	case OpJPV0:
		// Bnnn - JP V0, addr -- Jump to location nnn + V0.
		if c8.quirks.JumpUsesVX {
			c8.pc = in.NNN + uint16(c8.v[x])
		} else {
			c8.pc = in.NNN + uint16(c8.v[0])
		}

	case OpRND:
		// Cxkk - RND Vx, byte -- Set Vx = random byte AND kk.
		c8.v[x] = in.KK & uint8(c8.rng.Intn(0x100))

	case OpDRW:
		// Dxyn - DRW Vx, Vy, nibble -- Display n-byte sprite starting at memory
		// location I at (Vx, Vy), set VF = collision.
		collision, err := c8.drawSprite(c8.v[x], c8.v[y], in.N)
		if err != nil {
			return err
		}
		c8.v[0xf] = flag(collision)

	case OpSKP:
		// Ex9E - SKP Vx -- Skip next instruction if key with the value of Vx is
		// pressed.
		c8.skipIf(c8.keys.Down(c8.v[x]))

	case OpSKNP:
		// ExA1 - SKNP Vx -- Skip next instruction if key with the value of Vx is
		// not pressed.
		c8.skipIf(!c8.keys.Down(c8.v[x]))

	case OpLDVxDT:
		// Fx07 - LD Vx, DT -- Set Vx = delay timer value.
		c8.v[x] = c8.dt

	case OpLDVxK:
		// Fx0A - LD Vx, K -- Wait for a key press, store the value of the key in
		// Vx.
		//
		// Only presses made after the wait began count. Until one arrives PC is
		// wound back so the same instruction runs again on the next Step.
		if !c8.waiting {
			c8.waiting = true
			c8.keys.clearPresses()
		}
		key, ok := c8.keys.takePress()
		if !ok {
			c8.pc -= 2
			return nil
		}
		c8.waiting = false
		c8.v[x] = key

	case OpLDDTVx:
		// Fx15 - LD DT, Vx -- Set delay timer = Vx.
		c8.dt = c8.v[x]

	case OpLDSTVx:
		// Fx18 - LD ST, Vx -- Set sound timer = Vx.
		c8.st = c8.v[x]

	case OpADDI:
		// Fx1E - ADD I, Vx -- Set I = I + Vx. VF is set when I passes the end
		// of memory, and I wraps to 12 bits.
		sum := c8.i + uint16(c8.v[x])
		c8.i = sum & 0xfff
		c8.v[0xf] = flag(sum > 0xfff)

	case OpLDF:
		// Fx29 - LD F, Vx -- Set I = location of sprite for digit Vx.
		c8.i = fontStart + uint16(c8.v[x]&0xf)*fontHeight

	case OpLDB:
		// Fx33 - LD B, Vx -- Store BCD representation of Vx in memory locations
		// I, I+1, and I+2.
		if err := c8.checkRange(3); err != nil {
			return err
		}
		c8.mem[c8.i] = c8.v[x] / 100
		c8.mem[c8.i+1] = (c8.v[x] % 100) / 10
		c8.mem[c8.i+2] = c8.v[x] % 10

	case OpLDIVx:
		// Fx55 - LD [I], Vx -- Store registers V0 through Vx in memory starting
		// at location I.
		if err := c8.checkRange(int(x) + 1); err != nil {
			return err
		}
		copy(c8.mem[c8.i:], c8.v[:x+1])
		if c8.quirks.LoadStoreIncrementsI {
			c8.i += uint16(x) + 1
		}

	case OpLDVxI:
		// Fx65 - LD Vx, [I] -- Read registers V0 through Vx from memory starting
		// at location I.
		if err := c8.checkRange(int(x) + 1); err != nil {
			return err
		}
		copy(c8.v[:x+1], c8.mem[c8.i:])
		if c8.quirks.LoadStoreIncrementsI {
			c8.i += uint16(x) + 1
		}

	default:
		return fmt.Errorf("%w: %v", ErrUnknownInstruction, in.Op)
	}
	return nil
}

func (c8 *Chip8) skipIf(cond bool) {
	if cond {
		c8.pc += 2
	}
}

func (c8 *Chip8) shiftSource(x, y uint8) uint8 {
	if c8.quirks.ShiftUsesVY {
		return c8.v[y]
	}
	return c8.v[x]
}

func (c8 *Chip8) logicFlag() {
	if c8.quirks.ResetVFOnLogic {
		c8.v[0xf] = 0
	}
}

// checkRange fails if the n bytes starting at I are not all in memory.
func (c8 *Chip8) checkRange(n int) error {
	if end := int(c8.i) + n; end > MemorySize {
		return fmt.Errorf("%w: 0x%03x-0x%03x", ErrMemoryOutOfRange, c8.i, end-1)
	}
	return nil
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
