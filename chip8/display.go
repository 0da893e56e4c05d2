package chip8

import (
	"fmt"
	"strings"
)

// Framebuffer is the monochrome display, row-major with (0,0) top left.
// true is a lit pixel.
type Framebuffer [DisplayHeight][DisplayWidth]bool

// Pixel returns the pixel at column x, row y.
func (fb *Framebuffer) Pixel(x, y int) bool {
	return fb[y][x]
}

// Lit counts the lit pixels.
func (fb *Framebuffer) Lit() int {
	n := 0
	for y := range fb {
		for x := range fb[y] {
			if fb[y][x] {
				n++
			}
		}
	}
	return n
}

// String draws the framebuffer with '#' for lit and '.' for unlit pixels,
// one line per row.
func (fb *Framebuffer) String() string {
	var s strings.Builder
	s.Grow((DisplayWidth + 1) * DisplayHeight)
	for y := range fb {
		for x := range fb[y] {
			if fb[y][x] {
				s.WriteByte('#')
			} else {
				s.WriteByte('.')
			}
		}
		s.WriteByte('\n')
	}
	return s.String()
}

func (c8 *Chip8) clearScreen() {
	c8.gfx = Framebuffer{}
	c8.frame++
}

// drawSprite XORs the n-byte sprite at I onto the display at (x, y) and
// returns true if any lit pixel was turned off. The origin wraps around the
// display; pixels running off the edge are clipped unless the WrapSprites
// quirk is set. Memory is checked before the display is touched.
func (c8 *Chip8) drawSprite(x, y, n uint8) (bool, error) {
	if end := int(c8.i) + int(n); end > MemorySize {
		return false, fmt.Errorf("%w: sprite 0x%03x-0x%03x", ErrMemoryOutOfRange, c8.i, end-1)
	}

	x0 := int(x) % DisplayWidth
	y0 := int(y) % DisplayHeight
	collision := false

	for row := 0; row < int(n); row++ {
		py := y0 + row
		if py >= DisplayHeight {
			if !c8.quirks.WrapSprites {
				break
			}
			py %= DisplayHeight
		}
		spriteRow := c8.mem[int(c8.i)+row]
		for col := 0; col < 8; col++ {
			if spriteRow&(0x80>>col) == 0 {
				continue
			}
			px := x0 + col
			if px >= DisplayWidth {
				if !c8.quirks.WrapSprites {
					break
				}
				px %= DisplayWidth
			}
			if c8.gfx[py][px] {
				collision = true
			}
			c8.gfx[py][px] = !c8.gfx[py][px]
		}
	}
	c8.frame++
	return collision, nil
}
