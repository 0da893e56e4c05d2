package chip8_test

import (
	"sync"
	"testing"

	"github.com/inrick/chip8-go/chip8"
	"github.com/inrick/chip8-go/internal/test"
)

func TestKeypad(t *testing.T) {
	kp := chip8.NewKeypad()
	for k := uint8(0); k < chip8.NumKeys; k++ {
		test.ExpectEquality(t, kp.Down(k), false, k)
	}

	test.ExpectSuccess(t, kp.Set(0xa, true))
	test.ExpectEquality(t, kp.Down(0xa), true)
	keys := kp.Snapshot()
	test.ExpectEquality(t, keys[0xa], true)
	test.ExpectEquality(t, keys[0xb], false)

	// Down only looks at the low nibble, as Ex9E does with Vx
	test.ExpectEquality(t, kp.Down(0x1a), true)

	test.ExpectSuccess(t, kp.Set(0xa, false))
	test.ExpectEquality(t, kp.Down(0xa), false)

	test.ExpectError(t, kp.Set(chip8.NumKeys, true), chip8.ErrInvalidKeyIndex)
}

// the keypad is written from an input goroutine while the interpreter reads
// it. run with -race.
func TestKeypadConcurrent(t *testing.T) {
	c8 := boot(t, chip8.QuirksCowgod, 0x6005, 0xe09e, 0x1202, 0x1202)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = c8.SetKey(uint8(i%chip8.NumKeys), i%2 == 0)
		}
	}()

	for i := 0; i < 1000; i++ {
		if err := c8.Step(); err != nil {
			t.Fatal(err)
		}
	}
	wg.Wait()
}
