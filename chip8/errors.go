package chip8

import (
	"errors"
	"fmt"
)

var (
	ErrProgramTooLarge    = errors.New("program too large")
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrStackOverflow      = errors.New("stack overflow")
	ErrStackUnderflow     = errors.New("stack underflow")
	ErrMemoryOutOfRange   = errors.New("memory address out of range")
	ErrInvalidKeyIndex    = errors.New("invalid key index")
)

// ExecError is returned by Step. Err is one of the sentinel errors above,
// possibly with more detail wrapped around it.
type ExecError struct {
	PC     uint16
	Opcode uint16
	Err    error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("0x%03x: opcode 0x%04x: %v", e.PC, e.Opcode, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
