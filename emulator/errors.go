package emulator

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed cycle.
type ErrorKind int

const (
	InvalidOpcode ErrorKind = iota + 1
	UnimplementedOpcode
	StackUnderflow
	StackOverflow
	MemoryOutOfRange
)

var kindNames = map[ErrorKind]string{
	InvalidOpcode:       "invalid opcode",
	UnimplementedOpcode: "unimplemented opcode",
	StackUnderflow:      "stack underflow",
	StackOverflow:       "stack overflow",
	MemoryOutOfRange:    "memory out of range",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels for errors.Is.
var (
	ErrInvalidOpcode       = &ExecError{Kind: InvalidOpcode}
	ErrUnimplementedOpcode = &ExecError{Kind: UnimplementedOpcode}
	ErrStackUnderflow      = &ExecError{Kind: StackUnderflow}
	ErrStackOverflow       = &ExecError{Kind: StackOverflow}
	ErrMemoryOutOfRange    = &ExecError{Kind: MemoryOutOfRange}

	ErrProgramTooLarge = errors.New("program too large to fit in memory")
)

// ExecError is returned by Step when an instruction cannot be executed.
// PC is the address of the failing instruction.
type ExecError struct {
	Kind   ErrorKind
	PC     uint16
	Opcode uint16
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s at %03X: opcode %04X", e.Kind, e.PC, e.Opcode)
}

// Is matches on Kind only, so the sentinels above compare equal to any
// error of the same kind.
func (e *ExecError) Is(target error) bool {
	t, ok := target.(*ExecError)
	return ok && t.Kind == e.Kind
}
