package compiler

import (
	"fmt"

	"github.com/mna/virel/lang/token"
)

// TypeError is a diagnostic produced while deducing and checking the
// types of the program.
type TypeError struct {
	Pos token.Pos
	Msg string
}

func (e *TypeError) Error() string {
	if e.Pos.Unknown() {
		return fmt.Sprintf("there was an error while checking types: %s", e.Msg)
	}
	return fmt.Sprintf("there was an error while checking types: %s at %s", e.Msg, e.Pos)
}

// EmitError is a diagnostic produced while generating bytecode, for
// constructs that type-check but have no lowering in this version.
type EmitError struct {
	Pos token.Pos
	Msg string
}

func (e *EmitError) Error() string {
	if e.Pos.Unknown() {
		return fmt.Sprintf("there was an error while generating code: %s", e.Msg)
	}
	return fmt.Sprintf("there was an error while generating code: %s at %s", e.Msg, e.Pos)
}

func (c *compiler) typeErrorf(pos token.Pos, format string, args ...any) {
	panic(&TypeError{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (c *compiler) emitErrorf(pos token.Pos, format string, args ...any) {
	panic(&EmitError{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}
