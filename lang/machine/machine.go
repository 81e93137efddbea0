// Package machine implements the stack-based virtual machine that
// executes compiled bytecode. A machine owns a fixed-size byte area
// where declared variables live at statically known offsets, and an
// operand stack of tagged cells that every instruction reads and
// writes.
package machine

import (
	"context"
	"fmt"
	"io"

	"github.com/mna/virel/lang/compiler"
)

// Error is a runtime diagnostic, fatal to the execution.
type Error struct {
	PC  int64
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("there was an error while the virtual machine was executing: %s at position %d", e.Msg, e.PC)
}

// Machine executes a compiled program. A machine is single-use: its
// variable area and operand stack live for one Run.
type Machine struct {
	cfg   Config
	code  *compiler.Code
	area  []byte
	stack []Cell
	pc    int64
	out   io.Writer
	steps uint64
}

// New returns a machine ready to execute the code under the given
// configuration.
func New(code *compiler.Code, cfg Config) *Machine {
	if cfg.AreaSize <= 0 {
		cfg.AreaSize = DefaultAreaSize
	}
	return &Machine{
		cfg:  cfg,
		code: code,
		area: make([]byte, cfg.AreaSize),
	}
}

// Run executes the program, writing the output of PRINT instructions to
// out. It returns a *Error on any runtime failure: operand stack
// underflow, unknown opcode, pointer outside the variable area, cell
// tag not matching the instruction, or division by zero.
func (m *Machine) Run(ctx context.Context, out io.Writer) (err error) {
	m.out = out

	defer func() {
		if e := recover(); e != nil {
			rerr, ok := e.(*Error)
			if !ok {
				panic(e)
			}
			err = rerr
		}
	}()

	for m.pc < int64(len(m.code.Bytes)) {
		m.steps++
		if m.steps%1024 == 0 {
			if cerr := ctx.Err(); cerr != nil {
				m.failf("execution cancelled: %s", cerr)
			}
		}
		if m.cfg.MaxSteps > 0 && m.steps > m.cfg.MaxSteps {
			m.failf("step limit of %d exceeded", m.cfg.MaxSteps)
		}
		m.step()
	}
	return nil
}

// step fetches and executes a single instruction.
func (m *Machine) step() {
	op := compiler.Opcode(m.advance())

	switch op {
	case compiler.PRINT:
		// prints the top cell without popping it
		if _, err := fmt.Fprintln(m.out, m.top()); err != nil {
			m.failf("cannot write output: %s", err)
		}

	case compiler.DUPLICATE:
		m.push(m.top())

	case compiler.SWAP:
		a, b := m.pop(), m.pop()
		m.push(a)
		m.push(b)

	case compiler.JUMP:
		m.pc = m.target(m.advance())

	case compiler.JUMP_IF:
		target := m.target(m.advance())
		if m.popBool() {
			m.pc = target
		}

	case compiler.ADD:
		a, b := m.popInt64(), m.popInt64()
		m.push(Int64Cell(b + a))
	case compiler.SUBTRACT:
		a, b := m.popInt64(), m.popInt64()
		m.push(Int64Cell(b - a))
	case compiler.MULTIPLY:
		a, b := m.popInt64(), m.popInt64()
		m.push(Int64Cell(b * a))
	case compiler.DIVIDE:
		a, b := m.popInt64(), m.popInt64()
		if a == 0 {
			m.failf("division by zero")
		}
		m.push(Int64Cell(b / a))
	case compiler.MODULO:
		a, b := m.popInt64(), m.popInt64()
		if a == 0 {
			m.failf("modulo by zero")
		}
		m.push(Int64Cell(b % a))
	case compiler.NEGATE:
		m.push(Int64Cell(-m.popInt64()))

	case compiler.OR, compiler.AND, compiler.XOR:
		m.bitwise(op)

	case compiler.NOT:
		a := m.pop()
		switch a.Tag() {
		case TagBool:
			m.push(BoolCell(!a.Bool()))
		case TagInt64:
			m.push(Int64Cell(^a.Int64()))
		default:
			m.failf("%s requires an int64 or bool operand, got %s", op, a.Tag())
		}

	case compiler.SMALLER:
		a, b := m.popInt64(), m.popInt64()
		m.push(BoolCell(b < a))
	case compiler.SMALLER_EQUAL:
		a, b := m.popInt64(), m.popInt64()
		m.push(BoolCell(b <= a))
	case compiler.BIGGER:
		a, b := m.popInt64(), m.popInt64()
		m.push(BoolCell(b > a))
	case compiler.BIGGER_EQUAL:
		a, b := m.popInt64(), m.popInt64()
		m.push(BoolCell(b >= a))

	case compiler.EQUAL, compiler.NOT_EQUAL:
		a, b := m.pop(), m.pop()
		if a.Tag() != b.Tag() {
			m.failf("%s requires operands of the same type, got %s and %s", op, b.Tag(), a.Tag())
		}
		var eq bool
		switch a.Tag() {
		case TagBool:
			eq = a.Bool() == b.Bool()
		case TagInt64:
			eq = a.Int64() == b.Int64()
		default:
			m.failf("%s requires int64 or bool operands, got %s", op, a.Tag())
		}
		m.push(BoolCell(eq == (op == compiler.EQUAL)))

	case compiler.INT64_LOAD:
		m.push(Int64Cell(m.advance()))
	case compiler.BOOL_LOAD:
		m.push(BoolCell(m.advance() != 0))

	case compiler.STACK_PTR_LOAD:
		m.push(PtrCell(m.popInt64()))

	case compiler.INT64_TO_BOOL:
		m.push(BoolCell(m.popInt64() != 0))
	case compiler.BOOL_TO_INT64:
		var v int64
		if m.popBool() {
			v = 1
		}
		m.push(Int64Cell(v))

	case compiler.INT64_LOAD_FROM_ADDRESS:
		off := m.checkArea(m.popPtr(), 8)
		var v uint64
		for i := 7; i >= 0; i-- {
			v = v<<8 | uint64(m.area[off+int64(i)])
		}
		m.push(Int64Cell(int64(v)))

	case compiler.INT64_LOAD_INTO_ADDRESS:
		off := m.checkArea(m.popPtr(), 8)
		v := uint64(m.popInt64())
		for i := int64(0); i < 8; i++ {
			m.area[off+i] = byte(v)
			v >>= 8
		}

	case compiler.BOOL_LOAD_FROM_ADDRESS:
		off := m.checkArea(m.popPtr(), 1)
		m.push(BoolCell(m.area[off] != 0))

	case compiler.BOOL_LOAD_INTO_ADDRESS:
		off := m.checkArea(m.popPtr(), 1)
		var b byte
		if m.popBool() {
			b = 1
		}
		m.area[off] = b

	default:
		m.failf("unknown opcode %d", int64(op))
	}
}

// bitwise executes OR, AND and XOR, which operate on two int64 cells or
// two bool cells.
func (m *Machine) bitwise(op compiler.Opcode) {
	a, b := m.pop(), m.pop()
	if a.Tag() != b.Tag() {
		m.failf("%s requires operands of the same type, got %s and %s", op, b.Tag(), a.Tag())
	}
	switch a.Tag() {
	case TagInt64:
		x, y := b.Int64(), a.Int64()
		switch op {
		case compiler.OR:
			m.push(Int64Cell(x | y))
		case compiler.AND:
			m.push(Int64Cell(x & y))
		case compiler.XOR:
			m.push(Int64Cell(x ^ y))
		}
	case TagBool:
		x, y := b.Bool(), a.Bool()
		switch op {
		case compiler.OR:
			m.push(BoolCell(x || y))
		case compiler.AND:
			m.push(BoolCell(x && y))
		case compiler.XOR:
			m.push(BoolCell(x != y))
		}
	default:
		m.failf("%s requires int64 or bool operands, got %s", op, a.Tag())
	}
}

// advance fetches the next code word and moves past it.
func (m *Machine) advance() int64 {
	if m.pc >= int64(len(m.code.Bytes)) {
		m.failf("not enough words in code")
	}
	w := m.code.Bytes[m.pc]
	m.pc++
	return w
}

// target resolves a jump immediate through the lookup table to a byte
// position inside the code.
func (m *Machine) target(slot int64) int64 {
	if slot < 0 || slot >= int64(len(m.code.LookupTable)) {
		m.failf("jump references invalid lookup slot %d", slot)
	}
	pos := m.code.LookupTable[slot]
	if pos < 0 || pos > int64(len(m.code.Bytes)) {
		m.failf("lookup slot %d holds position %d, outside the code", slot, pos)
	}
	return pos
}

func (m *Machine) push(c Cell) {
	m.stack = append(m.stack, c)
}

func (m *Machine) top() Cell {
	if len(m.stack) == 0 {
		m.failf("cannot read the top of an empty operand stack")
	}
	return m.stack[len(m.stack)-1]
}

func (m *Machine) pop() Cell {
	if len(m.stack) == 0 {
		m.failf("cannot pop from an empty operand stack")
	}
	c := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return c
}

func (m *Machine) popInt64() int64 {
	c := m.pop()
	if c.Tag() != TagInt64 {
		m.failf("expected an int64 cell, got %s", c.Tag())
	}
	return c.Int64()
}

func (m *Machine) popBool() bool {
	c := m.pop()
	if c.Tag() != TagBool {
		m.failf("expected a bool cell, got %s", c.Tag())
	}
	return c.Bool()
}

func (m *Machine) popPtr() int64 {
	c := m.pop()
	if c.Tag() != TagRawPtr {
		m.failf("expected a rawptr cell, got %s", c.Tag())
	}
	return c.Ptr()
}

// checkArea verifies that size bytes at offset lie within the variable
// area and returns the offset.
func (m *Machine) checkArea(offset, size int64) int64 {
	if offset < 0 || offset > int64(len(m.area))-size {
		m.failf("address %d is outside the variable area of %d bytes", offset, len(m.area))
	}
	return offset
}

func (m *Machine) failf(format string, args ...any) {
	panic(&Error{PC: m.pc, Msg: fmt.Sprintf(format, args...)})
}
