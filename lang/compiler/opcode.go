package compiler

import "fmt"

// Opcode is a virtual machine instruction. Each instruction occupies
// one 64-bit word in the code stream; opcodes that carry an immediate
// consume exactly one additional word.
type Opcode int64

//nolint:revive
const (
	// stack and control
	PRINT Opcode = iota // print the top cell without popping it
	DUPLICATE
	SWAP
	JUMP    // imm: lookup table slot of the target byte position
	JUMP_IF // imm: lookup table slot, taken when the popped BOOL is true

	// arithmetic and logic; operand types are validated statically
	ADD
	SUBTRACT
	NEGATE
	MULTIPLY
	DIVIDE
	MODULO
	OR
	AND
	XOR
	NOT
	SMALLER
	SMALLER_EQUAL
	BIGGER
	BIGGER_EQUAL
	EQUAL
	NOT_EQUAL

	// loading
	INT64_LOAD     // imm: the int64 value to push
	BOOL_LOAD      // imm: 0 or 1
	STACK_PTR_LOAD // pops an INT64 offset, pushes a raw pointer into the variable area

	// casts
	INT64_TO_BOOL
	BOOL_TO_INT64

	// memory; each pops a raw pointer, stores pop a value beneath it
	INT64_LOAD_FROM_ADDRESS
	INT64_LOAD_INTO_ADDRESS
	BOOL_LOAD_FROM_ADDRESS
	BOOL_LOAD_INTO_ADDRESS

	maxOpcode
)

var opcodeNames = [maxOpcode]string{
	PRINT:                   "PRINT",
	DUPLICATE:               "DUPLICATE",
	SWAP:                    "SWAP",
	JUMP:                    "JUMP",
	JUMP_IF:                 "JUMP_IF",
	ADD:                     "ADD",
	SUBTRACT:                "SUBTRACT",
	NEGATE:                  "NEGATE",
	MULTIPLY:                "MULTIPLY",
	DIVIDE:                  "DIVIDE",
	MODULO:                  "MODULO",
	OR:                      "OR",
	AND:                     "AND",
	XOR:                     "XOR",
	NOT:                     "NOT",
	SMALLER:                 "SMALLER",
	SMALLER_EQUAL:           "SMALLER_EQUAL",
	BIGGER:                  "BIGGER",
	BIGGER_EQUAL:            "BIGGER_EQUAL",
	EQUAL:                   "EQUAL",
	NOT_EQUAL:               "NOT_EQUAL",
	INT64_LOAD:              "INT64_LOAD",
	BOOL_LOAD:               "BOOL_LOAD",
	STACK_PTR_LOAD:          "STACK_PTR_LOAD",
	INT64_TO_BOOL:           "INT64_TO_BOOL",
	BOOL_TO_INT64:           "BOOL_TO_INT64",
	INT64_LOAD_FROM_ADDRESS: "INT64_LOAD_FROM_ADDRESS",
	INT64_LOAD_INTO_ADDRESS: "INT64_LOAD_INTO_ADDRESS",
	BOOL_LOAD_FROM_ADDRESS:  "BOOL_LOAD_FROM_ADDRESS",
	BOOL_LOAD_INTO_ADDRESS:  "BOOL_LOAD_INTO_ADDRESS",
}

func (op Opcode) String() string {
	if op < 0 || op >= maxOpcode {
		return fmt.Sprintf("opcode(%d)", int64(op))
	}
	return opcodeNames[op]
}

// Valid returns true if op is a known opcode.
func (op Opcode) Valid() bool { return op >= 0 && op < maxOpcode }

// HasImmediate returns true if op consumes one immediate word following
// the opcode word.
func (op Opcode) HasImmediate() bool {
	switch op {
	case JUMP, JUMP_IF, INT64_LOAD, BOOL_LOAD:
		return true
	}
	return false
}

// IsJump returns true for the opcodes whose immediate is a lookup table
// slot.
func (op Opcode) IsJump() bool { return op == JUMP || op == JUMP_IF }
