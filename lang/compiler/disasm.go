package compiler

import (
	"fmt"
	"io"
)

// Disassemble writes a human-readable listing of the code to w, one
// instruction per line as "pc: MNEMONIC [operand]". Jump immediates are
// resolved through the lookup table and the target byte position is
// shown next to the slot index. The code itself is not modified.
func (c *Code) Disassemble(w io.Writer) error {
	for pc := 0; pc < len(c.Bytes); {
		op := Opcode(c.Bytes[pc])
		if !op.Valid() {
			return fmt.Errorf("unknown opcode %d at position %d", c.Bytes[pc], pc)
		}
		start := pc
		pc++

		if !op.HasImmediate() {
			if _, err := fmt.Fprintf(w, "%4d: %s\n", start, op); err != nil {
				return err
			}
			continue
		}

		if pc >= len(c.Bytes) {
			return fmt.Errorf("truncated immediate for %s at position %d", op, start)
		}
		imm := c.Bytes[pc]
		pc++

		if op.IsJump() {
			target := int64(-1)
			if imm >= 0 && imm < int64(len(c.LookupTable)) {
				target = c.LookupTable[imm]
			}
			if _, err := fmt.Fprintf(w, "%4d: %s %d (-> %d)\n", start, op, imm, target); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%4d: %s %d\n", start, op, imm); err != nil {
			return err
		}
	}
	return nil
}
