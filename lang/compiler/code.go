package compiler

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Code is an emitted program: the instruction stream as 64-bit words
// and the jump lookup table. Jump instructions reference their target
// indirectly, through a slot in the lookup table holding a byte
// position; this lets a forward jump be emitted before its destination
// is known, by reserving a slot and patching it later.
type Code struct {
	Bytes       []int64
	LookupTable []int64
}

// Append appends a plain instruction word.
func (c *Code) Append(op Opcode) {
	c.Bytes = append(c.Bytes, int64(op))
}

// AppendImm appends an instruction word followed by its immediate.
func (c *Code) AppendImm(op Opcode, imm int64) {
	c.Bytes = append(c.Bytes, int64(op), imm)
}

// ReserveSlot reserves a lookup table slot with a placeholder target
// and returns its index, to be patched with PatchSlot once the target
// position is known.
func (c *Code) ReserveSlot() int64 {
	c.LookupTable = append(c.LookupTable, -1)
	return int64(len(c.LookupTable) - 1)
}

// PatchSlot sets the byte position stored in the given slot.
func (c *Code) PatchSlot(slot int64, pos int64) {
	c.LookupTable[slot] = pos
}

// Pos returns the current emission position, i.e. the position of the
// next appended word.
func (c *Code) Pos() int64 { return int64(len(c.Bytes)) }

// Validate verifies the structural invariants of the code: the stream
// decodes into known opcodes with their immediates present, every jump
// immediate is a valid lookup table slot, and every slot referenced by
// a jump holds a position within the code bounds.
func (c *Code) Validate() error {
	for pc := 0; pc < len(c.Bytes); {
		op := Opcode(c.Bytes[pc])
		if !op.Valid() {
			return fmt.Errorf("unknown opcode %d at position %d", c.Bytes[pc], pc)
		}
		pc++
		if !op.HasImmediate() {
			continue
		}
		if pc >= len(c.Bytes) {
			return fmt.Errorf("truncated immediate for %s at position %d", op, pc-1)
		}
		imm := c.Bytes[pc]
		pc++
		if op.IsJump() {
			if imm < 0 || imm >= int64(len(c.LookupTable)) {
				return fmt.Errorf("%s at position %d references invalid slot %d", op, pc-2, imm)
			}
			if target := c.LookupTable[imm]; target < 0 || target > int64(len(c.Bytes)) {
				return fmt.Errorf("slot %d holds position %d, outside the code", imm, target)
			}
		}
	}
	return nil
}

// Serialized form: a magic and version header, a table of contents with
// the two section lengths, then the sections as little-endian 64-bit
// words. There are no cross-file references.
const (
	codeMagic   = "VRBC"
	codeVersion = uint32(1)
)

// Encode writes the serialized form of the code to w.
func Encode(w io.Writer, c *Code) error {
	if _, err := io.WriteString(w, codeMagic); err != nil {
		return err
	}
	for _, v := range []any{
		codeVersion,
		uint64(len(c.Bytes)),
		uint64(len(c.LookupTable)),
		c.Bytes,
	} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	table := make([]uint64, len(c.LookupTable))
	for i, pos := range c.LookupTable {
		table[i] = uint64(pos)
	}
	return binary.Write(w, binary.LittleEndian, table)
}

// Decode reads a serialized code back from r.
func Decode(r io.Reader) (*Code, error) {
	magic := make([]byte, len(codeMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, err
	}
	if string(magic) != codeMagic {
		return nil, fmt.Errorf("invalid magic %q", magic)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != codeVersion {
		return nil, fmt.Errorf("unsupported bytecode version %d", version)
	}

	var nbytes, ntable uint64
	if err := binary.Read(r, binary.LittleEndian, &nbytes); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &ntable); err != nil {
		return nil, err
	}

	c := &Code{
		Bytes:       make([]int64, nbytes),
		LookupTable: make([]int64, ntable),
	}
	if err := binary.Read(r, binary.LittleEndian, c.Bytes); err != nil {
		return nil, err
	}
	table := make([]uint64, ntable)
	if err := binary.Read(r, binary.LittleEndian, table); err != nil {
		return nil, err
	}
	for i, pos := range table {
		c.LookupTable[i] = int64(pos)
	}
	return c, c.Validate()
}
