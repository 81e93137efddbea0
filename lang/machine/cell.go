package machine

import "fmt"

// Tag identifies the type of the value held by a Cell. It exists for
// print dispatch and as a runtime cross-check of the static types;
// arithmetic instructions assume the checker already validated the
// operand types.
type Tag int8

const (
	TagBool Tag = iota
	TagInt64
	TagRawPtr
)

func (t Tag) String() string {
	switch t {
	case TagBool:
		return "bool"
	case TagInt64:
		return "int64"
	case TagRawPtr:
		return "rawptr"
	}
	return fmt.Sprintf("tag(%d)", int8(t))
}

// A Cell is a tagged value on the machine's operand stack. A raw
// pointer is represented as a byte offset into the machine's variable
// area rather than a native pointer; the memory instructions interpret
// it relative to the area.
type Cell struct {
	tag Tag
	i64 int64
	b   bool
	ptr int64
}

// BoolCell returns a cell holding a bool value.
func BoolCell(v bool) Cell { return Cell{tag: TagBool, b: v} }

// Int64Cell returns a cell holding an int64 value.
func Int64Cell(v int64) Cell { return Cell{tag: TagInt64, i64: v} }

// PtrCell returns a cell holding a raw pointer: an offset into the
// variable area.
func PtrCell(offset int64) Cell { return Cell{tag: TagRawPtr, ptr: offset} }

// Tag returns the tag of the cell.
func (c Cell) Tag() Tag { return c.tag }

// Bool returns the bool payload; meaningful only when Tag is TagBool.
func (c Cell) Bool() bool { return c.b }

// Int64 returns the int64 payload; meaningful only when Tag is
// TagInt64.
func (c Cell) Int64() int64 { return c.i64 }

// Ptr returns the pointer payload; meaningful only when Tag is
// TagRawPtr.
func (c Cell) Ptr() int64 { return c.ptr }

// String formats the cell's canonical representation: int64 in decimal,
// bool as "true"/"false", raw pointers as the unsigned value of the
// pointer.
func (c Cell) String() string {
	switch c.tag {
	case TagBool:
		if c.b {
			return "true"
		}
		return "false"
	case TagInt64:
		return fmt.Sprintf("%d", c.i64)
	case TagRawPtr:
		return fmt.Sprintf("%d", uint64(c.ptr))
	}
	return fmt.Sprintf("invalid cell (%s)", c.tag)
}
