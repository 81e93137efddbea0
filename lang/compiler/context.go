package compiler

import (
	"github.com/dolthub/swiss"
	"github.com/mna/virel/lang/types"
)

// A Variable is an emission-time record of a declared variable: its
// type index and its byte offset in the machine's variable area.
type Variable struct {
	Name   string
	Type   int32
	Offset int64
}

// Context is the emission-time state shared by the type checker and the
// emitter: the declared variables, a name lookup map, and the running
// byte offset of the variable area. Offsets are assigned monotonically,
// so two distinct variables never share a byte. A Context lives for one
// emission run.
type Context struct {
	vars   []Variable
	byName *swiss.Map[string, int]
	offset int64
}

// NewContext returns an empty emission context.
func NewContext() *Context {
	return &Context{byName: swiss.NewMap[string, int](16)}
}

// AddVariable registers a variable of the given type under name and
// returns its record. The variable is placed at the current running
// offset, which advances by the type's size. Re-declaring a name makes
// the new variable shadow the previous one for lookups.
func (c *Context) AddVariable(name string, t types.Type) Variable {
	v := Variable{Name: name, Type: t.Index, Offset: c.offset}
	c.vars = append(c.vars, v)
	c.byName.Put(name, len(c.vars)-1)
	c.offset += t.Size
	return v
}

// FindVariable resolves a declared variable by name.
func (c *Context) FindVariable(name string) (Variable, bool) {
	i, ok := c.byName.Get(name)
	if !ok {
		return Variable{}, false
	}
	return c.vars[i], true
}

// Offset returns the running byte offset, which equals the total size
// of all variables declared so far.
func (c *Context) Offset() int64 { return c.offset }

// Len returns the number of declared variables.
func (c *Context) Len() int { return len(c.vars) }
