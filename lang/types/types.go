// Package types defines the type descriptors of the source language and
// the registry that resolves type names to dense indices.
package types

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// A Type describes a named type: its size in bytes in the machine's
// variable area and its dense index in the registry.
type Type struct {
	Size  int64
	Index int32
	Name  string
}

// Indices of the built-in types, stable across every registry.
const (
	Bool int32 = iota
	Int64
	Void
)

// Registry maps type names to type descriptors. It is threaded through
// the type checker and the emitter; the built-in types are registered
// at construction in a deterministic order so their indices match the
// Bool, Int64 and Void constants.
type Registry struct {
	types  []Type
	byName *swiss.Map[string, int32]
}

// NewRegistry returns a registry seeded with the built-in types.
func NewRegistry() *Registry {
	r := &Registry{
		byName: swiss.NewMap[string, int32](8),
	}
	r.MustAdd(1, "bool")
	r.MustAdd(8, "int64")
	r.MustAdd(0, "void")
	return r
}

// Add registers a new type under name with the given byte size and
// returns its index. Registering an already-known name is an error.
func (r *Registry) Add(size int64, name string) (int32, error) {
	if _, ok := r.byName.Get(name); ok {
		return 0, fmt.Errorf("type %q is already registered", name)
	}
	index := int32(len(r.types))
	r.types = append(r.types, Type{Size: size, Index: index, Name: name})
	r.byName.Put(name, index)
	return index, nil
}

// MustAdd is like Add but panics on error. It is intended for the
// deterministic registration of built-in types.
func (r *Registry) MustAdd(size int64, name string) int32 {
	index, err := r.Add(size, name)
	if err != nil {
		panic(err)
	}
	return index
}

// Lookup resolves a type name to its descriptor.
func (r *Registry) Lookup(name string) (Type, bool) {
	index, ok := r.byName.Get(name)
	if !ok {
		return Type{}, false
	}
	return r.types[index], true
}

// ByIndex returns the type descriptor at the given index, which must be
// valid.
func (r *Registry) ByIndex(index int32) Type {
	return r.types[index]
}

// Len returns the number of registered types.
func (r *Registry) Len() int { return len(r.types) }
