// Package ast defines the types that represent the abstract syntax tree
// (AST) of the source language: expressions, statements and blocks, plus
// a tree printer and a canonical source writer.
//
// Expression nodes carry a mutable type annotation (TypeInfo) that the
// type checker resolves exactly once; the zero value is "unresolved".
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mna/virel/lang/token"
)

// Node represents any node in the AST.
type Node interface {
	// Every Node implements the fmt.Formatter interface so they can print
	// a description of themselves. The only supported verbs are 'v' and
	// 's'; the '#' flag adds count information about children nodes.
	fmt.Formatter

	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)

	// Walk enters each node inside itself to implement the Visitor
	// pattern.
	Walk(v Visitor)
}

// Expr represents an expression in the AST.
type Expr interface {
	Node

	// Type returns the type annotation of the expression.
	Type() *TypeInfo

	expr()
}

// Stmt represents a statement in the AST.
type Stmt interface {
	Node
	stmt()
}

// TypeInfo is the type annotation assigned to an expression by the type
// checker. The zero value is unresolved; Resolve sets the type index
// once and subsequent checker passes short-circuit on Resolved.
type TypeInfo struct {
	index    int32
	resolved bool
}

// Resolved returns true once a type index has been assigned.
func (t *TypeInfo) Resolved() bool { return t.resolved }

// TypeIndex returns the assigned type index. It is only meaningful when
// Resolved reports true.
func (t *TypeInfo) TypeIndex() int32 { return t.index }

// Resolve assigns the type index. Resolving an already-resolved
// annotation is ignored so that deduction stays idempotent.
func (t *TypeInfo) Resolve(index int32) {
	if t.resolved {
		return
	}
	t.index = index
	t.resolved = true
}

// Chunk is the root of a parsed source file: the top-level block plus
// the name the chunk was parsed under (usually a filename).
type Chunk struct {
	// Name is the filename, which may be empty if the chunk is not a
	// file.
	Name string

	// Block is the top-level block of statements.
	Block *Block

	// EOF is the position of the end-of-file marker, useful for empty
	// chunks to get a valid position.
	EOF token.Pos
}

func (n *Chunk) Format(f fmt.State, verb rune) { format(f, verb, n, "chunk", nil) }
func (n *Chunk) Span() (start, end token.Pos) {
	if n.Block != nil {
		return n.Block.Span()
	}
	return n.EOF, n.EOF
}
func (n *Chunk) Walk(v Visitor) {
	if n.Block != nil {
		Walk(v, n.Block)
	}
}

func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}

	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}

func quoteLexeme(lex string) string {
	if strings.ContainsAny(lex, " \t\n") {
		return fmt.Sprintf("%q", lex)
	}
	return lex
}
