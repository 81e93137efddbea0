package ast

import (
	"fmt"

	"github.com/mna/virel/lang/token"
)

type (
	// Block represents a braced block of statements, or the singleton
	// block produced by the "do" keyword.
	Block struct {
		// Start is the position of the opening brace, or of the "do"
		// keyword for singleton blocks.
		Start token.Pos
		// End is the position of the closing brace; for singleton blocks
		// it is the end of the single statement.
		End   token.Pos
		Stmts []Stmt
	}

	// ExprStmt represents an expression used as a statement.
	ExprStmt struct {
		Expr Expr
		Semi token.Pos
	}

	// DeclStmt represents a variable declaration:
	// var NAME [: TYPENAME] [= expr] ;
	// At least one of TypeName and Init is present. The Type annotation
	// is resolved by the checker, from TypeName or from Init.
	DeclStmt struct {
		Var      token.Pos
		Name     token.Token
		TypeName *token.Token // nil when the type is deduced from Init
		Init     Expr         // nil when default-initialised
		Semi     token.Pos
		typ      TypeInfo
	}

	// IfStmt represents an if statement, with an optional else branch.
	// Else is either a *Block or, for elif chains, another *IfStmt.
	IfStmt struct {
		If   token.Pos
		Cond Expr
		Then *Block
		Else Stmt // nil, *Block or *IfStmt
	}
)

func (n *Block) stmt() {}
func (n *Block) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Block) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

func (n *ExprStmt) stmt() {}
func (n *ExprStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "exprstmt", nil)
}
func (n *ExprStmt) Span() (start, end token.Pos) {
	start, _ = n.Expr.Span()
	return start, n.Semi
}
func (n *ExprStmt) Walk(v Visitor) {
	Walk(v, n.Expr)
}

func (n *DeclStmt) stmt() {}

// Type returns the type annotation of the declared variable.
func (n *DeclStmt) Type() *TypeInfo { return &n.typ }

func (n *DeclStmt) Format(f fmt.State, verb rune) {
	label := "var " + n.Name.Lexeme
	if n.TypeName != nil {
		label += ": " + n.TypeName.Lexeme
	}
	format(f, verb, n, label, nil)
}
func (n *DeclStmt) Span() (start, end token.Pos) { return n.Var, n.Semi }
func (n *DeclStmt) Walk(v Visitor) {
	if n.Init != nil {
		Walk(v, n.Init)
	}
}

func (n *IfStmt) stmt() {}
func (n *IfStmt) Format(f fmt.State, verb rune) {
	counts := map[string]int{}
	if n.Else != nil {
		counts["else"] = 1
	}
	format(f, verb, n, "if", counts)
}
func (n *IfStmt) Span() (start, end token.Pos) {
	if n.Else != nil {
		_, end = n.Else.Span()
	} else {
		_, end = n.Then.Span()
	}
	return n.If, end
}
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}
