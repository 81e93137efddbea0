package token

// Operator precedence. Lower values bind tighter, and the parity of the
// value encodes associativity: even is left-associative, odd is
// right-associative. All unary operators share the single UnaryPrec
// level, which is tighter than every binary level.
const (
	UnaryPrec   = 7
	NotOperator = -1
)

var precedence = [maxKind]int{
	ILLEGAL:       NotOperator,
	ELSE:          NotOperator,
	FUNCTION:      NotOperator,
	FOR:           NotOperator,
	IF:            NotOperator,
	RETURN:        NotOperator,
	VAR:           NotOperator,
	WHILE:         NotOperator,
	DO:            NotOperator,
	PLUS:          12,
	MINUS:         12,
	STAR:          10,
	SLASH:         10,
	PERCENT:       10,
	PIPE:          26,
	AMPERSAND:     22,
	CIRCUMFLEX:    24,
	TILDE:         UnaryPrec,
	PLUS_EQ:       35,
	MINUS_EQ:      35,
	STAR_EQ:       35,
	SLASH_EQ:      35,
	PERCENT_EQ:    35,
	PIPE_EQ:       35,
	AMP_EQ:        35,
	CIRCUMFLEX_EQ: 35,
	EQ:            35,
	BANG:          UnaryPrec,
	NEQ:           20,
	EQL:           20,
	LT:            18,
	LE:            18,
	GT:            18,
	GE:            18,
	PIPEPIPE:      32,
	AMPAMP:        28,
	CARETCARET:    30,
	UNARY_PLUS:    UnaryPrec,
	UNARY_MINUS:   UnaryPrec,
	UNARY_REF:     UnaryPrec,
	UNARY_DEREF:   UnaryPrec,
	COMMA:         NotOperator,
	SEMI:          NotOperator,
	DOT:           NotOperator,
	COLON:         NotOperator,
	QUESTION:      NotOperator,
	LBRACE:        NotOperator,
	RBRACE:        NotOperator,
	LPAREN:        NotOperator,
	RPAREN:        NotOperator,
	LBRACK:        NotOperator,
	RBRACK:        NotOperator,
	CHARACTER:     NotOperator,
	NUMBER:        NotOperator,
	BOOLEAN:       NotOperator,
	STRING:        NotOperator,
	NAME:          NotOperator,
	EOF:           NotOperator,
}

// Precedence returns the operator precedence of k, or NotOperator if k
// is not an operator.
func (k Kind) Precedence() int { return precedence[k] }

// IsOperator returns true if k has an entry in the precedence table.
func (k Kind) IsOperator() bool { return precedence[k] != NotOperator }

// LeftAssoc returns true if k is a left-associative operator (even
// precedence value).
func (k Kind) LeftAssoc() bool {
	p := precedence[k]
	return p != NotOperator && p%2 == 0
}

// IsUnary returns true if k sits on the unary precedence level. The
// parser folds such operators with a single operand.
func (k Kind) IsUnary() bool { return precedence[k] == UnaryPrec }

var unaryForms = map[Kind]Kind{
	PLUS:      UNARY_PLUS,
	MINUS:     UNARY_MINUS,
	AMPERSAND: UNARY_REF,
	STAR:      UNARY_DEREF,
}

// HasUnaryForm returns true if k is a binary operator token that the
// parser may rewrite to a unary form when it appears in unary position.
func (k Kind) HasUnaryForm() bool {
	_, ok := unaryForms[k]
	return ok
}

// UnaryForm returns the unary Kind for k (e.g. MINUS to UNARY_MINUS).
// It returns k unchanged if k has no unary form.
func (k Kind) UnaryForm() Kind {
	if u, ok := unaryForms[k]; ok {
		return u
	}
	return k
}
