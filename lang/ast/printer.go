package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer controls pretty-printing of the AST nodes: one node per line,
// children indented under their parent.
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer

	// Positions prints the start position of each node when set.
	Positions bool

	// NodeFmt is the format string to use to print the nodes. The verb
	// must be either 's' or 'v' and the '#' flag is supported. Defaults
	// to "%v".
	NodeFmt string
}

// Print pretty-prints the AST rooted at n.
func (p *Printer) Print(n Node) error {
	pp := &printer{
		w:       p.Output,
		pos:     p.Positions,
		nodeFmt: p.NodeFmt,
	}
	if pp.nodeFmt == "" {
		pp.nodeFmt = "%v"
	}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w       io.Writer
	pos     bool
	nodeFmt string
	depth   int
	err     error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit || p.err != nil {
		p.depth--
		return nil
	}

	p.depth++
	p.printNode(n, p.depth-1)
	return p
}

func (p *printer) printNode(n Node, indent int) {
	if p.err != nil {
		return
	}

	format := "%s"
	args := []interface{}{strings.Repeat(". ", indent)}
	if p.pos {
		start, _ := n.Span()
		format += "[%s] "
		args = append(args, start)
	}
	format += p.nodeFmt + "\n"
	args = append(args, n)

	_, p.err = fmt.Fprintf(p.w, format, args...)
}
