// stmt.go contains the code for lowering statement-level nodes.

package codegen

import (
	"fmt"

	"github.com/benhoyle/ninecc/ast"
	"github.com/benhoyle/ninecc/diagnostics"
)

// genStmt lowers a single statement, emitting zero or more
// instructions and leaving the runtime stack at the same depth it
// found it (spec.md §8 "stack-machine invariant").
func (g *Generator) genStmt(s ast.Stmt) error {
	switch n := s.(type) {

	case *ast.Block:
		for _, inner := range n.Stmts {
			if err := g.genStmt(inner); err != nil {
				return err
			}
		}
		return nil

	case *ast.ExprStmt:
		// The expression's value isn't needed; pop it to discard.
		if err := g.genExpr(n.X); err != nil {
			return err
		}
		g.out.WriteString("  pop rax\n")
		return nil

	case *ast.Return:
		if err := g.genExpr(n.Expr); err != nil {
			return err
		}
		g.out.WriteString("  pop rax\n")
		g.emitEpilogue()
		return nil

	case *ast.If:
		return g.genIf(n)

	case *ast.While:
		return g.genWhile(n)

	case *ast.For:
		return g.genFor(n)

	case *ast.Break:
		return g.genBreak()

	default:
		return diagnostics.New("codegen: unhandled statement %T", s)
	}
}

func (g *Generator) genIf(n *ast.If) error {
	if err := g.genExpr(n.Cond); err != nil {
		return err
	}
	g.out.WriteString("  pop rax\n")
	g.out.WriteString("  cmp rax, 0\n")

	if n.Else != nil {
		fmt.Fprintf(&g.out, "  je .Lelse%d\n", n.Label)
		if err := g.genStmt(n.Then); err != nil {
			return err
		}
		fmt.Fprintf(&g.out, "  jmp .Lend%d\n", n.Label)
		fmt.Fprintf(&g.out, ".Lelse%d:\n", n.Label)
		if err := g.genStmt(n.Else); err != nil {
			return err
		}
		fmt.Fprintf(&g.out, ".Lend%d:\n", n.Label)
		return nil
	}

	fmt.Fprintf(&g.out, "  je .Lend%d\n", n.Label)
	if err := g.genStmt(n.Then); err != nil {
		return err
	}
	fmt.Fprintf(&g.out, ".Lend%d:\n", n.Label)
	return nil
}

func (g *Generator) genWhile(n *ast.While) error {
	fmt.Fprintf(&g.out, ".Lbegin%d:\n", n.Label)
	if err := g.genExpr(n.Cond); err != nil {
		return err
	}
	g.out.WriteString("  pop rax\n")
	g.out.WriteString("  cmp rax, 0\n")
	fmt.Fprintf(&g.out, "  je .Lend%d\n", n.Label)

	g.breaks.Push(fmt.Sprintf(".Lend%d", n.Label))
	err := g.genStmt(n.Body)
	g.breaks.Pop() //nolint:errcheck // we just pushed this entry ourselves
	if err != nil {
		return err
	}

	fmt.Fprintf(&g.out, "  jmp .Lbegin%d\n", n.Label)
	fmt.Fprintf(&g.out, ".Lend%d:\n", n.Label)
	return nil
}

func (g *Generator) genFor(n *ast.For) error {
	if n.Init != nil {
		if err := g.genExpr(n.Init); err != nil {
			return err
		}
		g.out.WriteString("  pop rax\n")
	}

	fmt.Fprintf(&g.out, ".Lbegin%d:\n", n.Label)

	if n.Cond != nil {
		if err := g.genExpr(n.Cond); err != nil {
			return err
		}
		g.out.WriteString("  pop rax\n")
		g.out.WriteString("  cmp rax, 0\n")
		fmt.Fprintf(&g.out, "  je .Lend%d\n", n.Label)
	}

	g.breaks.Push(fmt.Sprintf(".Lend%d", n.Label))
	err := g.genStmt(n.Body)
	g.breaks.Pop() //nolint:errcheck // we just pushed this entry ourselves
	if err != nil {
		return err
	}

	if n.Step != nil {
		if err := g.genExpr(n.Step); err != nil {
			return err
		}
		g.out.WriteString("  pop rax\n")
	}

	fmt.Fprintf(&g.out, "  jmp .Lbegin%d\n", n.Label)
	fmt.Fprintf(&g.out, ".Lend%d:\n", n.Label)
	return nil
}

// genBreak lowers "break;" to a jump to the innermost enclosing
// loop's end label. It is a fatal error outside of a loop.
func (g *Generator) genBreak() error {
	if g.breaks.Empty() {
		return diagnostics.New("break used outside of a loop")
	}
	target, err := g.breaks.Peek()
	if err != nil {
		return diagnostics.New("break used outside of a loop")
	}
	fmt.Fprintf(&g.out, "  jmp %s\n", target)
	return nil
}
