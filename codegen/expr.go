// expr.go contains the code for lowering expression-level nodes. Each
// one leaves exactly one value on top of the runtime stack.

package codegen

import (
	"fmt"

	"github.com/benhoyle/ninecc/ast"
	"github.com/benhoyle/ninecc/diagnostics"
)

// genExpr lowers an expression, leaving its value on top of the
// stack.
func (g *Generator) genExpr(e ast.Expr) error {
	switch n := e.(type) {

	case *ast.Num:
		fmt.Fprintf(&g.out, "  push %d\n", n.Value)
		return nil

	case *ast.LVar:
		if err := g.genAddr(n); err != nil {
			return err
		}
		g.out.WriteString("  pop rax\n")
		g.out.WriteString("  mov rax, [rax]\n")
		g.out.WriteString("  push rax\n")
		return nil

	case *ast.Assign:
		if err := g.genAddr(n.LHS); err != nil {
			return err
		}
		if err := g.genExpr(n.RHS); err != nil {
			return err
		}
		g.out.WriteString("  pop rdi\n")
		g.out.WriteString("  pop rax\n")
		g.out.WriteString("  mov [rax], rdi\n")
		g.out.WriteString("  push rdi\n")
		return nil

	case *ast.BinOp:
		return g.genBinOp(n)

	case *ast.Call:
		return g.genCall(n)

	default:
		return diagnostics.New("codegen: unhandled expression %T", e)
	}
}

// genAddr pushes the effective address of an lvalue. The only
// lvalue this language has is a local variable; anything else is the
// "left value must be a variable" fatal error of spec.md §3/§4.4.
func (g *Generator) genAddr(e ast.Expr) error {
	lv, ok := e.(*ast.LVar)
	if !ok {
		return diagnostics.New("left value must be a variable")
	}
	g.out.WriteString("  mov rax, rbp\n")
	fmt.Fprintf(&g.out, "  sub rax, %d\n", lv.Offset)
	g.out.WriteString("  push rax\n")
	return nil
}

// genBinOp evaluates both operands, left then right, pops them into
// rax/rdi and emits the matching instruction.
func (g *Generator) genBinOp(n *ast.BinOp) error {
	if err := g.genExpr(n.LHS); err != nil {
		return err
	}
	if err := g.genExpr(n.RHS); err != nil {
		return err
	}
	g.out.WriteString("  pop rdi\n")
	g.out.WriteString("  pop rax\n")

	switch n.Op {
	case ast.Add:
		g.out.WriteString("  add rax, rdi\n")
	case ast.Sub:
		g.out.WriteString("  sub rax, rdi\n")
	case ast.Mul:
		g.out.WriteString("  imul rax, rdi\n")
	case ast.Div:
		g.out.WriteString("  cqo\n")
		// NOTE: this two-register idiv form is not valid assembler
		// syntax on every backend - see spec.md §9's "latent
		// correctness issue" note. Preserved deliberately, not fixed.
		g.out.WriteString("  idiv rax, rdi\n")
	case ast.Eq:
		g.out.WriteString("  cmp rax, rdi\n")
		g.out.WriteString("  sete al\n")
		g.out.WriteString("  movzb rax, al\n")
	case ast.Ne:
		g.out.WriteString("  cmp rax, rdi\n")
		g.out.WriteString("  setne al\n")
		g.out.WriteString("  movzb rax, al\n")
	case ast.Lt:
		g.out.WriteString("  cmp rax, rdi\n")
		g.out.WriteString("  setl al\n")
		g.out.WriteString("  movzb rax, al\n")
	case ast.Le:
		g.out.WriteString("  cmp rax, rdi\n")
		g.out.WriteString("  setle al\n")
		g.out.WriteString("  movzb rax, al\n")
	default:
		return diagnostics.New("codegen: unhandled binary operator %v", n.Op)
	}

	g.out.WriteString("  push rax\n")
	return nil
}

// genCall evaluates each argument left-to-right, popping each one
// into its calling-convention register immediately after it is
// computed, then calls the named function and pushes its result.
//
// The stack is not aligned to 16 bytes before the call - see
// spec.md §4.4/§9's note on calls into variadic libc functions.
// Preserved deliberately, not fixed.
func (g *Generator) genCall(n *ast.Call) error {
	if len(n.Args) > len(argRegisters) {
		return diagnostics.New("call to %q has more than %d arguments", n.Name, len(argRegisters))
	}

	for i, arg := range n.Args {
		if err := g.genExpr(arg); err != nil {
			return err
		}
		fmt.Fprintf(&g.out, "  pop %s\n", argRegisters[i])
	}

	fmt.Fprintf(&g.out, "  call %s\n", n.Name)
	g.out.WriteString("  push rax\n")
	return nil
}
