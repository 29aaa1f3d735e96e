// Package codegen implements the code generator described in
// spec.md §4.4: a recursive tree walk emitting a stack machine over
// x86-64, Intel syntax, System V AMD64 calling convention.
//
// Every expression leaves exactly one machine word on the runtime
// stack; statements pop and discard whatever their expression leaves
// behind. The generator threads the innermost loop's break target
// through recursive calls using the stack package, rather than the
// string-parameter-passing this lineage historically used (spec.md
// §9 "Threading the break target").
package codegen

import (
	"fmt"
	"strings"

	"github.com/benhoyle/ninecc/ast"
	"github.com/benhoyle/ninecc/diagnostics"
	"github.com/benhoyle/ninecc/stack"
)

// argRegisters is the System V AMD64 integer argument-passing order.
var argRegisters = []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}

// Generator holds the state a code-generation pass needs beyond the
// AST itself: the assembly text built so far and the stack of
// enclosing loops' break targets.
type Generator struct {
	out    strings.Builder
	breaks *stack.Stack
}

// Generate lowers an entire program to assembly text, beginning with
// the .intel_syntax noprefix directive and emitting each function in
// source order.
func Generate(prog *ast.Program) (string, error) {
	g := &Generator{breaks: stack.New()}

	g.out.WriteString(".intel_syntax noprefix\n")

	for _, fn := range prog.Funcs {
		if err := g.genFunc(fn); err != nil {
			return "", err
		}
	}

	return g.out.String(), nil
}

// genFunc emits one function's prologue, body and epilogue.
func (g *Generator) genFunc(fn *ast.FuncDef) error {
	fmt.Fprintf(&g.out, ".global %s\n%s:\n", fn.Name, fn.Name)
	g.out.WriteString("  push rbp\n")
	g.out.WriteString("  mov rbp, rsp\n")
	if fn.FrameSize > 0 {
		fmt.Fprintf(&g.out, "  sub rsp, %d\n", fn.FrameSize)
	}

	if len(fn.Params) > len(argRegisters) {
		return diagnostics.New("function %q has more than %d parameters", fn.Name, len(argRegisters))
	}
	for i, p := range fn.Params {
		fmt.Fprintf(&g.out, "  mov [rbp-%d], %s\n", p.Offset, argRegisters[i])
	}

	if err := g.genStmt(fn.Body); err != nil {
		return err
	}

	g.emitEpilogue()
	return nil
}

// emitEpilogue restores the caller's frame and returns. It is emitted
// both directly after a "return" statement's expression and once more
// at the end of every function body, for implicit fall-through.
func (g *Generator) emitEpilogue() {
	g.out.WriteString("  mov rsp, rbp\n")
	g.out.WriteString("  pop rbp\n")
	g.out.WriteString("  ret\n")
}
