package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benhoyle/ninecc/parser"
)

func compile(t *testing.T, source string) string {
	t.Helper()
	prog, err := parser.Parse(source)
	require.NoError(t, err)
	out, err := Generate(prog)
	require.NoError(t, err)
	return out
}

func TestHeaderAndPerFunctionLabels(t *testing.T) {
	out := compile(t, "main(){ return 42; }")

	assert.True(t, strings.HasPrefix(out, ".intel_syntax noprefix\n"))
	assert.Contains(t, out, ".global main\n")
	assert.Contains(t, out, "main:\n")
	assert.Contains(t, out, "push 42\n")
	assert.Contains(t, out, "pop rax\n")
	assert.Contains(t, out, "mov rsp, rbp\n")
	assert.Contains(t, out, "pop rbp\n")
	assert.Contains(t, out, "ret\n")
}

func TestFrameSizeOmittedWhenZero(t *testing.T) {
	out := compile(t, "main(){ return 1; }")
	assert.NotContains(t, out, "sub rsp,")
}

func TestFrameSizeReservedWhenLocalsArePresent(t *testing.T) {
	out := compile(t, "main(){ a = 1; return a; }")
	assert.Contains(t, out, "sub rsp, 8\n")
}

func TestParametersAreSpilledFromArgumentRegisters(t *testing.T) {
	out := compile(t, "add(a,b){ return a+b; }")
	assert.Contains(t, out, "mov [rbp-8], rdi\n")
	assert.Contains(t, out, "mov [rbp-16], rsi\n")
}

func TestDivisionUsesCqoAndTheQuirkyIdivForm(t *testing.T) {
	out := compile(t, "main(){ return 4/2; }")
	assert.Contains(t, out, "cqo\n")
	assert.Contains(t, out, "idiv rax, rdi\n")
}

func TestComparisonsEmitSetccThenMovzb(t *testing.T) {
	out := compile(t, "main(){ return 1 < 2; }")
	assert.Contains(t, out, "cmp rax, rdi\n")
	assert.Contains(t, out, "setl al\n")
	assert.Contains(t, out, "movzb rax, al\n")
}

func TestCallLowersArgumentsIntoRegistersThenCalls(t *testing.T) {
	out := compile(t, "add(a,b){ return a+b; } main(){ return add(3,4); }")
	assert.Contains(t, out, "call add\n")
	// immediately after each argument is computed, it's popped into
	// its register, in order.
	idx := strings.Index(out, "push 3\n")
	require.GreaterOrEqual(t, idx, 0)
	rest := out[idx:]
	assert.True(t, strings.Index(rest, "pop rdi\n") < strings.Index(rest, "push 4\n"))
}

func TestIfWithoutElse(t *testing.T) {
	out := compile(t, "main(){ if (1) { return 1; } return 0; }")
	assert.Contains(t, out, "je .Lend0\n")
	assert.Contains(t, out, ".Lend0:\n")
	assert.NotContains(t, out, ".Lelse0")
}

func TestIfWithElse(t *testing.T) {
	out := compile(t, "main(){ if (1) { return 1; } else { return 2; } }")
	assert.Contains(t, out, "je .Lelse0\n")
	assert.Contains(t, out, "jmp .Lend0\n")
	assert.Contains(t, out, ".Lelse0:\n")
	assert.Contains(t, out, ".Lend0:\n")
}

func TestWhileLoopStructure(t *testing.T) {
	out := compile(t, "main(){ i=0; while (i<10) { i=i+1; } return i; }")
	assert.Contains(t, out, ".Lbegin0:\n")
	assert.Contains(t, out, "je .Lend0\n")
	assert.Contains(t, out, "jmp .Lbegin0\n")
	assert.Contains(t, out, ".Lend0:\n")
}

func TestForLoopWithAllClauses(t *testing.T) {
	out := compile(t, "main(){ s=0; for (i=0; i<5; i=i+1) { s=s+i; } return s; }")
	assert.Contains(t, out, ".Lbegin0:\n")
	assert.Contains(t, out, ".Lend0:\n")
}

func TestBreakJumpsToInnermostLoopEnd(t *testing.T) {
	out := compile(t, "main(){ i=0; while (1) { if (i==7) { break; } i=i+1; } return i; }")
	assert.Contains(t, out, "jmp .Lend0\n")
}

func TestBreakOutsideLoopIsFatal(t *testing.T) {
	prog, err := parser.Parse("main(){ break; return 1; }")
	require.NoError(t, err)

	_, err = Generate(prog)
	assert.Error(t, err)
}

func TestAssignToNonLValueIsFatal(t *testing.T) {
	prog, err := parser.Parse("main(){ 1 = 2; }")
	require.NoError(t, err)

	_, err = Generate(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "left value must be a variable")
}

func TestReturnEmitsEpilogueInline(t *testing.T) {
	out := compile(t, "main(){ if (1) { return 1; } return 2; }")
	// the inline-return epilogue, plus the trailing fall-through
	// epilogue, means "ret" appears (at least) twice.
	assert.GreaterOrEqual(t, strings.Count(out, "ret\n"), 2)
}
