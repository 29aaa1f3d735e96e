package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCompiler(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

// The seven end-to-end scenarios of spec.md §8. We don't shell out to
// an assembler/linker (that's explicitly out of scope, spec.md §1),
// so these check that the emitted assembly has the shape that would
// produce the documented exit code: the right control flow, the
// right call target, the right comparison instructions.
func TestScenario1_ReturnLiteral(t *testing.T) {
	code, out, _ := runCompiler(t, "main(){ return 42; }")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "push 42")
}

func TestScenario2_ArithmeticAndAssignment(t *testing.T) {
	code, out, _ := runCompiler(t, "main(){ a = 3; b = 5 * 6 - 8; return a + b / 2; }")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "imul rax, rdi")
	assert.Contains(t, out, "idiv rax, rdi")
}

func TestScenario3_Comparisons(t *testing.T) {
	code, out, _ := runCompiler(t, "main(){ return 1 < 2; }")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "setl al")

	code, out, _ = runCompiler(t, "main(){ return 2 <= 2; }")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "setle al")
}

func TestScenario4_WhileLoop(t *testing.T) {
	code, out, _ := runCompiler(t, "main(){ a = 0; i = 0; while (i < 10) { a = a + i; i = i + 1; } return a; }")
	require.Equal(t, 0, code)
	assert.Contains(t, out, ".Lbegin0:")
	assert.Contains(t, out, ".Lend0:")
}

func TestScenario5_ForLoopWithIfElse(t *testing.T) {
	code, out, _ := runCompiler(t, "main(){ s = 0; for (i = 0; i < 5; i = i + 1) { if (i == 3) { s = s + 100; } else { s = s + i; } } return s; }")
	require.Equal(t, 0, code)
	assert.Contains(t, out, ".Lelse")
}

func TestScenario6_FunctionCalls(t *testing.T) {
	code, out, _ := runCompiler(t, "add(a,b){ return a+b; } main(){ return add(3, add(4, 5)); }")
	require.Equal(t, 0, code)
	assert.Contains(t, out, ".global add")
	assert.Contains(t, out, ".global main")
	assert.Equal(t, 2, strings.Count(out, "call add"))
}

func TestScenario7_BreakOutOfWhileTrue(t *testing.T) {
	code, out, _ := runCompiler(t, "main(){ i = 0; while (1) { if (i == 7) { break; } i = i + 1; } return i; }")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "jmp .Lend0")
}

func TestErrorScenario_AssignToNonLValue(t *testing.T) {
	code, _, errOut := runCompiler(t, "main(){ 1 = 2; }")
	assert.NotEqual(t, 0, code)
	assert.Contains(t, errOut, "left value must be a variable")
}

func TestErrorScenario_BreakOutsideLoop(t *testing.T) {
	code, _, errOut := runCompiler(t, "main(){ break; }")
	assert.NotEqual(t, 0, code)
	assert.NotEmpty(t, errOut)
}

func TestErrorScenario_LexicalErrorPointsAtOffendingCharacter(t *testing.T) {
	code, _, errOut := runCompiler(t, "main(){ 1 @ 2; }")
	assert.NotEqual(t, 0, code)
	assert.Contains(t, errOut, "^")
}

func TestWrongArgumentCountExitsNonZero(t *testing.T) {
	code, _, errOut := runCompiler(t)
	assert.NotEqual(t, 0, code)
	assert.Contains(t, errOut, "Usage")

	code, _, _ = runCompiler(t, "main(){ return 1; }", "extra")
	assert.NotEqual(t, 0, code)
}

func TestMissingMainFunctionIsAnError(t *testing.T) {
	code, _, errOut := runCompiler(t, "notmain(){ return 1; }")
	assert.NotEqual(t, 0, code)
	assert.Contains(t, errOut, "main")
}

func TestDumpFlagsDoNotChangeCompilationResult(t *testing.T) {
	code, out, _ := runCompiler(t, "-dump-tokens", "-dump-ast", "-trace", "main(){ return 1; }")
	require.Equal(t, 0, code)
	assert.Contains(t, out, ".global main")
}
