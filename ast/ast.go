// Package ast defines the tree the parser builds and the code
// generator walks.
//
// Node kinds are split into two small interfaces, Expr and Stmt,
// rather than the single tagged-record-with-optional-slots design this
// compiler's lineage historically used: Go's type system already
// gives us the "is this an expression or a statement" distinction for
// free, so there is no need for an expression-sentinel flag.
package ast

// Expr is any node that leaves exactly one value on the generator's
// stack machine.
type Expr interface {
	exprNode()
}

// Stmt is any node that the code generator lowers at statement level.
type Stmt interface {
	stmtNode()
}

// Num is an integer literal.
type Num struct {
	Value int64
}

// LVar is a reference to a local variable, already resolved to its
// byte offset from the frame base pointer.
type LVar struct {
	Name   string
	Offset int
}

// Assign is "lhs = rhs". lhs must reduce to an *LVar; that invariant
// is checked at codegen time (see spec.md §3), not here, since parsing
// alone cannot rule out "1 = 2" without duplicating the grammar.
type Assign struct {
	LHS, RHS Expr
}

// BinOp is a binary arithmetic or comparison operator.
type BinOp struct {
	Op       BinOpKind
	LHS, RHS Expr
}

// BinOpKind enumerates the binary operators.
type BinOpKind int

const (
	Add BinOpKind = iota
	Sub
	Mul
	Div
	Eq
	Ne
	// Lt and Le always hold their operands already normalized: a > b
	// is parsed as b < a, and a >= b as b <= a, per spec.md §3/§4.2.
	Lt
	Le
)

// Call is a function call with up to six arguments, evaluated
// left-to-right.
type Call struct {
	Name string
	Args []Expr
}

// Return is "return expr ;".
type Return struct {
	Expr Expr
}

// If is "if (cond) then [else else_]". Else is nil when absent.
type If struct {
	Label int
	Cond  Expr
	Then  Stmt
	Else  Stmt
}

// While is "while (cond) body".
type While struct {
	Label int
	Cond  Expr
	Body  Stmt
}

// For is "for (init?; cond?; step?) body". Init, Cond and Step are nil
// when omitted; a nil Cond means the loop is unconditional.
type For struct {
	Label int
	Init  Expr
	Cond  Expr
	Step  Expr
	Body  Stmt
}

// Break is "break ;". It is only valid lexically inside a loop body;
// that constraint is enforced by the code generator (spec.md §4.4),
// since the grammar alone cannot exclude it from every expression
// context it might nest under.
type Break struct{}

// Block is an ordered sequence of statements. A function body's first
// statement is always a Block.
type Block struct {
	Stmts []Stmt
}

// FuncDef is a top-level function definition.
type FuncDef struct {
	Name   string
	Params []*LVar
	Body   *Block
	FuncID int

	// FrameSize is 8 times the number of locals (including
	// parameters) this function declared - the amount the prologue
	// subtracts from rsp.
	FrameSize int
}

// Program is the whole parsed input: one or more function definitions,
// at least one of which must be named "main".
type Program struct {
	Funcs []*FuncDef
}

func (*Num) exprNode()    {}
func (*LVar) exprNode()   {}
func (*Assign) exprNode() {}
func (*BinOp) exprNode()  {}
func (*Call) exprNode()   {}

func (*Return) stmtNode() {}
func (*If) stmtNode()     {}
func (*While) stmtNode()  {}
func (*For) stmtNode()    {}
func (*Break) stmtNode()  {}
func (*Block) stmtNode()  {}

// ExprStmt wraps an expression used as a statement (e.g. "a = 1;" or
// a bare call). The code generator pops and discards its value right
// after evaluating it, wherever the statement appears.
type ExprStmt struct {
	X Expr
}

func (*ExprStmt) stmtNode() {}
