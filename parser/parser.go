// Package parser implements the recursive-descent parser described in
// spec.md §4.2: it consumes the token stream the lexer produces and
// builds a forest of function-definition trees, interning each
// function's local variables as it goes.
package parser

import (
	"github.com/benhoyle/ninecc/ast"
	"github.com/benhoyle/ninecc/diagnostics"
	"github.com/benhoyle/ninecc/lexer"
	"github.com/benhoyle/ninecc/token"
)

const maxParams = 6

// Parser holds every piece of state the original lineage kept in
// package-level variables - the source, the token cursor, the
// per-function locals tables and the label counter - gathered into
// one value instead, per spec.md §9's "Global compiler state" note.
type Parser struct {
	source string
	toks   []token.Token
	pos    int

	locals       []*Locals
	curFunc      int
	labelCounter int
}

// Parse scans and parses source, returning the program's function
// definitions in source order.
func Parse(source string) (*ast.Program, error) {
	p := &Parser{source: source}
	if err := p.tokenize(); err != nil {
		return nil, err
	}
	return p.parseProgram()
}

func (p *Parser) tokenize() error {
	lx := lexer.New(p.source)
	for {
		tok, err := lx.NextToken()
		if err != nil {
			return err
		}
		p.toks = append(p.toks, tok)
		if tok.Kind == token.EOF {
			return nil
		}
	}
}

func (p *Parser) cur() token.Token { return p.toks[p.pos] }
func (p *Parser) advance()         { p.pos++ }
func (p *Parser) atEOF() bool      { return p.cur().Kind == token.EOF }

// at reports whether the current token's spelling is lit (used for
// punctuation and keywords).
func (p *Parser) at(lit string) bool {
	return p.cur().Is(lit)
}

// errorf builds a diagnostic pointing at the current token.
func (p *Parser) errorf(format string, args ...interface{}) error {
	return diagnostics.At(p.source, p.cur().Offset, format, args...)
}

// expect consumes the current token if its spelling is lit, else
// returns a fatal "expected X" diagnostic.
func (p *Parser) expect(lit string) error {
	if !p.at(lit) {
		return p.errorf("expected %q", lit)
	}
	p.advance()
	return nil
}

// expectIdent consumes and returns the current token if it is an
// identifier, else returns a fatal diagnostic.
func (p *Parser) expectIdent() (token.Token, error) {
	if p.cur().Kind != token.IDENT {
		return token.Token{}, p.errorf("expected an identifier")
	}
	tok := p.cur()
	p.advance()
	return tok, nil
}

func (p *Parser) nextLabel() int {
	id := p.labelCounter
	p.labelCounter++
	return id
}

// parseProgram = func_def+
func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}

	for !p.atEOF() {
		fn, err := p.parseFuncDef()
		if err != nil {
			return nil, err
		}
		prog.Funcs = append(prog.Funcs, fn)
	}

	if len(prog.Funcs) == 0 {
		return nil, diagnostics.New("program contains no function definitions")
	}

	return prog, nil
}

// parseFuncDef = ident "(" (ident ("," ident)*)? ")" "{" stmt* "}"
func (p *Parser) parseFuncDef() (*ast.FuncDef, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	funcID := len(p.locals)
	p.locals = append(p.locals, newLocals())
	p.curFunc = funcID

	if err := p.expect("("); err != nil {
		return nil, err
	}

	var params []*ast.LVar
	if !p.at(")") {
		for {
			pname, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			params = append(params, p.locals[funcID].lookupOrDeclare(pname.Lit))
			if !p.at(",") {
				break
			}
			p.advance()
		}
	}
	if len(params) > maxParams {
		return nil, p.errorf("function %q has more than %d parameters", name.Lit, maxParams)
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}

	if err := p.expect("{"); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for !p.at("}") {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}

	return &ast.FuncDef{
		Name:      name.Lit,
		Params:    params,
		Body:      &ast.Block{Stmts: stmts},
		FuncID:    funcID,
		FrameSize: p.locals[funcID].frameSize(),
	}, nil
}

// parseStmt implements every alternative of the "stmt" production.
func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.cur().Kind {
	case token.RETURN:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		return &ast.Return{Expr: e}, nil

	case token.IF:
		p.advance()
		if err := p.expect("("); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		label := p.nextLabel()
		then, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		var els ast.Stmt
		if p.cur().Kind == token.ELSE {
			p.advance()
			els, err = p.parseStmt()
			if err != nil {
				return nil, err
			}
		}
		return &ast.If{Label: label, Cond: cond, Then: then, Else: els}, nil

	case token.WHILE:
		p.advance()
		if err := p.expect("("); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		label := p.nextLabel()
		body, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		return &ast.While{Label: label, Cond: cond, Body: body}, nil

	case token.FOR:
		p.advance()
		if err := p.expect("("); err != nil {
			return nil, err
		}
		var init, cond, step ast.Expr
		var err error
		if !p.at(";") {
			if init, err = p.parseExpr(); err != nil {
				return nil, err
			}
		}
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		if !p.at(";") {
			if cond, err = p.parseExpr(); err != nil {
				return nil, err
			}
		}
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		if !p.at(")") {
			if step, err = p.parseExpr(); err != nil {
				return nil, err
			}
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		label := p.nextLabel()
		body, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		return &ast.For{Label: label, Init: init, Cond: cond, Step: step, Body: body}, nil

	case token.BREAK:
		p.advance()
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		return &ast.Break{}, nil

	default:
		if p.at("{") {
			p.advance()
			var stmts []ast.Stmt
			for !p.at("}") {
				s, err := p.parseStmt()
				if err != nil {
					return nil, err
				}
				stmts = append(stmts, s)
			}
			if err := p.expect("}"); err != nil {
				return nil, err
			}
			return &ast.Block{Stmts: stmts}, nil
		}

		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		return &ast.ExprStmt{X: e}, nil
	}
}

// parseExpr = assign
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseAssign()
}

// parseAssign = equality ("=" assign)?  (right-associative)
func (p *Parser) parseAssign() (ast.Expr, error) {
	lhs, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	if p.at("=") {
		p.advance()
		rhs, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{LHS: lhs, RHS: rhs}, nil
	}
	return lhs, nil
}

// parseEquality = relational (("==" | "!=") relational)*  (left-associative)
func (p *Parser) parseEquality() (ast.Expr, error) {
	lhs, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		var kind ast.BinOpKind
		switch {
		case p.at("=="):
			kind = ast.Eq
		case p.at("!="):
			kind = ast.Ne
		default:
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Op: kind, LHS: lhs, RHS: rhs}
	}
}

// parseRelational = add (("<"|"<="|">"|">=") add)*  (left-associative)
//
// ">" and ">=" are not distinct opcodes: the operands are swapped here
// so the generator only ever emits setl/setle, per spec.md §3/§4.4.
func (p *Parser) parseRelational() (ast.Expr, error) {
	lhs, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at("<"):
			p.advance()
			rhs, err := p.parseAdd()
			if err != nil {
				return nil, err
			}
			lhs = &ast.BinOp{Op: ast.Lt, LHS: lhs, RHS: rhs}
		case p.at("<="):
			p.advance()
			rhs, err := p.parseAdd()
			if err != nil {
				return nil, err
			}
			lhs = &ast.BinOp{Op: ast.Le, LHS: lhs, RHS: rhs}
		case p.at(">"):
			p.advance()
			rhs, err := p.parseAdd()
			if err != nil {
				return nil, err
			}
			lhs = &ast.BinOp{Op: ast.Lt, LHS: rhs, RHS: lhs}
		case p.at(">="):
			p.advance()
			rhs, err := p.parseAdd()
			if err != nil {
				return nil, err
			}
			lhs = &ast.BinOp{Op: ast.Le, LHS: rhs, RHS: lhs}
		default:
			return lhs, nil
		}
	}
}

// parseAdd = mul (("+"|"-") mul)*  (left-associative)
func (p *Parser) parseAdd() (ast.Expr, error) {
	lhs, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for {
		var kind ast.BinOpKind
		switch {
		case p.at("+"):
			kind = ast.Add
		case p.at("-"):
			kind = ast.Sub
		default:
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Op: kind, LHS: lhs, RHS: rhs}
	}
}

// parseMul = unary (("*"|"/") unary)*  (left-associative)
func (p *Parser) parseMul() (ast.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var kind ast.BinOpKind
		switch {
		case p.at("*"):
			kind = ast.Mul
		case p.at("/"):
			kind = ast.Div
		default:
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Op: kind, LHS: lhs, RHS: rhs}
	}
}

// parseUnary = ("+"|"-")? unary | primary  (right-associative, chainable)
//
// Unary "+" vanishes; unary "-x" is desugared to "0 - x", per
// spec.md §3.
func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.at("+") {
		p.advance()
		return p.parseUnary()
	}
	if p.at("-") {
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{Op: ast.Sub, LHS: &ast.Num{Value: 0}, RHS: x}, nil
	}
	return p.parsePrimary()
}

// parsePrimary = "(" expr ")" | ident ("(" (expr ("," expr)*)? ")")? | num
func (p *Parser) parsePrimary() (ast.Expr, error) {
	if p.at("(") {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return e, nil
	}

	if p.cur().Kind == token.IDENT {
		name := p.cur().Lit
		p.advance()

		if p.at("(") {
			p.advance()
			var args []ast.Expr
			if !p.at(")") {
				for {
					arg, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.at(",") {
						break
					}
					p.advance()
				}
			}
			if len(args) > maxParams {
				return nil, p.errorf("call to %q has more than %d arguments", name, maxParams)
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return &ast.Call{Name: name, Args: args}, nil
		}

		return p.locals[p.curFunc].lookupOrDeclare(name), nil
	}

	if p.cur().Kind == token.INT {
		v := p.cur().IntValue
		p.advance()
		return &ast.Num{Value: v}, nil
	}

	return nil, p.errorf("expected an expression")
}
