package parser

import "github.com/benhoyle/ninecc/ast"

// Locals is the per-function symbol table described in spec.md §4.3:
// an ordered collection of local variables, keyed by name, assigning
// each newly-seen name the next stack offset.
//
// There are no declarations in this language - a local is created the
// first time it is mentioned, whether as a parameter or as a bare
// identifier anywhere in the function body.
type Locals struct {
	vars []*ast.LVar
}

// newLocals returns an empty symbol table.
func newLocals() *Locals {
	return &Locals{}
}

// find returns the existing local named name, or nil.
func (l *Locals) find(name string) *ast.LVar {
	for _, v := range l.vars {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// lookupOrDeclare returns the LVar for name, creating one with the
// next available offset (multiple of 8, starting at 8) if this is the
// first mention of name in the function.
func (l *Locals) lookupOrDeclare(name string) *ast.LVar {
	if v := l.find(name); v != nil {
		return v
	}
	v := &ast.LVar{Name: name, Offset: l.frameSize() + 8}
	l.vars = append(l.vars, v)
	return v
}

// frameSize is 8 times the number of locals declared so far - the
// stack frame size the prologue must reserve.
func (l *Locals) frameSize() int {
	return 8 * len(l.vars)
}
