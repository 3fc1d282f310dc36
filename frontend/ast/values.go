package ast

import (
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/types"
)

// Expr is a value-level expression. The elaborator never looks inside
// expressions: it hands them to type inference and stores what comes back.
type Expr interface {
	exprNode()
}

var (
	_ Expr = (*Var)(nil)
	_ Expr = (*Constructor)(nil)
	_ Expr = (*NumericLiteral)(nil)
	_ Expr = (*StringLiteral)(nil)
	_ Expr = (*BooleanLiteral)(nil)
	_ Expr = (*Abs)(nil)
	_ Expr = (*App)(nil)
	_ Expr = (*Case)(nil)
	_ Expr = (*TypedValue)(nil)
)

type Var struct {
	Name names.Qualified[names.Ident]
}

type Constructor struct {
	Name names.Qualified[names.ProperName]
}

type NumericLiteral struct {
	// Value is the literal as written, e.g. 42 or 3.14
	Value string
}

type StringLiteral struct {
	Value string
}

type BooleanLiteral struct {
	Value bool
}

// Abs is a lambda with a single argument
type Abs struct {
	Arg  names.Ident
	Body Expr
}

type App struct {
	Fn  Expr
	Arg Expr
}

type CaseAlternative struct {
	Binders []Binder
	Result  Expr
}

type Case struct {
	Scrutinees   []Expr
	Alternatives []CaseAlternative
}

// TypedValue annotates Expr with Type. Checked is set once inference has
// verified the annotation.
type TypedValue struct {
	Expr    Expr
	Type    types.Type
	Checked bool
}

func (*Var) exprNode()            {}
func (*Constructor) exprNode()    {}
func (*NumericLiteral) exprNode() {}
func (*StringLiteral) exprNode()  {}
func (*BooleanLiteral) exprNode() {}
func (*Abs) exprNode()            {}
func (*App) exprNode()            {}
func (*Case) exprNode()           {}
func (*TypedValue) exprNode()     {}

// Binder is a pattern
type Binder interface {
	binderNode()
}

type NullBinder struct{}

type VarBinder struct {
	Name names.Ident
}

type ConstructorBinder struct {
	Constructor names.Qualified[names.ProperName]
	Args        []Binder
}

func (*NullBinder) binderNode()        {}
func (*VarBinder) binderNode()         {}
func (*ConstructorBinder) binderNode() {}
