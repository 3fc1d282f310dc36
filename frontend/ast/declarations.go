package ast

import (
	"github.com/cottand/elab/frontend/env"
	"github.com/cottand/elab/frontend/kinds"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/types"
)

// Declaration is a top-level declaration of a module, after desugaring.
//
// when adding declarations here, you should add them to the switch cases in:
//   - check:elaborate.go/elaborateDeclaration
//   - source:declarations.go/decodeDeclaration
type Declaration interface {
	declNode()
}

var (
	_ Declaration = (*DataDeclaration)(nil)
	_ Declaration = (*DataBindingGroup)(nil)
	_ Declaration = (*TypeSynonymDeclaration)(nil)
	_ Declaration = (*TypeDeclaration)(nil)
	_ Declaration = (*ValueDeclaration)(nil)
	_ Declaration = (*BindingGroupDeclaration)(nil)
	_ Declaration = (*ExternDataDeclaration)(nil)
	_ Declaration = (*ExternDeclaration)(nil)
	_ Declaration = (*FixityDeclaration)(nil)
	_ Declaration = (*ImportDeclaration)(nil)
	_ Declaration = (*TypeClassDeclaration)(nil)
	_ Declaration = (*TypeInstanceDeclaration)(nil)
	_ Declaration = (*PositionedDeclaration)(nil)
)

type DataConstructorDeclaration struct {
	Name   names.ProperName
	Fields []types.Type
}

type DataDeclaration struct {
	Type         env.DataDeclType
	Name         names.ProperName
	Params       []string
	Constructors []DataConstructorDeclaration
}

// ConstructorFields are the field types of all constructors, in order
func (d *DataDeclaration) ConstructorFields() []types.Type {
	var fields []types.Type
	for _, ctor := range d.Constructors {
		fields = append(fields, ctor.Fields...)
	}
	return fields
}

// DataBindingGroup is a set of mutually recursive data and type synonym
// declarations. Decls are DataDeclaration or TypeSynonymDeclaration,
// possibly wrapped in a PositionedDeclaration.
type DataBindingGroup struct {
	Decls []Declaration
}

type TypeSynonymDeclaration struct {
	Name   names.ProperName
	Params []string
	Body   types.Type
}

// TypeDeclaration is a type signature. Desugaring merges signatures into the
// value they describe, so outside of type class bodies they never reach
// elaboration.
type TypeDeclaration struct {
	Name names.Ident
	Type types.Type
}

// ValueDeclaration binds a single value. After desugaring it has no Binders
// and no Guard.
type ValueDeclaration struct {
	Name     names.Ident
	NameKind env.NameKind
	Binders  []Binder
	Guard    Expr
	Expr     Expr
}

type Binding struct {
	Name     names.Ident
	NameKind env.NameKind
	// Type is the declared type of the binding, or nil
	Type types.Type
	Expr Expr
}

// BindingGroupDeclaration is a set of mutually recursive values
type BindingGroupDeclaration struct {
	Bindings []Binding
}

func (d *BindingGroupDeclaration) Names() []names.Ident {
	idents := make([]names.Ident, len(d.Bindings))
	for i, b := range d.Bindings {
		idents[i] = b.Name
	}
	return idents
}

type ExternDataDeclaration struct {
	Name names.ProperName
	Kind kinds.Kind
}

type ExternDeclaration struct {
	Convention env.ForeignConvention
	Name       names.Ident
	// Inline is the foreign code of an env.InlineForeign extern
	Inline string
	Type   types.Type
}

type Associativity uint8

const (
	InfixLeft Associativity = iota + 1
	InfixRight
	Infix
)

func (a Associativity) String() string {
	switch a {
	case InfixLeft:
		return "infixl"
	case InfixRight:
		return "infixr"
	case Infix:
		return "infix"
	default:
		return "invalid"
	}
}

type Fixity struct {
	Associativity Associativity
	Precedence    int
}

type FixityDeclaration struct {
	Fixity   Fixity
	Operator names.Ident
}

type ImportDeclaration struct {
	Module names.ModuleName
	// Refs is nil when everything is imported
	Refs []ExportRef
	// As is the alias of a qualified import, or ""
	As names.ModuleName
}

// TypeClassDeclaration members are TypeDeclaration, possibly wrapped in a
// PositionedDeclaration
type TypeClassDeclaration struct {
	Name         names.ProperName
	Params       []string
	Superclasses []types.Constraint
	Members      []Declaration
}

type TypeInstanceDeclaration struct {
	Name         names.Ident
	Dependencies []types.Constraint
	ClassName    names.Qualified[names.ProperName]
	Types        []types.Type
	Members      []Declaration
}

func (*DataDeclaration) declNode()         {}
func (*DataBindingGroup) declNode()        {}
func (*TypeSynonymDeclaration) declNode()  {}
func (*TypeDeclaration) declNode()         {}
func (*ValueDeclaration) declNode()        {}
func (*BindingGroupDeclaration) declNode() {}
func (*ExternDataDeclaration) declNode()   {}
func (*ExternDeclaration) declNode()       {}
func (*FixityDeclaration) declNode()       {}
func (*ImportDeclaration) declNode()       {}
func (*TypeClassDeclaration) declNode()    {}
func (*TypeInstanceDeclaration) declNode() {}
func (*PositionedDeclaration) declNode()   {}
