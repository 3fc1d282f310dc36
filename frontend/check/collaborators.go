package check

import (
	"github.com/cottand/elab/frontend/ast"
	"github.com/cottand/elab/frontend/env"
	"github.com/cottand/elab/frontend/kinds"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/types"
)

// KindInferencer infers the kinds of types and type constructors.
// Implementations may read the Environment but must not modify it.
type KindInferencer interface {
	// KindOf is the kind of t, as written in module
	KindOf(environment *env.Environment, module names.ModuleName, t types.Type) (kinds.Kind, error)

	// KindsOf is the kind of the type constructor name with params.
	// For a data type (isData) args are the fields of all its constructors, and
	// the constructor builds a type of kind *. For a type synonym args holds
	// its body, whose kind is the result kind of the constructor.
	KindsOf(environment *env.Environment, isData bool, module names.ModuleName, name names.ProperName, params []string, args []types.Type) (kinds.Kind, error)

	// KindsOfAll infers the kinds of mutually recursive synonyms and data types
	// at once. The results are in the same order as the arguments.
	KindsOfAll(environment *env.Environment, module names.ModuleName, synonyms []SynonymDecl, datas []DataDecl) (synonymKinds []kinds.Kind, dataKinds []kinds.Kind, err error)
}

type SynonymDecl struct {
	Name   names.ProperName
	Params []string
	Body   types.Type
}

type DataDecl struct {
	Name   names.ProperName
	Params []string
	Fields []types.Type
}

// TypeInferencer infers and generalises the types of mutually recursive values
type TypeInferencer interface {
	// TypesOf returns one InferredBinding per binding, in order. mainModule is
	// the name of the program's entry module, if there is one.
	TypesOf(environment *env.Environment, mainModule *names.ModuleName, module names.ModuleName, bindings []Binding) ([]InferredBinding, error)
}

type Binding struct {
	Name names.Ident
	Expr ast.Expr
	// Declared is the type the binding was declared with, or nil
	Declared types.Type
}

type InferredBinding struct {
	Name names.Ident
	// Expr is the elaborated expression, which may differ from the one given,
	// e.g. because type class dictionaries were inserted
	Expr ast.Expr
	Type types.Type
}
