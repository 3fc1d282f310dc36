package check

import (
	"github.com/cottand/elab/frontend/ast"
	"github.com/cottand/elab/frontend/env"
	"github.com/cottand/elab/frontend/kinds"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/types"
)

// stubKinds gives every type constructor the kind * -> ... -> * of its arity
type stubKinds struct {
	calls int
	// kindOf is returned by KindOf, or * when nil
	kindOf kinds.Kind
	err    error
}

func arityKind(params []string) kinds.Kind {
	args := make([]kinds.Kind, len(params))
	for i := range params {
		args[i] = kinds.Star
	}
	return kinds.Arrow(args, kinds.Star)
}

func (s *stubKinds) KindOf(*env.Environment, names.ModuleName, types.Type) (kinds.Kind, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.kindOf != nil {
		return s.kindOf, nil
	}
	return kinds.Star, nil
}

func (s *stubKinds) KindsOf(_ *env.Environment, _ bool, _ names.ModuleName, _ names.ProperName, params []string, _ []types.Type) (kinds.Kind, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return arityKind(params), nil
}

func (s *stubKinds) KindsOfAll(_ *env.Environment, _ names.ModuleName, synonyms []SynonymDecl, datas []DataDecl) ([]kinds.Kind, []kinds.Kind, error) {
	s.calls++
	if s.err != nil {
		return nil, nil, s.err
	}
	var synonymKinds, dataKinds []kinds.Kind
	for _, d := range synonyms {
		synonymKinds = append(synonymKinds, arityKind(d.Params))
	}
	for _, d := range datas {
		dataKinds = append(dataKinds, arityKind(d.Params))
	}
	return synonymKinds, dataKinds, nil
}

// stubTypes trusts annotations, and types everything else as Int
type stubTypes struct {
	calls    int
	bindings [][]Binding
	err      error
}

func (s *stubTypes) TypesOf(_ *env.Environment, _ *names.ModuleName, _ names.ModuleName, bindings []Binding) ([]InferredBinding, error) {
	s.calls++
	s.bindings = append(s.bindings, bindings)
	if s.err != nil {
		return nil, s.err
	}
	inferred := make([]InferredBinding, len(bindings))
	for i, b := range bindings {
		inferred[i] = InferredBinding{Name: b.Name, Expr: b.Expr, Type: env.IntType}
		if b.Declared != nil {
			inferred[i].Type = b.Declared
		}
		if typed, ok := b.Expr.(*ast.TypedValue); ok {
			inferred[i].Type = typed.Type
			inferred[i].Expr = &ast.TypedValue{Expr: typed.Expr, Type: typed.Type, Checked: true}
		}
	}
	return inferred, nil
}

// brokenTypes forgets to return results
type brokenTypes struct{}

func (brokenTypes) TypesOf(*env.Environment, *names.ModuleName, names.ModuleName, []Binding) ([]InferredBinding, error) {
	return nil, nil
}

func newTestElaborator() (*Elaborator, *stubKinds, *stubTypes) {
	k, t := &stubKinds{}, &stubTypes{}
	return NewElaborator(env.Initial(), k, t), k, t
}

func value(name names.Ident) *ast.ValueDeclaration {
	return &ast.ValueDeclaration{
		Name:     name,
		NameKind: env.Regular,
		Expr:     &ast.NumericLiteral{Value: "1"},
	}
}

func data(name names.ProperName, params []string, ctors ...ast.DataConstructorDeclaration) *ast.DataDeclaration {
	return &ast.DataDeclaration{Type: env.Data, Name: name, Params: params, Constructors: ctors}
}

func newtype(name names.ProperName, params []string, ctors ...ast.DataConstructorDeclaration) *ast.DataDeclaration {
	return &ast.DataDeclaration{Type: env.Newtype, Name: name, Params: params, Constructors: ctors}
}

func ctor(name names.ProperName, fields ...types.Type) ast.DataConstructorDeclaration {
	return ast.DataConstructorDeclaration{Name: name, Fields: fields}
}

func tv(name string) types.TypeVar {
	return types.TypeVar{Name: name}
}
