package annotated

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cottand/elab/frontend/ast"
	"github.com/cottand/elab/frontend/check"
	"github.com/cottand/elab/frontend/env"
	"github.com/cottand/elab/frontend/ilerr"
	"github.com/cottand/elab/frontend/kindcheck"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/types"
)

var inferencer = Inferencer{Kinds: kindcheck.Inferencer{}}

func TestTypesOf(t *testing.T) {
	identity := types.Function{Arg: types.TypeVar{Name: "a"}, Result: types.TypeVar{Name: "a"}}
	body := &ast.Abs{Arg: "x", Body: &ast.Var{Name: names.Unqualified[names.Ident]("x")}}
	main := names.ModuleName("M")

	inferred, err := inferencer.TypesOf(env.Initial(), &main, "M", []check.Binding{
		{Name: "id", Expr: &ast.TypedValue{Expr: body, Type: identity}},
		{Name: "one", Expr: &ast.NumericLiteral{Value: "1"}, Declared: env.IntType},
	})
	require.NoError(t, err)
	require.Len(t, inferred, 2)

	assert.Equal(t, names.Ident("id"), inferred[0].Name)
	assert.Equal(t, "forall a. a -> a", inferred[0].Type.String())
	typed := inferred[0].Expr.(*ast.TypedValue)
	assert.True(t, typed.Checked)
	assert.Same(t, body, typed.Expr)

	assert.Equal(t, env.IntType, inferred[1].Type)
}

func TestDeclaredTypeWins(t *testing.T) {
	inferred, err := inferencer.TypesOf(env.Initial(), nil, "M", []check.Binding{
		{
			Name:     "n",
			Expr:     &ast.TypedValue{Expr: &ast.NumericLiteral{Value: "1"}, Type: env.NumberType},
			Declared: env.IntType,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, env.IntType, inferred[0].Type)
}

func TestTypesOfErrors(t *testing.T) {
	cases := []struct {
		name    string
		binding check.Binding
		code    ilerr.ErrCode
	}{
		{
			name:    "no annotation",
			binding: check.Binding{Name: "x", Expr: &ast.NumericLiteral{Value: "1"}},
			code:    ilerr.MissingTypeAnnotation,
		},
		{
			name:    "not a value type",
			binding: check.Binding{Name: "x", Expr: &ast.NumericLiteral{Value: "1"}, Declared: env.ArrayType},
			code:    ilerr.ExpectedValueKind,
		},
		{
			name:    "unknown type",
			binding: check.Binding{Name: "x", Expr: &ast.NumericLiteral{Value: "1"}, Declared: types.Con("M", "Nope")},
			code:    ilerr.UnknownTypeConstructor,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := inferencer.TypesOf(env.Initial(), nil, "M", []check.Binding{c.binding})
			assert.Equal(t, c.code, ilerr.CodeOf(err), "got %v", err)
		})
	}
}
