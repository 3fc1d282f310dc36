package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cottand/elab/frontend/ast"
	"github.com/cottand/elab/frontend/env"
	"github.com/cottand/elab/frontend/ilerr"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/types"
)

func TestCheckDuplicateTypeArguments(t *testing.T) {
	cases := []struct {
		params   []string
		repeated string
	}{
		{params: nil},
		{params: []string{"a", "b", "c"}},
		{params: []string{"a", "a"}, repeated: "a"},
		{params: []string{"a", "b", "b", "a"}, repeated: "b"},
		{params: []string{"a", "b", "c", "a", "b"}, repeated: "a"},
	}
	for _, c := range cases {
		err := checkDuplicateTypeArguments(c.params)
		if c.repeated == "" {
			assert.NoError(t, err, "params %v", c.params)
			continue
		}
		var dup ilerr.NewDuplicateTypeArgument
		require.ErrorAs(t, err, &dup, "params %v", c.params)
		assert.Equal(t, c.repeated, dup.Name)
	}
}

func TestCheckNewtypeShape(t *testing.T) {
	one := ctor("N", tv("a"))
	cases := []struct {
		name      string
		ctors     []ast.DataConstructorDeclaration
		ok        bool
		inMessage string
	}{
		{name: "one constructor one field", ctors: []ast.DataConstructorDeclaration{one}, ok: true},
		{name: "no constructors", ctors: nil, inMessage: "exactly one constructor"},
		{name: "two constructors", ctors: []ast.DataConstructorDeclaration{one, ctor("M", tv("a"))}, inMessage: "exactly one constructor"},
		{name: "no fields", ctors: []ast.DataConstructorDeclaration{ctor("N")}, inMessage: "exactly one field"},
		{name: "two fields", ctors: []ast.DataConstructorDeclaration{ctor("N", tv("a"), tv("a"))}, inMessage: "exactly one field"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := checkNewtypeShape("N", c.ctors)
			if c.ok {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, ilerr.InvalidNewtypeShape, ilerr.CodeOf(err))
			assert.ErrorContains(t, err, c.inMessage)
		})
	}
}

func TestCheckInstanceHeadType(t *testing.T) {
	environment := env.Initial()
	maybe := types.Con("M", "Maybe")
	environment.AddType(maybe.Name, arityKind([]string{"a"}), env.DataType{Params: []string{"a"}})
	str := types.Con("M", "Str")
	environment.AddType(str.Name, arityKind(nil), env.TypeSynonym{})
	environment.AddTypeSynonym(str.Name, nil, env.StringType)

	cases := []struct {
		name    string
		t       types.Type
		ok      bool
		synonym bool
	}{
		{name: "variable", t: tv("a"), ok: true},
		{name: "constructor", t: env.IntType, ok: true},
		{name: "application", t: types.Apply(maybe, tv("a")), ok: true},
		{name: "nested application", t: types.Apply(maybe, types.Apply(env.ArrayType, tv("a"))), ok: true},
		{name: "synonym", t: str, synonym: true},
		{name: "synonym argument", t: types.Apply(maybe, str), synonym: true},
		{name: "function", t: types.Function{Arg: tv("a"), Result: tv("b")}},
		{name: "function argument", t: types.Apply(maybe, types.Function{Arg: tv("a"), Result: tv("b")})},
		{name: "row", t: types.RowCons{Label: "x", Head: env.IntType, Tail: types.RowEmpty{}}},
		{name: "forall", t: types.ForAll{Var: "a", Body: tv("a")}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := checkInstanceHeadType(environment, c.t)
			if c.ok {
				assert.NoError(t, err)
				return
			}
			var invalid ilerr.NewInvalidInstanceHead
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, c.synonym, invalid.Synonym)
			assert.NotNil(t, invalid.Type)
		})
	}
}

func TestValueIsNotDefined(t *testing.T) {
	environment := env.Initial()
	assert.NoError(t, valueIsNotDefined(environment, "M", "x"))

	environment.AddName(names.Qualify[names.Ident]("M", "x"), env.NameInfo{Type: env.IntType, Kind: env.Regular, Status: env.Defined})
	assert.Equal(t, ilerr.DuplicateDefinition, ilerr.CodeOf(valueIsNotDefined(environment, "M", "x")))
	assert.NoError(t, valueIsNotDefined(environment, "N", "x"))
}
