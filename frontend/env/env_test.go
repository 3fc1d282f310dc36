package env

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cottand/elab/frontend/kinds"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/types"
)

var (
	showClass = names.Qualify[names.ProperName]("Data.Show", "Show")
	maybeType = types.Con("Data.Maybe", "Maybe")
)

func showMaybe(module names.ModuleName, name names.Ident, typeVar string) TypeClassDictionary {
	return TypeClassDictionary{
		Name:          names.Qualify(module, name),
		ClassName:     showClass,
		InstanceTypes: []types.Type{types.Apply(maybeType, types.TypeVar{Name: typeVar})},
		Origin:        RegularInstance{},
		Exported:      true,
	}
}

func TestCanonicalize(t *testing.T) {
	a := Canonicalize(showClass, []types.Type{types.Apply(maybeType, types.TypeVar{Name: "a"})})
	b := Canonicalize(showClass, []types.Type{types.Apply(maybeType, types.TypeVar{Name: "b"})})
	assert.Equal(t, a, b, "heads that only differ in variable names share a key")
	assert.Equal(t, "Data.Show.Show (Data.Maybe.Maybe t0)", a.String())

	ab := Canonicalize(showClass, []types.Type{types.TypeVar{Name: "a"}, types.TypeVar{Name: "b"}})
	aa := Canonicalize(showClass, []types.Type{types.TypeVar{Name: "a"}, types.TypeVar{Name: "a"}})
	assert.NotEqual(t, ab, aa)

	other := Canonicalize(names.Qualify[names.ProperName]("Data.Eq", "Eq"), []types.Type{types.Apply(maybeType, types.TypeVar{Name: "a"})})
	assert.NotEqual(t, a, other)
}

func TestLastRegistrationWins(t *testing.T) {
	e := New()
	first := showMaybe("M", "showMaybe", "a")
	second := showMaybe("M", "showMaybe2", "b")

	e.AddTypeClassDictionaries("M", first)
	e.AddTypeClassDictionaries("M", second)
	require.Len(t, e.TypeClassDictionaries, 1)

	dict, ok := e.LookupDictionary(DictionaryID{Key: first.Key(), Module: "M"})
	require.True(t, ok)
	assert.Equal(t, names.Qualify[names.Ident]("M", "showMaybe2"), dict.Name)

	// the same key under another module is another entry
	e.AddTypeClassDictionaries("N", first)
	assert.Len(t, e.TypeClassDictionaries, 2)
}

func TestReexportInstances(t *testing.T) {
	e := New()
	hidden := showMaybe("A", "showHidden", "a")
	hidden.InstanceTypes = []types.Type{IntType}
	hidden.Exported = false
	e.AddTypeClassDictionaries("A", showMaybe("A", "showMaybe", "a"), hidden)

	assert.Equal(t, 1, e.ReexportInstances("A", "B"))
	alias, ok := e.DictionaryNamed(names.Qualify[names.Ident]("B", "showMaybe"))
	require.True(t, ok)
	assert.True(t, alias.IsAlias())
	assert.Equal(t, names.Qualify[names.Ident]("A", "showMaybe"), alias.Canonical())
	_, ok = e.DictionaryNamed(names.Qualify[names.Ident]("B", "showHidden"))
	assert.False(t, ok, "instances that are not exported stay behind")

	// aliases of aliases point at the original
	assert.Equal(t, 1, e.ReexportInstances("B", "C"))
	transitive, ok := e.DictionaryNamed(names.Qualify[names.Ident]("C", "showMaybe"))
	require.True(t, ok)
	assert.Equal(t, AliasOf{Target: names.Qualify[names.Ident]("A", "showMaybe")}, transitive.Origin)

	// importing twice replaces the alias instead of adding another
	assert.Equal(t, 1, e.ReexportInstances("A", "B"))
	assert.Len(t, e.TypeClassDictionaries, 4)

	assert.Zero(t, e.ReexportInstances("Nowhere", "B"))
}

func TestDictionariesOfIsSorted(t *testing.T) {
	e := New()
	for _, name := range []names.Ident{"c", "a", "b"} {
		dict := showMaybe("M", name, "a")
		dict.InstanceTypes = []types.Type{types.TypeConstructor{Name: names.Qualify[names.ProperName]("M", names.ProperName(strings.ToUpper(string(name))))}}
		e.AddTypeClassDictionaries("M", dict)
	}
	var found []names.Ident
	for dict := range e.DictionariesOf("M") {
		found = append(found, dict.Name.Name)
	}
	assert.Equal(t, []names.Ident{"a", "b", "c"}, found)
}

func TestDictionariesOfBreaksTiesByHead(t *testing.T) {
	e := New()
	for _, head := range []types.Type{StringType, IntType, BooleanType} {
		dict := showMaybe("M", "i", "a")
		dict.InstanceTypes = []types.Type{head}
		e.AddTypeClassDictionaries("M", dict)
	}
	var heads []string
	for dict := range e.DictionariesOf("M") {
		heads = append(heads, dict.Key().Head)
	}
	assert.Equal(t, []string{"Prim.Boolean", "Prim.Int", "Prim.String"}, heads)
}

func TestDictionaryNamedPrefersDefinitionsOverAliases(t *testing.T) {
	e := New()
	imported := showMaybe("A", "i", "a")
	imported.InstanceTypes = []types.Type{IntType}
	e.AddTypeClassDictionaries("A", imported)
	require.Equal(t, 1, e.ReexportInstances("A", "M"))

	defined := showMaybe("M", "i", "a")
	defined.InstanceTypes = []types.Type{StringType}
	e.AddTypeClassDictionaries("M", defined)

	// several lookups, as the dictionaries live in a map
	for range 50 {
		dict, ok := e.DictionaryNamed(names.Qualify[names.Ident]("M", "i"))
		require.True(t, ok)
		assert.False(t, dict.IsAlias())
		assert.Equal(t, defined.Key(), dict.Key())
	}
}

func TestLookupsResolveToPrim(t *testing.T) {
	e := Initial()
	entry, ok := e.LookupType(names.Unqualified[names.ProperName]("Array"))
	require.True(t, ok)
	assert.Equal(t, "* -> *", entry.Kind.String())
	assert.IsType(t, ExternData{}, entry.Info)

	_, ok = e.LookupType(names.Unqualified[names.ProperName]("Maybe"))
	assert.False(t, ok)
	assert.True(t, IsPrimType("Int"))
	assert.False(t, IsPrimType("Maybe"))
}

func wrapEnvironment() *Environment {
	e := Initial()
	wrap := names.Qualify[names.ProperName]("M", "Wrap")
	e.AddType(wrap, kinds.Arrow([]kinds.Kind{kinds.Star}, kinds.Star), DataType{
		Params:       []string{"a"},
		Constructors: []DataTypeConstructor{{Name: "Wrap", Fields: []types.Type{types.TypeVar{Name: "a"}}}},
	})
	e.AddDataConstructor(wrap, DataConstructor{
		Origin:   Newtype,
		TypeName: "Wrap",
		Type: types.MkForAll([]string{"a"}, types.Function{
			Arg:    types.TypeVar{Name: "a"},
			Result: types.Apply(types.TypeConstructor{Name: wrap}, types.TypeVar{Name: "a"}),
		}),
		Fields: []types.Type{types.TypeVar{Name: "a"}},
	})
	e.AddName(names.Qualify[names.Ident]("M", "log"), NameInfo{
		Type:       types.Function{Arg: StringType, Result: StringType},
		Kind:       Extern,
		Convention: ForeignImport,
		Status:     Defined,
	})
	e.AddTypeClassDictionaries("M", showMaybe("M", "showMaybe", "a"))
	return e
}

func TestDump(t *testing.T) {
	e := wrapEnvironment()
	dump := e.DumpString()

	assert.Equal(t, dump, wrapEnvironment().DumpString(), "equal environments dump the same text")
	assert.NotContains(t, dump, "  Prim.Int", "Prim is left out by default")
	for _, expected := range []string{
		"types:\n",
		"M.Wrap",
		"data a = Wrap",
		"forall a. a -> M.Wrap a",
		"newtype Wrap",
		"M.log",
		"foreign import",
		"instances:\n",
		"(exported)",
	} {
		assert.Contains(t, dump, expected)
	}
	assert.NotContains(t, dump, "alias of")
	assert.Contains(t, e.DumpString("M"), "M.showMaybe")
	assert.Contains(t, e.DumpString(names.Prim), "Prim.Int")
	assert.Empty(t, e.DumpString("Nowhere"))

	assert.Equal(t, []names.ModuleName{"M", names.Prim}, e.ModuleNames())
}
