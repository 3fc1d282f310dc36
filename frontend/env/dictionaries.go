package env

import (
	"cmp"
	"iter"
	"maps"
	"slices"

	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/types"
	"github.com/cottand/elab/internal/log"
)

var registryLogger = log.DefaultLogger.With("section", "registry")

// DictionaryKey identifies an instance by its class and the shape of its
// instance head. The same instance seen twice (defined once, and imported
// later) always produces the same DictionaryKey.
type DictionaryKey struct {
	Class TypeName
	Head  string
}

func (k DictionaryKey) String() string {
	return k.Class.String() + " (" + k.Head + ")"
}

// Canonicalize computes the DictionaryKey of an instance of class for
// instanceTypes. Instance heads that only differ in the names of their type
// variables share a key.
func Canonicalize(class TypeName, instanceTypes []types.Type) DictionaryKey {
	return DictionaryKey{Class: class, Head: types.CanonicalShape(instanceTypes...)}
}

// DictionaryID is the key of Environment.TypeClassDictionaries: a
// DictionaryKey paired with the module the dictionary was registered in
type DictionaryID struct {
	Key    DictionaryKey
	Module names.ModuleName
}

// DictionaryOrigin is either RegularInstance or AliasOf
type DictionaryOrigin interface {
	dictionaryOrigin()
}

// RegularInstance dictionaries come from an instance declaration
type RegularInstance struct{}

// AliasOf dictionaries re-export, under the importing module, an instance
// defined elsewhere. Target is the canonical dictionary they stand for.
type AliasOf struct {
	Target ValueName
}

func (RegularInstance) dictionaryOrigin() {}
func (AliasOf) dictionaryOrigin()         {}

type TypeClassDictionary struct {
	Name          ValueName
	ClassName     TypeName
	InstanceTypes []types.Type
	// Dependencies are the constraints the instance requires.
	// nil means they are not known, which is not the same as none.
	Dependencies []types.Constraint
	Origin       DictionaryOrigin
	Exported     bool
}

func (d TypeClassDictionary) Key() DictionaryKey {
	return Canonicalize(d.ClassName, d.InstanceTypes)
}

// Canonical is the name of the dictionary that implements d: its own name
// for a regular instance, the name of the original for an alias
func (d TypeClassDictionary) Canonical() ValueName {
	if alias, ok := d.Origin.(AliasOf); ok {
		return alias.Target
	}
	return d.Name
}

func (d TypeClassDictionary) IsAlias() bool {
	_, ok := d.Origin.(AliasOf)
	return ok
}

// AddTypeClassDictionaries unions dicts into the Environment under module.
// Existing entries are never removed, but a dictionary whose DictionaryID is
// already present replaces the previous one: the last registration wins.
func (e *Environment) AddTypeClassDictionaries(module names.ModuleName, dicts ...TypeClassDictionary) {
	for _, dict := range dicts {
		id := DictionaryID{Key: dict.Key(), Module: module}
		if previous, ok := e.TypeClassDictionaries[id]; ok {
			registryLogger.Debug("replacing dictionary", "key", id.Key, "module", module, "previous", previous.Name, "new", dict.Name)
		}
		e.TypeClassDictionaries[id] = dict
	}
}

// LookupDictionary finds the dictionary registered under id
func (e *Environment) LookupDictionary(id DictionaryID) (TypeClassDictionary, bool) {
	dict, ok := e.TypeClassDictionaries[id]
	return dict, ok
}

// DictionaryNamed finds a dictionary by its qualified name. Aliases brought
// in by imports may share the name of a dictionary defined in the module:
// the defined one is returned then.
func (e *Environment) DictionaryNamed(name ValueName) (TypeClassDictionary, bool) {
	var found []TypeClassDictionary
	for dict := range maps.Values(e.TypeClassDictionaries) {
		if dict.Name == name {
			found = append(found, dict)
		}
	}
	if len(found) == 0 {
		return TypeClassDictionary{}, false
	}
	return slices.MinFunc(found, compareDictionaries), true
}

// DictionariesOf yields the dictionaries whose name is qualified by module,
// ordered by name and then by head so that iteration is deterministic
func (e *Environment) DictionariesOf(module names.ModuleName) iter.Seq[TypeClassDictionary] {
	var found []TypeClassDictionary
	for dict := range maps.Values(e.TypeClassDictionaries) {
		if dict.Name.Module == module {
			found = append(found, dict)
		}
	}
	slices.SortFunc(found, compareDictionaries)
	return slices.Values(found)
}

// compareDictionaries orders by name, then dictionaries defined in a module
// before aliases, then by head
func compareDictionaries(a, b TypeClassDictionary) int {
	return cmp.Or(
		cmp.Compare(a.Name.Name, b.Name.Name),
		compareBool(a.IsAlias(), b.IsAlias()),
		cmp.Compare(a.Key().String(), b.Key().String()),
	)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// ReexportInstances makes the exported instances of imported available in
// current, as aliases of their canonical dictionary. Aliases of aliases point
// at the original dictionary, so an instance re-exported transitively still
// resolves to a single definition. It returns how many aliases were added.
func (e *Environment) ReexportInstances(imported, current names.ModuleName) int {
	var aliases []TypeClassDictionary
	for dict := range e.DictionariesOf(imported) {
		if !dict.Exported {
			continue
		}
		alias := dict
		alias.Name = names.Qualify(current, dict.Name.Name)
		alias.Origin = AliasOf{Target: dict.Canonical()}
		aliases = append(aliases, alias)
	}
	e.AddTypeClassDictionaries(current, aliases...)
	registryLogger.Debug("re-exported instances", "from", imported, "into", current, "count", len(aliases))
	return len(aliases)
}
