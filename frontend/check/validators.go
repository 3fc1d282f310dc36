package check

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/cottand/elab/frontend/ast"
	"github.com/cottand/elab/frontend/env"
	"github.com/cottand/elab/frontend/ilerr"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/types"
)

// checkDuplicateTypeArguments fails on the first parameter that already
// appeared earlier in params
func checkDuplicateTypeArguments(params []string) error {
	seen := set.New[string](len(params))
	for _, param := range params {
		if !seen.Insert(param) {
			return ilerr.New(ilerr.NewDuplicateTypeArgument{Name: param})
		}
	}
	return nil
}

// checkNewtypeShape accepts exactly one constructor with exactly one field
func checkNewtypeShape(name names.ProperName, constructors []ast.DataConstructorDeclaration) error {
	if len(constructors) != 1 {
		return ilerr.New(ilerr.NewInvalidNewtypeShape{Name: name, Constructors: len(constructors)})
	}
	if fields := len(constructors[0].Fields); fields != 1 {
		return ilerr.New(ilerr.NewInvalidNewtypeShape{Name: name, Constructors: 1, Fields: fields})
	}
	return nil
}

// checkInstanceHeadType accepts type variables, type constructors that are not
// synonyms, and applications of those
func checkInstanceHeadType(environment *env.Environment, t types.Type) error {
	switch t := t.(type) {
	case types.TypeVar:
		return nil
	case types.TypeConstructor:
		if environment.IsTypeSynonym(t.Name) {
			return ilerr.New(ilerr.NewInvalidInstanceHead{Type: t, Synonym: true})
		}
		return nil
	case types.TypeApp:
		if err := checkInstanceHeadType(environment, t.Fn); err != nil {
			return err
		}
		return checkInstanceHeadType(environment, t.Arg)
	default:
		return ilerr.New(ilerr.NewInvalidInstanceHead{Type: t})
	}
}

func valueIsNotDefined(environment *env.Environment, module names.ModuleName, name names.Ident) error {
	if _, ok := environment.LookupName(module, name); ok {
		return ilerr.New(ilerr.NewDuplicateDefinition{What: "value", Name: name.String()})
	}
	return nil
}

func typeIsNotDefined(environment *env.Environment, name env.TypeName) error {
	if _, ok := environment.Types[name]; ok {
		return ilerr.New(ilerr.NewDuplicateDefinition{What: "type", Name: name.Name.String()})
	}
	return nil
}

func dataConstructorIsNotDefined(environment *env.Environment, name env.TypeName) error {
	if _, ok := environment.DataConstructors[name]; ok {
		return ilerr.New(ilerr.NewDuplicateDefinition{What: "data constructor", Name: name.Name.String()})
	}
	return nil
}

func typeClassIsNotDefined(environment *env.Environment, name env.TypeName) error {
	if _, ok := environment.TypeClasses[name]; ok {
		return ilerr.New(ilerr.NewDuplicateDefinition{What: "type class", Name: name.Name.String()})
	}
	return nil
}

// instanceIsNotDefined rejects a second instance with the same dictionary
// name, or with the same head, in the current module. Aliases brought in by
// imports do not count: registering over them is allowed.
func instanceIsNotDefined(environment *env.Environment, module names.ModuleName, dict env.TypeClassDictionary) error {
	if existing, ok := environment.DictionaryNamed(dict.Name); ok && !existing.IsAlias() {
		return ilerr.New(ilerr.NewDuplicateDefinition{What: "type class instance", Name: dict.Name.Name.String()})
	}
	id := env.DictionaryID{Key: dict.Key(), Module: module}
	if existing, ok := environment.LookupDictionary(id); ok && !existing.IsAlias() {
		return ilerr.New(ilerr.NewDuplicateDefinition{What: "type class instance", Name: id.Key.String()})
	}
	return nil
}

// checkUniqueNames fails on the first name that appears twice in idents
func checkUniqueNames(idents []names.Ident) error {
	seen := set.New[names.Ident](len(idents))
	for _, ident := range idents {
		if !seen.Insert(ident) {
			return ilerr.New(ilerr.NewDuplicateDefinition{What: "value", Name: ident.String()})
		}
	}
	return nil
}
