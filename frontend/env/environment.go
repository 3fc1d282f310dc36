// Package env holds the Environment: everything known about types, kinds,
// values, classes and instances across all the modules checked so far.
//
// The Environment is a plain store. It does not validate what is inserted;
// callers (the declaration elaborator) are responsible for checking that an
// entry is not being redefined before inserting it.
package env

import (
	"github.com/cottand/elab/frontend/kinds"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/types"
)

type (
	TypeName  = names.Qualified[names.ProperName]
	ValueName = names.Qualified[names.Ident]
)

// DataDeclType tells data declarations from newtype declarations
type DataDeclType uint8

const (
	Data DataDeclType = iota + 1
	Newtype
)

func (d DataDeclType) String() string {
	switch d {
	case Data:
		return "data"
	case Newtype:
		return "newtype"
	default:
		return "invalid"
	}
}

// NameKind says how a value came to be in the Environment
type NameKind uint8

const (
	Regular NameKind = iota + 1
	// Extern values are defined by a foreign import, with a ForeignConvention
	Extern
	Operator
)

func (k NameKind) String() string {
	switch k {
	case Regular:
		return "regular"
	case Extern:
		return "extern"
	case Operator:
		return "operator"
	default:
		return "invalid"
	}
}

// ForeignConvention is the calling convention of an Extern value
type ForeignConvention uint8

const (
	ForeignImport ForeignConvention = iota + 1
	InlineForeign
)

func (c ForeignConvention) String() string {
	switch c {
	case ForeignImport:
		return "foreign import"
	case InlineForeign:
		return "inline foreign"
	default:
		return "none"
	}
}

type NameStatus uint8

const (
	Defined NameStatus = iota + 1
	Undefined
)

// TypeInfo is one of DataType, TypeSynonym or ExternData
type TypeInfo interface {
	typeInfo()
}

type DataType struct {
	Params       []string
	Constructors []DataTypeConstructor
}

type DataTypeConstructor struct {
	Name   names.ProperName
	Fields []types.Type
}

type TypeSynonym struct{}

type ExternData struct{}

func (DataType) typeInfo()    {}
func (TypeSynonym) typeInfo() {}
func (ExternData) typeInfo()  {}

type TypeEntry struct {
	Kind kinds.Kind
	Info TypeInfo
}

type DataConstructor struct {
	Origin DataDeclType
	// TypeName is the type this constructor builds values of
	TypeName names.ProperName
	// Type is the generalised function type of the constructor
	Type   types.Type
	Fields []types.Type
}

type TypeSynonymEntry struct {
	Params []string
	Body   types.Type
}

type NameInfo struct {
	Type types.Type
	Kind NameKind
	// Convention is only set for Extern names
	Convention ForeignConvention
	Status     NameStatus
}

type ClassMember struct {
	Name names.Ident
	Type types.Type
}

type TypeClass struct {
	Params       []string
	Members      []ClassMember
	Superclasses []types.Constraint
}

type Environment struct {
	Types                 map[TypeName]TypeEntry
	DataConstructors      map[TypeName]DataConstructor
	TypeSynonyms          map[TypeName]TypeSynonymEntry
	Names                 map[ValueName]NameInfo
	TypeClasses           map[TypeName]TypeClass
	TypeClassDictionaries map[DictionaryID]TypeClassDictionary
}

// New returns an Environment with nothing in it, not even Prim
func New() *Environment {
	return &Environment{
		Types:                 make(map[TypeName]TypeEntry),
		DataConstructors:      make(map[TypeName]DataConstructor),
		TypeSynonyms:          make(map[TypeName]TypeSynonymEntry),
		Names:                 make(map[ValueName]NameInfo),
		TypeClasses:           make(map[TypeName]TypeClass),
		TypeClassDictionaries: make(map[DictionaryID]TypeClassDictionary),
	}
}

func (e *Environment) AddType(name TypeName, kind kinds.Kind, info TypeInfo) {
	e.Types[name] = TypeEntry{Kind: kind, Info: info}
}

func (e *Environment) AddDataConstructor(name TypeName, ctor DataConstructor) {
	e.DataConstructors[name] = ctor
}

func (e *Environment) AddTypeSynonym(name TypeName, params []string, body types.Type) {
	e.TypeSynonyms[name] = TypeSynonymEntry{Params: params, Body: body}
}

func (e *Environment) AddName(name ValueName, info NameInfo) {
	e.Names[name] = info
}

func (e *Environment) AddTypeClass(name TypeName, class TypeClass) {
	e.TypeClasses[name] = class
}

// LookupType finds a type by its qualified name. Unqualified names are
// looked up in Prim.
func (e *Environment) LookupType(name TypeName) (TypeEntry, bool) {
	entry, ok := e.Types[resolve(name)]
	return entry, ok
}

// IsTypeSynonym is true when name refers to a registered type synonym
func (e *Environment) IsTypeSynonym(name TypeName) bool {
	_, ok := e.TypeSynonyms[resolve(name)]
	return ok
}

func (e *Environment) LookupDataConstructor(name TypeName) (DataConstructor, bool) {
	ctor, ok := e.DataConstructors[resolve(name)]
	return ctor, ok
}

func (e *Environment) LookupName(module names.ModuleName, ident names.Ident) (NameInfo, bool) {
	info, ok := e.Names[names.Qualify(module, ident)]
	return info, ok
}

func (e *Environment) LookupTypeClass(name TypeName) (TypeClass, bool) {
	class, ok := e.TypeClasses[resolve(name)]
	return class, ok
}

func resolve[N ~string](name names.Qualified[N]) names.Qualified[N] {
	if name.IsQualified() {
		return name
	}
	return names.Qualify(names.Prim, name.Name)
}
