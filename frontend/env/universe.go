package env

import (
	"github.com/cottand/elab/frontend/kinds"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/types"
)

const (
	IntTypeName      names.ProperName = "Int"
	NumberTypeName   names.ProperName = "Number"
	StringTypeName   names.ProperName = "String"
	BooleanTypeName  names.ProperName = "Boolean"
	ArrayTypeName    names.ProperName = "Array"
	ObjectTypeName   names.ProperName = "Object"
	FunctionTypeName names.ProperName = "Function"
)

var (
	IntType     = types.Con(names.Prim, IntTypeName)
	NumberType  = types.Con(names.Prim, NumberTypeName)
	StringType  = types.Con(names.Prim, StringTypeName)
	BooleanType = types.Con(names.Prim, BooleanTypeName)
	ArrayType   = types.Con(names.Prim, ArrayTypeName)
)

// primTypes are the built-in types, all of them opaque
var primTypes = map[names.ProperName]kinds.Kind{
	IntTypeName:      kinds.Star,
	NumberTypeName:   kinds.Star,
	StringTypeName:   kinds.Star,
	BooleanTypeName:  kinds.Star,
	ArrayTypeName:    kinds.Arrow([]kinds.Kind{kinds.Star}, kinds.Star),
	ObjectTypeName:   kinds.Arrow([]kinds.Kind{kinds.KRow{Of: kinds.Star}}, kinds.Star),
	FunctionTypeName: kinds.Arrow([]kinds.Kind{kinds.Star, kinds.Star}, kinds.Star),
}

// IsPrimType is true for the names of the built-in types
func IsPrimType(name names.ProperName) bool {
	_, ok := primTypes[name]
	return ok
}

// Initial is the Environment every program starts from: an empty one plus Prim
func Initial() *Environment {
	e := New()
	for name, kind := range primTypes {
		e.AddType(names.Qualify(names.Prim, name), kind, ExternData{})
	}
	return e
}
