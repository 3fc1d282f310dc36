// Package names holds the identifiers shared by every phase of the checker:
// module names, proper names (types, classes, constructors), value identifiers
// and their qualified forms.
package names

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ModuleName is a dotted module name, like Data.Maybe
type ModuleName string

// Prim is the module that holds the built-in types
const Prim ModuleName = "Prim"

func (m ModuleName) String() string { return string(m) }

// ProperName names types, type classes and data constructors
type ProperName string

func (p ProperName) String() string { return string(p) }

// Ident names values. Operators are idents too, made of symbol characters
type Ident string

func (i Ident) String() string {
	if i.IsOperator() {
		return "(" + string(i) + ")"
	}
	return string(i)
}

// IsOperator is true when i does not start like a regular identifier
func (i Ident) IsOperator() bool {
	r, _ := utf8.DecodeRuneInString(string(i))
	if r == utf8.RuneError {
		return false
	}
	return !unicode.IsLetter(r) && r != '_'
}

// Qualified is a name optionally prefixed by the module that defines it.
// An empty Module means the name is unqualified.
type Qualified[N ~string] struct {
	Module ModuleName
	Name   N
}

func Qualify[N ~string](module ModuleName, name N) Qualified[N] {
	return Qualified[N]{Module: module, Name: name}
}

func Unqualified[N ~string](name N) Qualified[N] {
	return Qualified[N]{Name: name}
}

func (q Qualified[N]) IsQualified() bool { return q.Module != "" }

func (q Qualified[N]) String() string {
	name := string(q.Name)
	if Ident(name).IsOperator() {
		name = "(" + name + ")"
	}
	if q.Module == "" {
		return name
	}
	return string(q.Module) + "." + name
}

// ParseQualified splits a dotted name such as Data.Maybe.Just into its module
// and its last segment. Names without a dot are returned unqualified.
func ParseQualified[N ~string](s string) Qualified[N] {
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return Qualified[N]{Name: N(s)}
	}
	return Qualified[N]{Module: ModuleName(s[:i]), Name: N(s[i+1:])}
}
