package types

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// CanonicalShape renders ts with every type variable renamed after the
// position of its first occurrence, so that structurally identical lists of
// types render identically regardless of the variable names used.
//
//	CanonicalShape(Maybe a, a) == CanonicalShape(Maybe b, b) == "Maybe t0 t0"
//
// Type constructors are rendered as they are qualified in ts.
func CanonicalShape(ts ...Type) string {
	positions := make(map[string]int)
	rename := func(name string) string {
		i, ok := positions[name]
		if !ok {
			i = len(positions)
			positions[name] = i
		}
		return fmt.Sprintf("t%d", i)
	}
	rendered := make([]string, len(ts))
	for i, t := range ts {
		rendered[i] = render(t, rename)
	}
	return strings.Join(rendered, ", ")
}

// FreeTypeVars returns the type variables of t not bound by a ForAll,
// in order of first occurrence
func FreeTypeVars(t Type) []string {
	var free []string
	seen := set.New[string](0)
	var visit func(t Type, bound *set.Set[string])
	visit = func(t Type, bound *set.Set[string]) {
		switch t := t.(type) {
		case TypeVar:
			if !bound.Contains(t.Name) && seen.Insert(t.Name) {
				free = append(free, t.Name)
			}
		case TypeApp:
			visit(t.Fn, bound)
			visit(t.Arg, bound)
		case Function:
			visit(t.Arg, bound)
			visit(t.Result, bound)
		case ForAll:
			inner := bound.Copy()
			inner.Insert(t.Var)
			visit(t.Body, inner)
		case ConstrainedType:
			for _, c := range t.Constraints {
				for _, arg := range c.Args {
					visit(arg, bound)
				}
			}
			visit(t.Body, bound)
		case RowCons:
			visit(t.Head, bound)
			visit(t.Tail, bound)
		}
	}
	visit(t, set.New[string](0))
	return free
}
