package types

import (
	"strings"

	"github.com/cottand/elab/frontend/names"
)

// Type is a type as written in (desugared) source or as produced by inference.
// It is the only representation of types the declaration elaborator handles.
type Type interface {
	String() string
	typeNode()
}

var (
	_ Type = TypeVar{}
	_ Type = TypeConstructor{}
	_ Type = TypeApp{}
	_ Type = Function{}
	_ Type = ForAll{}
	_ Type = ConstrainedType{}
	_ Type = RowEmpty{}
	_ Type = RowCons{}
)

type TypeVar struct {
	Name string
}

// TypeConstructor references a data type, a synonym or an extern data type
type TypeConstructor struct {
	Name names.Qualified[names.ProperName]
}

type TypeApp struct {
	Fn  Type
	Arg Type
}

// Function is the type of functions Arg -> Result
type Function struct {
	Arg    Type
	Result Type
}

// ForAll quantifies Var over Body
type ForAll struct {
	Var  string
	Body Type
}

// Constraint is a type class applied to types, like Show a
type Constraint struct {
	Class names.Qualified[names.ProperName]
	Args  []Type
}

type ConstrainedType struct {
	Constraints []Constraint
	Body        Type
}

type RowEmpty struct{}

// RowCons extends the row Tail with Label :: Head
type RowCons struct {
	Label string
	Head  Type
	Tail  Type
}

func (TypeVar) typeNode()         {}
func (TypeConstructor) typeNode() {}
func (TypeApp) typeNode()         {}
func (Function) typeNode()        {}
func (ForAll) typeNode()          {}
func (ConstrainedType) typeNode() {}
func (RowEmpty) typeNode()        {}
func (RowCons) typeNode()         {}

func (t TypeVar) String() string         { return render(t, nil) }
func (t TypeConstructor) String() string { return render(t, nil) }
func (t TypeApp) String() string         { return render(t, nil) }
func (t Function) String() string        { return render(t, nil) }
func (t ForAll) String() string          { return render(t, nil) }
func (t ConstrainedType) String() string { return render(t, nil) }
func (t RowEmpty) String() string        { return render(t, nil) }
func (t RowCons) String() string         { return render(t, nil) }

func (c Constraint) String() string {
	return renderConstraint(c, nil)
}

// Con is shorthand for a TypeConstructor of a qualified name
func Con(module names.ModuleName, name names.ProperName) TypeConstructor {
	return TypeConstructor{Name: names.Qualify(module, name)}
}

// Apply builds the left-nested application fn args[0] args[1] ...
func Apply(fn Type, args ...Type) Type {
	for _, arg := range args {
		fn = TypeApp{Fn: fn, Arg: arg}
	}
	return fn
}

// FoldFunction builds args[0] -> args[1] -> ... -> result
func FoldFunction(args []Type, result Type) Type {
	for i := len(args) - 1; i >= 0; i-- {
		result = Function{Arg: args[i], Result: result}
	}
	return result
}

// MkForAll quantifies body over vars, outermost first
func MkForAll(vars []string, body Type) Type {
	for i := len(vars) - 1; i >= 0; i-- {
		body = ForAll{Var: vars[i], Body: body}
	}
	return body
}

// renamer maps type variable names when rendering. A nil renamer keeps names as they are
type renamer func(string) string

func render(t Type, rename renamer) string {
	sb := &strings.Builder{}
	write(sb, t, rename)
	return sb.String()
}

func write(sb *strings.Builder, t Type, rename renamer) {
	switch t := t.(type) {
	case TypeVar:
		if rename != nil {
			sb.WriteString(rename(t.Name))
		} else {
			sb.WriteString(t.Name)
		}
	case TypeConstructor:
		sb.WriteString(t.Name.String())
	case TypeApp:
		write(sb, t.Fn, rename)
		sb.WriteString(" ")
		writeAtom(sb, t.Arg, rename)
	case Function:
		switch t.Arg.(type) {
		case Function, ForAll, ConstrainedType:
			sb.WriteString("(")
			write(sb, t.Arg, rename)
			sb.WriteString(")")
		default:
			write(sb, t.Arg, rename)
		}
		sb.WriteString(" -> ")
		write(sb, t.Result, rename)
	case ForAll:
		sb.WriteString("forall")
		var body Type = t
		for {
			forAll, ok := body.(ForAll)
			if !ok {
				break
			}
			sb.WriteString(" ")
			write(sb, TypeVar{Name: forAll.Var}, rename)
			body = forAll.Body
		}
		sb.WriteString(". ")
		write(sb, body, rename)
	case ConstrainedType:
		if len(t.Constraints) == 1 {
			sb.WriteString(renderConstraint(t.Constraints[0], rename))
		} else {
			sb.WriteString("(")
			for i, c := range t.Constraints {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(renderConstraint(c, rename))
			}
			sb.WriteString(")")
		}
		sb.WriteString(" => ")
		write(sb, t.Body, rename)
	case RowEmpty:
		sb.WriteString("()")
	case RowCons:
		sb.WriteString("(")
		var row Type = t
		first := true
		for {
			cons, ok := row.(RowCons)
			if !ok {
				break
			}
			if !first {
				sb.WriteString(", ")
			}
			first = false
			sb.WriteString(cons.Label + " :: ")
			write(sb, cons.Head, rename)
			row = cons.Tail
		}
		if _, closed := row.(RowEmpty); !closed {
			sb.WriteString(" | ")
			write(sb, row, rename)
		}
		sb.WriteString(")")
	case nil:
		sb.WriteString("<nil>")
	}
}

func writeAtom(sb *strings.Builder, t Type, rename renamer) {
	switch t.(type) {
	case TypeApp, Function, ForAll, ConstrainedType:
		sb.WriteString("(")
		write(sb, t, rename)
		sb.WriteString(")")
	default:
		write(sb, t, rename)
	}
}

func renderConstraint(c Constraint, rename renamer) string {
	sb := &strings.Builder{}
	sb.WriteString(c.Class.String())
	for _, arg := range c.Args {
		sb.WriteString(" ")
		writeAtom(sb, arg, rename)
	}
	return sb.String()
}
