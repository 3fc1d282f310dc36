package kinds

import (
	"fmt"
	"strings"
)

// Kind represents the "type of a type".
// * (Star) is the kind of value types (Int, Boolean, Array Int).
// * -> * is the kind of one-argument type constructors (Array, Maybe).
type Kind interface {
	String() string
	Equal(Kind) bool
	kindNode()
}

var (
	_ Kind = KStar{}
	_ Kind = KRow{}
	_ Kind = KFun{}
	_ Kind = KUnknown{}
)

// KStar is the kind of types that have values
type KStar struct{}

func (KStar) kindNode()      {}
func (KStar) String() string { return "*" }
func (KStar) Equal(other Kind) bool {
	_, ok := other.(KStar)
	return ok
}

// KRow is the kind of rows whose labels point at types of kind Of
type KRow struct {
	Of Kind
}

func (KRow) kindNode() {}
func (k KRow) String() string {
	return "# " + parenthesise(k.Of)
}
func (k KRow) Equal(other Kind) bool {
	o, ok := other.(KRow)
	return ok && k.Of.Equal(o.Of)
}

// KFun is the kind of type constructors, Arg -> Result
type KFun struct {
	Arg    Kind
	Result Kind
}

func (KFun) kindNode() {}
func (k KFun) String() string {
	sb := strings.Builder{}
	if _, isFun := k.Arg.(KFun); isFun {
		sb.WriteString("(" + k.Arg.String() + ")")
	} else {
		sb.WriteString(k.Arg.String())
	}
	sb.WriteString(" -> ")
	sb.WriteString(k.Result.String())
	return sb.String()
}
func (k KFun) Equal(other Kind) bool {
	o, ok := other.(KFun)
	return ok && k.Arg.Equal(o.Arg) && k.Result.Equal(o.Result)
}

// KUnknown is a kind variable, only present while kinds are being inferred
type KUnknown struct {
	ID int
}

func (KUnknown) kindNode()        {}
func (k KUnknown) String() string { return fmt.Sprintf("k%d", k.ID) }
func (k KUnknown) Equal(other Kind) bool {
	o, ok := other.(KUnknown)
	return ok && o.ID == k.ID
}

var Star Kind = KStar{}

// Arrow builds the right-nested kind args[0] -> args[1] -> ... -> result
func Arrow(args []Kind, result Kind) Kind {
	for i := len(args) - 1; i >= 0; i-- {
		result = KFun{Arg: args[i], Result: result}
	}
	return result
}

func parenthesise(k Kind) string {
	switch k.(type) {
	case KFun, KRow:
		return "(" + k.String() + ")"
	default:
		return k.String()
	}
}
