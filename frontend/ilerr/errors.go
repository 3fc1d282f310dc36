package ilerr

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/pkg/errors"

	"github.com/cottand/elab/frontend/kinds"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/types"
)

// enableDebugErrorPrinting makes errors include where they were created when printed
var enableDebugErrorPrinting = false

const enableDebugFullStacktrace bool = false

type ErrCode int

const (
	None ErrCode = iota
	DuplicateDefinition
	InvalidNewtypeShape
	DuplicateTypeArgument
	InvalidInstanceHead
	UndefinedOperatorInFixity
	ExpectedValueKind
	KindMismatch
	InfiniteKind
	UnknownTypeConstructor
	UndefinedTypeVariable
	MissingTypeAnnotation
	MalformedSource
)

var codeNames = map[ErrCode]string{
	None:                      "None",
	DuplicateDefinition:       "DuplicateDefinition",
	InvalidNewtypeShape:       "InvalidNewtypeShape",
	DuplicateTypeArgument:     "DuplicateTypeArgument",
	InvalidInstanceHead:       "InvalidInstanceHead",
	UndefinedOperatorInFixity: "UndefinedOperatorInFixity",
	ExpectedValueKind:         "ExpectedValueKind",
	KindMismatch:              "KindMismatch",
	InfiniteKind:              "InfiniteKind",
	UnknownTypeConstructor:    "UnknownTypeConstructor",
	UndefinedTypeVariable:     "UndefinedTypeVariable",
	MissingTypeAnnotation:     "MissingTypeAnnotation",
	MalformedSource:           "MalformedSource",
}

func (c ErrCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrCode(%d)", int(c))
}

// ParseCode is the inverse of ErrCode.String
func ParseCode(s string) (ErrCode, bool) {
	for code, name := range codeNames {
		if name == s {
			return code, true
		}
	}
	return None, false
}

// ElabError is a problem in the user's program. Problems in the compiler
// itself are InternalError instead.
type ElabError interface {
	Error() string
	Code() ErrCode

	withStack([]byte) ElabError
	getStack() []byte
}

func FormatWithCode(e ElabError) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			if lines := strings.Split(stack, "\n"); len(lines) > 6 {
				stack = lines[6]
			}
		}
		return fmt.Sprintf("%s:(E%03d) %s", stack, e.Code(), e.Error())
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

func New[E ElabError](err E) ElabError {
	return err.withStack(debug.Stack())
}

// CodeOf finds the ElabError err was caused by and returns its code,
// or None if there is none
func CodeOf(err error) ErrCode {
	var elabErr ElabError
	if errors.As(err, &elabErr) {
		return elabErr.Code()
	}
	return None
}

type NewDuplicateDefinition struct {
	// What is the sort of thing being defined, e.g. "value" or "type class"
	What  string
	Name  string
	stack []byte
}

func (e NewDuplicateDefinition) Error() string {
	return fmt.Sprintf("%s %s has already been defined", e.What, e.Name)
}
func (e NewDuplicateDefinition) Code() ErrCode    { return DuplicateDefinition }
func (e NewDuplicateDefinition) getStack() []byte { return e.stack }
func (e NewDuplicateDefinition) withStack(stack []byte) ElabError {
	e.stack = stack
	return e
}

type NewInvalidNewtypeShape struct {
	Name         names.ProperName
	Constructors int
	// Fields is the field count of the only constructor, when there is one
	Fields int
	stack  []byte
}

func (e NewInvalidNewtypeShape) Error() string {
	if e.Constructors != 1 {
		return fmt.Sprintf("newtype %s must have exactly one constructor, but it has %d", e.Name, e.Constructors)
	}
	return fmt.Sprintf("the constructor of newtype %s must have exactly one field, but it has %d", e.Name, e.Fields)
}
func (e NewInvalidNewtypeShape) Code() ErrCode    { return InvalidNewtypeShape }
func (e NewInvalidNewtypeShape) getStack() []byte { return e.stack }
func (e NewInvalidNewtypeShape) withStack(stack []byte) ElabError {
	e.stack = stack
	return e
}

type NewDuplicateTypeArgument struct {
	Name  string
	stack []byte
}

func (e NewDuplicateTypeArgument) Error() string {
	return fmt.Sprintf("type argument '%s' appears more than once", e.Name)
}
func (e NewDuplicateTypeArgument) Code() ErrCode    { return DuplicateTypeArgument }
func (e NewDuplicateTypeArgument) getStack() []byte { return e.stack }
func (e NewDuplicateTypeArgument) withStack(stack []byte) ElabError {
	e.stack = stack
	return e
}

type NewInvalidInstanceHead struct {
	Type types.Type
	// Synonym is set when Type is rejected for naming a type synonym
	Synonym bool
	stack   []byte
}

func (e NewInvalidInstanceHead) Error() string {
	if e.Synonym {
		return fmt.Sprintf("type synonym %v cannot be used in an instance head", e.Type)
	}
	return fmt.Sprintf("type %v cannot be used in an instance head: only type variables and type constructors applied to them are allowed", e.Type)
}
func (e NewInvalidInstanceHead) Code() ErrCode    { return InvalidInstanceHead }
func (e NewInvalidInstanceHead) getStack() []byte { return e.stack }
func (e NewInvalidInstanceHead) withStack(stack []byte) ElabError {
	e.stack = stack
	return e
}

type NewUndefinedOperatorInFixity struct {
	Operator names.Ident
	stack    []byte
}

func (e NewUndefinedOperatorInFixity) Error() string {
	return fmt.Sprintf("fixity declared for %v, but there is no such operator", e.Operator)
}
func (e NewUndefinedOperatorInFixity) Code() ErrCode    { return UndefinedOperatorInFixity }
func (e NewUndefinedOperatorInFixity) getStack() []byte { return e.stack }
func (e NewUndefinedOperatorInFixity) withStack(stack []byte) ElabError {
	e.stack = stack
	return e
}

type NewExpectedValueKind struct {
	Type  types.Type
	Kind  kinds.Kind
	stack []byte
}

func (e NewExpectedValueKind) Error() string {
	return fmt.Sprintf("expected type %v to have kind *, but it has kind %v", e.Type, e.Kind)
}
func (e NewExpectedValueKind) Code() ErrCode    { return ExpectedValueKind }
func (e NewExpectedValueKind) getStack() []byte { return e.stack }
func (e NewExpectedValueKind) withStack(stack []byte) ElabError {
	e.stack = stack
	return e
}

type NewKindMismatch struct {
	Expected kinds.Kind
	Found    kinds.Kind
	stack    []byte
}

func (e NewKindMismatch) Error() string {
	return fmt.Sprintf("kind mismatch: expected kind %v, but found %v", e.Expected, e.Found)
}
func (e NewKindMismatch) Code() ErrCode    { return KindMismatch }
func (e NewKindMismatch) getStack() []byte { return e.stack }
func (e NewKindMismatch) withStack(stack []byte) ElabError {
	e.stack = stack
	return e
}

type NewInfiniteKind struct {
	Kind  kinds.Kind
	stack []byte
}

func (e NewInfiniteKind) Error() string {
	return fmt.Sprintf("infinite kind: %v occurs in itself", e.Kind)
}
func (e NewInfiniteKind) Code() ErrCode    { return InfiniteKind }
func (e NewInfiniteKind) getStack() []byte { return e.stack }
func (e NewInfiniteKind) withStack(stack []byte) ElabError {
	e.stack = stack
	return e
}

type NewUnknownTypeConstructor struct {
	Name  names.Qualified[names.ProperName]
	stack []byte
}

func (e NewUnknownTypeConstructor) Error() string {
	return fmt.Sprintf("unknown type constructor %v", e.Name)
}
func (e NewUnknownTypeConstructor) Code() ErrCode    { return UnknownTypeConstructor }
func (e NewUnknownTypeConstructor) getStack() []byte { return e.stack }
func (e NewUnknownTypeConstructor) withStack(stack []byte) ElabError {
	e.stack = stack
	return e
}

type NewUndefinedTypeVariable struct {
	Name  string
	stack []byte
}

func (e NewUndefinedTypeVariable) Error() string {
	return fmt.Sprintf("type variable '%s' is not defined", e.Name)
}
func (e NewUndefinedTypeVariable) Code() ErrCode    { return UndefinedTypeVariable }
func (e NewUndefinedTypeVariable) getStack() []byte { return e.stack }
func (e NewUndefinedTypeVariable) withStack(stack []byte) ElabError {
	e.stack = stack
	return e
}

type NewMissingTypeAnnotation struct {
	Name  names.Ident
	stack []byte
}

func (e NewMissingTypeAnnotation) Error() string {
	return fmt.Sprintf("missing type annotation for %v", e.Name)
}
func (e NewMissingTypeAnnotation) Code() ErrCode    { return MissingTypeAnnotation }
func (e NewMissingTypeAnnotation) getStack() []byte { return e.stack }
func (e NewMissingTypeAnnotation) withStack(stack []byte) ElabError {
	e.stack = stack
	return e
}

type NewMalformedSource struct {
	Path    string
	Message string
	stack   []byte
}

func (e NewMalformedSource) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}
func (e NewMalformedSource) Code() ErrCode    { return MalformedSource }
func (e NewMalformedSource) getStack() []byte { return e.stack }
func (e NewMalformedSource) withStack(stack []byte) ElabError {
	e.stack = stack
	return e
}
