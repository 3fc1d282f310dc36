package ast

import (
	"go/token"

	"github.com/cottand/elab/frontend/names"
)

// ExportRef is an entry of a module's export list, or of an import list
type ExportRef interface {
	exportRef()
}

type TypeRef struct {
	Name names.ProperName
	// Constructors is nil when all constructors are exported
	Constructors []names.ProperName
}

type ValueRef struct {
	Name names.Ident
}

type TypeClassRef struct {
	Name names.ProperName
}

// TypeInstanceRef exports an instance by the name of its dictionary
type TypeInstanceRef struct {
	Name names.Ident
}

type ModuleRef struct {
	Name names.ModuleName
}

type PositionedRef struct {
	Pos token.Position
	Ref ExportRef
}

func (*TypeRef) exportRef()         {}
func (*ValueRef) exportRef()        {}
func (*TypeClassRef) exportRef()    {}
func (*TypeInstanceRef) exportRef() {}
func (*ModuleRef) exportRef()       {}
func (*PositionedRef) exportRef()   {}

// UnwrapRef strips any PositionedRef around ref
func UnwrapRef(ref ExportRef) ExportRef {
	for {
		positioned, ok := ref.(*PositionedRef)
		if !ok {
			return ref
		}
		ref = positioned.Ref
	}
}
