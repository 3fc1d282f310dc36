// Package annotated types values by their annotations instead of inferring
// them. It is enough to elaborate modules whose values are all annotated,
// which is what module interfaces and test fixtures look like.
package annotated

import (
	"github.com/cottand/elab/frontend/ast"
	"github.com/cottand/elab/frontend/check"
	"github.com/cottand/elab/frontend/env"
	"github.com/cottand/elab/frontend/ilerr"
	"github.com/cottand/elab/frontend/kinds"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/types"
	"github.com/cottand/elab/internal/log"
)

var logger = log.DefaultLogger.With("section", "annotated")

// EntryPoint is the name of the value programs start from in the main module
const EntryPoint names.Ident = "main"

var _ check.TypeInferencer = Inferencer{}

type Inferencer struct {
	// Kinds checks that annotations are types of values
	Kinds check.KindInferencer
}

// TypesOf gives each binding its declared type, or the type it is annotated
// with. Free type variables of that type are generalised.
func (i Inferencer) TypesOf(environment *env.Environment, mainModule *names.ModuleName, module names.ModuleName, bindings []check.Binding) ([]check.InferredBinding, error) {
	inferred := make([]check.InferredBinding, len(bindings))
	for n, b := range bindings {
		declared, expr := b.Declared, b.Expr
		if typed, ok := expr.(*ast.TypedValue); ok {
			if declared == nil {
				declared = typed.Type
			}
			expr = typed.Expr
		}
		if declared == nil {
			return nil, ilerr.New(ilerr.NewMissingTypeAnnotation{Name: b.Name})
		}
		generalised := types.MkForAll(types.FreeTypeVars(declared), declared)

		kind, err := i.Kinds.KindOf(environment, module, generalised)
		if err != nil {
			return nil, err
		}
		if !kind.Equal(kinds.Star) {
			return nil, ilerr.New(ilerr.NewExpectedValueKind{Type: declared, Kind: kind})
		}

		if mainModule != nil && *mainModule == module && b.Name == EntryPoint {
			logger.Debug("typed entry point", "module", module, "type", generalised)
		}
		inferred[n] = check.InferredBinding{
			Name: b.Name,
			Expr: &ast.TypedValue{Expr: expr, Type: generalised, Checked: true},
			Type: generalised,
		}
	}
	return inferred, nil
}
