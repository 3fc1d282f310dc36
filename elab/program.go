// Package elab runs the declaration elaborator over whole programs: module
// files are loaded and checked one module after the other, in the order they
// are given, against a single Environment.
package elab

import (
	"io/fs"

	"github.com/pkg/errors"

	"github.com/cottand/elab/frontend/annotated"
	"github.com/cottand/elab/frontend/ast"
	"github.com/cottand/elab/frontend/check"
	"github.com/cottand/elab/frontend/env"
	"github.com/cottand/elab/frontend/ilerr"
	"github.com/cottand/elab/frontend/kindcheck"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/source"
	"github.com/cottand/elab/internal/log"
)

var programLogger = log.DefaultLogger.With("section", "program")

type Settings struct {
	// MainModule holds the entry point of the program, if there is one
	MainModule *names.ModuleName
	// Kinds defaults to kindcheck.Inferencer
	Kinds check.KindInferencer
	// Types defaults to an annotated.Inferencer using Kinds
	Types check.TypeInferencer
}

// CheckedModule is a module that went through elaboration
type CheckedModule struct {
	Path         string
	Name         names.ModuleName
	Declarations []ast.Declaration
}

// Program is the modules checked so far and the Environment they built
type Program struct {
	settings   Settings
	elaborator *check.Elaborator
	modules    []CheckedModule
}

func NewProgram(settings Settings) *Program {
	if settings.Kinds == nil {
		settings.Kinds = kindcheck.Inferencer{}
	}
	if settings.Types == nil {
		settings.Types = annotated.Inferencer{Kinds: settings.Kinds}
	}
	return &Program{
		settings:   settings,
		elaborator: check.NewElaborator(env.Initial(), settings.Kinds, settings.Types),
	}
}

func (p *Program) Env() *env.Environment {
	return p.elaborator.Env()
}

// Modules are the modules checked successfully, in the order they were checked
func (p *Program) Modules() []CheckedModule {
	return p.modules
}

// CheckFiles loads every file of paths and checks its modules. It stops at
// the first file that cannot be loaded or module that does not check.
func (p *Program) CheckFiles(fsys fs.FS, paths ...string) error {
	for _, path := range paths {
		modules, err := source.Load(fsys, path)
		if err != nil {
			return err
		}
		for _, m := range modules {
			if err := p.CheckModule(m); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckModule elaborates m. An *ilerr.InternalError raised while doing so
// is returned as an error rather than left to crash the caller.
func (p *Program) CheckModule(m *source.Module) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		internal, ok := r.(*ilerr.InternalError)
		if !ok {
			panic(r)
		}
		programLogger.Error("internal error", "module", m.Name, "path", m.Path, "error", internal)
		err = errors.WithMessagef(internal, "checking module %s in %s", m.Name, m.Path)
	}()

	programLogger.Debug("checking module", "module", m.Name, "path", m.Path)
	decls, err := p.elaborator.Elaborate(p.settings.MainModule, m.Name, m.Exports, m.Declarations)
	if err != nil {
		return err
	}
	p.modules = append(p.modules, CheckedModule{Path: m.Path, Name: m.Name, Declarations: decls})
	return nil
}
