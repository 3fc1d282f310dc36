// Package kindcheck infers kinds by unification over kind variables.
// Kind variables that nothing constrains default to *.
package kindcheck

import (
	"github.com/cottand/elab/frontend/check"
	"github.com/cottand/elab/frontend/env"
	"github.com/cottand/elab/frontend/ilerr"
	"github.com/cottand/elab/frontend/kinds"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/types"
	"github.com/cottand/elab/internal/log"
)

var logger = log.DefaultLogger.With("section", "kindcheck")

var _ check.KindInferencer = Inferencer{}

type Inferencer struct{}

// state is the inference of a single call
type state struct {
	solution
	env    *env.Environment
	module names.ModuleName
	// vars are the kinds of the type variables in scope
	vars map[string]kinds.Kind
	// local are the type constructors being defined, which are not in env yet
	local map[env.TypeName]kinds.Kind
}

func newState(environment *env.Environment, module names.ModuleName) *state {
	return &state{
		solution: solution{bound: make(map[int]kinds.Kind)},
		env:      environment,
		module:   module,
		vars:     make(map[string]kinds.Kind),
		local:    make(map[env.TypeName]kinds.Kind),
	}
}

func (Inferencer) KindOf(environment *env.Environment, module names.ModuleName, t types.Type) (kinds.Kind, error) {
	s := newState(environment, module)
	k, err := s.infer(t)
	if err != nil {
		return nil, err
	}
	kind := s.finish(k)
	logger.Debug("inferred kind", "type", t, "kind", kind)
	return kind, nil
}

func (Inferencer) KindsOf(environment *env.Environment, isData bool, module names.ModuleName, name names.ProperName, params []string, args []types.Type) (kinds.Kind, error) {
	s := newState(environment, module)
	self := s.declare(name)
	var inferred kinds.Kind
	var err error
	if isData {
		inferred, err = s.dataKind(params, args)
	} else {
		inferred, err = s.synonymKind(params, args)
	}
	if err != nil {
		return nil, err
	}
	if err := s.unify(self, inferred); err != nil {
		return nil, err
	}
	kind := s.finish(self)
	logger.Debug("inferred kind", "constructor", name, "data", isData, "kind", kind)
	return kind, nil
}

func (Inferencer) KindsOfAll(environment *env.Environment, module names.ModuleName, synonyms []check.SynonymDecl, datas []check.DataDecl) ([]kinds.Kind, []kinds.Kind, error) {
	s := newState(environment, module)
	synonymSelves := make([]kinds.Kind, len(synonyms))
	for i, d := range synonyms {
		synonymSelves[i] = s.declare(d.Name)
	}
	dataSelves := make([]kinds.Kind, len(datas))
	for i, d := range datas {
		dataSelves[i] = s.declare(d.Name)
	}

	for i, d := range synonyms {
		inferred, err := s.synonymKind(d.Params, []types.Type{d.Body})
		if err != nil {
			return nil, nil, err
		}
		if err := s.unify(synonymSelves[i], inferred); err != nil {
			return nil, nil, err
		}
	}
	for i, d := range datas {
		inferred, err := s.dataKind(d.Params, d.Fields)
		if err != nil {
			return nil, nil, err
		}
		if err := s.unify(dataSelves[i], inferred); err != nil {
			return nil, nil, err
		}
	}

	synonymKinds := make([]kinds.Kind, len(synonyms))
	for i, k := range synonymSelves {
		synonymKinds[i] = s.finish(k)
	}
	dataKinds := make([]kinds.Kind, len(datas))
	for i, k := range dataSelves {
		dataKinds[i] = s.finish(k)
	}
	return synonymKinds, dataKinds, nil
}

// declare makes name, which is being defined, refer to a fresh kind
func (s *state) declare(name names.ProperName) kinds.Kind {
	k := s.fresh()
	s.local[names.Qualify(s.module, name)] = k
	return k
}

// withParams runs body with params in scope, returning their kinds
func (s *state) withParams(params []string, body func() error) ([]kinds.Kind, error) {
	paramKinds := make([]kinds.Kind, len(params))
	previous := s.vars
	s.vars = make(map[string]kinds.Kind, len(previous)+len(params))
	for name, k := range previous {
		s.vars[name] = k
	}
	for i, param := range params {
		paramKinds[i] = s.fresh()
		s.vars[param] = paramKinds[i]
	}
	defer func() { s.vars = previous }()
	return paramKinds, body()
}

// dataKind is params -> *, where every field has kind *
func (s *state) dataKind(params []string, fields []types.Type) (kinds.Kind, error) {
	paramKinds, err := s.withParams(params, func() error {
		for _, field := range fields {
			k, err := s.infer(field)
			if err != nil {
				return err
			}
			if err := s.unify(kinds.Star, k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return kinds.Arrow(paramKinds, kinds.Star), nil
}

// synonymKind is params -> the kind of the body
func (s *state) synonymKind(params []string, body []types.Type) (kinds.Kind, error) {
	var bodyKind kinds.Kind = s.fresh()
	paramKinds, err := s.withParams(params, func() error {
		for _, t := range body {
			k, err := s.infer(t)
			if err != nil {
				return err
			}
			bodyKind = k
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return kinds.Arrow(paramKinds, bodyKind), nil
}

func (s *state) infer(t types.Type) (kinds.Kind, error) {
	switch t := t.(type) {
	case types.TypeVar:
		k, ok := s.vars[t.Name]
		if !ok {
			return nil, ilerr.New(ilerr.NewUndefinedTypeVariable{Name: t.Name})
		}
		return k, nil

	case types.TypeConstructor:
		if k, ok := s.local[t.Name]; ok {
			return k, nil
		}
		entry, ok := s.env.LookupType(t.Name)
		if !ok {
			return nil, ilerr.New(ilerr.NewUnknownTypeConstructor{Name: t.Name})
		}
		return entry.Kind, nil

	case types.TypeApp:
		fnKind, err := s.infer(t.Fn)
		if err != nil {
			return nil, err
		}
		argKind, err := s.infer(t.Arg)
		if err != nil {
			return nil, err
		}
		result := s.fresh()
		if err := s.unify(fnKind, kinds.KFun{Arg: argKind, Result: result}); err != nil {
			return nil, err
		}
		return result, nil

	case types.Function:
		for _, side := range []types.Type{t.Arg, t.Result} {
			k, err := s.infer(side)
			if err != nil {
				return nil, err
			}
			if err := s.unify(kinds.Star, k); err != nil {
				return nil, err
			}
		}
		return kinds.Star, nil

	case types.ForAll:
		var bodyKind kinds.Kind
		_, err := s.withParams([]string{t.Var}, func() (err error) {
			bodyKind, err = s.infer(t.Body)
			return err
		})
		return bodyKind, err

	case types.ConstrainedType:
		for _, constraint := range t.Constraints {
			for _, arg := range constraint.Args {
				if _, err := s.infer(arg); err != nil {
					return nil, err
				}
			}
		}
		k, err := s.infer(t.Body)
		if err != nil {
			return nil, err
		}
		if err := s.unify(kinds.Star, k); err != nil {
			return nil, err
		}
		return kinds.Star, nil

	case types.RowEmpty:
		return kinds.KRow{Of: s.fresh()}, nil

	case types.RowCons:
		headKind, err := s.infer(t.Head)
		if err != nil {
			return nil, err
		}
		tailKind, err := s.infer(t.Tail)
		if err != nil {
			return nil, err
		}
		row := kinds.KRow{Of: headKind}
		if err := s.unify(row, tailKind); err != nil {
			return nil, err
		}
		return row, nil

	default:
		panic(ilerr.Internalf("cannot infer the kind of %T", t))
	}
}
