// Package check elaborates the declarations of a module against the
// Environment: it validates them, has their kinds and types inferred, and
// registers everything they define.
package check

import (
	"log/slog"
	"slices"

	"github.com/hashicorp/go-set/v3"

	"github.com/cottand/elab/frontend/ast"
	"github.com/cottand/elab/frontend/env"
	"github.com/cottand/elab/frontend/ilerr"
	"github.com/cottand/elab/frontend/kinds"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/types"
	"github.com/cottand/elab/internal/log"
	"github.com/cottand/elab/util"
)

var elaborateLogger = log.DefaultLogger.With("section", "elaborate")

// Elaborator checks modules one after the other against a single
// Environment. It is not safe for concurrent use.
type Elaborator struct {
	env     *env.Environment
	kinds   KindInferencer
	types   TypeInferencer
	context util.Stack[ilerr.Frame]
	logger  *slog.Logger
}

func NewElaborator(environment *env.Environment, kindInferencer KindInferencer, typeInferencer TypeInferencer) *Elaborator {
	return &Elaborator{
		env:    environment,
		kinds:  kindInferencer,
		types:  typeInferencer,
		logger: elaborateLogger,
	}
}

// Env is the Environment the Elaborator extends
func (e *Elaborator) Env() *env.Environment {
	return e.env
}

// moduleScope is what stays the same while elaborating one module
type moduleScope struct {
	main              *names.ModuleName
	name              names.ModuleName
	exportedInstances *set.Set[names.Ident]
}

// Elaborate checks the declarations of module in order, registering what they
// define in the Environment. It returns the declarations with their values
// replaced by what type inference elaborated them to; everything else is
// returned as is.
//
// exports is the explicit export list of the module, or nil if it has none.
//
// Elaborate stops at the first error. Whatever was registered until then
// stays in the Environment, so after an error it should be discarded.
// Declarations that earlier passes should have removed make Elaborate panic
// with an *ilerr.InternalError.
func (e *Elaborator) Elaborate(mainModule *names.ModuleName, module names.ModuleName, exports []ast.ExportRef, decls []ast.Declaration) ([]ast.Declaration, error) {
	scope := &moduleScope{main: mainModule, name: module, exportedInstances: exportedInstances(exports)}
	e.logger.Debug("elaborating module", "module", module, "declarations", len(decls))

	var elaborated []ast.Declaration
	err := e.within(message("in module %v", module), func() (err error) {
		elaborated, err = e.elaborateDecls(scope, decls)
		return err
	})
	if err != nil {
		e.logger.Debug("module failed", "module", module, "error", err)
		return nil, err
	}
	return elaborated, nil
}

// elaborateDecls handles decls from left to right, each one after the ones
// before it have been registered
func (e *Elaborator) elaborateDecls(scope *moduleScope, decls []ast.Declaration) ([]ast.Declaration, error) {
	if len(decls) == 0 {
		return []ast.Declaration{}, nil
	}
	head, rest := decls[0], decls[1:]

	switch d := head.(type) {
	case *ast.PositionedDeclaration:
		// the position applies to everything after d too, so that errors in
		// the remaining declarations are reported at the latest position seen
		var elaborated []ast.Declaration
		err := e.within(ilerr.Frame{Pos: d.Pos}, func() (err error) {
			elaborated, err = e.elaborateDecls(scope, append([]ast.Declaration{d.Decl}, rest...))
			return err
		})
		if err != nil {
			return nil, err
		}
		elaborated[0] = &ast.PositionedDeclaration{Pos: d.Pos, Decl: elaborated[0]}
		return elaborated, nil

	case *ast.FixityDeclaration:
		// operators may be defined after their fixity
		elaboratedRest, err := e.elaborateDecls(scope, rest)
		if err != nil {
			return nil, err
		}
		err = e.within(message("in fixity declaration for %v", d.Operator), func() error {
			e.logger.Debug("checking fixity", "decl", slogDecl(d), "context", e.contextPath())
			if _, ok := e.env.LookupName(scope.name, d.Operator); !ok {
				return ilerr.New(ilerr.NewUndefinedOperatorInFixity{Operator: d.Operator})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return append([]ast.Declaration{d}, elaboratedRest...), nil

	default:
		elaborated, err := e.elaborateDeclaration(scope, head)
		if err != nil {
			return nil, err
		}
		elaboratedRest, err := e.elaborateDecls(scope, rest)
		if err != nil {
			return nil, err
		}
		return append([]ast.Declaration{elaborated}, elaboratedRest...), nil
	}
}

func (e *Elaborator) elaborateDeclaration(scope *moduleScope, decl ast.Declaration) (ast.Declaration, error) {
	e.logger.Debug("elaborating declaration", "decl", slogDecl(decl), "context", e.contextPath())
	module := scope.name

	switch d := decl.(type) {
	case *ast.DataDeclaration:
		return d, e.within(message("in type constructor %v", d.Name), func() error {
			if err := checkDataDeclaration(d); err != nil {
				return err
			}
			kind, err := e.kinds.KindsOf(e.env, true, module, d.Name, d.Params, d.ConstructorFields())
			if err != nil {
				return err
			}
			return e.addDataType(module, d, kind)
		})

	case *ast.DataBindingGroup:
		return d, e.elaborateDataBindingGroup(module, d)

	case *ast.TypeSynonymDeclaration:
		return d, e.within(message("in type synonym %v", d.Name), func() error {
			if err := checkDuplicateTypeArguments(d.Params); err != nil {
				return err
			}
			kind, err := e.kinds.KindsOf(e.env, false, module, d.Name, d.Params, []types.Type{d.Body})
			if err != nil {
				return err
			}
			return e.addTypeSynonym(module, d, kind)
		})

	case *ast.TypeDeclaration:
		panic(ilerr.Internalf("type signature for %v has no value: it should have been merged into it by desugaring", d.Name))

	case *ast.ValueDeclaration:
		if len(d.Binders) > 0 || d.Guard != nil {
			panic(ilerr.Internalf("value %v still has binders or a guard: they should have been removed by desugaring", d.Name))
		}
		var elaborated *ast.ValueDeclaration
		err := e.within(message("in declaration %v", d.Name), func() error {
			if err := valueIsNotDefined(e.env, module, d.Name); err != nil {
				return err
			}
			inferred, err := e.inferTypes(scope, []Binding{{Name: d.Name, Expr: d.Expr}})
			if err != nil {
				return err
			}
			e.addValue(module, d.Name, inferred[0].Type, d.NameKind)
			elaborated = &ast.ValueDeclaration{Name: d.Name, NameKind: d.NameKind, Expr: inferred[0].Expr}
			return nil
		})
		return elaborated, err

	case *ast.BindingGroupDeclaration:
		var elaborated *ast.BindingGroupDeclaration
		err := e.within(message("in binding group containing %v", joinIdents(d.Names())), func() error {
			if err := checkUniqueNames(d.Names()); err != nil {
				return err
			}
			for _, name := range d.Names() {
				if err := valueIsNotDefined(e.env, module, name); err != nil {
					return err
				}
			}
			bindings := make([]Binding, len(d.Bindings))
			for i, b := range d.Bindings {
				bindings[i] = Binding{Name: b.Name, Expr: b.Expr, Declared: b.Type}
			}
			inferred, err := e.inferTypes(scope, bindings)
			if err != nil {
				return err
			}
			elaborated = &ast.BindingGroupDeclaration{Bindings: make([]ast.Binding, len(d.Bindings))}
			for i, b := range d.Bindings {
				e.addValue(module, b.Name, inferred[i].Type, b.NameKind)
				b.Expr = inferred[i].Expr
				elaborated.Bindings[i] = b
			}
			return nil
		})
		return elaborated, err

	case *ast.ExternDataDeclaration:
		return d, e.within(message("in foreign data type %v", d.Name), func() error {
			name := names.Qualify(module, d.Name)
			if err := typeIsNotDefined(e.env, name); err != nil {
				return err
			}
			e.env.AddType(name, d.Kind, env.ExternData{})
			return nil
		})

	case *ast.ExternDeclaration:
		return d, e.within(message("in foreign import %v", d.Name), func() error {
			kind, err := e.kinds.KindOf(e.env, module, d.Type)
			if err != nil {
				return err
			}
			if kind == nil {
				panic(ilerr.Internalf("kind inference returned no kind for %v", d.Type))
			}
			if !kind.Equal(kinds.Star) {
				return ilerr.New(ilerr.NewExpectedValueKind{Type: d.Type, Kind: kind})
			}
			if err := valueIsNotDefined(e.env, module, d.Name); err != nil {
				return err
			}
			e.env.AddName(names.Qualify(module, d.Name), env.NameInfo{
				Type:       d.Type,
				Kind:       env.Extern,
				Convention: d.Convention,
				Status:     env.Defined,
			})
			return nil
		})

	case *ast.ImportDeclaration:
		count := e.env.ReexportInstances(d.Module, module)
		e.logger.Debug("imported instances", "from", d.Module, "count", count)
		return d, nil

	case *ast.TypeClassDeclaration:
		return d, e.within(message("in type class %v", d.Name), func() error {
			if err := checkDuplicateTypeArguments(d.Params); err != nil {
				return err
			}
			name := names.Qualify(module, d.Name)
			if err := typeClassIsNotDefined(e.env, name); err != nil {
				return err
			}
			members := make([]env.ClassMember, len(d.Members))
			for i, member := range d.Members {
				signature, ok := ast.UnwrapDeclaration(member).(*ast.TypeDeclaration)
				if !ok {
					panic(ilerr.Internalf("type class %v has a member that is not a type signature: %s", d.Name, describe(member)))
				}
				members[i] = env.ClassMember{Name: signature.Name, Type: signature.Type}
			}
			e.env.AddTypeClass(name, env.TypeClass{
				Params:       d.Params,
				Members:      members,
				Superclasses: d.Superclasses,
			})
			return nil
		})

	case *ast.TypeInstanceDeclaration:
		return d, e.within(message("in type class instance %v", d.Name), func() error {
			for _, t := range d.Types {
				if err := checkInstanceHeadType(e.env, t); err != nil {
					return err
				}
			}
			for _, dependency := range d.Dependencies {
				for _, t := range dependency.Args {
					if err := checkInstanceHeadType(e.env, t); err != nil {
						return err
					}
				}
			}
			dict := env.TypeClassDictionary{
				Name:          names.Qualify(module, d.Name),
				ClassName:     d.ClassName,
				InstanceTypes: d.Types,
				Dependencies:  d.Dependencies,
				Origin:        env.RegularInstance{},
				Exported:      scope.isExported(d.Name),
			}
			if err := instanceIsNotDefined(e.env, module, dict); err != nil {
				return err
			}
			e.env.AddTypeClassDictionaries(module, dict)
			return nil
		})

	default:
		panic(ilerr.Internalf("unexpected declaration %T", decl))
	}
}

func checkDataDeclaration(d *ast.DataDeclaration) error {
	if d.Type == env.Newtype {
		if err := checkNewtypeShape(d.Name, d.Constructors); err != nil {
			return err
		}
	}
	return checkDuplicateTypeArguments(d.Params)
}

// elaborateDataBindingGroup infers the kinds of all the types in the group at
// once, so that they can refer to each other
func (e *Elaborator) elaborateDataBindingGroup(module names.ModuleName, group *ast.DataBindingGroup) error {
	var synonyms []*ast.TypeSynonymDeclaration
	var datas []*ast.DataDeclaration
	// frames of each member, to report errors where the member is
	frames := make(map[ast.Declaration][]ilerr.Frame, len(group.Decls))
	var typeNames []names.ProperName

	for _, member := range group.Decls {
		var memberFrames []ilerr.Frame
		if positioned, ok := member.(*ast.PositionedDeclaration); ok {
			memberFrames = append(memberFrames, ilerr.Frame{Pos: positioned.Pos})
		}
		switch d := ast.UnwrapDeclaration(member).(type) {
		case *ast.TypeSynonymDeclaration:
			synonyms = append(synonyms, d)
			typeNames = append(typeNames, d.Name)
			frames[d] = append(memberFrames, message("in type synonym %v", d.Name))
		case *ast.DataDeclaration:
			datas = append(datas, d)
			typeNames = append(typeNames, d.Name)
			frames[d] = append(memberFrames, message("in type constructor %v", d.Name))
		default:
			panic(ilerr.Internalf("data binding group contains %s, which is neither data nor a type synonym", describe(member)))
		}
	}

	withinMember := func(d ast.Declaration, body func() error) error {
		memberFrames := frames[d]
		for i := len(memberFrames) - 1; i >= 0; i-- {
			inner, frame := body, memberFrames[i]
			body = func() error { return e.within(frame, inner) }
		}
		return body()
	}

	return e.within(message("in data binding group containing %v", joinProperNames(typeNames)), func() error {
		for _, d := range synonyms {
			if err := withinMember(d, func() error { return checkDuplicateTypeArguments(d.Params) }); err != nil {
				return err
			}
		}
		for _, d := range datas {
			if err := withinMember(d, func() error { return checkDataDeclaration(d) }); err != nil {
				return err
			}
		}

		synonymDecls := make([]SynonymDecl, len(synonyms))
		for i, d := range synonyms {
			synonymDecls[i] = SynonymDecl{Name: d.Name, Params: d.Params, Body: d.Body}
		}
		dataDecls := make([]DataDecl, len(datas))
		for i, d := range datas {
			dataDecls[i] = DataDecl{Name: d.Name, Params: d.Params, Fields: d.ConstructorFields()}
		}
		synonymKinds, dataKinds, err := e.kinds.KindsOfAll(e.env, module, synonymDecls, dataDecls)
		if err != nil {
			return err
		}
		if len(synonymKinds) != len(synonyms) || len(dataKinds) != len(datas) {
			panic(ilerr.Internalf("kind inference returned %d synonym and %d data kinds for %d synonyms and %d data types",
				len(synonymKinds), len(dataKinds), len(synonyms), len(datas)))
		}

		for i, d := range datas {
			if err := withinMember(d, func() error { return e.addDataType(module, d, dataKinds[i]) }); err != nil {
				return err
			}
		}
		for i, d := range synonyms {
			if err := withinMember(d, func() error { return e.addTypeSynonym(module, d, synonymKinds[i]) }); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *Elaborator) addDataType(module names.ModuleName, d *ast.DataDeclaration, kind kinds.Kind) error {
	if kind == nil {
		panic(ilerr.Internalf("kind inference returned no kind for %v", d.Name))
	}
	name := names.Qualify(module, d.Name)
	if err := typeIsNotDefined(e.env, name); err != nil {
		return err
	}
	constructors := make([]env.DataTypeConstructor, len(d.Constructors))
	for i, ctor := range d.Constructors {
		constructors[i] = env.DataTypeConstructor{Name: ctor.Name, Fields: ctor.Fields}
	}
	e.env.AddType(name, kind, env.DataType{Params: d.Params, Constructors: constructors})

	params := make([]types.Type, len(d.Params))
	for i, param := range d.Params {
		params[i] = types.TypeVar{Name: param}
	}
	result := types.Apply(types.TypeConstructor{Name: name}, params...)

	for _, ctor := range d.Constructors {
		err := e.within(message("in data constructor %v", ctor.Name), func() error {
			ctorName := names.Qualify(module, ctor.Name)
			if err := dataConstructorIsNotDefined(e.env, ctorName); err != nil {
				return err
			}
			e.env.AddDataConstructor(ctorName, env.DataConstructor{
				Origin:   d.Type,
				TypeName: d.Name,
				Type:     types.MkForAll(d.Params, types.FoldFunction(ctor.Fields, result)),
				Fields:   ctor.Fields,
			})
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Elaborator) addTypeSynonym(module names.ModuleName, d *ast.TypeSynonymDeclaration, kind kinds.Kind) error {
	if kind == nil {
		panic(ilerr.Internalf("kind inference returned no kind for %v", d.Name))
	}
	name := names.Qualify(module, d.Name)
	if err := typeIsNotDefined(e.env, name); err != nil {
		return err
	}
	e.env.AddType(name, kind, env.TypeSynonym{})
	e.env.AddTypeSynonym(name, d.Params, d.Body)
	return nil
}

func (e *Elaborator) addValue(module names.ModuleName, name names.Ident, t types.Type, kind env.NameKind) {
	e.env.AddName(names.Qualify(module, name), env.NameInfo{Type: t, Kind: kind, Status: env.Defined})
}

func (e *Elaborator) inferTypes(scope *moduleScope, bindings []Binding) ([]InferredBinding, error) {
	inferred, err := e.types.TypesOf(e.env, scope.main, scope.name, bindings)
	if err != nil {
		return nil, err
	}
	if len(inferred) != len(bindings) {
		panic(ilerr.Internalf("type inference returned %d results for %d bindings", len(inferred), len(bindings)))
	}
	for i, b := range inferred {
		if b.Name != bindings[i].Name || b.Type == nil {
			panic(ilerr.Internalf("type inference returned no type for %v", bindings[i].Name))
		}
	}
	return inferred, nil
}

// exportedInstances are the instances exports lists. It is nil when there is
// no export list at all, which exports every instance.
func exportedInstances(exports []ast.ExportRef) *set.Set[names.Ident] {
	if exports == nil {
		return nil
	}
	instances := util.FilterMapIter(slices.Values(exports), func(ref ast.ExportRef) (names.Ident, bool) {
		instanceRef, ok := ast.UnwrapRef(ref).(*ast.TypeInstanceRef)
		if !ok {
			return "", false
		}
		return instanceRef.Name, true
	})
	return util.SetFromSeq(instances, len(exports))
}

func (s *moduleScope) isExported(instance names.Ident) bool {
	return s.exportedInstances == nil || s.exportedInstances.Contains(instance)
}
