package source

import (
	"gopkg.in/yaml.v3"

	"github.com/cottand/elab/frontend/ast"
	"github.com/cottand/elab/frontend/env"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/frontend/types"
)

var declarationKeys = []string{
	"data", "group", "synonym", "signature", "value", "bindings",
	"extern-data", "extern", "fixity", "import", "class", "instance",
}

type rawConstructor struct {
	Name   string      `yaml:"name"`
	Fields []yaml.Node `yaml:"fields"`
}

type rawData struct {
	Name         string           `yaml:"name"`
	Newtype      bool             `yaml:"newtype"`
	Params       []string         `yaml:"params"`
	Constructors []rawConstructor `yaml:"constructors"`
}

type rawSynonym struct {
	Name   string    `yaml:"name"`
	Params []string  `yaml:"params"`
	Type   yaml.Node `yaml:"type"`
}

type rawBinding struct {
	Name string    `yaml:"name"`
	Type yaml.Node `yaml:"type"`
	Expr yaml.Node `yaml:"expr"`
}

type rawExternData struct {
	Name string    `yaml:"name"`
	Kind yaml.Node `yaml:"kind"`
}

type rawExtern struct {
	Name string    `yaml:"name"`
	Type yaml.Node `yaml:"type"`
	// Inline is foreign code to inline at use sites
	Inline string `yaml:"inline"`
}

type rawFixity struct {
	Associativity string `yaml:"associativity"`
	Precedence    int    `yaml:"precedence"`
	Operator      string `yaml:"operator"`
}

type rawImport struct {
	Module string      `yaml:"module"`
	As     string      `yaml:"as"`
	Refs   []yaml.Node `yaml:"refs"`
}

type rawClass struct {
	Name         string      `yaml:"name"`
	Params       []string    `yaml:"params"`
	Superclasses yaml.Node   `yaml:"superclasses"`
	Members      []yaml.Node `yaml:"members"`
}

type rawInstance struct {
	Name         string      `yaml:"name"`
	Class        string      `yaml:"class"`
	Types        []yaml.Node `yaml:"types"`
	Dependencies yaml.Node   `yaml:"dependencies"`
}

// positionedDeclaration reads a declaration and wraps it in its position
func (d *decoder) positionedDeclaration(node *yaml.Node) (ast.Declaration, error) {
	entries, err := d.mapping(node)
	if err != nil {
		return nil, err
	}
	pos, err := d.positionOf(node, entries)
	if err != nil {
		return nil, err
	}
	key, body, err := d.only(node, entries, "declaration", declarationKeys...)
	if err != nil {
		return nil, err
	}
	decl, err := d.decodeDeclaration(key, body)
	if err != nil {
		return nil, err
	}
	return &ast.PositionedDeclaration{Pos: pos, Decl: decl}, nil
}

func (d *decoder) decodeDeclaration(key string, node *yaml.Node) (ast.Declaration, error) {
	switch key {
	case "data":
		var raw rawData
		if err := d.decode(node, &raw); err != nil {
			return nil, err
		}
		return d.data(node, raw)

	case "group":
		if node.Kind != yaml.SequenceNode {
			return nil, d.fail(node, "a data binding group is a list of data and synonym declarations")
		}
		group := &ast.DataBindingGroup{}
		for _, member := range node.Content {
			decl, err := d.positionedDeclaration(member)
			if err != nil {
				return nil, err
			}
			switch ast.UnwrapDeclaration(decl).(type) {
			case *ast.DataDeclaration, *ast.TypeSynonymDeclaration:
			default:
				return nil, d.fail(member, "a data binding group can only contain data and synonym declarations")
			}
			group.Decls = append(group.Decls, decl)
		}
		return group, nil

	case "synonym":
		var raw rawSynonym
		if err := d.decode(node, &raw); err != nil {
			return nil, err
		}
		if raw.Name == "" {
			return nil, d.fail(node, "synonym has no name")
		}
		body, err := d.typ(&raw.Type)
		if err != nil {
			return nil, err
		}
		return &ast.TypeSynonymDeclaration{Name: names.ProperName(raw.Name), Params: raw.Params, Body: body}, nil

	case "signature":
		return d.signature(node)

	case "value":
		var raw rawBinding
		if err := d.decode(node, &raw); err != nil {
			return nil, err
		}
		binding, err := d.binding(node, raw)
		if err != nil {
			return nil, err
		}
		expr := binding.Expr
		if binding.Type != nil {
			expr = &ast.TypedValue{Expr: expr, Type: binding.Type}
		}
		return &ast.ValueDeclaration{Name: binding.Name, NameKind: binding.NameKind, Expr: expr}, nil

	case "bindings":
		var raw []rawBinding
		if err := d.decode(node, &raw); err != nil {
			return nil, err
		}
		group := &ast.BindingGroupDeclaration{Bindings: make([]ast.Binding, len(raw))}
		for i, b := range raw {
			binding, err := d.binding(node, b)
			if err != nil {
				return nil, err
			}
			group.Bindings[i] = binding
		}
		return group, nil

	case "extern-data":
		var raw rawExternData
		if err := d.decode(node, &raw); err != nil {
			return nil, err
		}
		if raw.Name == "" {
			return nil, d.fail(node, "foreign data type has no name")
		}
		kind, err := d.kind(&raw.Kind)
		if err != nil {
			return nil, err
		}
		return &ast.ExternDataDeclaration{Name: names.ProperName(raw.Name), Kind: kind}, nil

	case "extern":
		var raw rawExtern
		if err := d.decode(node, &raw); err != nil {
			return nil, err
		}
		if raw.Name == "" {
			return nil, d.fail(node, "foreign import has no name")
		}
		t, err := d.typ(&raw.Type)
		if err != nil {
			return nil, err
		}
		convention := env.ForeignImport
		if raw.Inline != "" {
			convention = env.InlineForeign
		}
		return &ast.ExternDeclaration{Convention: convention, Name: names.Ident(raw.Name), Inline: raw.Inline, Type: t}, nil

	case "fixity":
		var raw rawFixity
		if err := d.decode(node, &raw); err != nil {
			return nil, err
		}
		var associativity ast.Associativity
		switch raw.Associativity {
		case "infixl":
			associativity = ast.InfixLeft
		case "infixr":
			associativity = ast.InfixRight
		case "infix":
			associativity = ast.Infix
		default:
			return nil, d.fail(node, "associativity must be one of infixl, infixr or infix, not '%s'", raw.Associativity)
		}
		if raw.Operator == "" {
			return nil, d.fail(node, "fixity declaration has no operator")
		}
		return &ast.FixityDeclaration{
			Fixity:   ast.Fixity{Associativity: associativity, Precedence: raw.Precedence},
			Operator: names.Ident(raw.Operator),
		}, nil

	case "import":
		var raw rawImport
		if node.Kind == yaml.ScalarNode {
			raw.Module = node.Value
		} else if err := d.decode(node, &raw); err != nil {
			return nil, err
		}
		if raw.Module == "" {
			return nil, d.fail(node, "import has no module")
		}
		decl := &ast.ImportDeclaration{Module: names.ModuleName(raw.Module), As: names.ModuleName(raw.As)}
		for i := range raw.Refs {
			ref, err := d.exportRef(&raw.Refs[i])
			if err != nil {
				return nil, err
			}
			decl.Refs = append(decl.Refs, ref)
		}
		return decl, nil

	case "class":
		var raw rawClass
		if err := d.decode(node, &raw); err != nil {
			return nil, err
		}
		if raw.Name == "" {
			return nil, d.fail(node, "type class has no name")
		}
		decl := &ast.TypeClassDeclaration{Name: names.ProperName(raw.Name), Params: raw.Params}
		if raw.Superclasses.Kind != 0 {
			superclasses, err := d.constraints(&raw.Superclasses)
			if err != nil {
				return nil, err
			}
			decl.Superclasses = superclasses
		}
		for i := range raw.Members {
			member := &raw.Members[i]
			entries, err := d.mapping(member)
			if err != nil {
				return nil, err
			}
			pos, err := d.positionOf(member, entries)
			if err != nil {
				return nil, err
			}
			signature, err := d.signatureFrom(member, entries)
			if err != nil {
				return nil, err
			}
			decl.Members = append(decl.Members, &ast.PositionedDeclaration{Pos: pos, Decl: signature})
		}
		return decl, nil

	case "instance":
		var raw rawInstance
		if err := d.decode(node, &raw); err != nil {
			return nil, err
		}
		if raw.Name == "" || raw.Class == "" {
			return nil, d.fail(node, "instance needs a name and a class")
		}
		instanceTypes, err := d.typeList(raw.Types)
		if err != nil {
			return nil, err
		}
		decl := &ast.TypeInstanceDeclaration{
			Name:      names.Ident(raw.Name),
			ClassName: d.qualify(raw.Class),
			Types:     instanceTypes,
		}
		if raw.Dependencies.Kind != 0 {
			dependencies, err := d.constraints(&raw.Dependencies)
			if err != nil {
				return nil, err
			}
			decl.Dependencies = dependencies
		}
		return decl, nil

	default:
		return nil, d.fail(node, "unknown declaration '%s'", key)
	}
}

func (d *decoder) data(node *yaml.Node, raw rawData) (*ast.DataDeclaration, error) {
	if raw.Name == "" {
		return nil, d.fail(node, "data declaration has no name")
	}
	decl := &ast.DataDeclaration{Type: env.Data, Name: names.ProperName(raw.Name), Params: raw.Params}
	if raw.Newtype {
		decl.Type = env.Newtype
	}
	for _, c := range raw.Constructors {
		if c.Name == "" {
			return nil, d.fail(node, "constructor of %s has no name", raw.Name)
		}
		fields, err := d.typeList(c.Fields)
		if err != nil {
			return nil, err
		}
		decl.Constructors = append(decl.Constructors, ast.DataConstructorDeclaration{Name: names.ProperName(c.Name), Fields: fields})
	}
	return decl, nil
}

func (d *decoder) signature(node *yaml.Node) (*ast.TypeDeclaration, error) {
	entries, err := d.mapping(node)
	if err != nil {
		return nil, err
	}
	return d.signatureFrom(node, entries)
}

func (d *decoder) signatureFrom(node *yaml.Node, entries map[string]*yaml.Node) (*ast.TypeDeclaration, error) {
	name, ok := entries["name"]
	t, hasType := entries["type"]
	if !ok || !hasType || len(entries) != 2 {
		return nil, d.fail(node, "type signature takes a name and a type")
	}
	ident, err := d.scalar(name, "a name")
	if err != nil {
		return nil, err
	}
	signatureType, err := d.typ(t)
	if err != nil {
		return nil, err
	}
	return &ast.TypeDeclaration{Name: names.Ident(ident), Type: signatureType}, nil
}

// binding reads a value binding. Operators get the Operator name kind.
func (d *decoder) binding(node *yaml.Node, raw rawBinding) (ast.Binding, error) {
	if raw.Name == "" {
		return ast.Binding{}, d.fail(node, "value has no name")
	}
	if raw.Expr.Kind == 0 {
		return ast.Binding{}, d.fail(node, "value %s has no expression", raw.Name)
	}
	binding := ast.Binding{Name: names.Ident(raw.Name), NameKind: env.Regular}
	if binding.Name.IsOperator() {
		binding.NameKind = env.Operator
	}
	expr, err := d.expr(&raw.Expr)
	if err != nil {
		return ast.Binding{}, err
	}
	binding.Expr = expr
	if raw.Type.Kind != 0 {
		var t types.Type
		if t, err = d.typ(&raw.Type); err != nil {
			return ast.Binding{}, err
		}
		binding.Type = t
	}
	return binding, nil
}

var exportKeys = []string{"value", "type", "class", "instance", "module"}

// exportRef reads an export or import entry:
//
//	{value: x}
//	{type: Maybe, constructors: [Just]}    constructors omitted exports all of them
//	{class: Show}
//	{instance: showMaybe}
//	{module: Data.Maybe}
func (d *decoder) exportRef(node *yaml.Node) (ast.ExportRef, error) {
	entries, err := d.mapping(node)
	if err != nil {
		return nil, err
	}
	pos, err := d.positionOf(node, entries)
	if err != nil {
		return nil, err
	}
	var constructors []names.ProperName
	if ctors, ok := entries["constructors"]; ok {
		if entries["type"] == nil {
			return nil, d.fail(node, "only type exports have constructors")
		}
		var raw []string
		if err := d.decode(ctors, &raw); err != nil {
			return nil, err
		}
		constructors = make([]names.ProperName, len(raw))
		for i, c := range raw {
			constructors[i] = names.ProperName(c)
		}
		delete(entries, "constructors")
	}
	key, value, err := d.only(node, entries, "export", exportKeys...)
	if err != nil {
		return nil, err
	}
	name, err := d.scalar(value, "a name")
	if err != nil {
		return nil, err
	}

	var ref ast.ExportRef
	switch key {
	case "value":
		ref = &ast.ValueRef{Name: names.Ident(name)}
	case "type":
		ref = &ast.TypeRef{Name: names.ProperName(name), Constructors: constructors}
	case "class":
		ref = &ast.TypeClassRef{Name: names.ProperName(name)}
	case "instance":
		ref = &ast.TypeInstanceRef{Name: names.Ident(name)}
	case "module":
		ref = &ast.ModuleRef{Name: names.ModuleName(name)}
	}
	return &ast.PositionedRef{Pos: pos, Ref: ref}, nil
}
