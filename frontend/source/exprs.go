package source

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/cottand/elab/frontend/ast"
	"github.com/cottand/elab/frontend/names"
)

var exprKeys = []string{"var", "int", "number", "string", "bool", "abs", "app", "ctor", "typed", "case"}

// expr reads an expression, a mapping with one of exprKeys. abs, typed and
// case take a second key:
//
//	{abs: x, body: e}
//	{typed: e, type: t}
//	{case: [e1, e2], alternatives: [{binders: [b1, b2], result: e}]}
func (d *decoder) expr(node *yaml.Node) (ast.Expr, error) {
	entries, err := d.mapping(node)
	if err != nil {
		return nil, err
	}
	second := func(key string) (*yaml.Node, error) {
		value, ok := entries[key]
		if !ok {
			return nil, d.fail(node, "expression is missing its %s", key)
		}
		delete(entries, key)
		return value, nil
	}

	switch {
	case entries["abs"] != nil:
		body, err := second("body")
		if err != nil {
			return nil, err
		}
		_, arg, err := d.only(node, entries, "expression", "abs")
		if err != nil {
			return nil, err
		}
		argName, err := d.scalar(arg, "an argument name")
		if err != nil {
			return nil, err
		}
		bodyExpr, err := d.expr(body)
		if err != nil {
			return nil, err
		}
		return &ast.Abs{Arg: names.Ident(argName), Body: bodyExpr}, nil

	case entries["typed"] != nil:
		typeNode, err := second("type")
		if err != nil {
			return nil, err
		}
		_, inner, err := d.only(node, entries, "expression", "typed")
		if err != nil {
			return nil, err
		}
		innerExpr, err := d.expr(inner)
		if err != nil {
			return nil, err
		}
		t, err := d.typ(typeNode)
		if err != nil {
			return nil, err
		}
		return &ast.TypedValue{Expr: innerExpr, Type: t}, nil

	case entries["case"] != nil:
		alternatives, err := second("alternatives")
		if err != nil {
			return nil, err
		}
		_, scrutinees, err := d.only(node, entries, "expression", "case")
		if err != nil {
			return nil, err
		}
		return d.caseExpr(scrutinees, alternatives)
	}

	key, value, err := d.only(node, entries, "expression", exprKeys...)
	if err != nil {
		return nil, err
	}
	switch key {
	case "var":
		name, err := d.scalar(value, "a variable name")
		if err != nil {
			return nil, err
		}
		return &ast.Var{Name: names.ParseQualified[names.Ident](name)}, nil
	case "int", "number":
		literal, err := d.scalar(value, "a number")
		if err != nil {
			return nil, err
		}
		if _, err := strconv.ParseFloat(literal, 64); err != nil {
			return nil, d.fail(value, "'%s' is not a number", literal)
		}
		return &ast.NumericLiteral{Value: literal}, nil
	case "string":
		return &ast.StringLiteral{Value: value.Value}, nil
	case "bool":
		var b bool
		if err := d.decode(value, &b); err != nil {
			return nil, err
		}
		return &ast.BooleanLiteral{Value: b}, nil
	case "ctor":
		name, err := d.scalar(value, "a constructor name")
		if err != nil {
			return nil, err
		}
		return &ast.Constructor{Name: d.qualify(name)}, nil
	case "app":
		if value.Kind != yaml.SequenceNode || len(value.Content) < 2 {
			return nil, d.fail(value, "app takes a function and at least one argument")
		}
		var app ast.Expr
		for i, arg := range value.Content {
			e, err := d.expr(arg)
			if err != nil {
				return nil, err
			}
			if i == 0 {
				app = e
				continue
			}
			app = &ast.App{Fn: app, Arg: e}
		}
		return app, nil
	default:
		return nil, d.fail(node, "unexpected expression '%s'", key)
	}
}

func (d *decoder) caseExpr(scrutinees, alternatives *yaml.Node) (ast.Expr, error) {
	if scrutinees.Kind != yaml.SequenceNode || alternatives.Kind != yaml.SequenceNode {
		return nil, d.fail(scrutinees, "case takes a list of expressions and a list of alternatives")
	}
	caseExpr := &ast.Case{}
	for _, scrutinee := range scrutinees.Content {
		e, err := d.expr(scrutinee)
		if err != nil {
			return nil, err
		}
		caseExpr.Scrutinees = append(caseExpr.Scrutinees, e)
	}
	for _, alternative := range alternatives.Content {
		var raw struct {
			Binders []yaml.Node `yaml:"binders"`
			Result  yaml.Node   `yaml:"result"`
		}
		if err := d.decode(alternative, &raw); err != nil {
			return nil, err
		}
		if len(raw.Binders) != len(caseExpr.Scrutinees) {
			return nil, d.fail(alternative, "alternative has %d binders for %d expressions", len(raw.Binders), len(caseExpr.Scrutinees))
		}
		var binders []ast.Binder
		for i := range raw.Binders {
			b, err := d.binder(&raw.Binders[i])
			if err != nil {
				return nil, err
			}
			binders = append(binders, b)
		}
		result, err := d.expr(&raw.Result)
		if err != nil {
			return nil, err
		}
		caseExpr.Alternatives = append(caseExpr.Alternatives, ast.CaseAlternative{Binders: binders, Result: result})
	}
	return caseExpr, nil
}

// binder reads a pattern: _, a variable, a constructor, or
// {ctor: Just, args: [x]}
func (d *decoder) binder(node *yaml.Node) (ast.Binder, error) {
	if node.Kind == yaml.ScalarNode {
		name, err := d.scalar(node, "a binder")
		if err != nil {
			return nil, err
		}
		switch {
		case name == "_":
			return &ast.NullBinder{}, nil
		case isProper(name):
			return &ast.ConstructorBinder{Constructor: d.qualify(name)}, nil
		default:
			return &ast.VarBinder{Name: names.Ident(name)}, nil
		}
	}
	var raw struct {
		Ctor string      `yaml:"ctor"`
		Args []yaml.Node `yaml:"args"`
	}
	if err := d.decode(node, &raw); err != nil {
		return nil, err
	}
	if raw.Ctor == "" {
		return nil, d.fail(node, "constructor binder has no constructor")
	}
	binder := &ast.ConstructorBinder{Constructor: d.qualify(raw.Ctor)}
	for i := range raw.Args {
		arg, err := d.binder(&raw.Args[i])
		if err != nil {
			return nil, err
		}
		binder.Args = append(binder.Args, arg)
	}
	return binder, nil
}
