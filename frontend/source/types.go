package source

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cottand/elab/frontend/kinds"
	"github.com/cottand/elab/frontend/types"
)

// typ reads a type:
//
//	a                                    type variable
//	Int, Wrap, Data.Maybe.Maybe          type constructor
//	[Maybe, a]                           application
//	{fn: [a, b, c]}                      a -> b -> c
//	{forall: [a], type: t}
//	{constrained: [{class: Show, args: [a]}], type: t}
//	{row: {x: Int}, tail: r}             (x :: Int | r), closed without tail
func (d *decoder) typ(node *yaml.Node) (types.Type, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return d.typ(node.Alias)

	case yaml.ScalarNode:
		name, err := d.scalar(node, "a type")
		if err != nil {
			return nil, err
		}
		if isProper(name) {
			return types.TypeConstructor{Name: d.qualify(name)}, nil
		}
		return types.TypeVar{Name: name}, nil

	case yaml.SequenceNode:
		if len(node.Content) == 0 {
			return nil, d.fail(node, "type application has no types")
		}
		ts, err := d.types(node.Content)
		if err != nil {
			return nil, err
		}
		return types.Apply(ts[0], ts[1:]...), nil

	case yaml.MappingNode:
		entries, err := d.mapping(node)
		if err != nil {
			return nil, err
		}
		if fn, ok := entries["fn"]; ok {
			if len(entries) != 1 || fn.Kind != yaml.SequenceNode || len(fn.Content) < 2 {
				return nil, d.fail(node, "fn must be a list of at least two types, and nothing else")
			}
			ts, err := d.types(fn.Content)
			if err != nil {
				return nil, err
			}
			return types.FoldFunction(ts[:len(ts)-1], ts[len(ts)-1]), nil
		}
		if row, ok := entries["row"]; ok {
			return d.row(node, row, entries)
		}

		body, ok := entries["type"]
		if !ok || len(entries) != 2 {
			return nil, d.fail(node, "expected one of fn, row, forall or constrained, the last two with a type")
		}
		inner, err := d.typ(body)
		if err != nil {
			return nil, err
		}
		if forall, ok := entries["forall"]; ok {
			var vars []string
			if err := d.decode(forall, &vars); err != nil {
				return nil, err
			}
			return types.MkForAll(vars, inner), nil
		}
		if constrained, ok := entries["constrained"]; ok {
			constraints, err := d.constraints(constrained)
			if err != nil {
				return nil, err
			}
			return types.ConstrainedType{Constraints: constraints, Body: inner}, nil
		}
		return nil, d.fail(node, "expected forall or constrained alongside type")

	default:
		return nil, d.fail(node, "expected a type, found %s", node.ShortTag())
	}
}

func (d *decoder) types(nodes []*yaml.Node) ([]types.Type, error) {
	ts := make([]types.Type, len(nodes))
	for i, node := range nodes {
		t, err := d.typ(node)
		if err != nil {
			return nil, err
		}
		ts[i] = t
	}
	return ts, nil
}

func (d *decoder) typeList(nodes []yaml.Node) ([]types.Type, error) {
	ptrs := make([]*yaml.Node, len(nodes))
	for i := range nodes {
		ptrs[i] = &nodes[i]
	}
	return d.types(ptrs)
}

func (d *decoder) row(node, row *yaml.Node, entries map[string]*yaml.Node) (types.Type, error) {
	var tail types.Type = types.RowEmpty{}
	if tailNode, ok := entries["tail"]; ok {
		var err error
		if tail, err = d.typ(tailNode); err != nil {
			return nil, err
		}
	}
	if len(entries) > 2 || (len(entries) == 2 && entries["tail"] == nil) {
		return nil, d.fail(node, "row only takes a tail next to its labels")
	}
	if row.Kind != yaml.MappingNode {
		return nil, d.fail(row, "row labels must be a mapping")
	}
	// labels are folded from the last, so that they keep their order
	for i := len(row.Content) - 2; i >= 0; i -= 2 {
		head, err := d.typ(row.Content[i+1])
		if err != nil {
			return nil, err
		}
		tail = types.RowCons{Label: row.Content[i].Value, Head: head, Tail: tail}
	}
	return tail, nil
}

type rawConstraint struct {
	Class string      `yaml:"class"`
	Args  []yaml.Node `yaml:"args"`
}

func (d *decoder) constraints(node *yaml.Node) ([]types.Constraint, error) {
	var raw []rawConstraint
	if err := d.decode(node, &raw); err != nil {
		return nil, err
	}
	constraints := make([]types.Constraint, len(raw))
	for i, c := range raw {
		if c.Class == "" {
			return nil, d.fail(node, "constraint has no class")
		}
		args, err := d.typeList(c.Args)
		if err != nil {
			return nil, err
		}
		constraints[i] = types.Constraint{Class: d.qualify(c.Class), Args: args}
	}
	return constraints, nil
}

// kind reads kinds written the way they are printed: *, # *, * -> *, (* -> *) -> *
func (d *decoder) kind(node *yaml.Node) (kinds.Kind, error) {
	text, err := d.scalar(node, "a kind")
	if err != nil {
		return nil, err
	}
	p := &kindParser{tokens: tokeniseKind(text)}
	k, ok := p.arrow()
	if !ok || p.pos != len(p.tokens) {
		return nil, d.fail(node, "invalid kind '%s'", text)
	}
	return k, nil
}

func tokeniseKind(s string) []string {
	s = strings.NewReplacer("->", " -> ", "(", " ( ", ")", " ) ", "*", " * ", "#", " # ").Replace(s)
	return strings.Fields(s)
}

type kindParser struct {
	tokens []string
	pos    int
}

func (p *kindParser) peek() string {
	if p.pos >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *kindParser) arrow() (kinds.Kind, bool) {
	arg, ok := p.atom()
	if !ok {
		return nil, false
	}
	if p.peek() != "->" {
		return arg, true
	}
	p.pos++
	result, ok := p.arrow()
	if !ok {
		return nil, false
	}
	return kinds.KFun{Arg: arg, Result: result}, true
}

func (p *kindParser) atom() (kinds.Kind, bool) {
	switch p.peek() {
	case "*":
		p.pos++
		return kinds.Star, true
	case "#":
		p.pos++
		of, ok := p.atom()
		if !ok {
			return nil, false
		}
		return kinds.KRow{Of: of}, true
	case "(":
		p.pos++
		k, ok := p.arrow()
		if !ok || p.peek() != ")" {
			return nil, false
		}
		p.pos++
		return k, true
	default:
		return nil, false
	}
}
