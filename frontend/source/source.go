// Package source reads modules that have already been desugared, written
// as YAML documents, one module per document:
//
//	module: M
//	exports:
//	  - instance: showWrap
//	declarations:
//	  - data: {name: Wrap, newtype: true, params: [a], constructors: [{name: Wrap, fields: [a]}]}
//	  - value: {name: unwrap, expr: {typed: {var: x}, type: {fn: [[Wrap, a], a]}}}
//
// Every declaration and export is positioned: at the place given by its
// optional `at: file:line:col` key, or else where it is in the YAML file.
package source

import (
	"bytes"
	"fmt"
	"go/token"
	"io"
	"io/fs"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cottand/elab/frontend/ast"
	"github.com/cottand/elab/frontend/env"
	"github.com/cottand/elab/frontend/ilerr"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/internal/log"
)

var sourceLogger = log.DefaultLogger.With("section", "source")

type Module struct {
	Path string
	Name names.ModuleName
	// Exports is nil when the module has no export list
	Exports      []ast.ExportRef
	Declarations []ast.Declaration
}

type moduleFile struct {
	Module       string       `yaml:"module"`
	Exports      *[]yaml.Node `yaml:"exports"`
	Declarations []yaml.Node  `yaml:"declarations"`
}

// Load reads every module in the file at path
func Load(fsys fs.FS, path string) ([]*Module, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading module file %s", path)
	}
	return Parse(path, content)
}

// Parse reads every module in content. Problems in the modules are reported
// together, as an *ilerr.Errors.
func Parse(path string, content []byte) ([]*Module, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	var modules []*Module
	var errs *ilerr.Errors
	for {
		var raw moduleFile
		err := decoder.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, ilerr.New(ilerr.NewMalformedSource{Path: path, Message: err.Error()})
		}
		module, moduleErrs := decodeModule(path, raw)
		errs = errs.Merge(moduleErrs)
		modules = append(modules, module)
	}
	if errs.HasError() {
		return nil, errs
	}
	sourceLogger.Debug("parsed module file", "path", path, "modules", len(modules))
	return modules, nil
}

func decodeModule(path string, raw moduleFile) (*Module, *ilerr.Errors) {
	var errs *ilerr.Errors
	name := strings.TrimSpace(raw.Module)
	if name == "" {
		errs = errs.With(ilerr.New(ilerr.NewMalformedSource{Path: path, Message: "module has no name"}))
	}
	d := &decoder{path: path, module: names.ModuleName(name)}
	module := &Module{Path: path, Name: d.module}

	if raw.Exports != nil {
		module.Exports = make([]ast.ExportRef, 0, len(*raw.Exports))
		for i := range *raw.Exports {
			ref, err := d.exportRef(&(*raw.Exports)[i])
			if err != nil {
				errs = errs.With(d.malformed(err))
				continue
			}
			module.Exports = append(module.Exports, ref)
		}
	}
	for i := range raw.Declarations {
		decl, err := d.positionedDeclaration(&raw.Declarations[i])
		if err != nil {
			errs = errs.With(d.malformed(err))
			continue
		}
		module.Declarations = append(module.Declarations, decl)
	}
	return module, errs
}

// decoder turns the YAML nodes of one module into its syntax
type decoder struct {
	path   string
	module names.ModuleName
}

func (d *decoder) fail(node *yaml.Node, format string, args ...any) ilerr.ElabError {
	return ilerr.New(ilerr.NewMalformedSource{
		Path:    d.position(node).String(),
		Message: fmt.Sprintf(format, args...),
	})
}

// malformed keeps the typed error a decoding step failed with, and reports
// anything else as malformed source in the file being read
func (d *decoder) malformed(err error) ilerr.ElabError {
	var elabErr ilerr.ElabError
	if errors.As(err, &elabErr) {
		return elabErr
	}
	return ilerr.New(ilerr.NewMalformedSource{Path: d.path, Message: err.Error()})
}

func (d *decoder) position(node *yaml.Node) token.Position {
	return token.Position{Filename: d.path, Line: node.Line, Column: node.Column}
}

// mapping returns the entries of a mapping node by key. When at is set, the
// `at` key is taken out of the result and returned as a position instead.
func (d *decoder) mapping(node *yaml.Node) (map[string]*yaml.Node, error) {
	if node.Kind == yaml.AliasNode {
		return d.mapping(node.Alias)
	}
	if node.Kind != yaml.MappingNode {
		return nil, d.fail(node, "expected a mapping, found %s", node.ShortTag())
	}
	entries := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		entries[node.Content[i].Value] = node.Content[i+1]
	}
	return entries, nil
}

// positionOf is where node says it is with its `at` key, or where it is in
// the file. The `at` key is removed from entries.
func (d *decoder) positionOf(node *yaml.Node, entries map[string]*yaml.Node) (token.Position, error) {
	at, ok := entries["at"]
	if !ok {
		return d.position(node), nil
	}
	delete(entries, "at")
	pos, err := ast.ParsePosition(at.Value)
	if err != nil {
		return token.Position{}, d.fail(at, "%v", err)
	}
	return pos, nil
}

// only returns the single entry left in entries, which must be one of keys
func (d *decoder) only(node *yaml.Node, entries map[string]*yaml.Node, what string, keys ...string) (string, *yaml.Node, error) {
	if len(entries) != 1 {
		return "", nil, d.fail(node, "%s must have exactly one of: %s", what, strings.Join(keys, ", "))
	}
	for key, value := range entries {
		for _, allowed := range keys {
			if key == allowed {
				return key, value, nil
			}
		}
		return "", nil, d.fail(node, "unknown %s '%s', expected one of: %s", what, key, strings.Join(keys, ", "))
	}
	panic("unreachable")
}

func (d *decoder) scalar(node *yaml.Node, what string) (string, error) {
	if node.Kind != yaml.ScalarNode || strings.TrimSpace(node.Value) == "" {
		return "", d.fail(node, "expected %s", what)
	}
	return strings.TrimSpace(node.Value), nil
}

func (d *decoder) decode(node *yaml.Node, into any) error {
	if err := node.Decode(into); err != nil {
		return d.fail(node, "%v", err)
	}
	return nil
}

// isProper is true for names that start with an upper case letter
func isProper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// qualify resolves the name of a type, class or constructor: dotted names
// are taken as qualified, built-in types belong to Prim, and any other name
// to the module being read
func (d *decoder) qualify(s string) names.Qualified[names.ProperName] {
	if strings.Contains(s, ".") {
		return names.ParseQualified[names.ProperName](s)
	}
	if env.IsPrimType(names.ProperName(s)) {
		return names.Qualify(names.Prim, names.ProperName(s))
	}
	return names.Qualify(d.module, names.ProperName(s))
}
