package env

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/util"
)

// Dump writes what the Environment knows about modules, one entry per line
// and sorted, so that two equal Environments dump the same text.
// Everything except Prim is dumped when modules is empty.
func (e *Environment) Dump(w io.Writer, modules ...names.ModuleName) error {
	wanted := func(m names.ModuleName) bool {
		if len(modules) == 0 {
			return m != names.Prim
		}
		return slices.Contains(modules, m)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		slices.Sort(lines)
		_, _ = fmt.Fprintf(tw, "%s:\n", title)
		for _, line := range lines {
			_, _ = fmt.Fprintf(tw, "  %s\n", line)
		}
	}

	var lines []string
	for name, entry := range e.Types {
		if !wanted(name.Module) || e.IsTypeSynonym(name) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s\t:: %s\t%s", name, entry.Kind, describeTypeInfo(entry.Info)))
	}
	section("types", lines)

	lines = nil
	for name, synonym := range e.TypeSynonyms {
		if !wanted(name.Module) {
			continue
		}
		kind := "?"
		if entry, ok := e.Types[name]; ok && entry.Kind != nil {
			kind = entry.Kind.String()
		}
		lines = append(lines, fmt.Sprintf("%s\t:: %s\t= %s", withParams(name.String(), synonym.Params), kind, synonym.Body))
	}
	section("synonyms", lines)

	lines = nil
	for name, ctor := range e.DataConstructors {
		if !wanted(name.Module) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s\t:: %s\t%s %s", name, ctor.Type, ctor.Origin, ctor.TypeName))
	}
	section("constructors", lines)

	lines = nil
	for name, info := range e.Names {
		if !wanted(name.Module) {
			continue
		}
		kind := info.Kind.String()
		if info.Kind == Extern {
			kind = info.Convention.String()
		}
		lines = append(lines, fmt.Sprintf("%s\t:: %s\t%s", name, info.Type, kind))
	}
	section("values", lines)

	lines = nil
	for name, class := range e.TypeClasses {
		if !wanted(name.Module) {
			continue
		}
		members := make([]string, len(class.Members))
		for i, m := range class.Members {
			members[i] = fmt.Sprintf("%s :: %s", m.Name, m.Type)
		}
		lines = append(lines, fmt.Sprintf("%s\t{%s}", withParams(name.String(), class.Params), strings.Join(members, "; ")))
	}
	section("classes", lines)

	var dicts []TypeClassDictionary
	for id, dict := range e.TypeClassDictionaries {
		if wanted(id.Module) {
			dicts = append(dicts, dict)
		}
	}
	slices.SortFunc(dicts, compareDictionaries)
	lines = nil
	for _, dict := range dicts {
		line := fmt.Sprintf("%s\t:: %s", dict.Name, dict.Key())
		if dict.IsAlias() {
			line += "\talias of " + dict.Canonical().String()
		} else {
			line += "\t"
		}
		if dict.Exported {
			line += " (exported)"
		}
		lines = append(lines, line)
	}
	section("instances", lines)

	return tw.Flush()
}

// DumpString is Dump into a string
func (e *Environment) DumpString(modules ...names.ModuleName) string {
	sb := &strings.Builder{}
	_ = e.Dump(sb, modules...)
	return sb.String()
}

// ModuleNames are the modules that have anything in the Environment, sorted
func (e *Environment) ModuleNames() []names.ModuleName {
	modules := util.ConcatIter(
		util.MapIter(maps.Keys(e.Types), func(name TypeName) names.ModuleName { return name.Module }),
		util.MapIter(maps.Keys(e.Names), func(name ValueName) names.ModuleName { return name.Module }),
		util.MapIter(maps.Keys(e.TypeClassDictionaries), func(id DictionaryID) names.ModuleName { return id.Module }),
	)
	return slices.Sorted(util.SetFromSeq(modules, len(e.Types)).Items())
}

func describeTypeInfo(info TypeInfo) string {
	switch info := info.(type) {
	case DataType:
		ctors := make([]string, len(info.Constructors))
		for i, c := range info.Constructors {
			ctors[i] = string(c.Name)
		}
		return withParams("data", info.Params) + " = " + strings.Join(ctors, " | ")
	case ExternData:
		return "foreign"
	default:
		return ""
	}
}

func withParams(name string, params []string) string {
	if len(params) == 0 {
		return name
	}
	return name + " " + strings.Join(params, " ")
}
