package check

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cottand/elab/frontend/ast"
	"github.com/cottand/elab/frontend/ilerr"
	"github.com/cottand/elab/frontend/names"
	"github.com/cottand/elab/util"
)

// within runs body with frame on top of the context stack, and wraps any
// error body returns in frame. The frame is popped however body returns.
func (e *Elaborator) within(frame ilerr.Frame, body func() error) error {
	e.context.Push(frame)
	defer e.context.Pop()
	return ilerr.WithFrame(body(), frame)
}

func message(format string, args ...any) ilerr.Frame {
	return ilerr.Frame{Message: fmt.Sprintf(format, args...)}
}

// contextPath renders the context stack for logging, only if the record is shown
func (e *Elaborator) contextPath() slog.LogValuer {
	return lazy(func() string {
		return strings.Join(util.MapSlice(e.context.Items(), ilerr.Frame.String), " > ")
	})
}

// lazy is a slog.LogValuer that does not render its string unless it
// definitely needs to be logged
type lazy func() string

func (l lazy) LogValue() slog.Value {
	return slog.StringValue(l())
}

func slogDecl(decl ast.Declaration) slog.LogValuer {
	return lazy(func() string { return describe(decl) })
}

func joinIdents(idents []names.Ident) string {
	return strings.Join(util.MapSlice(idents, names.Ident.String), ", ")
}

func joinProperNames(pns []names.ProperName) string {
	return strings.Join(util.MapSlice(pns, names.ProperName.String), ", ")
}

// describe names a declaration for logs
func describe(decl ast.Declaration) string {
	switch d := decl.(type) {
	case *ast.DataDeclaration:
		return fmt.Sprintf("%v %v", d.Type, d.Name)
	case *ast.DataBindingGroup:
		return fmt.Sprintf("data binding group of %d", len(d.Decls))
	case *ast.TypeSynonymDeclaration:
		return "type " + d.Name.String()
	case *ast.TypeDeclaration:
		return "signature " + d.Name.String()
	case *ast.ValueDeclaration:
		return "value " + d.Name.String()
	case *ast.BindingGroupDeclaration:
		return "binding group " + joinIdents(d.Names())
	case *ast.ExternDataDeclaration:
		return "foreign data " + d.Name.String()
	case *ast.ExternDeclaration:
		return "foreign import " + d.Name.String()
	case *ast.FixityDeclaration:
		return fmt.Sprintf("%v %d %v", d.Fixity.Associativity, d.Fixity.Precedence, d.Operator)
	case *ast.ImportDeclaration:
		return "import " + d.Module.String()
	case *ast.TypeClassDeclaration:
		return "class " + d.Name.String()
	case *ast.TypeInstanceDeclaration:
		return "instance " + d.Name.String()
	case *ast.PositionedDeclaration:
		return describe(d.Decl)
	default:
		return fmt.Sprintf("%T", decl)
	}
}
