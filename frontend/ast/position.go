package ast

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"
)

// PositionedDeclaration marks where in the source Decl was found.
// It is not a declaration of its own.
type PositionedDeclaration struct {
	Pos  token.Position
	Decl Declaration
}

// UnwrapDeclaration strips any PositionedDeclaration around d
func UnwrapDeclaration(d Declaration) Declaration {
	for {
		positioned, ok := d.(*PositionedDeclaration)
		if !ok {
			return d
		}
		d = positioned.Decl
	}
}

// ParsePosition reads positions in the file:line:column form token.Position prints
func ParsePosition(s string) (token.Position, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return token.Position{}, fmt.Errorf("invalid position %q, expected file:line[:column]", s)
	}
	var column int
	var err error
	if len(parts) >= 3 {
		column, err = strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			return token.Position{}, fmt.Errorf("invalid column in position %q: %w", s, err)
		}
		parts = parts[:len(parts)-1]
	}
	line, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return token.Position{}, fmt.Errorf("invalid line in position %q: %w", s, err)
	}
	return token.Position{
		Filename: strings.Join(parts[:len(parts)-1], ":"),
		Line:     line,
		Column:   column,
	}, nil
}
