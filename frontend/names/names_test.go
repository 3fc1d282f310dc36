package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualifiedString(t *testing.T) {
	assert.Equal(t, "Data.Maybe.Maybe", Qualify[ProperName]("Data.Maybe", "Maybe").String())
	assert.Equal(t, "M.(<>)", Qualify[Ident]("M", "<>").String())
	assert.Equal(t, "unwrap", Unqualified[Ident]("unwrap").String())
}

func TestParseQualified(t *testing.T) {
	assert.Equal(t, Qualify[ProperName]("Data.Maybe", "Just"), ParseQualified[ProperName]("Data.Maybe.Just"))
	assert.Equal(t, Unqualified[ProperName]("Just"), ParseQualified[ProperName]("Just"))
	assert.False(t, ParseQualified[ProperName]("Just").IsQualified())
}

func TestIdentIsOperator(t *testing.T) {
	assert.True(t, Ident("<>").IsOperator())
	assert.True(t, Ident("+").IsOperator())
	assert.False(t, Ident("unwrap").IsOperator())
	assert.False(t, Ident("_x").IsOperator())
	assert.False(t, Ident("").IsOperator())
}
