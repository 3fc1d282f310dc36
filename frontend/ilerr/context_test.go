package ilerr

import (
	"go/token"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramesOuterToInner(t *testing.T) {
	root := New(NewDuplicateTypeArgument{Name: "a"})
	pos := token.Position{Filename: "M.yaml", Line: 3, Column: 5}
	err := WithFrame(WithFrame(WithFrame(root, Frame{Message: "in type synonym T"}), Frame{Pos: pos}), Frame{Message: "in module M"})

	frames := Frames(err)
	require.Len(t, frames, 3)
	assert.Equal(t, "in module M", frames[0].Message)
	assert.Equal(t, pos, frames[1].Pos)
	assert.Equal(t, "in type synonym T", frames[2].Message)

	assert.Equal(t, root, errors.Cause(err))
	assert.Equal(t, DuplicateTypeArgument, CodeOf(err))
}

func TestWithFrameNil(t *testing.T) {
	assert.NoError(t, WithFrame(nil, Frame{Message: "in declaration x"}))
}

func TestRender(t *testing.T) {
	outer := token.Position{Filename: "M.yaml", Line: 1, Column: 1}
	inner := token.Position{Filename: "M.yaml", Line: 7, Column: 3}
	err := WithFrame(
		WithFrame(
			WithFrame(
				New(NewInvalidNewtypeShape{Name: "Wrap", Constructors: 2}),
				Frame{Message: "in type constructor Wrap"},
			),
			Frame{Pos: inner},
		),
		Frame{Pos: outer},
	)

	rendered := Render(err)
	assert.Equal(t, "Error at M.yaml:7:3\n  in type constructor Wrap\n  (E002) newtype Wrap must have exactly one constructor, but it has 2", rendered)
}

func TestRenderForeignError(t *testing.T) {
	err := WithFrame(errors.New("boom"), Frame{Message: "in declaration x"})
	assert.Equal(t, "Error\n  in declaration x\n  boom", Render(err))
}

func TestInternalError(t *testing.T) {
	err := Internalf("unexpected %s", "TypeDeclaration")
	assert.Equal(t, "internal error: unexpected TypeDeclaration", err.Error())
	assert.Equal(t, None, CodeOf(err))
}

func TestErrCodeNames(t *testing.T) {
	for code := range codeNames {
		parsed, ok := ParseCode(code.String())
		assert.True(t, ok)
		assert.Equal(t, code, parsed)
	}
	_, ok := ParseCode("NotACode")
	assert.False(t, ok)
}

func TestErrorsAccumulator(t *testing.T) {
	var errs *Errors
	assert.False(t, errs.HasError())
	assert.NoError(t, errs.Err())

	errs = errs.With(New(NewMalformedSource{Path: "a.yaml", Message: "bad"}))
	errs = errs.Merge((*Errors)(nil).With(New(NewMalformedSource{Message: "worse"})))
	require.Len(t, errs.Errors(), 2)
	assert.Equal(t, MalformedSource, CodeOf(errs.Err()))
	assert.Equal(t, "(E012) a.yaml: bad\n(E012) worse", errs.Error())
}
