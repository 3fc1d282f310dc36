package ilerr

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/pkg/errors"

	"github.com/cottand/elab/util"
)

// Frame is one level of context around an error: the declaration being
// checked, or where in the source it is
type Frame struct {
	Message string
	Pos     token.Position
}

func (f Frame) String() string {
	switch {
	case f.Message == "":
		return "at " + f.Pos.String()
	case f.Pos.IsValid():
		return f.Message + " at " + f.Pos.String()
	default:
		return f.Message
	}
}

// ContextError wraps Err with the Frame it happened in
type ContextError struct {
	Frame Frame
	Err   error
}

func (e *ContextError) Error() string {
	return e.Frame.String() + ": " + e.Err.Error()
}

func (e *ContextError) Unwrap() error { return e.Err }

// Cause makes ContextError transparent to errors.Cause
func (e *ContextError) Cause() error { return e.Err }

// WithFrame wraps err in frame, or returns nil if err is nil
func WithFrame(err error, frame Frame) error {
	if err == nil {
		return nil
	}
	return &ContextError{Frame: frame, Err: err}
}

// Frames lists the frames around err, outermost first
func Frames(err error) []Frame {
	var frames []Frame
	var ctx *ContextError
	for errors.As(err, &ctx) {
		frames = append(frames, ctx.Frame)
		err = ctx.Err
	}
	return frames
}

// Render formats err for the user: the innermost known position, then the
// path of declarations that led to the error, then the error itself
//
//	Error at M.yaml:4:3
//	  in type constructor Wrap
//	  (E002) newtype Wrap must have exactly one constructor, but it has 2
func Render(err error) string {
	frames := Frames(err)
	sb := strings.Builder{}
	sb.WriteString("Error")
	for frame := range util.Reverse(frames) {
		if frame.Pos.IsValid() {
			sb.WriteString(" at ")
			sb.WriteString(frame.Pos.String())
			break
		}
	}
	sb.WriteString("\n")
	for _, frame := range frames {
		if frame.Message == "" {
			continue
		}
		sb.WriteString("  ")
		sb.WriteString(frame.Message)
		sb.WriteString("\n")
	}
	sb.WriteString("  ")
	var elabErr ElabError
	if errors.As(err, &elabErr) {
		sb.WriteString(FormatWithCode(elabErr))
	} else {
		sb.WriteString(errors.Cause(err).Error())
	}
	return sb.String()
}

// InternalError means the compiler itself is wrong, typically because an
// earlier pass handed over something it promised never to produce.
// The elaborator raises it with panic.
type InternalError struct {
	err error
}

// Internalf builds an InternalError that records the stack it was created at
func Internalf(format string, args ...any) *InternalError {
	return &InternalError{err: errors.Errorf(format, args...)}
}

func (e *InternalError) Error() string { return "internal error: " + e.err.Error() }

func (e *InternalError) Unwrap() error { return e.err }

func (e *InternalError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		_, _ = fmt.Fprintf(s, "internal error: %+v", e.err)
		return
	}
	_, _ = fmt.Fprint(s, e.Error())
}
