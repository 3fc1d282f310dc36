package kindcheck

import (
	"github.com/cottand/elab/frontend/ilerr"
	"github.com/cottand/elab/frontend/kinds"
)

// solution maps kind variables to what they were unified with
type solution struct {
	next  int
	bound map[int]kinds.Kind
}

func (s *solution) fresh() kinds.Kind {
	s.next++
	return kinds.KUnknown{ID: s.next}
}

// resolve follows the bindings of k until it is not a bound variable
func (s *solution) resolve(k kinds.Kind) kinds.Kind {
	for {
		unknown, ok := k.(kinds.KUnknown)
		if !ok {
			return k
		}
		next, ok := s.bound[unknown.ID]
		if !ok {
			return k
		}
		k = next
	}
}

// apply substitutes every bound variable in k
func (s *solution) apply(k kinds.Kind) kinds.Kind {
	switch k := s.resolve(k).(type) {
	case kinds.KFun:
		return kinds.KFun{Arg: s.apply(k.Arg), Result: s.apply(k.Result)}
	case kinds.KRow:
		return kinds.KRow{Of: s.apply(k.Of)}
	default:
		return k
	}
}

// finish is apply, with the variables nothing constrained defaulted to *
func (s *solution) finish(k kinds.Kind) kinds.Kind {
	switch k := s.resolve(k).(type) {
	case kinds.KUnknown:
		return kinds.Star
	case kinds.KFun:
		return kinds.KFun{Arg: s.finish(k.Arg), Result: s.finish(k.Result)}
	case kinds.KRow:
		return kinds.KRow{Of: s.finish(k.Of)}
	default:
		return k
	}
}

func (s *solution) occurs(id int, k kinds.Kind) bool {
	switch k := s.resolve(k).(type) {
	case kinds.KUnknown:
		return k.ID == id
	case kinds.KFun:
		return s.occurs(id, k.Arg) || s.occurs(id, k.Result)
	case kinds.KRow:
		return s.occurs(id, k.Of)
	default:
		return false
	}
}

func (s *solution) bind(id int, k kinds.Kind) error {
	if s.occurs(id, k) {
		return ilerr.New(ilerr.NewInfiniteKind{Kind: s.apply(k)})
	}
	s.bound[id] = k
	return nil
}

// unify makes expected and found the same kind, or fails with a KindMismatch
func (s *solution) unify(expected, found kinds.Kind) error {
	expected, found = s.resolve(expected), s.resolve(found)

	if u1, ok := expected.(kinds.KUnknown); ok {
		if u2, ok := found.(kinds.KUnknown); ok && u1.ID == u2.ID {
			return nil
		}
		return s.bind(u1.ID, found)
	}
	if u2, ok := found.(kinds.KUnknown); ok {
		return s.bind(u2.ID, expected)
	}

	switch e := expected.(type) {
	case kinds.KStar:
		if _, ok := found.(kinds.KStar); ok {
			return nil
		}
	case kinds.KRow:
		if f, ok := found.(kinds.KRow); ok {
			return s.unify(e.Of, f.Of)
		}
	case kinds.KFun:
		if f, ok := found.(kinds.KFun); ok {
			if err := s.unify(e.Arg, f.Arg); err != nil {
				return err
			}
			return s.unify(e.Result, f.Result)
		}
	}
	return ilerr.New(ilerr.NewKindMismatch{Expected: s.apply(expected), Found: s.apply(found)})
}
