package util

import (
	"iter"

	"github.com/hashicorp/go-set/v3"
)

func ConcatIter[A any](iter ...iter.Seq[A]) iter.Seq[A] {
	return func(yield func(A) bool) {
		for _, thisIter := range iter {
			for v := range thisIter {
				if !yield(v) {
					return
				}
			}
		}
	}
}

func MapIter[A, B any](iter iter.Seq[A], f func(A) B) iter.Seq[B] {
	return func(yield func(B) bool) {
		for v := range iter {
			if !yield(f(v)) {
				return
			}
		}
	}
}

// FilterMapIter yields f(v) for the v where f reports true
func FilterMapIter[A, B any](iter iter.Seq[A], f func(A) (B, bool)) iter.Seq[B] {
	return func(yield func(B) bool) {
		for v := range iter {
			if mapped, ok := f(v); ok && !yield(mapped) {
				return
			}
		}
	}
}

func MapSlice[A, B any](slice []A, f func(A) B) []B {
	mapped := make([]B, len(slice))
	for i, v := range slice {
		mapped[i] = f(v)
	}
	return mapped
}

func Reverse[A any](slice []A) iter.Seq[A] {
	return func(yield func(A) bool) {
		for i := len(slice) - 1; i >= 0; i-- {
			if !yield(slice[i]) {
				return
			}
		}
	}
}

func SetFromSeq[V comparable](s iter.Seq[V], size int) *set.Set[V] {
	newSet := set.New[V](size)
	for item := range s {
		newSet.Insert(item)
	}
	return newSet
}
