// Package vset provides small set helpers over map[T]bool, shared by the
// graph backends and the grid.
package vset

import (
	"cmp"
	"slices"
)

// Of builds a set from the given elements.
func Of[T comparable](vs ...T) map[T]bool {
	s := make(map[T]bool, len(vs))
	for _, v := range vs {
		s[v] = true
	}
	return s
}

// Copy returns a shallow copy of s. A nil set copies to nil.
func Copy[T comparable](s map[T]bool) map[T]bool {
	if s == nil {
		return nil
	}
	c := make(map[T]bool, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Union merges all of src into dst and returns dst, allocating it if nil.
func Union[T comparable](dst map[T]bool, src ...map[T]bool) map[T]bool {
	if dst == nil {
		dst = make(map[T]bool)
	}
	for _, s := range src {
		for k := range s {
			dst[k] = true
		}
	}
	return dst
}

// Disjoint reports whether a and b share no element.
func Disjoint[T comparable](a, b map[T]bool) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for k := range a {
		if b[k] {
			return false
		}
	}
	return true
}

// Hits returns the elements of a that are also in b, sorted.
func Hits[T cmp.Ordered](a, b map[T]bool) []T {
	var out []T
	for k := range a {
		if b[k] {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// Sorted returns the elements of s in ascending order.
func Sorted[T cmp.Ordered](s map[T]bool) []T {
	out := make([]T, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
