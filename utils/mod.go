package utils

import "golang.org/x/exp/constraints"

// Abs returns the magnitude of n.
func Abs[T constraints.Signed](n T) T {
	if n < 0 {
		return -n
	}
	return n
}

// SaturatingSub returns a-b, or zero when b exceeds a.
func SaturatingSub[T constraints.Integer](a, b T) T {
	if b > a {
		return 0
	}
	return a - b
}

// Fold reduces items from left to right, threading the accumulator through f.
func Fold[T, A any](items []T, init A, f func(acc A, item T) A) A {
	acc := init
	for _, item := range items {
		acc = f(acc, item)
	}
	return acc
}
