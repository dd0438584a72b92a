package util

import "cmp"

func Clamp[T cmp.Ordered](val, lo, hi T) T {
	return min(max(val, lo), hi)
}
