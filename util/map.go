package util

import (
	"cmp"
	"slices"
)

func MapKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func SortedMapKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := MapKeys(m)
	slices.Sort(keys)
	return keys
}
