package utils

// FindIndex returns the index of the first occurrence of item, -1 if absent.
func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

func Map[T, U any](slice []T, f func(T) U) []U {
	out := make([]U, len(slice))
	for i, v := range slice {
		out[i] = f(v)
	}
	return out
}
