package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindIndex(t *testing.T) {
	require.Equal(t, 1, FindIndex([]string{"a", "", "b", ""}, ""))
	require.Equal(t, 2, FindIndex([]int{3, 1, 4}, 4))
	require.Equal(t, -1, FindIndex([]int{3, 1, 4}, 5))
	require.Equal(t, -1, FindIndex(nil, 0))
}

func TestMap(t *testing.T) {
	require.Equal(t, []int{2, 4, 6}, Map([]int{1, 2, 3}, func(i int) int { return 2 * i }))
	require.Equal(t, []string{}, Map([]string(nil), func(s string) string { return s }))
}
