package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	t.Run("nil slice", func(t *testing.T) {
		var input []int
		assert.Nil(t, Map(input, strconv.Itoa))
	})
	t.Run("slice", func(t *testing.T) {
		assert.Equal(t, []string{"1", "2", "3"}, Map([]int{1, 2, 3}, strconv.Itoa))
	})
}

func TestMapKeys(t *testing.T) {
	keys := MapKeys(map[int]string{1: "a", 2: "b"})
	assert.ElementsMatch(t, []int{1, 2}, keys)
	assert.Empty(t, MapKeys(map[int]string(nil)))
}
