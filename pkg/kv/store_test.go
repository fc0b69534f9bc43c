package kv

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetSetDelete(t *testing.T) {
	s := New[string, int]()

	_, ok := s.Get("a")
	assert.False(t, ok)

	s.Set("a", 1)
	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	assert.True(t, s.Delete("a"))
	assert.False(t, s.Delete("a"))
	assert.Zero(t, s.Len())
}

func TestStore_ValuesAndDrain(t *testing.T) {
	s := New[string, int]()
	s.Set("a", 1)
	s.Set("b", 2)

	assert.ElementsMatch(t, []int{1, 2}, s.Values())
	assert.Equal(t, 2, s.Len())

	assert.ElementsMatch(t, []int{1, 2}, s.Drain())
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Drain())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New[string, int]()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			key := strconv.Itoa(i)
			s.Set(key, i)
			s.Get(key)
			s.Values()
		})
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}
