package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncMap(t *testing.T) {
	var m SyncMap[string, *int]
	calls := 0
	create := func() *int {
		calls++
		return new(int)
	}

	a := m.LoadOrCreate("a", create)
	*a = 1
	assert.Same(t, a, m.LoadOrCreate("a", create))
	assert.Equal(t, 1, calls)

	m.LoadOrCreate("b", create)
	sum := 0
	m.Range(func(_ string, v *int) bool {
		sum += *v
		return true
	})
	assert.Equal(t, 1, sum)
}
