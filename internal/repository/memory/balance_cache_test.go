package memory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBalanceCache(t *testing.T) {
	c := NewBalanceCache()
	id := uuid.New()

	_, found := c.Get(id)
	assert.False(t, found)

	c.Set(id, 42)
	balance, found := c.Get(id)
	assert.True(t, found)
	assert.Equal(t, 42, balance)

	c.Invalidate(id)
	_, found = c.Get(id)
	assert.False(t, found)
}
