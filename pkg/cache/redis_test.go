package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilClientIsAMiss(t *testing.T) {
	var c *RedisClient
	ctx := context.Background()

	var dest map[string]int
	hit, err := c.GetJSON(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	assert.NoError(t, c.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, c.DeletePattern(ctx, "k*"))
	assert.NoError(t, c.Close())
}
