package cachekey

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductList(t *testing.T) {
	a, err := ProductList(1, map[string]interface{}{"page": 1, "search": "usb"})
	require.NoError(t, err)
	b, err := ProductList(1, map[string]interface{}{"page": 2, "search": "usb"})
	require.NoError(t, err)
	c, err := ProductList(2, map[string]interface{}{"page": 1, "search": "usb"})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)

	ok, _ := path.Match(ProductListPattern(1), a)
	assert.True(t, ok)
	ok, _ = path.Match(ProductListPattern(1), c)
	assert.False(t, ok)
}

func TestDashboardPattern(t *testing.T) {
	ok, _ := path.Match(DashboardPattern(3), DashboardStats(3, "s1:w-"))
	assert.True(t, ok)
	ok, _ = path.Match(DashboardPattern(3), DashboardStats(31, "s1:w-"))
	assert.False(t, ok)
}
