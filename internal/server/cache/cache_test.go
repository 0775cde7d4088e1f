package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	c := New(time.Minute)
	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", 42)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, c.ItemCount())

	c.Flush()
	assert.Equal(t, 0, c.ItemCount())
}

func TestMemo(t *testing.T) {
	c := New(time.Minute)
	calls := 0
	compute := func() (any, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.Memo("k", compute)
		require.NoError(t, err)
		assert.Equal(t, "value", v)
	}
	assert.Equal(t, 1, calls)
}

func TestMemoDoesNotCacheErrors(t *testing.T) {
	c := New(time.Minute)
	boom := errors.New("boom")
	_, err := c.Memo("k", func() (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	v, err := c.Memo("k", func() (any, error) { return 1, nil })
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestExpiry(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.Set("k", 1)
	time.Sleep(40 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}
