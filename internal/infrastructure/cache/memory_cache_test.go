package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "weather:5.6:-0.2", []byte("sunny"), time.Minute))

	v, err := c.Get(ctx, "weather:5.6:-0.2")
	require.NoError(t, err)
	assert.Equal(t, "sunny", string(v))

	now = now.Add(2 * time.Minute)
	_, err = c.Get(ctx, "weather:5.6:-0.2")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCacheDeleteAndJSON(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	type payload struct{ Name string }
	require.NoError(t, SetJSON(ctx, c, "k", payload{Name: "seeds"}, 0))

	var got payload
	require.NoError(t, GetJSON(ctx, c, "k", &got))
	assert.Equal(t, "seeds", got.Name)

	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, GetJSON(ctx, c, "k", &got), ErrMiss)
}
