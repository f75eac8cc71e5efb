package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communityBack/internal/cache"
)

func TestClosedClientReportsErrClosed(t *testing.T) {
	c := New(Options{Addr: "127.0.0.1:0"})
	require.NoError(t, c.Close())

	ctx := context.Background()
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrClosed)
	assert.ErrorIs(t, c.Set(ctx, "k", []byte("v"), time.Second), cache.ErrClosed)
	_, err = c.Incr(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrClosed)
}
