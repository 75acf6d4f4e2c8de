package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	_, ok := s.Get(ctx, "k")
	assert.False(t, ok)

	s.Set(ctx, "k", []byte("v"))
	got, ok := s.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	s.Purge(ctx)
	_, ok = s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryStore_Expires(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10 * time.Millisecond)
	s.Set(ctx, "k", []byte("v"))

	assert.Eventually(t, func() bool {
		_, ok := s.Get(ctx, "k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}
