package refcache

import (
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resource struct {
	name      string
	destroyed int
}

type counters struct {
	created   int
	destroyed int
}

func newTestCache(cnt *counters) *Cache[*resource, string, struct{}] {
	return New(
		func(p string) string { return p },
		func(_ struct{}, p string) (*resource, error) {
			if p == "bad" {
				return nil, errors.New("cannot build bad")
			}
			cnt.created++
			return &resource{name: p}, nil
		},
		func(r *resource) {
			cnt.destroyed++
			r.destroyed++
		},
	)
}

func TestGetSharesValue(t *testing.T) {
	var cnt counters
	c := newTestCache(&cnt)

	a, err := c.Get(struct{}{}, "prog")
	require.NoError(t, err)
	b, err := c.Get(struct{}{}, "prog")
	require.NoError(t, err)

	assert.Same(t, a.Value(), b.Value())
	assert.Equal(t, 1, cnt.created)
	assert.Equal(t, 1, c.Count())

	a.Free()
	assert.Equal(t, 0, cnt.destroyed, "value must survive while b is live")
	assert.Equal(t, 1, c.Count())

	b.Free()
	assert.Equal(t, 1, cnt.destroyed)
	assert.Equal(t, 1, b.Value().destroyed)
	assert.Equal(t, 0, c.Count())
}

func TestFreeTwiceDestroysOnce(t *testing.T) {
	var cnt counters
	c := newTestCache(&cnt)

	a, err := c.Get(struct{}{}, "x")
	require.NoError(t, err)
	b, err := c.Get(struct{}{}, "x")
	require.NoError(t, err)

	a.Free()
	a.Free() // must not steal b's reference
	assert.Equal(t, 0, cnt.destroyed)

	b.Free()
	b.Free()
	assert.Equal(t, 1, cnt.destroyed)
}

func TestRecreateAfterEviction(t *testing.T) {
	var cnt counters
	c := newTestCache(&cnt)

	a, _ := c.Get(struct{}{}, "x")
	a.Free()
	b, err := c.Get(struct{}{}, "x")
	require.NoError(t, err)
	assert.NotSame(t, a.Value(), b.Value())
	assert.Equal(t, 2, cnt.created)
}

func TestFactoryErrorIsNotCached(t *testing.T) {
	var cnt counters
	c := newTestCache(&cnt)

	h, err := c.Get(struct{}{}, "bad")
	assert.Error(t, err)
	assert.Nil(t, h)
	assert.Equal(t, 0, c.Count())
}

func TestDispose(t *testing.T) {
	var cnt counters
	c := newTestCache(&cnt)

	a, _ := c.Get(struct{}{}, "a")
	_, _ = c.Get(struct{}{}, "b")
	c.Dispose()
	assert.Equal(t, 2, cnt.destroyed)
	assert.Equal(t, 0, c.Count())

	a.Free()
	assert.Equal(t, 2, cnt.destroyed)
}

func TestConcurrentGetCreatesOnce(t *testing.T) {
	var mu sync.Mutex
	created := 0
	c := New(
		func(p int) string { return strconv.Itoa(p) },
		func(_ struct{}, p int) (int, error) {
			mu.Lock()
			created++
			mu.Unlock()
			return p, nil
		},
		func(int) {},
	)

	var wg sync.WaitGroup
	handles := make([]*Handle[int, int, struct{}], 32)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := c.Get(struct{}{}, 7)
			assert.NoError(t, err)
			handles[i] = h
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	for _, h := range handles {
		h.Free()
	}
	assert.Equal(t, 0, c.Count())
}
