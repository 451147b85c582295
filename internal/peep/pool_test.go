package peep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolReusesLowestSlot(t *testing.T) {
	pool := NewPool(4)
	var got []uint16
	for i := 0; i < 4; i++ {
		p, err := pool.Alloc()
		require.NoError(t, err)
		got = append(got, p.Index)
	}
	assert.Equal(t, []uint16{0, 1, 2, 3}, got)

	_, err := pool.Alloc()
	assert.ErrorIs(t, err, ErrPoolExhausted)

	pool.Free(2)
	pool.Free(0)
	pool.Free(3)
	assert.Equal(t, 1, pool.Len())

	p, err := pool.Alloc()
	require.NoError(t, err)
	assert.EqualValues(t, 0, p.Index)
	p, err = pool.Alloc()
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.Index)
}

func TestPoolFreeTwiceIsHarmless(t *testing.T) {
	pool := NewPool(2)
	p, err := pool.Alloc()
	require.NoError(t, err)
	pool.Free(p.Index)
	pool.Free(p.Index)
	pool.Free(40)
	assert.Zero(t, pool.Len())

	a, _ := pool.Alloc()
	b, _ := pool.Alloc()
	assert.NotEqual(t, a.Index, b.Index)
	_, err = pool.Alloc()
	assert.ErrorIs(t, err, ErrPoolExhausted)
}

func TestPoolEachAllowsFree(t *testing.T) {
	pool := NewPool(5)
	for i := 0; i < 5; i++ {
		_, err := pool.Alloc()
		require.NoError(t, err)
	}
	var seen []uint16
	pool.Each(func(p *Peep) {
		seen = append(seen, p.Index)
		if p.Index%2 == 1 {
			pool.Free(p.Index)
		}
	})
	assert.Equal(t, []uint16{0, 1, 2, 3, 4}, seen)
	assert.Equal(t, 3, pool.Len())
	assert.Nil(t, pool.Get(1))
}

func TestPoolPutRestoresSlot(t *testing.T) {
	pool := NewPool(4)
	require.NoError(t, pool.Put(&Peep{Index: 2}))
	assert.Error(t, pool.Put(&Peep{Index: 2}))
	assert.ErrorIs(t, pool.Put(&Peep{Index: 9}), ErrPoolExhausted)

	p, err := pool.Alloc()
	require.NoError(t, err)
	assert.EqualValues(t, 0, p.Index)

	pool.Clear()
	assert.Zero(t, pool.Len())
	assert.Equal(t, 4, pool.Cap())
}

func TestNewPoolRejectsBadCapacity(t *testing.T) {
	assert.Panics(t, func() { NewPool(0) })
	assert.Panics(t, func() { NewPool(int(NoIndex)) })
}
