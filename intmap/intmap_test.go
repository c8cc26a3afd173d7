package intmap

import (
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmpty(t *testing.T) {
	t.Parallel()

	m := New[string]()

	assert.True(t, m.IsEmpty())
	assert.Equal(t, 0, m.Len())

	_, ok := m.Get(42)
	assert.False(t, ok)

	m2, _, ok := m.Del(42)
	assert.False(t, ok)
	assert.True(t, m2.IsEmpty())
}

func TestSetGet(t *testing.T) {
	t.Parallel()

	m := New[string]()

	for _, key := range []uint64{0, 1, 255, 256, 1 << 20, 1 << 40, math.MaxUint64} {
		var prev string
		var ok bool

		m, prev, ok = m.Set(key, fmt.Sprint(key))

		assert.False(t, ok)
		assert.Equal(t, "", prev)
	}

	assert.Equal(t, 7, m.Len())

	for _, key := range []uint64{0, 1, 255, 256, 1 << 20, 1 << 40, math.MaxUint64} {
		val, ok := m.Get(key)

		require.True(t, ok, key)
		assert.Equal(t, fmt.Sprint(key), val)
	}

	_, ok := m.Get(2)
	assert.False(t, ok)

	// replace reports the previous value and keeps the size
	m, prev, ok := m.Set(255, "new")
	assert.True(t, ok)
	assert.Equal(t, "255", prev)
	assert.Equal(t, 7, m.Len())

	val, _ := m.Get(255)
	assert.Equal(t, "new", val)
}

func TestDel(t *testing.T) {
	t.Parallel()

	m := New[int]()
	m, _, _ = m.Set(7, 70)
	m, _, _ = m.Set(7<<32, 71)

	m2, prev, ok := m.Del(7)
	assert.True(t, ok)
	assert.Equal(t, 70, prev)
	assert.Equal(t, 1, m2.Len())

	// the other key survives
	val, ok := m2.Get(7 << 32)
	require.True(t, ok)
	assert.Equal(t, 71, val)

	// deleting the last key collapses the whole structure
	m3, _, ok := m2.Del(7 << 32)
	assert.True(t, ok)
	assert.True(t, m3.IsEmpty())

	// deleting an unknown key returns the map unchanged
	m4, _, ok := m2.Del(12345)
	assert.False(t, ok)
	assert.Equal(t, 1, m4.Len())
}

func TestAllAscending(t *testing.T) {
	t.Parallel()

	keys := []uint64{99999, 5, 1 << 40, 0, 3, 256, 255, math.MaxUint64}

	m := New[uint64]()
	for _, k := range keys {
		m, _, _ = m.Set(k, k*2)
	}

	var got []uint64
	for k, v := range m.All() {
		assert.Equal(t, k*2, v)
		got = append(got, k)
	}

	sorted := append([]uint64(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	assert.Equal(t, sorted, got)
}

func TestPersistence(t *testing.T) {
	t.Parallel()

	m1 := New[string]()
	m1, _, _ = m1.Set(1, "one")

	m2, _, _ := m1.Set(2, "two")
	m3, _, _ := m2.Del(1)

	assert.Equal(t, 1, m1.Len())
	assert.Equal(t, 2, m2.Len())
	assert.Equal(t, 1, m3.Len())

	_, ok := m1.Get(2)
	assert.False(t, ok)

	val, ok := m2.Get(1)
	require.True(t, ok)
	assert.Equal(t, "one", val)

	_, ok = m3.Get(1)
	assert.False(t, ok)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	a := New[int]()
	for _, k := range []uint64{1, 2, 3} {
		a, _, _ = a.Set(k, int(k)*10)
	}
	b := New[int]()
	for _, k := range []uint64{3, 4} {
		b, _, _ = b.Set(k, int(k)*100)
	}

	merged := a.Merge(b, func(x, y int) int { return x + y })

	assert.Equal(t, 4, merged.Len())

	for key, exp := range map[uint64]int{1: 10, 2: 20, 3: 330, 4: 400} {
		val, ok := merged.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, exp, val)
	}

	// inputs are untouched
	val, _ := a.Get(3)
	assert.Equal(t, 30, val)
	assert.Equal(t, 2, b.Len())
}

func TestMapValues(t *testing.T) {
	t.Parallel()

	m := New[int]()
	m, _, _ = m.Set(1, 1)
	m, _, _ = m.Set(1<<30, 2)

	doubled := m.MapValues(func(v int) int { return v * 2 })

	assert.Equal(t, 2, doubled.Len())

	val, _ := doubled.Get(1)
	assert.Equal(t, 2, val)
	val, _ = doubled.Get(1 << 30)
	assert.Equal(t, 4, val)

	val, _ = m.Get(1)
	assert.Equal(t, 1, val)
}

func TestEqual(t *testing.T) {
	t.Parallel()

	eq := func(a, b int) bool { return a == b }

	a := New[int]()
	b := New[int]()
	assert.True(t, a.Equal(b, eq))

	// same content in a different insertion order
	for _, k := range []uint64{9, 2, 77} {
		a, _, _ = a.Set(k, int(k))
	}
	for _, k := range []uint64{77, 9, 2} {
		b, _, _ = b.Set(k, int(k))
	}
	assert.True(t, a.Equal(b, eq))

	b, _, _ = b.Set(3, 3)
	assert.False(t, a.Equal(b, eq))
}

func TestFakeData(t *testing.T) {
	t.Parallel()

	const (
		total = 10_000
		seed  = 1234567890
	)

	var (
		m     = New[string]()
		state = map[uint64]string{}
		fake  = gofakeit.New(seed)
	)

	for i := 0; i < total; i++ {
		var (
			key = fake.Uint64()
			val = fake.Name()
		)

		m, _, _ = m.Set(key, val)
		state[key] = val
	}

	require.Equal(t, len(state), m.Len())

	for key, val := range state {
		actual, ok := m.Get(key)

		require.True(t, ok, key)
		assert.Equal(t, val, actual)
	}

	// delete everything back down to the empty map
	for key := range state {
		var ok bool
		m, _, ok = m.Del(key)
		require.True(t, ok, key)
	}
	assert.True(t, m.IsEmpty())
}
