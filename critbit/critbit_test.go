package critbit

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(m Map[int]) []string {
	var keys []string
	for k := range m.All() {
		keys = append(keys, string(k))
	}
	return keys
}

func fromKeys(keys []string, val int) Map[int] {
	m := New[int]()
	for _, k := range keys {
		m, _, _ = m.Set([]byte(k), val)
	}
	return m
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	m := New[int]()

	assert.True(t, m.IsEmpty())
	assert.Nil(t, collect(m))

	_, ok := m.Get([]byte("a"))
	assert.False(t, ok)

	m2, _, ok := m.Del([]byte("a"))
	assert.False(t, ok)
	assert.True(t, m2.IsEmpty())
}

func TestKeyOrder(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Name string
		Ins  []string
		Exp  []string
	}{
		{
			"reversed",
			[]string{"x", "y", "z", "c", "c", "b", "b", "a", "a"},
			[]string{"a", "b", "c", "x", "y", "z"},
		},
		{
			"prefixes",
			[]string{"aaa", "aa", "a"},
			[]string{"a", "aa", "aaa"},
		},
		{
			"mixed",
			[]string{"b", "a", "aa"},
			[]string{"a", "aa", "b"},
		},
		{
			"in-order",
			[]string{"aa", "aaa", "aab", "ab", "ba", "bb", "bba", "bbb"},
			[]string{"aa", "aaa", "aab", "ab", "ba", "bb", "bba", "bbb"},
		},
		{
			// zero bytes extend a shorter key without flipping any
			// crit bit: the length split has to kick in
			"zero-bytes",
			[]string{"a\x00\x00", "a\x00", "", "a", "a\x00b"},
			[]string{"", "a", "a\x00", "a\x00\x00", "a\x00b"},
		},
	} {
		tcase := tcase

		t.Run(tcase.Name, func(t *testing.T) {
			t.Parallel()

			m := fromKeys(tcase.Ins, 1)

			assert.Equal(t, len(tcase.Exp), m.Len())
			assert.Equal(t, tcase.Exp, collect(m))

			for _, k := range tcase.Exp {
				val, ok := m.Get([]byte(k))
				require.True(t, ok, k)
				assert.Equal(t, 1, val)
			}

			// delete everything in reverse order
			for i := len(tcase.Exp) - 1; i >= 0; i-- {
				var ok bool
				m, _, ok = m.Del([]byte(tcase.Exp[i]))
				require.True(t, ok, tcase.Exp[i])
			}
			assert.True(t, m.IsEmpty())
		})
	}
}

func TestDelUnknownKey(t *testing.T) {
	t.Parallel()

	m := New[int]()
	m, _, ok := m.Set([]byte("aa"), 2)
	assert.False(t, ok)

	m2, _, ok := m.Del([]byte("ab"))
	assert.False(t, ok)
	assert.Equal(t, 1, m2.Len())
}

func TestReplace(t *testing.T) {
	t.Parallel()

	m := New[int]()
	m, _, _ = m.Set([]byte("k"), 1)

	m2, prev, ok := m.Set([]byte("k"), 2)
	assert.True(t, ok)
	assert.Equal(t, 1, prev)
	assert.Equal(t, 1, m2.Len())

	// the original map still holds the old value
	val, _ := m.Get([]byte("k"))
	assert.Equal(t, 1, val)
	val, _ = m2.Get([]byte("k"))
	assert.Equal(t, 2, val)
}

func TestSetWith(t *testing.T) {
	t.Parallel()

	add := func(old, new int) int { return old + new }

	m := New[int]()
	m, _, _ = m.SetWith([]byte("n"), 1, add)
	m, _, _ = m.SetWith([]byte("n"), 10, add)

	val, _ := m.Get([]byte("n"))
	assert.Equal(t, 11, val)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	a := New[int]()
	a, _, _ = a.Set([]byte("ABC"), 1)
	a, _, _ = a.Set([]byte("DEF"), 2)

	b := New[int]()
	b, _, _ = b.Set([]byte("ABC"), 10)
	b, _, _ = b.Set([]byte("GHI"), 3)

	merged := a.Merge(b, func(x, y int) int { return x + y })

	assert.Equal(t, 3, merged.Len())
	assert.Equal(t, []string{"ABC", "DEF", "GHI"}, collect(merged))

	for key, exp := range map[string]int{"ABC": 11, "DEF": 2, "GHI": 3} {
		val, ok := merged.Get([]byte(key))
		require.True(t, ok, key)
		assert.Equal(t, exp, val)
	}

	// inputs are untouched
	assert.Equal(t, 2, a.Len())
	val, _ := a.Get([]byte("ABC"))
	assert.Equal(t, 1, val)
}

func TestMergeStructural(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Name string
		A, B []string
	}{
		{"interleaved", []string{"a", "ab", "b"}, []string{"ab", "c", "z"}},
		{"disjoint-ranges", []string{"aa", "ab", "ac"}, []string{"za", "zb"}},
		{"one-inside-other", []string{"m", "q"}, []string{"ma", "mb", "m\x00"}},
		{"identical-keys", []string{"k1", "k2"}, []string{"k1", "k2"}},
		{"leaf-vs-tree", []string{"w"}, []string{"u", "v", "w", "x"}},
	} {
		tcase := tcase

		t.Run(tcase.Name, func(t *testing.T) {
			t.Parallel()

			a := fromKeys(tcase.A, 1)
			b := fromKeys(tcase.B, 10)

			expVal := map[string]int{}
			for _, k := range tcase.A {
				expVal[k] = 1
			}
			for _, k := range tcase.B {
				expVal[k] += 10
			}

			merged := a.Merge(b, func(x, y int) int { return x + y })

			require.Equal(t, len(expVal), merged.Len())
			for key, exp := range expVal {
				val, ok := merged.Get([]byte(key))
				require.True(t, ok, key)
				assert.Equal(t, exp, val)
			}

			// the merged tree is canonical: it matches the tree built
			// by plain inserts of the same entries
			exp := New[int]()
			for key, val := range expVal {
				exp, _, _ = exp.Set([]byte(key), val)
			}
			assert.True(t, merged.Equal(exp, func(x, y int) bool { return x == y }))

			// inputs are untouched
			assert.Equal(t, len(tcase.A), a.Len())
			assert.Equal(t, len(tcase.B), b.Len())
			for _, k := range tcase.A {
				val, _ := a.Get([]byte(k))
				assert.Equal(t, 1, val)
			}
		})
	}
}

func TestMapValues(t *testing.T) {
	t.Parallel()

	m := fromKeys([]string{"a", "b"}, 3)
	doubled := m.MapValues(func(v int) int { return v * 2 })

	assert.Equal(t, []string{"a", "b"}, collect(doubled))
	val, _ := doubled.Get([]byte("a"))
	assert.Equal(t, 6, val)
	val, _ = m.Get([]byte("a"))
	assert.Equal(t, 3, val)
}

func TestEqual(t *testing.T) {
	t.Parallel()

	eq := func(a, b int) bool { return a == b }

	// the tree shape only depends on the key set, not on history
	a := fromKeys([]string{"x", "a", "ab", "b"}, 1)
	b := fromKeys([]string{"b", "ab", "x", "a"}, 1)

	assert.True(t, a.Equal(b, eq))

	b, _, _ = b.Set([]byte("y"), 1)
	assert.False(t, a.Equal(b, eq))

	b, _, _ = b.Del([]byte("y"))
	assert.True(t, a.Equal(b, eq))
}

func TestFakeData(t *testing.T) {
	t.Parallel()

	const (
		total       = 10_000
		seed        = 1234567890
		wordsPerKey = 5
	)

	var (
		m     = New[string]()
		state = map[string]string{}
		fake  = gofakeit.New(seed)
	)

	for i := 0; i < total; i++ {
		var (
			key = fake.HipsterSentence(wordsPerKey)
			val = fake.Name()
		)

		m, _, _ = m.Set([]byte(key), val)
		state[key] = val
	}

	require.Equal(t, len(state), m.Len())

	for key, val := range state {
		actual, ok := m.Get([]byte(key))

		require.True(t, ok, key)
		assert.Equal(t, val, actual)
	}
}
