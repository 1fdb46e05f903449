package util

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocSet(t *testing.T) {
	s := NewDocSet(10)
	require.True(t, s.IsEmpty())
	require.Equal(t, 10, s.Length())

	for _, doc := range []int{7, 1, 3} {
		s.Set(doc)
	}
	require.Equal(t, 3, s.Cardinality())
	require.True(t, s.At(3))
	require.False(t, s.At(2))
	require.False(t, s.At(-1))
	require.Equal(t, []int{1, 3, 7}, s.ToArray())

	s.Set(12)
	require.Equal(t, 13, s.Length(), "setting past the end grows the set")
	s.Clear(12)
	require.False(t, s.At(12))

	require.Equal(t, 1, s.NextSetBit(-5))
	require.Equal(t, 3, s.NextSetBit(2))
	require.Equal(t, 7, s.NextSetBit(7))
	require.Equal(t, -1, s.NextSetBit(8))
}

func TestDocSetAndOr(t *testing.T) {
	a, b := NewDocSet(5), NewDocSet(8)
	for _, doc := range []int{0, 2, 4} {
		a.Set(doc)
	}
	for _, doc := range []int{2, 3, 7} {
		b.Set(doc)
	}

	and := a.Clone()
	and.And(b)
	require.Equal(t, []int{2}, and.ToArray())
	require.Equal(t, []int{0, 2, 4}, a.ToArray(), "clones are independent")

	or := a.Clone()
	or.Or(b)
	require.Equal(t, []int{0, 2, 3, 4, 7}, or.ToArray())
	require.Equal(t, 8, or.Length())
}

func TestDocSetIterator(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	s := NewDocSet(200)
	for doc := 0; doc < 200; doc++ {
		if rnd.Intn(3) == 0 {
			s.Set(doc)
		}
	}
	docs := s.ToArray()

	it := s.Iterator()
	require.Equal(t, -1, it.DocId())
	var got []int
	for doc := it.NextDoc(); doc != exhausted; doc = it.NextDoc() {
		got = append(got, doc)
	}
	require.Equal(t, docs, got)
	require.Equal(t, exhausted, it.NextDoc())
	require.Equal(t, exhausted, it.Advance(0))

	for iter := 0; iter < 50; iter++ {
		it := s.Iterator()
		first := rnd.Intn(220)
		doc := it.Advance(first)
		expected := s.NextSetBit(first)
		if expected < 0 {
			require.Equal(t, exhausted, doc)
			continue
		}
		require.Equal(t, expected, doc)
		// advancing to the current doc moves forward
		next := it.Advance(doc)
		if after := s.NextSetBit(doc + 1); after >= 0 {
			require.Equal(t, after, next)
		} else {
			require.Equal(t, exhausted, next)
		}
	}
}

func TestByte315(t *testing.T) {
	require.Equal(t, byte(0), FloatToByte315(0))
	require.Equal(t, float32(0), Byte315ToFloat(0))
	require.Equal(t, float32(1), Byte315ToFloat(FloatToByte315(1)))
	require.Equal(t, float32(0.5), Byte315ToFloat(FloatToByte315(0.5)))
	// lossy: truncated to three mantissa bits
	require.Equal(t, float32(0.625), Byte315ToFloat(FloatToByte315(0.7071)))
	require.Equal(t, byte(1), FloatToByte315(1e-20))
	require.Equal(t, byte(255), FloatToByte315(1e20))
	for b := 0; b < 256; b++ {
		require.Equal(t, Byte315ToFloat(byte(b)), DecodeNorm315(byte(b)))
		require.Equal(t, byte(b), FloatToByte315(Byte315ToFloat(byte(b))))
	}
}
