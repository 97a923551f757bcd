package kdbush_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/royalcat/hexcities/kdbush"
)

func randomPoints(n int) []kdbush.Point[int] {
	rnd := rand.New(rand.NewPCG(1, 2))
	points := make([]kdbush.Point[int], n)
	for i := range points {
		points[i] = kdbush.Point[int]{Point: orb.Point{rnd.Float64() * 1000, rnd.Float64() * 1000}, Data: i}
	}
	return points
}

func TestWithinMatchesScan(t *testing.T) {
	points := randomPoints(5000)
	bush := kdbush.NewBush(points, 16)

	q := orb.Point{500, 500}
	var got []int
	bush.Within(q, 80, func(p kdbush.Point[int]) bool {
		got = append(got, p.Data)
		return true
	})
	slices.Sort(got)

	var want []int
	for i, p := range points {
		if planar.Distance(p.Point, q) <= 80 {
			want = append(want, i)
		}
	}
	if !slices.Equal(got, want) {
		t.Fatalf("within returned %d items, scan found %d", len(got), len(want))
	}
}

func TestWithinStops(t *testing.T) {
	bush := kdbush.NewBush(randomPoints(2000), 8)

	calls := 0
	bush.Within(orb.Point{500, 500}, 300, func(p kdbush.Point[int]) bool {
		calls++
		return calls < 3
	})
	if calls != 3 {
		t.Fatalf("expected handler to be called 3 times; got %d", calls)
	}
}

func TestEmpty(t *testing.T) {
	bush := kdbush.NewBush[int](nil, 16)
	if bush.Len() != 0 {
		t.Fatal("empty index has items")
	}
	bush.Within(orb.Point{0, 0}, 1, func(p kdbush.Point[int]) bool {
		t.Fatalf("empty index returned %v", p)
		return false
	})
}
