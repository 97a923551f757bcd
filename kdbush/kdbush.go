package kdbush

import (
	"math"

	"github.com/paulmach/orb"
)

// Point is an indexed item with its planar position.
type Point[T any] struct {
	orb.Point
	Data T
}

// KDBush is a static 2d tree, points can not be added after construction.
type KDBush[T any] struct {
	NodeSize int
	Points   []Point[T]

	idxs   []int     // index into Points, in tree order
	coords []float64 // x, y pairs in tree order
}

func NewBush[T any](points []Point[T], nodeSize int) *KDBush[T] {
	b := &KDBush[T]{
		NodeSize: nodeSize,
		Points:   points,
		idxs:     make([]int, len(points)),
		coords:   make([]float64, 2*len(points)),
	}
	for i, p := range points {
		b.idxs[i] = i
		b.coords[2*i] = p.X()
		b.coords[2*i+1] = p.Y()
	}
	sortKD(b.idxs, b.coords, nodeSize, 0, len(b.idxs)-1, 0)
	return b
}

func (bush *KDBush[T]) Len() int {
	return len(bush.Points)
}

type span struct {
	left, right, axis int
}

// Within calls handler for every item at most radius away from q until handler returns false.
func (bush *KDBush[T]) Within(q orb.Point, radius float64, handler func(p Point[T]) bool) {
	r2 := radius * radius

	stack := []span{{0, len(bush.idxs) - 1, 0}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s.right-s.left <= bush.NodeSize {
			for i := s.left; i <= s.right; i++ {
				if distSquared(bush.coords[2*i], bush.coords[2*i+1], q) <= r2 {
					if !handler(bush.Points[bush.idxs[i]]) {
						return
					}
				}
			}
			continue
		}

		m := (s.left + s.right) / 2
		if distSquared(bush.coords[2*m], bush.coords[2*m+1], q) <= r2 {
			if !handler(bush.Points[bush.idxs[m]]) {
				return
			}
		}

		v := bush.coords[2*m+s.axis]
		next := 1 - s.axis
		if q[s.axis]-radius <= v {
			stack = append(stack, span{s.left, m - 1, next})
		}
		if q[s.axis]+radius >= v {
			stack = append(stack, span{m + 1, s.right, next})
		}
	}
}

// sortKD arranges items so every node splits its range at the median on alternating axes.
func sortKD(idxs []int, coords []float64, nodeSize int, left, right, depth int) {
	if right-left <= nodeSize {
		return
	}

	m := (left + right) / 2
	selectKth(idxs, coords, m, left, right, depth%2)

	sortKD(idxs, coords, nodeSize, left, m-1, depth+1)
	sortKD(idxs, coords, nodeSize, m+1, right, depth+1)
}

// selectKth is Floyd-Rivest selection on one axis.
func selectKth(idxs []int, coords []float64, k, left, right, axis int) {
	for right > left {
		if right-left > 600 {
			n := float64(right - left + 1)
			m := float64(k - left + 1)
			z := math.Log(n)
			s := 0.5 * math.Exp(2*z/3)
			sd := 0.5 * math.Sqrt(z*s*(n-s)/n)
			if m-n/2 < 0 {
				sd = -sd
			}
			newLeft := max(left, int(math.Floor(float64(k)-m*s/n+sd)))
			newRight := min(right, int(math.Floor(float64(k)+(n-m)*s/n+sd)))
			selectKth(idxs, coords, k, newLeft, newRight, axis)
		}

		t := coords[2*k+axis]
		i, j := left, right

		swapItem(idxs, coords, left, k)
		if coords[2*right+axis] > t {
			swapItem(idxs, coords, left, right)
		}

		for i < j {
			swapItem(idxs, coords, i, j)
			i++
			j--
			for coords[2*i+axis] < t {
				i++
			}
			for coords[2*j+axis] > t {
				j--
			}
		}

		if coords[2*left+axis] == t {
			swapItem(idxs, coords, left, j)
		} else {
			j++
			swapItem(idxs, coords, j, right)
		}

		if j <= k {
			left = j + 1
		}
		if k <= j {
			right = j - 1
		}
	}
}

func swapItem(idxs []int, coords []float64, i, j int) {
	idxs[i], idxs[j] = idxs[j], idxs[i]
	coords[2*i], coords[2*j] = coords[2*j], coords[2*i]
	coords[2*i+1], coords[2*j+1] = coords[2*j+1], coords[2*i+1]
}

func distSquared(x, y float64, q orb.Point) float64 {
	dx := x - q[0]
	dy := y - q[1]
	return dx*dx + dy*dy
}
