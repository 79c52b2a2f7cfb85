package simplifier

import (
	"container/heap"
	"math"

	"github.com/paulmach/orb"
)

// visItem is a point of the line in both the area heap and the doubly
// linked list of points not yet removed.
type visItem struct {
	area       float64
	pointIndex int
	heapIndex  int

	previous *visItem
	next     *visItem
}

// visHeap orders by effective area, then by position so ties are stable.
type visHeap []*visItem

func (h visHeap) Len() int { return len(h) }

func (h visHeap) Less(i, j int) bool {
	if h[i].area != h[j].area {
		return h[i].area < h[j].area
	}
	return h[i].pointIndex < h[j].pointIndex
}

func (h visHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *visHeap) Push(x any) {
	item := x.(*visItem)
	item.heapIndex = len(*h)
	*h = append(*h, item)
}

func (h *visHeap) Pop() any {
	old := *h
	item := old[len(old)-1]
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return item
}

func (h *visHeap) update(item *visItem, area float64) {
	item.area = area
	heap.Fix(h, item.heapIndex)
}

// visvalingamIndices follows orb's simplify.Visvalingam, but returns the
// indices of the kept points. Points are removed smallest effective area
// first until every remaining area exceeds threshold or only toKeep remain.
// ls must have at least three points.
func visvalingamIndices(ls orb.LineString, threshold float64, toKeep int) []int {
	if len(ls) <= toKeep {
		return identity(len(ls))
	}

	// Areas are kept doubled.
	threshold *= 2

	items := make([]visItem, len(ls))
	h := make(visHeap, 0, len(ls))
	for i := range items {
		item := &items[i]
		item.pointIndex = i
		if i == 0 || i == len(ls)-1 {
			item.area = math.Inf(1)
		} else {
			item.area = doubleTriangleArea(ls, i-1, i, i+1)
		}
		if i > 0 {
			item.previous = &items[i-1]
			items[i-1].next = item
		}
		h = append(h, item)
		item.heapIndex = i
	}
	heap.Init(&h)

	removed := 0
	for h.Len() > 0 {
		current := heap.Pop(&h).(*visItem)
		if current.area > threshold || len(ls)-removed <= toKeep {
			break
		}

		previous, next := current.previous, current.next
		previous.next = next
		next.previous = previous
		removed++

		// A neighbour's area never drops below the area just removed.
		if previous.previous != nil {
			area := doubleTriangleArea(ls, previous.previous.pointIndex, previous.pointIndex, next.pointIndex)
			h.update(previous, math.Max(area, current.area))
		}
		if next.next != nil {
			area := doubleTriangleArea(ls, previous.pointIndex, next.pointIndex, next.next.pointIndex)
			h.update(next, math.Max(area, current.area))
		}
	}

	out := make([]int, 0, len(ls)-removed)
	for item := &items[0]; item != nil; item = item.next {
		out = append(out, item.pointIndex)
	}
	return out
}

func doubleTriangleArea(ls orb.LineString, i1, i2, i3 int) float64 {
	a, b, c := ls[i1], ls[i2], ls[i3]
	return math.Abs((b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0]))
}
