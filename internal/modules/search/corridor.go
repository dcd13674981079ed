// README: In-memory R-tree over route bounding boxes for corridor matching.
package search

import (
	"sync"

	"github.com/dhconnelly/rtreego"

	"sawari/internal/modules/ride"
	"sawari/internal/types"
)

// rectMinSide keeps degenerate boxes (origin == destination) insertable.
const rectMinSide = 1e-6

type corridorEntry struct {
	id   types.ID
	box  ride.BoundingBox
	rect rtreego.Rect
}

func (e *corridorEntry) Bounds() rtreego.Rect { return e.rect }

// CorridorIndex answers contains-point queries over ride route bounding
// boxes. It is rebuilt from the store at startup and kept current by the
// ride service on every mutation.
type CorridorIndex struct {
	mu      sync.RWMutex
	tree    *rtreego.Rtree
	entries map[types.ID]*corridorEntry
}

func NewCorridorIndex() *CorridorIndex {
	return &CorridorIndex{
		tree:    rtreego.NewTree(2, 25, 50),
		entries: make(map[types.ID]*corridorEntry),
	}
}

// Upsert replaces the indexed bounding box for a ride.
func (c *CorridorIndex) Upsert(id types.ID, box ride.BoundingBox) error {
	w := box.MaxLng - box.MinLng
	h := box.MaxLat - box.MinLat
	if w < rectMinSide {
		w = rectMinSide
	}
	if h < rectMinSide {
		h = rectMinSide
	}
	rect, err := rtreego.NewRect(rtreego.Point{box.MinLng, box.MinLat}, []float64{w, h})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.entries[id]; ok {
		c.tree.Delete(old)
	}
	e := &corridorEntry{id: id, box: box, rect: rect}
	c.tree.Insert(e)
	c.entries[id] = e
	return nil
}

// Remove drops a ride from the index.
func (c *CorridorIndex) Remove(id types.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.entries[id]; ok {
		c.tree.Delete(old)
		delete(c.entries, id)
	}
}

// Containing returns IDs of rides whose bounding box contains p. The tree
// narrows candidates; the exact box check settles border cases the epsilon
// padding would otherwise blur.
func (c *CorridorIndex) Containing(p types.Point) IDSet {
	probe := rtreego.Point{p.Lng, p.Lat}.ToRect(rectMinSide)

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := NewIDSet()
	for _, hit := range c.tree.SearchIntersect(probe) {
		e := hit.(*corridorEntry)
		if e.box.Contains(p) {
			out.Add(e.id)
		}
	}
	return out
}

// Len reports how many rides are indexed.
func (c *CorridorIndex) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
