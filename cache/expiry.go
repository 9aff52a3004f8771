package cache

import (
	"container/heap"
	"time"
)

// expiryItem tracks one entry's position in the expiry heap: each live
// cache entry owns exactly one heap slot, updated in place whenever the
// entry is stored or marked absent so its TTL is extended rather than
// re-inserted.
type expiryItem struct {
	Key       string
	Expires   time.Time
	HeapIndex int
}

// expiryHeap is a min-heap of expiryItem ordered by Expires, with a
// buffered NotifyCh so pushes/updates never block the expiry loop.
type expiryHeap struct {
	Items    []*expiryItem
	NotifyCh chan struct{}
}

func newExpiryHeap() *expiryHeap {
	h := &expiryHeap{NotifyCh: make(chan struct{}, 1)}
	heap.Init(h)
	return h
}

func (h *expiryHeap) Len() int { return len(h.Items) }

func (h *expiryHeap) Less(i, j int) bool {
	return h.Items[i].Expires.Before(h.Items[j].Expires)
}

func (h *expiryHeap) Swap(i, j int) {
	h.Items[i], h.Items[j] = h.Items[j], h.Items[i]
	h.Items[i].HeapIndex = i
	h.Items[j].HeapIndex = j
}

func (h *expiryHeap) Push(x any) {
	item := x.(*expiryItem)
	item.HeapIndex = len(h.Items)
	h.Items = append(h.Items, item)
}

func (h *expiryHeap) Pop() any {
	old := h.Items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.HeapIndex = -1
	h.Items = old[:n-1]
	return item
}

// notify wakes the expiry loop without blocking if it's not currently
// listening.
func (h *expiryHeap) notify() {
	select {
	case h.NotifyCh <- struct{}{}:
	default:
	}
}

// update sets item's expiry to now+ttl and fixes its heap position,
// inserting it if it isn't already tracked.
func (h *expiryHeap) update(item *expiryItem, ttl time.Duration) {
	item.Expires = time.Now().Add(ttl)
	if item.HeapIndex == -1 {
		heap.Push(h, item)
	} else {
		heap.Fix(h, item.HeapIndex)
	}
	h.notify()
}

func (h *expiryHeap) remove(item *expiryItem) {
	if item.HeapIndex < 0 || item.HeapIndex >= len(h.Items) {
		return
	}
	heap.Remove(h, item.HeapIndex)
}
