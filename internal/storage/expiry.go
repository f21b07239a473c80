package storage

// expiryEntry is an advisory bookkeeping record: the expiry timestamp a key
// carried when a TTL write happened, plus an independent copy of the key. It
// holds no reference into the key index and may outlive the key, an overwrite,
// or a TTL change; the sweep reconciles by re-lookup and timestamp equality.
type expiryEntry struct {
	at  int64 // Unix milliseconds
	key string
}

// expiryHeap is a min-heap over expiry timestamps, used with container/heap.
type expiryHeap []expiryEntry

func (h expiryHeap) Len() int            { return len(h) }
func (h expiryHeap) Less(i, j int) bool  { return h[i].at < h[j].at }
func (h expiryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *expiryHeap) Push(x any)         { *h = append(*h, x.(expiryEntry)) }

func (h *expiryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
