package storage

// listNode is a singly-linked list node owned by its List.
type listNode struct {
	value string
	next  *listNode
}

// List is an ordered sequence of strings with O(1) tail append.
type List struct {
	head   *listNode
	tail   *listNode
	length int
}

// NewList creates an empty list.
func NewList() *List {
	return &List{}
}

// Len returns the number of elements.
func (l *List) Len() int {
	return l.length
}

// RPush appends values to the tail in order and returns the new length.
func (l *List) RPush(values ...string) int {
	for _, v := range values {
		n := &listNode{value: v}
		if l.tail == nil {
			l.head = n
			l.tail = n
		} else {
			l.tail.next = n
			l.tail = n
		}
		l.length++
	}
	return l.length
}

// Range returns the elements with indices in [start, stop], both inclusive.
// Negative indices count from the end (-1 is the last element); out-of-bounds
// indices are clamped. The result is empty when the resolved range is empty.
func (l *List) Range(start, stop int) []string {
	if start < 0 {
		start = l.length + start
	}
	if stop < 0 {
		stop = l.length + stop
	}
	if start < 0 {
		start = 0
	}
	if start >= l.length || start > stop {
		return nil
	}
	if stop >= l.length {
		stop = l.length - 1
	}

	n := l.head
	for i := 0; i < start; i++ {
		n = n.next
	}

	out := make([]string, 0, stop-start+1)
	for i := start; i <= stop; i++ {
		out = append(out, n.value)
		n = n.next
	}
	return out
}
