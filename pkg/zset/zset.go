// Package zset provides a sorted set backed by an order-statistics AVL tree.
//
// Members are ordered by (score ascending, member ascending) and every node
// carries the size of its subtree, so rank lookups run in O(log n).
package zset

// node is an AVL tree node. Each node owns its children; structural removal
// releases a subtree exactly once.
type node struct {
	score  float64
	member string

	left   *node
	right  *node
	height int
	count  int
}

// Set is a sorted set of (member, score) pairs with unique members.
//
// Member lookup walks the whole tree: ordering is by (score, member), so a
// member alone does not determine a search path. Add and Remove are therefore
// O(n); rank queries stay O(log n).
type Set struct {
	root *node
}

// New creates an empty sorted set.
func New() *Set {
	return &Set{}
}

// Len returns the number of members in the set.
func (s *Set) Len() int {
	return count(s.root)
}

// Add inserts member with the given score, or updates its score if the member
// already exists. It reports whether the member was newly added: updating an
// existing member (even to the same score) reports false.
func (s *Set) Add(score float64, member string) bool {
	old := findMember(s.root, member)
	if old != nil {
		if old.score == score {
			return false
		}
		s.root = remove(s.root, old.score, old.member)
		s.root = insert(s.root, &node{score: score, member: member, height: 1, count: 1})
		return false
	}
	s.root = insert(s.root, &node{score: score, member: member, height: 1, count: 1})
	return true
}

// Remove deletes member from the set. It reports whether the member existed.
func (s *Set) Remove(member string) bool {
	n := findMember(s.root, member)
	if n == nil {
		return false
	}
	s.root = remove(s.root, n.score, n.member)
	return true
}

// Score returns the score of member, if present.
func (s *Set) Score(member string) (float64, bool) {
	n := findMember(s.root, member)
	if n == nil {
		return 0, false
	}
	return n.score, true
}

// ByRank returns the member and score at the given zero-based rank under
// (score, member) ordering. ok is false if rank is out of bounds.
func (s *Set) ByRank(rank int) (member string, score float64, ok bool) {
	if rank < 0 || rank >= count(s.root) {
		return "", 0, false
	}
	n := s.root
	for n != nil {
		leftCount := count(n.left)
		switch {
		case rank == leftCount:
			return n.member, n.score, true
		case rank < leftCount:
			n = n.left
		default:
			rank -= leftCount + 1
			n = n.right
		}
	}
	return "", 0, false
}

// RangeByRank returns the members with ranks in [start, stop], both inclusive,
// in ascending rank order. Negative indices count from the end (-1 is the last
// member); out-of-bounds indices are clamped. An empty slice is returned when
// the resolved range is empty.
func (s *Set) RangeByRank(start, stop int) []string {
	total := count(s.root)
	if start < 0 {
		start = total + start
	}
	if stop < 0 {
		stop = total + stop
	}
	if start < 0 {
		start = 0
	}
	if start > stop || start >= total {
		return nil
	}
	if stop >= total {
		stop = total - 1
	}

	members := make([]string, 0, stop-start+1)
	for rank := start; rank <= stop; rank++ {
		member, _, ok := s.ByRank(rank)
		if !ok {
			break
		}
		members = append(members, member)
	}
	return members
}

// --- AVL internals ---

func height(n *node) int {
	if n == nil {
		return 0
	}
	return n.height
}

func count(n *node) int {
	if n == nil {
		return 0
	}
	return n.count
}

// update recomputes the height and subtree count of n from its children.
func update(n *node) {
	n.height = 1 + max(height(n.left), height(n.right))
	n.count = 1 + count(n.left) + count(n.right)
}

// balance is the height difference right minus left. AVL invariant: |balance| <= 1.
func balance(n *node) int {
	if n == nil {
		return 0
	}
	return height(n.right) - height(n.left)
}

// compare orders (score, member) pairs: score first, member as tie-break.
func compare(aScore float64, aMember string, bScore float64, bMember string) int {
	switch {
	case aScore < bScore:
		return -1
	case aScore > bScore:
		return 1
	case aMember < bMember:
		return -1
	case aMember > bMember:
		return 1
	default:
		return 0
	}
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	update(y)
	update(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	update(x)
	update(y)
	return y
}

func minNode(n *node) *node {
	for n.left != nil {
		n = n.left
	}
	return n
}

// findMember scans the tree for a member. Linear: the tree is not ordered by
// member alone.
func findMember(n *node, member string) *node {
	if n == nil {
		return nil
	}
	if n.member == member {
		return n
	}
	if found := findMember(n.left, member); found != nil {
		return found
	}
	return findMember(n.right, member)
}

func insert(n, newNode *node) *node {
	if n == nil {
		return newNode
	}

	if compare(newNode.score, newNode.member, n.score, n.member) < 0 {
		n.left = insert(n.left, newNode)
	} else {
		n.right = insert(n.right, newNode)
	}

	update(n)
	switch b := balance(n); {
	case b < -1 && compare(newNode.score, newNode.member, n.left.score, n.left.member) < 0:
		return rotateRight(n) // LL
	case b < -1:
		n.left = rotateLeft(n.left) // LR
		return rotateRight(n)
	case b > 1 && compare(newNode.score, newNode.member, n.right.score, n.right.member) > 0:
		return rotateLeft(n) // RR
	case b > 1:
		n.right = rotateRight(n.right) // RL
		return rotateLeft(n)
	}
	return n
}

func remove(n *node, score float64, member string) *node {
	if n == nil {
		return nil
	}

	cmp := compare(score, member, n.score, n.member)
	switch {
	case cmp < 0:
		n.left = remove(n.left, score, member)
	case cmp > 0:
		n.right = remove(n.right, score, member)
	default:
		if n.left == nil || n.right == nil {
			// Zero or one child: splice the node out.
			child := n.left
			if child == nil {
				child = n.right
			}
			if child == nil {
				return nil
			}
			n = child
			// n replaced by its only child; fall through to rebalance it.
		} else {
			// Two children: adopt the in-order successor's pair, then remove
			// the successor from the right subtree (a 0/1-child removal).
			succ := minNode(n.right)
			n.score = succ.score
			n.member = succ.member
			n.right = remove(n.right, succ.score, succ.member)
		}
	}

	update(n)
	switch b := balance(n); {
	case b < -1 && balance(n.left) <= 0:
		return rotateRight(n) // LL
	case b < -1:
		n.left = rotateLeft(n.left) // LR
		return rotateRight(n)
	case b > 1 && balance(n.right) >= 0:
		return rotateLeft(n) // RR
	case b > 1:
		n.right = rotateRight(n.right) // RL
		return rotateLeft(n)
	}
	return n
}
