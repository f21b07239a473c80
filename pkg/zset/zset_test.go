package zset

import (
	"fmt"
	"math/rand"
	"testing"
)

// ============================================================
// Add / Len Tests
// ============================================================

func TestAdd_NewMembers(t *testing.T) {
	s := New()

	if !s.Add(1, "a") {
		t.Error("Add(1, a) = false, want true for new member")
	}
	if !s.Add(2, "b") {
		t.Error("Add(2, b) = false, want true for new member")
	}
	if !s.Add(1.5, "c") {
		t.Error("Add(1.5, c) = false, want true for new member")
	}

	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestAdd_SameScoreIsNoop(t *testing.T) {
	s := New()
	s.Add(5, "a")

	if s.Add(5, "a") {
		t.Error("re-adding with equal score should report not newly added")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestAdd_ScoreUpdateMovesRank(t *testing.T) {
	s := New()
	s.Add(5, "a")
	s.Add(7, "b")

	if s.Add(9, "a") {
		t.Error("score update should report not newly added")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}

	score, ok := s.Score("a")
	if !ok || score != 9 {
		t.Errorf("Score(a) = %v, %v, want 9, true", score, ok)
	}

	// a moved behind b.
	member, _, ok := s.ByRank(1)
	if !ok || member != "a" {
		t.Errorf("ByRank(1) = %q, want a", member)
	}
}

// ============================================================
// Ordering / Rank Tests
// ============================================================

func TestByRank_ScoreThenMemberOrder(t *testing.T) {
	s := New()
	s.Add(1, "a")
	s.Add(2, "b")
	s.Add(1.5, "c")

	want := []string{"a", "c", "b"}
	for rank, wantMember := range want {
		member, _, ok := s.ByRank(rank)
		if !ok {
			t.Fatalf("ByRank(%d) not ok", rank)
		}
		if member != wantMember {
			t.Errorf("ByRank(%d) = %q, want %q", rank, member, wantMember)
		}
	}
}

func TestByRank_MemberTieBreak(t *testing.T) {
	s := New()
	s.Add(1, "banana")
	s.Add(1, "apple")
	s.Add(1, "cherry")

	want := []string{"apple", "banana", "cherry"}
	got := s.RangeByRank(0, -1)
	if len(got) != len(want) {
		t.Fatalf("RangeByRank(0, -1) len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestByRank_OutOfBounds(t *testing.T) {
	s := New()
	s.Add(1, "a")

	if _, _, ok := s.ByRank(1); ok {
		t.Error("ByRank(1) on 1-member set should not be ok")
	}
	if _, _, ok := s.ByRank(-1); ok {
		t.Error("ByRank(-1) should not be ok")
	}
	if _, _, ok := New().ByRank(0); ok {
		t.Error("ByRank(0) on empty set should not be ok")
	}
}

// ============================================================
// RangeByRank Tests
// ============================================================

func TestRangeByRank(t *testing.T) {
	s := New()
	for i, m := range []string{"a", "b", "c", "d", "e"} {
		s.Add(float64(i), m)
	}

	tests := []struct {
		name        string
		start, stop int
		want        []string
	}{
		{"full range", 0, 4, []string{"a", "b", "c", "d", "e"}},
		{"full range negative", 0, -1, []string{"a", "b", "c", "d", "e"}},
		{"middle", 1, 3, []string{"b", "c", "d"}},
		{"last two", -2, -1, []string{"d", "e"}},
		{"stop past end", 3, 100, []string{"d", "e"}},
		{"start past end", 5, 10, nil},
		{"inverted", 3, 1, nil},
		{"negative start clamps", -100, 1, []string{"a", "b"}},
		{"single", 2, 2, []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.RangeByRank(tt.start, tt.stop)
			if len(got) != len(tt.want) {
				t.Fatalf("RangeByRank(%d, %d) = %v, want %v", tt.start, tt.stop, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("RangeByRank(%d, %d)[%d] = %q, want %q", tt.start, tt.stop, i, got[i], tt.want[i])
				}
			}
		})
	}
}

// ============================================================
// Remove Tests
// ============================================================

func TestRemove(t *testing.T) {
	s := New()
	s.Add(1, "a")
	s.Add(2, "b")
	s.Add(3, "c")

	if !s.Remove("b") {
		t.Error("Remove(b) = false, want true")
	}
	if s.Remove("b") {
		t.Error("second Remove(b) = true, want false")
	}
	if s.Remove("missing") {
		t.Error("Remove(missing) = true, want false")
	}

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	got := s.RangeByRank(0, -1)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("RangeByRank(0, -1) = %v, want [a c]", got)
	}
}

func TestRemove_Root(t *testing.T) {
	s := New()
	s.Add(1, "only")

	if !s.Remove("only") {
		t.Error("Remove(only) = false, want true")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

// ============================================================
// Invariant Tests
// ============================================================

// checkInvariants verifies AVL balance and subtree counts for every node.
func checkInvariants(t *testing.T, n *node) (h, c int) {
	t.Helper()
	if n == nil {
		return 0, 0
	}
	lh, lc := checkInvariants(t, n.left)
	rh, rc := checkInvariants(t, n.right)

	if diff := rh - lh; diff < -1 || diff > 1 {
		t.Errorf("node %q: balance factor %d out of range", n.member, diff)
	}
	wantH := 1 + max(lh, rh)
	if n.height != wantH {
		t.Errorf("node %q: height = %d, want %d", n.member, n.height, wantH)
	}
	wantC := 1 + lc + rc
	if n.count != wantC {
		t.Errorf("node %q: count = %d, want %d", n.member, n.count, wantC)
	}
	return wantH, wantC
}

func TestInvariants_SequentialInsert(t *testing.T) {
	s := New()
	for i := 0; i < 200; i++ {
		s.Add(float64(i), fmt.Sprintf("m%03d", i))
	}
	checkInvariants(t, s.root)
	if s.Len() != 200 {
		t.Errorf("Len() = %d, want 200", s.Len())
	}
	// Sequential scores: rank i is member i.
	for _, rank := range []int{0, 1, 99, 198, 199} {
		member, score, ok := s.ByRank(rank)
		if !ok || member != fmt.Sprintf("m%03d", rank) || score != float64(rank) {
			t.Errorf("ByRank(%d) = %q/%v/%v", rank, member, score, ok)
		}
	}
}

func TestInvariants_RandomChurn(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := New()
	live := map[string]float64{}

	for i := 0; i < 2000; i++ {
		member := fmt.Sprintf("m%02d", rng.Intn(60))
		switch rng.Intn(3) {
		case 0:
			score := float64(rng.Intn(100))
			_, existed := live[member]
			added := s.Add(score, member)
			if added == existed {
				t.Fatalf("step %d: Add(%v, %q) = %v with existed=%v", i, score, member, added, existed)
			}
			live[member] = score
		case 1:
			removed := s.Remove(member)
			_, existed := live[member]
			if removed != existed {
				t.Fatalf("step %d: Remove(%q) = %v with existed=%v", i, member, removed, existed)
			}
			delete(live, member)
		default:
			score, ok := s.Score(member)
			want, existed := live[member]
			if ok != existed || (ok && score != want) {
				t.Fatalf("step %d: Score(%q) = %v/%v, want %v/%v", i, member, score, ok, want, existed)
			}
		}
	}

	checkInvariants(t, s.root)
	if s.Len() != len(live) {
		t.Errorf("Len() = %d, want %d", s.Len(), len(live))
	}

	// Ranks must walk the set in strictly increasing (score, member) order.
	var prevScore float64
	var prevMember string
	for rank := 0; rank < s.Len(); rank++ {
		member, score, ok := s.ByRank(rank)
		if !ok {
			t.Fatalf("ByRank(%d) not ok with Len()=%d", rank, s.Len())
		}
		if rank > 0 && compare(prevScore, prevMember, score, member) >= 0 {
			t.Fatalf("rank %d (%q/%v) not after rank %d (%q/%v)", rank, member, score, rank-1, prevMember, prevScore)
		}
		if want := live[member]; want != score {
			t.Errorf("ByRank(%d) score = %v, want %v", rank, score, want)
		}
		prevScore, prevMember = score, member
	}
}
