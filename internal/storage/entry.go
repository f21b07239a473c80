package storage

import "github.com/lorikv/lorikv-go/pkg/zset"

// Kind identifies the type a key holds.
type Kind uint8

const (
	KindString Kind = iota
	KindList
	KindZSet
)

// String returns the wire-level type name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindZSet:
		return "zset"
	default:
		return "unknown"
	}
}

// value is a tagged union. Exactly one of the payload fields is meaningful,
// selected by kind; replacing the whole value drops the prior variant's
// structure in a single assignment.
type value struct {
	kind Kind
	str  string
	list *List
	zset *zset.Set
}

func stringValue(s string) value {
	return value{kind: KindString, str: s}
}

func listValue() value {
	return value{kind: KindList, list: NewList()}
}

func zsetValue() value {
	return value{kind: KindZSet, zset: zset.New()}
}

// entry is one key's record in the key space. expiresAt is a Unix-millisecond
// timestamp; zero means the key never expires. It is the sole source of truth
// for liveness; the expiry heap only carries advisory copies of it.
type entry struct {
	value
	expiresAt int64
}

// expired reports whether the entry's expiry has elapsed at nowMs.
func (e *entry) expired(nowMs int64) bool {
	return e.expiresAt > 0 && e.expiresAt <= nowMs
}
