package coordinator

import (
	"hash/fnv"
	"sort"
	"sync"
)

// defaultShardCount is used when a Coordinator is built without an
// explicit shard count.
const defaultShardCount = 64

// idLockTable serializes create/update/delete for a given entity id via a
// fixed set of sharded mutexes keyed by a hash of the id, so unrelated ids
// proceed concurrently while same-id operations queue behind each other.
// Ids are never pinned to a shard beyond the lifetime of a single
// operation, so resizing only matters for contention tuning.
type idLockTable struct {
	shards []sync.Mutex
}

func newIDLockTable(shardCount int) *idLockTable {
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}
	return &idLockTable{shards: make([]sync.Mutex, shardCount)}
}

func (t *idLockTable) shardFor(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &t.shards[h.Sum32()%uint32(len(t.shards))]
}

// lockOne acquires the shard for id and returns the unlock func.
func (t *idLockTable) lockOne(id string) func() {
	m := t.shardFor(id)
	m.Lock()
	return m.Unlock
}

// lockTwo acquires the shards for both ids in lexicographic order of the
// ids themselves, so any two callers locking the same pair of ids (in
// either argument order) always acquire in the same global order and
// cannot deadlock. If both ids hash to the same shard, it is locked once.
func (t *idLockTable) lockTwo(idA, idB string) func() {
	ordered := []string{idA, idB}
	sort.Strings(ordered)

	first := t.shardFor(ordered[0])
	second := t.shardFor(ordered[1])
	if first == second {
		first.Lock()
		return first.Unlock
	}
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}
