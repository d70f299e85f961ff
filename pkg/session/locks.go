package session

import (
	"hash/fnv"
	"sync"
)

const lockShards = 64

// keyedMutexes is a fixed set of striped mutexes keyed by string. Distinct
// keys may share a shard; that only costs contention, never correctness.
type keyedMutexes struct {
	shards [lockShards]sync.Mutex
}

func (k *keyedMutexes) get(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &k.shards[h.Sum32()%lockShards]
}
